package main

import "github.com/sibexico/vmemsim/cmd"

func main() {
	cmd.Execute()
}
