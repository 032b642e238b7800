package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sibexico/vmemsim/vmem"
)

var (
	// Global flags
	cfgFile      string
	logLevel     string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "vmemsim",
	Short: "Virtual memory simulator with paging, swap and a TLB",
	Long: `vmemsim simulates an operating system memory manager: fixed-size pages,
a RAM frame pool, a swap area, a small translation cache (TLB) and
FIFO, LRU or 2Q page replacement.

Commands:
  run       Execute a simulation script
  config    Show the effective configuration`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ./vmemsim.yaml, ./config, $HOME/.vmemsim)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format for reports (table, json, yaml)")
}

// loadEffectiveConfig loads the configuration and applies global flag overrides
func loadEffectiveConfig() (*vmem.Config, error) {
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = strings.ToLower(logLevel)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger builds the structured logger described by cfg
func newLogger(cfg *vmem.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
