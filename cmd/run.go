package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sibexico/vmemsim/vmem"
)

var (
	runStrict   bool
	runSaveLogs bool
)

var runCmd = &cobra.Command{
	Use:   "run [script|-]",
	Short: "Execute a simulation script",
	Long: `Run simulation commands, one per line, from a script file or stdin.

Commands:
  create <name> <kb>     create a process
  terminate <pid>        terminate a process
  access <pid> <page>    read a page
  write <pid> <page>     write a page
  suspend <pid>          suspend a process
  resume <pid>           resume a process
  swapout <frame>        force a RAM frame out to swap
  status                 list processes
  map                    show RAM and swap occupancy
  table <pid>            show the page table of a process
  tlb                    show the TLB
  stats                  show statistics
  logs [n]               show the last n events (all if omitted)
  save [dir]             write the event log archive
  check                  verify internal invariants

Blank lines and lines starting with # are ignored.

Examples:
  # Run a script
  vmemsim run scenario.txt

  # Read commands from stdin and keep the event log
  echo "create A 512" | vmemsim run - --save-logs`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadEffectiveConfig()
		if err != nil {
			return err
		}

		ms, err := vmem.NewMemorySystemWithLogger(cfg, newLogger(cfg, cmd.ErrOrStderr()))
		if err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()
			in = f
		}

		r := NewRunner(ms, cmd.OutOrStdout())
		r.Strict = runStrict
		r.Format = outputFormat
		runErr := r.Run(in)

		ms.GetMetrics().LogMetrics(ms.Logger())
		if runSaveLogs {
			path, err := ms.SaveLogs()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logs saved to %s\n", path)
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "stop at the first failing command")
	runCmd.Flags().BoolVar(&runSaveLogs, "save-logs", false, "write the event log archive when the script ends")
}

// Runner executes simulation commands against one memory system
type Runner struct {
	ms     *vmem.MemorySystem
	out    io.Writer
	Strict bool   // stop at the first failing command
	Format string // report format: table, json or yaml

	failures int
}

// NewRunner creates a runner that prints to out
func NewRunner(ms *vmem.MemorySystem, out io.Writer) *Runner {
	return &Runner{ms: ms, out: out, Format: "table"}
}

// Failures returns the number of commands that failed
func (r *Runner) Failures() int {
	return r.failures
}

// Run executes every command read from in. Failing commands are reported
// and skipped unless Strict is set, in which case the first failure is
// returned.
func (r *Runner) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := r.Exec(line); err != nil {
			r.failures++
			fmt.Fprintf(r.out, "line %d: %s: %v\n", lineNo, line, err)
			if r.Strict {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}

// Exec executes a single command line
func (r *Runner) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "create":
		if err := wantArgs(name, args, 2); err != nil {
			return err
		}
		size, err := parseInt("size", args[1])
		if err != nil {
			return err
		}
		pid, err := r.ms.CreateProcess(args[0], size)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "created process %d\n", pid)

	case "terminate":
		if err := wantArgs(name, args, 1); err != nil {
			return err
		}
		pid, err := parsePID(args[0])
		if err != nil {
			return err
		}
		if !r.ms.TerminateProcess(pid) {
			return fmt.Errorf("process %d not found", pid)
		}
		fmt.Fprintf(r.out, "terminated process %d\n", pid)

	case "access", "write":
		if err := wantArgs(name, args, 2); err != nil {
			return err
		}
		pid, err := parsePID(args[0])
		if err != nil {
			return err
		}
		page, err := parseInt("page", args[1])
		if err != nil {
			return err
		}
		var out vmem.AccessOutcome
		if name == "write" {
			out, err = r.ms.SimulateWrite(pid, page)
		} else {
			out, err = r.ms.SimulateAccess(pid, page)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s %d:%d -> frame %d (%s)\n", name, pid, page, out.Frame, out.Kind)

	case "suspend", "resume":
		if err := wantArgs(name, args, 1); err != nil {
			return err
		}
		pid, err := parsePID(args[0])
		if err != nil {
			return err
		}
		verb := "suspended"
		if name == "suspend" {
			err = r.ms.SuspendProcess(pid)
		} else {
			verb = "resumed"
			err = r.ms.ResumeProcess(pid)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s process %d\n", verb, pid)

	case "swapout":
		if err := wantArgs(name, args, 1); err != nil {
			return err
		}
		frame, err := parseInt("frame", args[0])
		if err != nil {
			return err
		}
		if err := r.ms.SwapOut(vmem.FrameID(frame)); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "swapped out frame %d\n", frame)

	case "status":
		rows := processRows(r.ms.Processes())
		return formatOutput(r.out, r.Format, rows, func() error {
			return printProcesses(r.out, rows)
		})

	case "map":
		mm := r.ms.MemoryMap()
		view := memoryMapView{RAM: frameRows(mm.RAM), Swap: frameRows(mm.Swap)}
		return formatOutput(r.out, r.Format, view, func() error {
			return printMemoryMap(r.out, view)
		})

	case "table":
		if err := wantArgs(name, args, 1); err != nil {
			return err
		}
		pid, err := parsePID(args[0])
		if err != nil {
			return err
		}
		entries, err := r.ms.PageTable(pid)
		if err != nil {
			return err
		}
		rows := pageRows(entries)
		return formatOutput(r.out, r.Format, rows, func() error {
			return printPageTable(r.out, pid, rows)
		})

	case "tlb":
		rows := tlbRows(r.ms.TLBEntries())
		return formatOutput(r.out, r.Format, rows, func() error {
			return printTLB(r.out, rows)
		})

	case "stats":
		s := r.ms.Stats()
		return formatOutput(r.out, r.Format, s, func() error {
			return printStats(r.out, s)
		})

	case "logs":
		n := 0
		if len(args) > 0 {
			v, err := parseInt("count", args[0])
			if err != nil {
				return err
			}
			n = v
		}
		printLogs(r.out, r.ms.Logs(n))

	case "save":
		var (
			path string
			err  error
		)
		if len(args) > 0 {
			path, err = r.ms.SaveLogsTo(args[0])
		} else {
			path, err = r.ms.SaveLogs()
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Logs saved to %s\n", path)

	case "check":
		if err := r.ms.CheckInvariants(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "invariants hold")

	default:
		return fmt.Errorf("unknown command %q", name)
	}
	return nil
}

func wantArgs(name string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func parseInt(what, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return v, nil
}

func parsePID(s string) (vmem.PID, error) {
	v, err := parseInt("pid", s)
	if err != nil {
		return 0, err
	}
	return vmem.PID(v), nil
}
