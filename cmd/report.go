package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/sibexico/vmemsim/vmem"
)

// formatOutput writes v as JSON or YAML, or calls table for the table format
func formatOutput(w io.Writer, format string, v any, table func() error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return table()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printConfig(w io.Writer, cfg *vmem.Config) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "KEY\tVALUE\n")
	fmt.Fprintf(tw, "---\t-----\n")
	fmt.Fprintf(tw, "ram_size\t%d KB (%d frames)\n", cfg.RAMSize, cfg.RAMFrames())
	fmt.Fprintf(tw, "swap_size\t%d KB (%d slots)\n", cfg.SwapSize, cfg.SwapFrames())
	fmt.Fprintf(tw, "page_size\t%d KB\n", cfg.PageSize)
	fmt.Fprintf(tw, "tlb_size\t%d\n", cfg.TLBSize)
	fmt.Fprintf(tw, "max_processes\t%d\n", cfg.MaxProcesses)
	fmt.Fprintf(tw, "max_log_entries\t%d\n", cfg.MaxLogEntries)
	fmt.Fprintf(tw, "replacement_policy\t%s\n", cfg.ReplacementPolicy)
	fmt.Fprintf(tw, "verify_invariants\t%t\n", cfg.VerifyInvariants)
	fmt.Fprintf(tw, "log_level\t%s\n", cfg.LogLevel)
	fmt.Fprintf(tw, "log_format\t%s\n", cfg.LogFormat)
	fmt.Fprintf(tw, "log_directory\t%s\n", cfg.LogDirectory)
	fmt.Fprintf(tw, "log_compression\t%s\n", cfg.LogCompression)
	return tw.Flush()
}

type processRow struct {
	PID        int    `json:"pid" yaml:"pid"`
	Name       string `json:"name" yaml:"name"`
	SizeKB     int    `json:"size_kb" yaml:"size_kb"`
	Pages      int    `json:"pages" yaml:"pages"`
	InRAM      int    `json:"in_ram" yaml:"in_ram"`
	InSwap     int    `json:"in_swap" yaml:"in_swap"`
	State      string `json:"state" yaml:"state"`
	PageFaults uint64 `json:"page_faults" yaml:"page_faults"`
}

func processRows(procs []vmem.ProcessInfo) []processRow {
	rows := make([]processRow, 0, len(procs))
	for _, p := range procs {
		rows = append(rows, processRow{
			PID:        int(p.PID),
			Name:       p.Name,
			SizeKB:     p.Size,
			Pages:      p.NumPages,
			InRAM:      p.ResidentPages,
			InSwap:     p.SwappedPages,
			State:      p.State.String(),
			PageFaults: p.PageFaults,
		})
	}
	return rows
}

func printProcesses(w io.Writer, rows []processRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No active processes.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "PID\tNAME\tSIZE\tPAGES\tRAM\tSWAP\tSTATE\tFAULTS\n")
	fmt.Fprintf(tw, "---\t----\t----\t-----\t---\t----\t-----\t------\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d KB\t%d\t%d\t%d\t%s\t%d\n",
			r.PID, r.Name, r.SizeKB, r.Pages, r.InRAM, r.InSwap, r.State, r.PageFaults)
	}
	return tw.Flush()
}

type frameRow struct {
	Index    int  `json:"index" yaml:"index"`
	Occupied bool `json:"occupied" yaml:"occupied"`
	PID      int  `json:"pid,omitempty" yaml:"pid,omitempty"`
	Page     int  `json:"page" yaml:"page"`
}

type memoryMapView struct {
	RAM  []frameRow `json:"ram" yaml:"ram"`
	Swap []frameRow `json:"swap" yaml:"swap"`
}

func frameRows(frames []vmem.Frame) []frameRow {
	rows := make([]frameRow, len(frames))
	for i, f := range frames {
		rows[i] = frameRow{Index: i, Occupied: f.Occupied}
		if f.Occupied {
			rows[i].PID = int(f.Owner.PID)
			rows[i].Page = f.Owner.Page
		}
	}
	return rows
}

func printFrames(w io.Writer, title string, rows []frameRow) error {
	fmt.Fprintf(w, "%s (%d)\n", title, len(rows))
	tw := newTable(w)
	fmt.Fprintf(tw, "FRAME\tOWNER\n")
	fmt.Fprintf(tw, "-----\t-----\n")
	for _, r := range rows {
		if r.Occupied {
			fmt.Fprintf(tw, "%d\tP%d:%d\n", r.Index, r.PID, r.Page)
		} else {
			fmt.Fprintf(tw, "%d\t[free]\n", r.Index)
		}
	}
	return tw.Flush()
}

func printMemoryMap(w io.Writer, view memoryMapView) error {
	if err := printFrames(w, "RAM", view.RAM); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return printFrames(w, "Swap", view.Swap)
}

type pageRow struct {
	Page       int    `json:"page" yaml:"page"`
	Location   string `json:"location" yaml:"location"`
	Valid      bool   `json:"valid" yaml:"valid"`
	Modified   bool   `json:"modified" yaml:"modified"`
	LastAccess uint64 `json:"last_access" yaml:"last_access"`
	LoadTime   uint64 `json:"load_time" yaml:"load_time"`
}

func pageRows(entries []vmem.PageEntry) []pageRow {
	rows := make([]pageRow, len(entries))
	for i, e := range entries {
		rows[i] = pageRow{
			Page:       e.Number,
			Location:   e.Location.String(),
			Valid:      e.Valid(),
			Modified:   e.Modified,
			LastAccess: e.LastAccess,
			LoadTime:   e.LoadTime,
		}
	}
	return rows
}

func printPageTable(w io.Writer, pid vmem.PID, rows []pageRow) error {
	fmt.Fprintf(w, "Page table of process %d\n", pid)
	tw := newTable(w)
	fmt.Fprintf(tw, "PAGE\tLOCATION\tVALID\tMODIFIED\tLAST ACCESS\tLOADED\n")
	fmt.Fprintf(tw, "----\t--------\t-----\t--------\t-----------\t------\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%t\t%t\t%d\t%d\n",
			r.Page, r.Location, r.Valid, r.Modified, r.LastAccess, r.LoadTime)
	}
	return tw.Flush()
}

type tlbRow struct {
	Slot       int    `json:"slot" yaml:"slot"`
	Valid      bool   `json:"valid" yaml:"valid"`
	PID        int    `json:"pid" yaml:"pid"`
	Page       int    `json:"page" yaml:"page"`
	Frame      int    `json:"frame" yaml:"frame"`
	LastAccess uint64 `json:"last_access" yaml:"last_access"`
}

func tlbRows(entries []vmem.TLBEntry) []tlbRow {
	rows := make([]tlbRow, len(entries))
	for i, e := range entries {
		rows[i] = tlbRow{
			Slot:       i,
			Valid:      e.Valid,
			PID:        int(e.PID),
			Page:       e.Page,
			Frame:      int(e.Frame),
			LastAccess: e.LastAccess,
		}
	}
	return rows
}

func printTLB(w io.Writer, rows []tlbRow) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "SLOT\tPID\tPAGE\tFRAME\tLAST ACCESS\n")
	fmt.Fprintf(tw, "----\t---\t----\t-----\t-----------\n")
	for _, r := range rows {
		if !r.Valid {
			fmt.Fprintf(tw, "%d\t-\t-\t-\t-\n", r.Slot)
			continue
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\n", r.Slot, r.PID, r.Page, r.Frame, r.LastAccess)
	}
	return tw.Flush()
}

func printStats(w io.Writer, s vmem.Stats) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Memory accesses\t%d\n", s.MemoryAccesses)
	fmt.Fprintf(tw, "TLB hits\t%d\n", s.TLBHits)
	fmt.Fprintf(tw, "TLB misses\t%d\n", s.TLBMisses)
	fmt.Fprintf(tw, "TLB hit rate\t%.2f%%\n", s.TLBHitRate*100)
	fmt.Fprintf(tw, "Page faults\t%d\n", s.PageFaults)
	fmt.Fprintf(tw, "Swaps\t%d (in %d, out %d)\n", s.Swaps, s.SwapIns, s.SwapOuts)
	fmt.Fprintf(tw, "Evictions\t%d\n", s.Evictions)
	fmt.Fprintf(tw, "RAM\t%d/%d frames (%.1f%%)\n", s.RAMUsed, s.RAMFrames, s.RAMUtilization)
	fmt.Fprintf(tw, "Swap\t%d/%d slots (%.1f%%)\n", s.SwapUsed, s.SwapSlots, s.SwapUtilization)
	fmt.Fprintf(tw, "Internal fragmentation\t%d KB\n", s.InternalFragKB)
	fmt.Fprintf(tw, "Average access time\t%.2f ns\n", s.AvgAccessTimeNs)
	fmt.Fprintf(tw, "Live processes\t%d\n", s.LiveProcesses)
	fmt.Fprintf(tw, "Processes created\t%d\n", s.ProcessesCreated)
	fmt.Fprintf(tw, "Processes terminated\t%d\n", s.Terminated)
	if s.DroppedEnqueues > 0 || s.DroppedLogEntries > 0 {
		fmt.Fprintf(tw, "Dropped enqueues\t%d\n", s.DroppedEnqueues)
		fmt.Fprintf(tw, "Dropped log entries\t%d\n", s.DroppedLogEntries)
	}
	fmt.Fprintf(tw, "Uptime\t%s\n", s.Uptime)
	return tw.Flush()
}

func printLogs(w io.Writer, entries []vmem.LogEntry) {
	for _, e := range entries {
		fmt.Fprintln(w, e.Format())
	}
}
