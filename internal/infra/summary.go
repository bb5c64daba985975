package infra

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/eliteGoblin/focusd/autopress/internal/domain"
	"github.com/eliteGoblin/focusd/autopress/internal/policy"
)

// Printer writes human-readable scan results to a console.
type Printer struct {
	w      io.Writer
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
	bold   *color.Color
}

// NewPrinter creates a printer. Colors follow fatih/color's NoColor detection.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		cyan:   color.New(color.FgCyan),
		bold:   color.New(color.Bold),
	}
}

// PrintOutcome prints one scan cycle.
func (p *Printer) PrintOutcome(outcome *domain.ScanOutcome) {
	if outcome.Kind == domain.OutcomeNoButtonsFound {
		p.yellow.Fprintln(p.w, "No actionable buttons found.")
		return
	}

	p.green.Fprintf(p.w, "Handled %d buttons", outcome.Count)
	fmt.Fprintf(p.w, " (%d invoked, %d failed, %d deferred) in %dms\n",
		outcome.Invoked, outcome.Failed, outcome.Deferred, outcome.DurationMs)

	if len(outcome.Learned) > 0 {
		p.cyan.Fprintf(p.w, "Learned as ignore: %s\n", strings.Join(outcome.Learned, ", "))
	}
	for _, err := range outcome.Errors {
		p.red.Fprintf(p.w, "  - %v\n", err)
	}
	if len(outcome.InvokedNames) > 0 {
		p.bold.Fprintf(p.w, "Pressed: %s\n", strings.Join(outcome.InvokedNames, ", "))
	}
}

// PrintReport prints the summary of a finished run.
func (p *Printer) PrintReport(report domain.LoopReport) {
	p.bold.Fprintln(p.w, "\n=== autopress run ===")

	reason := p.green
	switch report.Reason {
	case domain.StopFatal:
		reason = p.red
	case domain.StopIdleLimit, domain.StopCancelled:
		reason = p.yellow
	}
	fmt.Fprint(p.w, "Stopped: ")
	reason.Fprintln(p.w, string(report.Reason))

	fmt.Fprintf(p.w, "Cycles: %d\n", report.Cycles)
	fmt.Fprintf(p.w, "Buttons handled: %d (invoked %d, failed %d)\n", report.Handled, report.Invoked, report.Failed)
	fmt.Fprintf(p.w, "Learned: %d\n", report.Learned)
	if !report.StartedAt.IsZero() && !report.StoppedAt.IsZero() {
		fmt.Fprintf(p.w, "Duration: %s\n", report.StoppedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
	if report.Err != nil {
		p.red.Fprintf(p.w, "Error: %v\n", report.Err)
	}
	p.bold.Fprintln(p.w, "=====================")
}

// PrintEntries prints registry rows, one per line.
func (p *Printer) PrintEntries(entries []policy.Entry) {
	p.bold.Fprintln(p.w, "\n=== Button Actions ===")
	for _, e := range entries {
		action := p.green
		if e.Action == domain.ActionIgnore {
			action = p.yellow
		}
		fmt.Fprintf(p.w, "  %-28s ", e.Name)
		action.Fprintf(p.w, "%-18s", e.Action)
		fmt.Fprintf(p.w, " (%s)\n", e.Origin)
	}
	p.bold.Fprintln(p.w, "======================")
}

// PrintStatus prints a published heartbeat.
func (p *Printer) PrintStatus(status *domain.RunStatus, alive bool) {
	p.bold.Fprintln(p.w, "\n=== autopress Status ===")
	switch {
	case status == nil:
		fmt.Fprint(p.w, "Status: ")
		p.yellow.Fprintln(p.w, "NOT RUNNING")
	case alive:
		fmt.Fprint(p.w, "Status: ")
		p.green.Fprintln(p.w, "RUNNING")
	default:
		fmt.Fprint(p.w, "Status: ")
		p.yellow.Fprintf(p.w, "STOPPED (%s)\n", status.StopReason)
	}
	if status != nil {
		fmt.Fprintf(p.w, "PID: %d\n", status.PID)
		if status.Target != "" {
			fmt.Fprintf(p.w, "Target: %s\n", status.Target)
		}
		fmt.Fprintf(p.w, "Cycles: %d, handled: %d, invoked: %d\n", status.Cycles, status.Handled, status.Invoked)
		if status.LastOutcome != "" {
			fmt.Fprintf(p.w, "Last outcome: %s\n", status.LastOutcome)
		}
		if status.LastHeartbeat > 0 {
			lastBeat := time.Unix(status.LastHeartbeat, 0)
			fmt.Fprintf(p.w, "Last heartbeat: %s ago\n", time.Since(lastBeat).Round(time.Second))
		}
	}
	p.bold.Fprintln(p.w, "========================")
}
