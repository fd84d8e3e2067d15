package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"themedl/pkg/models"
)

// clearLine returns the cursor to column zero and erases the line
const clearLine = "\r\033[K"

// ProgressDisplay renders one overwritable line per asset: the line first
// reads "Downloading..." and is rewritten in place with "Downloaded" once
// the asset is stored.
type ProgressDisplay struct {
	mu      sync.Mutex
	out     io.Writer
	theme   string
	verbose bool
	quiet   bool
	tracker *StatusTracker
	current *models.ProgressEvent
}

// NewProgressDisplay creates a display writing to out. Verbose enables the
// rate limit sleep message; quiet suppresses the per-asset lines.
func NewProgressDisplay(out io.Writer, theme string, verbose, quiet bool) *ProgressDisplay {
	if out == nil {
		out = Out
	}
	return &ProgressDisplay{
		out:     out,
		theme:   theme,
		verbose: verbose,
		quiet:   quiet,
		tracker: NewStatusTracker(),
	}
}

// Listed reports the asset count once the listing call returns
func (p *ProgressDisplay) Listed(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, Green(fmt.Sprintf("Total assets: %d", total)))
}

// Update renders a progress event into the current slot
func (p *ProgressDisplay) Update(ev models.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ev.Status {
	case models.StatusDownloading:
		p.current = &ev
		if !p.quiet {
			fmt.Fprint(p.out, clearLine+Yellow(progressLine(ev)))
		}
	case models.StatusDownloaded:
		p.current = nil
		p.tracker.IncrementDownloaded(ev.Bytes)
		if !p.quiet {
			fmt.Fprintln(p.out, clearLine+Green(progressLine(ev)))
		}
	}
}

// Paused reports a rate limiter sleep. The message is shown only in verbose
// mode, above the slot of the asset waiting on it.
func (p *ProgressDisplay) Paused(wait time.Duration, reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tracker.RecordPause(wait)
	if !p.verbose {
		return
	}

	fmt.Fprintln(p.out, clearLine+Cyan(fmt.Sprintf("Cycle limit hit, sleeping for %d seconds...", int(wait.Seconds()))))
	if p.current != nil && !p.quiet {
		fmt.Fprint(p.out, Yellow(progressLine(*p.current)))
	}
}

// Complete prints the run summary
func (p *ProgressDisplay) Complete(archivePath string, entries int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := p.tracker.GetElapsedTime()
	fmt.Fprintln(p.out, Green(fmt.Sprintf("Completed download, %s is available.", archivePath)))
	fmt.Fprintf(p.out, "  %s %d assets from %s, %s in %s\n",
		Dim("•"),
		p.tracker.TotalDownloaded,
		p.theme,
		FormatBytes(p.tracker.BytesWritten),
		FormatDuration(elapsed),
	)
	fmt.Fprintf(p.out, "  %s %d files archived\n", Dim("•"), entries)
	if p.tracker.Pauses > 0 {
		fmt.Fprintf(p.out, "  %s %d rate limit pauses, %s total\n",
			Dim("•"),
			p.tracker.Pauses,
			FormatDuration(p.tracker.TimePaused),
		)
	}
}

// Abort closes an open slot so the error message starts on its own line
func (p *ProgressDisplay) Abort() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil && !p.quiet {
		fmt.Fprintln(p.out)
	}
	p.current = nil
}

// Tracker returns the accumulated statistics
func (p *ProgressDisplay) Tracker() *StatusTracker {
	return p.tracker
}

func progressLine(ev models.ProgressEvent) string {
	return fmt.Sprintf("[%d/%d] %d%% | %s | %s", ev.Index, ev.Total, ev.Percent, ev.Key, ev.Status)
}
