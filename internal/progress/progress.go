// Package progress reports a compile's phases (load, resolve, evaluate, expand, write) to the
// console as a sequence of determinate progress bars.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Phase names one stage of a csv++ compile.
type Phase string

const (
	PhaseLoad     Phase = "Loading"     // reading source files and resolving `use` dependencies
	PhaseResolve  Phase = "Resolving"   // merging scopes, substituting variables and functions
	PhaseEvaluate Phase = "Evaluating"  // evaluating every formula cell to a fixed point
	PhaseExpand   Phase = "Expanding"   // replicating fill directives into concrete rows
	PhaseWrite    Phase = "Writing"     // handing the finished module to a target adapter
)

// Bar wraps a progressbar.ProgressBar with the fixed styling every phase uses.
type Bar struct {
	bar   *progressbar.ProgressBar
	phase string
}

// NewBar returns a progress bar for phase with total steps, writing to output.
func NewBar(phase Phase, total int, output io.Writer) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetPredictTime(true),
	)
	return &Bar{bar: bar, phase: string(phase)}
}

// Add advances the bar by n steps.
func (b *Bar) Add(n int) error { return b.bar.Add(n) }

// Describe updates the bar's trailing description (e.g. the module path currently loading).
func (b *Bar) Describe(description string) {
	b.bar.Describe(fmt.Sprintf("[%s] %s", b.phase, description))
}

// Finish completes and clears the bar.
func (b *Bar) Finish() error { return b.bar.Finish() }

// Pipeline walks a compile through its fixed phase sequence, one bar at a time.
type Pipeline struct {
	phases   []Phase
	current  int
	bars     []*Bar
	disabled bool
	output   io.Writer
}

// NewPipeline returns a Pipeline over phases, writing to stdout.
func NewPipeline(phases []Phase) *Pipeline {
	return &Pipeline{phases: phases, current: -1, output: os.Stdout}
}

// Disable silences all bar output; the CLI disables it whenever -v is not given.
func (p *Pipeline) Disable() { p.disabled = true }

// Next finishes the current phase's bar (if any) and starts the next one with total steps.
// Returns nil once every phase in the sequence has been started.
func (p *Pipeline) Next(total int) *Bar {
	if p.current >= 0 && p.current < len(p.bars) {
		p.bars[p.current].Finish()
	}
	p.current++
	if p.current >= len(p.phases) {
		return nil
	}

	output := p.output
	if p.disabled {
		output = io.Discard
	}
	bar := NewBar(p.phases[p.current], total, output)
	p.bars = append(p.bars, bar)
	return bar
}

// Finish completes whatever phase is currently in progress.
func (p *Pipeline) Finish() {
	if p.current >= 0 && p.current < len(p.bars) {
		p.bars[p.current].Finish()
	}
}
