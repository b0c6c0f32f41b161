package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/sling/internal/usecase"
)

// SpinnerProgressReporter implements progress reporting with a spinner.
// Info lines go to out; the spinner and errors go to errOut.
type SpinnerProgressReporter struct {
	out            io.Writer
	errOut         io.Writer
	spinner        *spinner.Spinner
	stages         []stageInfo
	currentStage   usecase.ExecutionStage
	stageStartTime time.Time
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Message   string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter(out, errOut io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		errOut:  errOut,
		spinner: s,
		stages:  []stageInfo{},
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.currentStage {
		r.enterStage(event.Stage)
	}
	if len(r.stages) > 0 {
		r.stages[len(r.stages)-1].Message = event.Message
	}

	switch {
	case event.Stage == usecase.StageCompleted:
		r.spinner.Stop()
	case event.Spinner:
		r.updateSpinnerDisplay()
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	case r.spinner.Active():
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.pauseSpinner(func() {
		fmt.Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.pauseSpinner(func() {
		color.New(color.FgRed).Fprintln(r.errOut, message)
	})
}

// pauseSpinner stops the spinner while fn writes, so lines are not interleaved with frames
func (r *SpinnerProgressReporter) pauseSpinner(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) enterStage(stage usecase.ExecutionStage) {
	if len(r.stages) > 0 {
		idx := len(r.stages) - 1
		r.stages[idx].EndTime = time.Now()
		r.stages[idx].Status = "completed"
	}

	r.currentStage = stage
	r.stageStartTime = time.Now()
	r.stages = append(r.stages, stageInfo{
		Stage:     stage,
		StartTime: r.stageStartTime,
		Status:    "running",
	})
}

// updateSpinnerDisplay updates the spinner suffix with stage information
func (r *SpinnerProgressReporter) updateSpinnerDisplay() {
	if len(r.stages) == 0 {
		return
	}

	var display string
	for i, stage := range r.stages {
		var icon string
		var stageColor *color.Color

		switch stage.Status {
		case "completed":
			icon = "✓"
			stageColor = color.New(color.FgGreen)
		default:
			icon = "●"
			stageColor = color.New(color.FgYellow)
		}

		duration := ""
		if !stage.EndTime.IsZero() {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		}

		if i > 0 {
			display += " → "
		}
		display += fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(string(stage.Stage)), duration)
	}

	current := r.stages[len(r.stages)-1]
	if current.Message != "" {
		display += "  " + current.Message
	}
	r.spinner.Suffix = " " + display
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
