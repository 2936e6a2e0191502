package progress

import (
	"github.com/oshokin/webbox/internal/domain/generation"
)

// Event is one progress notification.
type Event struct {
	// InvocationID correlates the event with its run.
	InvocationID string `json:"invocation_id"`
	// Stage is the pipeline stage the run is in.
	Stage generation.Stage `json:"stage"`
	// Percent is the overall completion, 0 to 100, non-decreasing within a run.
	Percent int `json:"percent"`
	// Message is a short human-readable status line.
	Message string `json:"message,omitempty"`
}

// Terminal reports whether e is the last event of its run.
func (e Event) Terminal() bool {
	return e.Stage.IsTerminal()
}

// Band is the percentage range a stage occupies.
type Band struct {
	Start int
	End   int
}

// Bands maps each working stage to its share of the run.
//
//nolint:gochecknoglobals // Immutable lookup table.
var Bands = map[generation.Stage]Band{
	generation.StageValidating:      {Start: 0, End: 5},
	generation.StageConvertingIcon:  {Start: 5, End: 30},
	generation.StageAssembling:      {Start: 30, End: 70},
	generation.StageInjectingConfig: {Start: 70, End: 80},
	generation.StageFinalizing:      {Start: 80, End: 100},
}

//nolint:gochecknoglobals // Immutable lookup table.
var stageMessages = map[generation.Stage]string{
	generation.StageValidating:      "Validating request",
	generation.StageConvertingIcon:  "Converting icon",
	generation.StageAssembling:      "Assembling bundle",
	generation.StageInjectingConfig: "Writing configuration",
	generation.StageFinalizing:      "Installing app",
	generation.StageDone:            "Done",
}
