package progress

import (
	"math"
	"sync"

	"github.com/oshokin/webbox/internal/domain/generation"
)

// Sink receives published events.
type Sink interface {
	// Publish must not block.
	Publish(Event)
	// Close is called once, after the terminal event.
	Close()
}

// Emitter publishes the progress of a single run. It is safe for concurrent use,
// which icon rendering relies on.
type Emitter struct {
	mu       sync.Mutex
	id       string
	sink     Sink
	stage    generation.Stage
	percent  int
	started  bool
	finished bool
}

// NewEmitter creates an emitter for the run id publishing to sink.
func NewEmitter(id string, sink Sink) *Emitter {
	return &Emitter{
		id:    id,
		sink:  sink,
		stage: generation.StageIdle,
	}
}

// Percent returns the last published percent.
func (e *Emitter) Percent() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.percent
}

// Enter publishes the start of stage.
func (e *Emitter) Enter(stage generation.Stage) {
	band, ok := Bands[stage]
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stage = stage
	e.publishLocked(band.Start, stageMessages[stage], true)
}

// Advance publishes intra-stage progress; fraction is clamped to [0, 1].
// Updates that do not move the integer percent are dropped.
func (e *Emitter) Advance(stage generation.Stage, fraction float64) {
	band, ok := Bands[stage]
	if !ok {
		return
	}

	fraction = math.Max(0, math.Min(1, fraction))
	percent := band.Start + int(math.Floor(fraction*float64(band.End-band.Start)))

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stage = stage
	e.publishLocked(percent, stageMessages[stage], false)
}

// Done publishes the terminal success event and closes the sink.
func (e *Emitter) Done(message string) {
	if message == "" {
		message = stageMessages[generation.StageDone]
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stage = generation.StageDone
	e.publishLocked(100, message, true)
	e.finishLocked()
}

// Fail publishes the terminal failure event at the current percent and closes the sink.
func (e *Emitter) Fail(message string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stage = generation.StageFailed
	e.publishLocked(e.percent, message, true)
	e.finishLocked()
}

func (e *Emitter) publishLocked(percent int, message string, force bool) {
	if e.finished {
		return
	}

	// Never go backwards.
	if percent < e.percent {
		percent = e.percent
	}

	if !force && e.started && percent == e.percent {
		return
	}

	e.started = true
	e.percent = percent

	e.sink.Publish(Event{
		InvocationID: e.id,
		Stage:        e.stage,
		Percent:      percent,
		Message:      message,
	})
}

func (e *Emitter) finishLocked() {
	if e.finished {
		return
	}

	e.finished = true
	e.sink.Close()
}
