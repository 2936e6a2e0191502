package generation

import (
	"errors"
	"fmt"
)

// Stage is one state of the generation state machine.
type Stage string

// Pipeline stages in their only legal order, plus the Failed sink.
const (
	StageIdle            Stage = "idle"
	StageValidating      Stage = "validating"
	StageConvertingIcon  Stage = "converting_icon"
	StageAssembling      Stage = "assembling"
	StageInjectingConfig Stage = "injecting_config"
	StageFinalizing      Stage = "finalizing"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
)

// forwardOrder ranks the non-failure stages.
//
//nolint:gochecknoglobals // Immutable lookup table.
var forwardOrder = map[Stage]int{
	StageIdle:            0,
	StageValidating:      1,
	StageConvertingIcon:  2,
	StageAssembling:      3,
	StageInjectingConfig: 4,
	StageFinalizing:      5,
	StageDone:            6,
}

// ErrIllegalTransition is returned when a transition skips, repeats or leaves a terminal stage.
var ErrIllegalTransition = errors.New("illegal stage transition")

// IsTerminal reports whether no transition may leave s.
func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageFailed
}

// Machine tracks the current stage of one run. It is not safe for concurrent use;
// each run owns its own Machine.
type Machine struct {
	current Stage
	cause   error
}

// NewMachine returns a machine in StageIdle.
func NewMachine() *Machine {
	return &Machine{current: StageIdle}
}

// Current returns the current stage.
func (m *Machine) Current() Stage {
	return m.current
}

// Cause returns the failure recorded by Fail.
func (m *Machine) Cause() error {
	return m.cause
}

// Advance moves to next, which must directly follow the current stage.
func (m *Machine) Advance(next Stage) error {
	if m.current.IsTerminal() {
		return fmt.Errorf("%s -> %s: %w", m.current, next, ErrIllegalTransition)
	}

	from, ok := forwardOrder[m.current]
	to, known := forwardOrder[next]

	if !ok || !known || to != from+1 {
		return fmt.Errorf("%s -> %s: %w", m.current, next, ErrIllegalTransition)
	}

	m.current = next

	return nil
}

// Fail moves to StageFailed from any non-terminal stage.
func (m *Machine) Fail(cause error) error {
	if m.current.IsTerminal() {
		return fmt.Errorf("%s -> %s: %w", m.current, StageFailed, ErrIllegalTransition)
	}

	m.current = StageFailed
	m.cause = cause

	return nil
}
