package models

import (
	"strings"
)

// Mode selects which actions a run performs
type Mode string

const (
	// ModeSync copies new entries, updates common files and optionally purges
	ModeSync Mode = "sync"
	// ModeUpdate only refreshes files common to both trees
	ModeUpdate Mode = "update"
	// ModeDiff only reports the difference between the trees
	ModeDiff Mode = "diff"
)

// ParseMode converts a string to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSync:
		return ModeSync, nil
	case ModeUpdate:
		return ModeUpdate, nil
	case ModeDiff:
		return ModeDiff, nil
	}
	return "", &ValidationError{Field: "Mode", Message: "unknown mode '" + s + "' (valid: sync, update, diff)"}
}

// ModeActions lists what a mode is allowed to do to the trees
type ModeActions struct {
	Copy   bool
	Update bool
	Purge  bool
	Create bool
}

var modeActions = map[Mode]ModeActions{
	ModeSync:   {Copy: true, Update: true, Purge: true, Create: true},
	ModeUpdate: {Update: true},
	ModeDiff:   {},
}

// Actions returns the action table entry for the mode
func (m Mode) Actions() ModeActions {
	return modeActions[m]
}

// Direction defines which way files may flow
type Direction string

const (
	// DirectionSourceToTarget lets files flow from source to target only
	DirectionSourceToTarget Direction = "source-to-target"
	// DirectionTargetToSource lets files flow from target to source only
	DirectionTargetToSource Direction = "target-to-source"
	// DirectionBidirectional lets files flow both ways
	DirectionBidirectional Direction = "bidirectional"
)

// ParseDirection converts a string to a Direction. The empty string maps to
// the default source-to-target direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", DirectionSourceToTarget:
		return DirectionSourceToTarget, nil
	case DirectionTargetToSource:
		return DirectionTargetToSource, nil
	case DirectionBidirectional:
		return DirectionBidirectional, nil
	}
	return "", &ValidationError{Field: "Direction", Message: "unknown direction '" + s + "' (valid: source-to-target, target-to-source, bidirectional)"}
}

// Forward reports whether files may flow from source to target
func (d Direction) Forward() bool {
	return d == DirectionSourceToTarget || d == DirectionBidirectional || d == ""
}

// Backward reports whether files may flow from target to source
func (d Direction) Backward() bool {
	return d == DirectionTargetToSource || d == DirectionBidirectional
}

// MarkerFilePattern matches the per-source option file, which is excluded
// unless an include pattern names it
const MarkerFilePattern = `^\.dirsync$`

// Options is the configuration of one run. It must not be modified while a
// run is in progress.
type Options struct {
	Verbose          bool
	Purge            bool
	Direction        Direction
	ForcePermissions bool
	CreateTarget     bool
	ModTimeOnly      bool

	// Pattern sets are regular expressions matched at the start of the
	// slash-separated relative path
	Only    []string
	Include []string
	Exclude []string
	Ignore  []string
}

// DefaultOptions returns the documented defaults
func DefaultOptions() Options {
	return Options{
		Direction: DirectionSourceToTarget,
	}
}

// Validate checks the option values that do not need filesystem access
func (o *Options) Validate() error {
	if _, err := ParseDirection(string(o.Direction)); err != nil {
		return err
	}
	return nil
}

// ValidationError represents a configuration error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
