package models

import (
	"reflect"
	"testing"
	"time"
)

// ============== Mode Tests ==============

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"sync", ModeSync, false},
		{"update", ModeUpdate, false},
		{"diff", ModeDiff, false},
		{" SYNC ", ModeSync, false},
		{"mirror", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %s, want %s", tt.input, got, tt.want)
			}
			if err != nil {
				if ve, ok := err.(*ValidationError); !ok || ve.Field != "Mode" {
					t.Errorf("ParseMode(%q) error = %#v, want *ValidationError on Mode", tt.input, err)
				}
			}
		})
	}
}

func TestModeActions(t *testing.T) {
	tests := []struct {
		mode Mode
		want ModeActions
	}{
		{ModeSync, ModeActions{Copy: true, Update: true, Purge: true, Create: true}},
		{ModeUpdate, ModeActions{Update: true}},
		{ModeDiff, ModeActions{}},
		{Mode("unknown"), ModeActions{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := tt.mode.Actions(); got != tt.want {
				t.Errorf("Actions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// ============== Direction Tests ==============

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"", DirectionSourceToTarget, false},
		{"source-to-target", DirectionSourceToTarget, false},
		{"target-to-source", DirectionTargetToSource, false},
		{"Bidirectional", DirectionBidirectional, false},
		{"sideways", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDirectionFlow(t *testing.T) {
	tests := []struct {
		direction Direction
		forward   bool
		backward  bool
	}{
		{DirectionSourceToTarget, true, false},
		{DirectionTargetToSource, false, true},
		{DirectionBidirectional, true, true},
		{"", true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			if got := tt.direction.Forward(); got != tt.forward {
				t.Errorf("Forward() = %v, want %v", got, tt.forward)
			}
			if got := tt.direction.Backward(); got != tt.backward {
				t.Errorf("Backward() = %v, want %v", got, tt.backward)
			}
		})
	}
}

// ============== Options Tests ==============

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Direction != DirectionSourceToTarget {
		t.Errorf("Direction = %s, want source-to-target", opts.Direction)
	}
	if opts.Verbose || opts.Purge || opts.ForcePermissions || opts.CreateTarget || opts.ModTimeOnly {
		t.Errorf("boolean options should default to false: %+v", opts)
	}
	if len(opts.Only)+len(opts.Include)+len(opts.Exclude)+len(opts.Ignore) != 0 {
		t.Errorf("pattern sets should default to empty: %+v", opts)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	opts.Direction = "upwards"

	err := opts.Validate()
	if err == nil {
		t.Fatal("Validate() should fail for unknown direction")
	}
	if ve, ok := err.(*ValidationError); ok {
		if ve.Field != "Direction" {
			t.Errorf("ValidationError.Field = %s, want Direction", ve.Field)
		}
	} else {
		t.Errorf("error type = %T, want *ValidationError", err)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "TestField",
		Message: "test message",
	}

	expected := "TestField: test message"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

// ============== ComparisonResult Tests ==============

func TestNewComparisonResult(t *testing.T) {
	left := PathSet{}
	for _, p := range []string{"a", "a/x.txt", "b.txt", "shared"} {
		left.Add(p)
	}
	right := PathSet{}
	for _, p := range []string{"shared", "c", "c/y.txt", "b.txt"} {
		right.Add(p)
	}

	result := NewComparisonResult(left, right)

	if got, want := result.LeftOnly.Sorted(), []string{"a", "a/x.txt"}; !reflect.DeepEqual(got, want) {
		t.Errorf("LeftOnly = %v, want %v", got, want)
	}
	if got, want := result.RightOnly.Sorted(), []string{"c", "c/y.txt"}; !reflect.DeepEqual(got, want) {
		t.Errorf("RightOnly = %v, want %v", got, want)
	}
	if got, want := result.Common.Sorted(), []string{"b.txt", "shared"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Common = %v, want %v", got, want)
	}

	for p := range result.LeftOnly {
		if result.RightOnly.Has(p) || result.Common.Has(p) {
			t.Errorf("path %s appears in more than one set", p)
		}
	}
	for p := range result.RightOnly {
		if result.Common.Has(p) {
			t.Errorf("path %s appears in more than one set", p)
		}
	}
}

func TestPathSetSortedParentsFirst(t *testing.T) {
	s := PathSet{}
	for _, p := range []string{"dir/sub/file", "dir", "dir/sub", "a"} {
		s.Add(p)
	}

	want := []string{"a", "dir", "dir/sub", "dir/sub/file"}
	if got := s.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}

// ============== Report Tests ==============

func TestReportFinish(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		start := time.Now()
		r := &Report{StartTime: start}
		r.Stats.FilesCopied = 3

		r.Finish(start.Add(2 * time.Second))

		if r.Status != StatusSuccess {
			t.Errorf("Status = %s, want success", r.Status)
		}
		if r.Duration != 2*time.Second {
			t.Errorf("Duration = %s, want 2s", r.Duration)
		}
	})

	t.Run("Partial", func(t *testing.T) {
		r := &Report{StartTime: time.Now()}
		r.Stats.FilePurgeFailed = 1

		r.Finish(time.Now())

		if r.Status != StatusPartial {
			t.Errorf("Status = %s, want partial", r.Status)
		}
	})
}

func TestStatisticsFailures(t *testing.T) {
	s := Statistics{
		CopyFailed:      1,
		DirCreateFailed: 2,
		UpdateFailed:    3,
		DirPurgeFailed:  4,
		FilePurgeFailed: 5,
		FilesCopied:     100,
	}
	if got := s.Failures(); got != 15 {
		t.Errorf("Failures() = %d, want 15", got)
	}
}

func TestReportMutated(t *testing.T) {
	r := &Report{
		Changed: []string{"/t/a"},
		Added:   []string{"/t/b", "/t/c"},
		Deleted: []string{"/t/d"},
	}
	want := []string{"/t/a", "/t/b", "/t/c", "/t/d"}
	if got := r.Mutated(); !reflect.DeepEqual(got, want) {
		t.Errorf("Mutated() = %v, want %v", got, want)
	}
}

func TestSyncStatusExitCode(t *testing.T) {
	tests := []struct {
		status SyncStatus
		want   int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 1},
		{SyncStatus("bogus"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
