package llm

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestTokenTracker_Add(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(100, 50)
	tracker.Add(200, 75)

	in, out := tracker.Total()
	if in != 300 {
		t.Errorf("input tokens = %d, want 300", in)
	}
	if out != 125 {
		t.Errorf("output tokens = %d, want 125", out)
	}
	if tracker.Calls() != 2 {
		t.Errorf("calls = %d, want 2", tracker.Calls())
	}
}

func TestTokenTracker_Reset(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(10, 20)
	tracker.Reset()

	in, out := tracker.Total()
	if in != 0 || out != 0 {
		t.Errorf("after reset totals = (%d, %d), want (0, 0)", in, out)
	}
	if tracker.Calls() != 0 {
		t.Errorf("after reset calls = %d, want 0", tracker.Calls())
	}
}

func TestTranslateModelForBedrock_Unknown(t *testing.T) {
	custom := anthropic.Model("us.anthropic.claude-sonnet-4-20250514-v1:0")
	if got := translateModelForBedrock(custom); got != custom {
		t.Errorf("already-translated model changed: %s", got)
	}
}
