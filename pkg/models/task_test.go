package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTask_IsRoot(t *testing.T) {
	root := &Task{ID: "1", Title: "Write report"}
	if !root.IsRoot() {
		t.Error("task without parent should be root")
	}

	sub := &Task{ID: "2", Title: "Outline sections", ParentID: "1"}
	if sub.IsRoot() {
		t.Error("task with parent should not be root")
	}
}

func TestTask_JSONShape(t *testing.T) {
	created := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "abc",
		Title:       "Plan trip",
		CreatedAt:   created,
		ParentID:    "root",
		AIGenerated: true,
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if m["parentId"] != "root" {
		t.Errorf("parentId = %v, want %q", m["parentId"], "root")
	}
	if m["aiGenerated"] != true {
		t.Errorf("aiGenerated = %v, want true", m["aiGenerated"])
	}
	if _, present := m["estimatedMinutes"]; present {
		t.Error("estimatedMinutes should be omitted when zero")
	}
}

func TestTask_OptionalFieldsOmitted(t *testing.T) {
	data, err := json.Marshal(Task{ID: "1", Title: "Read book"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"parentId", "aiGenerated", "estimatedMinutes"} {
		if _, present := m[key]; present {
			t.Errorf("%s should be omitted for a plain root task", key)
		}
	}
}
