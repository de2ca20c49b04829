package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Task is a single entry of the shared task list. Fields holds any extra
// caller-supplied properties; they are flattened into the JSON object next
// to id, title and completed. A title that is not a string is kept verbatim
// in Fields and Title stays empty. An empty Title is omitted from JSON.
type Task struct {
	ID        int64
	Title     string
	Completed bool
	Fields    map[string]any
}

const (
	taskKeyID        = "id"
	taskKeyTitle     = "title"
	taskKeyCompleted = "completed"
)

func (t Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Fields)+3)
	for k, v := range t.Fields {
		out[k] = v
	}
	out[taskKeyID] = t.ID
	if t.Title != "" {
		out[taskKeyTitle] = t.Title
	}
	out[taskKeyCompleted] = t.Completed
	return json.Marshal(out)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("task: expected JSON object")
	}

	*t = Task{}
	// id and completed are owned by the store; values that do not fit are
	// dropped rather than rejected.
	if v, ok := raw[taskKeyID]; ok {
		if n, ok := v.(json.Number); ok {
			if id, err := n.Int64(); err == nil {
				t.ID = id
			}
		}
		delete(raw, taskKeyID)
	}
	if v, ok := raw[taskKeyCompleted]; ok {
		t.Completed, _ = v.(bool)
		delete(raw, taskKeyCompleted)
	}
	if v, ok := raw[taskKeyTitle]; ok {
		if s, ok := v.(string); ok {
			t.Title = s
			delete(raw, taskKeyTitle)
		}
	}
	if len(raw) > 0 {
		t.Fields = raw
	}
	return nil
}

// Clone returns a copy whose Fields map can be mutated independently.
func (t Task) Clone() Task {
	if t.Fields == nil {
		return t
	}
	fields := make(map[string]any, len(t.Fields))
	for k, v := range t.Fields {
		fields[k] = v
	}
	t.Fields = fields
	return t
}

// DisplayTitle is the title as shown in summaries: Title when set, otherwise
// a non-string title value from Fields, otherwise "".
func (t Task) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if v, ok := t.Fields[taskKeyTitle]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}
