package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/triage-ai/pkg/model"
)

var ErrEmptyQueue = errors.New("queue snapshot is empty")

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n|```")

type rawEntry struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label" yaml:"label"`
	Priority string `json:"priority" yaml:"priority"`
	Arrival  string `json:"arrival_time" yaml:"arrival_time"`
}

type rawSnapshot struct {
	Queue []rawEntry `json:"queue" yaml:"queue"`
}

// ParseQueue reads a queue snapshot. The input is either a list of entries
// or an object with a "queue" list, as JSON or YAML, optionally wrapped in
// markdown code fences. Entries without an id get a generated one; entries
// without an arrival time keep the zero time.
func ParseQueue(raw []byte) ([]model.QueueEntry, error) {
	cleaned := stripFences(string(raw))
	if cleaned == "" {
		return nil, ErrEmptyQueue
	}

	entries, err := decodeEntries(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to parse queue snapshot: %w", err)
	}

	queue := make([]model.QueueEntry, 0, len(entries))
	for i, e := range entries {
		p, err := model.ParsePriority(e.Priority)
		if err != nil {
			return nil, fmt.Errorf("queue entry %d: %w", i+1, err)
		}

		var arrival time.Time
		if s := strings.TrimSpace(e.Arrival); s != "" {
			arrival, err = time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, fmt.Errorf("queue entry %d: invalid arrival_time %q: %w", i+1, s, err)
			}
		}

		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		queue = append(queue, model.QueueEntry{ID: id, Label: e.Label, Priority: p, Arrival: arrival})
	}
	return queue, nil
}

func decodeEntries(text string) ([]rawEntry, error) {
	switch text[0] {
	case '[':
		var list []rawEntry
		err := json.Unmarshal([]byte(text), &list)
		return list, err
	case '{':
		var snap rawSnapshot
		err := json.Unmarshal([]byte(text), &snap)
		return snap.Queue, err
	}

	var list []rawEntry
	if err := yaml.Unmarshal([]byte(text), &list); err == nil {
		return list, nil
	}
	var snap rawSnapshot
	if err := yaml.Unmarshal([]byte(text), &snap); err != nil {
		return nil, err
	}
	return snap.Queue, nil
}

// stripFences removes markdown code fences such as ```json ... ```
func stripFences(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}
