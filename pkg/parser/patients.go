package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/helmcode/triage-ai/pkg/model"
)

var ErrNoPatients = errors.New("patient file is empty")

type rawPatients struct {
	Patients []model.SymptomRecord `json:"patients" yaml:"patients"`
}

// ParsePatients reads a list of symptom records, or an object with a
// "patients" list, as JSON or YAML. Durations may be given as bucket codes or
// labels and are normalised to codes.
func ParsePatients(raw []byte) ([]model.SymptomRecord, error) {
	cleaned := stripFences(string(raw))
	if cleaned == "" {
		return nil, ErrNoPatients
	}

	var list []model.SymptomRecord
	var err error
	switch cleaned[0] {
	case '[':
		err = json.Unmarshal([]byte(cleaned), &list)
	case '{':
		var wrapped rawPatients
		err = json.Unmarshal([]byte(cleaned), &wrapped)
		list = wrapped.Patients
	default:
		if err = yaml.Unmarshal([]byte(cleaned), &list); err != nil {
			var wrapped rawPatients
			err = yaml.Unmarshal([]byte(cleaned), &wrapped)
			list = wrapped.Patients
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse patients: %w", err)
	}
	if len(list) == 0 {
		return nil, ErrNoPatients
	}

	for i := range list {
		d, err := model.ParseDuration(string(list[i].Duration))
		if err != nil {
			return nil, fmt.Errorf("patient %d: %w", i+1, err)
		}
		list[i].Duration = d
		list[i].Text = strings.TrimSpace(list[i].Text)
	}
	return list, nil
}
