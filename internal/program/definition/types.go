// Package definition holds the persisted JSON shape of a robot program:
// metadata plus an ordered list of versioned action envelopes.
package definition

import (
	"encoding/json"
	"fmt"

	"github.com/openrobotcore/OpenRobotCore/internal/actions"
)

type Program struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Version     string            `json:"version"`
	ModuleName  string            `json:"module_name,omitempty"`
	Actions     []json.RawMessage `json:"actions"`
	Variables   map[string]string `json:"variables,omitempty"`
}

func ParseProgram(data []byte) (*Program, error) {
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Program) ToJSON() ([]byte, error) {
	return json.Marshal(p)
}

// DecodeActions turns the raw envelopes into typed actions. The error names
// the failing index.
func (p *Program) DecodeActions() ([]actions.Action, error) {
	decoded := make([]actions.Action, 0, len(p.Actions))
	for i, raw := range p.Actions {
		a, err := actions.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		decoded = append(decoded, a)
	}
	return decoded, nil
}

// FromActions builds the persisted envelope list from typed actions.
func FromActions(list []actions.Action) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(list))
	for i, a := range list {
		data, err := actions.Encode(a)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, data)
	}
	return out, nil
}
