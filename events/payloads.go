package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Type identifies a payload schema.
type Type struct {
	Domain   string `json:"domain"`
	Category string `json:"category"`
	Version  string `json:"version"`
}

func (t Type) String() string {
	return fmt.Sprintf("%s.%s.%s", t.Domain, t.Category, t.Version)
}

// PipelineResolvedType is the schema of PipelineResolved.
var PipelineResolvedType = Type{Domain: "nlu", Category: "pipeline_resolved", Version: "v1"}

// ComponentInfo describes one component of a resolved pipeline.
type ComponentInfo struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	NLURef        string   `json:"nlu_ref,omitempty"`
	NLPRef        string   `json:"nlp_ref,omitempty"`
	StorageRef    string   `json:"storage_ref,omitempty"`
	InputColumns  []string `json:"input_columns"`
	OutputColumns []string `json:"output_columns"`
	Injected      bool     `json:"injected,omitempty"`
}

// PipelineResolved announces a wired pipeline.
type PipelineResolved struct {
	ID         string          `json:"id"`
	Ref        string          `json:"ref"`
	Key        string          `json:"key"`
	Language   string          `json:"language"`
	Components []ComponentInfo `json:"components"`
	ResolvedAt time.Time       `json:"resolved_at"`
}

// Schema returns the payload type.
func (p *PipelineResolved) Schema() Type { return PipelineResolvedType }

// Validate checks the required fields.
func (p *PipelineResolved) Validate() error {
	if p.ID == "" {
		return errors.New("pipeline ID is required")
	}
	if p.Ref == "" {
		return errors.New("ref is required")
	}
	if len(p.Components) == 0 {
		return errors.New("at least one component is required")
	}
	return nil
}

// envelope wraps a payload with its schema on the wire.
type envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode marshals p inside its schema envelope.
func Encode(p *PipelineResolved) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: p.Schema(), Payload: raw})
}

// Decode parses a message produced by Encode.
func Decode(data []byte) (*PipelineResolved, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type != PipelineResolvedType {
		return nil, fmt.Errorf("unexpected payload type %s", env.Type)
	}
	var p PipelineResolved
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &p, nil
}
