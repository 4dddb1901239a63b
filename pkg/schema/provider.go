package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Provider supplies a raw introspection document. Implementations should
// use pointer receivers so provider identity is comparable.
type Provider interface {
	Load(ctx context.Context) ([]byte, error)
}

// StaticProvider serves an in-memory introspection document.
type StaticProvider struct {
	Document []byte
}

// Load returns the in-memory document.
func (p *StaticProvider) Load(context.Context) ([]byte, error) {
	if len(p.Document) == 0 {
		return nil, fmt.Errorf("static schema provider has no document")
	}
	return p.Document, nil
}

// FileProvider reads an introspection document from disk. The file may
// contain the bare schema object or a full introspection response wrapped
// in "data" and "__schema" keys; both wrappers are stripped.
type FileProvider struct {
	Path string
}

// Load reads and unwraps the document.
func (p *FileProvider) Load(context.Context) ([]byte, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return UnwrapDocument(data)
}

// UnwrapDocument strips optional "data" and "__schema" envelope keys from
// an introspection response, returning the bare schema object.
func UnwrapDocument(data []byte) ([]byte, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode introspection document: %w", err)
	}
	if inner, ok := envelope["data"]; ok {
		return UnwrapDocument(inner)
	}
	if inner, ok := envelope["__schema"]; ok {
		return inner, nil
	}
	return data, nil
}
