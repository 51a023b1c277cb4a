package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
)

// Placeholder vector shape. The record store is used as a keyed metadata
// store; the vector only satisfies the backend's schema.
const (
	PlaceholderDimensions = 384
	PlaceholderValue      = 0.5
)

// Record is one keyed entry.
type Record struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata"`
}

// Store is the record-store boundary. Fetch reports a missing id with ok=false
// and a nil error.
type Store interface {
	Upsert(ctx context.Context, rec Record) error
	Fetch(ctx context.Context, id string) (rec Record, ok bool, err error)
	Delete(ctx context.Context, id string) error
}

// PlaceholderVector returns a fresh vector of PlaceholderDimensions values.
func PlaceholderVector() []float32 {
	v := make([]float32, PlaceholderDimensions)
	for i := range v {
		v[i] = PlaceholderValue
	}
	return v
}

// NewRecord pairs metadata with the placeholder vector.
func NewRecord(id string, metadata map[string]any) Record {
	return Record{ID: id, Values: PlaceholderVector(), Metadata: metadata}
}

// SameMetadata compares two metadata maps by their JSON encoding, so an int64
// written and a json.Number read back compare equal.
func SameMetadata(a, b map[string]any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

func cloneRecord(rec Record) Record {
	out := Record{ID: rec.ID, Values: slices.Clone(rec.Values)}
	if rec.Metadata != nil {
		out.Metadata = make(map[string]any, len(rec.Metadata))
		for k, v := range rec.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
