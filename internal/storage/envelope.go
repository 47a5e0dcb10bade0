package storage

import (
	"encoding/json"
	"time"
)

// ExportVersion is the interchange format version written to envelopes.
const ExportVersion = "1.0"

// Envelope is the wrapper produced for user-facing exports and accepted
// back on import.
type Envelope struct {
	Version    string     `json:"version"`
	ExportDate time.Time  `json:"exportDate"`
	StorageKey string     `json:"storageKey,omitempty"`
	Count      int        `json:"count"`
	Data       []Document `json:"data"`
}

// NewEnvelope wraps docs for export.
func NewEnvelope(storageKey string, docs []Document) *Envelope {
	return &Envelope{
		Version:    ExportVersion,
		ExportDate: time.Now().UTC(),
		StorageKey: storageKey,
		Count:      len(docs),
		Data:       docs,
	}
}

// DecodePayload extracts the record array from an import payload. It accepts
// a bare JSON array, the export envelope (records under "data"), or the
// notebook export form (records under "pages"). Anything else is an
// ImportError.
func DecodePayload(payload json.RawMessage) ([]Document, error) {
	var docs []Document
	if err := json.Unmarshal(payload, &docs); err == nil {
		return docs, nil
	}

	var wrapped struct {
		Data  []Document `json:"data"`
		Pages []Document `json:"pages"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, &ImportError{Reason: "payload is not a record array or export envelope"}
	}
	switch {
	case wrapped.Data != nil:
		return wrapped.Data, nil
	case wrapped.Pages != nil:
		return wrapped.Pages, nil
	}
	return nil, &ImportError{Reason: "payload is not a record array or export envelope"}
}
