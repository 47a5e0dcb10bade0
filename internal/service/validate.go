// Package service enforces domain invariants and field normalization, then
// delegates to the repositories. It is the only layer the application is
// expected to call.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pmiralles/lorekeeper/internal/storage"
)

// ValidationError aggregates every violated rule found in one validation
// pass. It is raised before any storage mutation.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, ", ")
}

// newValidationError wraps the rule violations, or returns nil when none.
func newValidationError(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// strField reads a string field from a document. Present but non-string
// values read as present with ok=false so validators can flag them.
func strField(d storage.Document, key string) (val string, present, ok bool) {
	v, exists := d[key]
	if !exists {
		return "", false, false
	}
	s, isStr := v.(string)
	return s, true, isStr
}

// numField reads a numeric field from a document, accepting the types JSON
// decoding can produce.
func numField(d storage.Document, key string) (val float64, present, ok bool) {
	v, exists := d[key]
	if !exists {
		return 0, false, false
	}
	switch n := v.(type) {
	case float64:
		return n, true, true
	case int:
		return float64(n), true, true
	case int64:
		return float64(n), true, true
	case json.Number:
		f, err := n.Float64()
		return f, true, err == nil
	}
	return 0, true, false
}

// checkRequired flags a missing or blank string field on create.
func checkRequired(d storage.Document, key, label string, errs []string) []string {
	val, present, ok := strField(d, key)
	if !present || !ok || strings.TrimSpace(val) == "" {
		return append(errs, fmt.Sprintf("%s is required", label))
	}
	return errs
}

// checkMaxLen flags a string field longer than max characters. Absent
// fields pass.
func checkMaxLen(d storage.Document, key, label string, max int, errs []string) []string {
	val, present, ok := strField(d, key)
	if !present {
		return errs
	}
	if !ok {
		return append(errs, fmt.Sprintf("%s must be a string", label))
	}
	if utf8.RuneCountInString(val) > max {
		return append(errs, fmt.Sprintf("%s must not exceed %d characters", label, max))
	}
	return errs
}

// checkIntRange flags a numeric field outside [min, max]. Absent fields pass.
func checkIntRange(d storage.Document, key, label string, min, max int, errs []string) []string {
	val, present, ok := numField(d, key)
	if !present {
		return errs
	}
	if !ok {
		return append(errs, fmt.Sprintf("%s must be a number", label))
	}
	if val != float64(int(val)) || int(val) < min || int(val) > max {
		return append(errs, fmt.Sprintf("%s must be an integer between %d and %d", label, min, max))
	}
	return errs
}

// trimStrings trims every top-level string field of the document in place.
func trimStrings(d storage.Document) {
	for k, v := range d {
		if s, ok := v.(string); ok {
			d[k] = strings.TrimSpace(s)
		}
	}
}

// stringSlice coerces a document field to a string slice. Returns nil when
// the field is absent or not a sequence of strings.
func stringSlice(d storage.Document, key string) []string {
	v, exists := d[key]
	if !exists {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// dedupeFold removes entries that are equal case-insensitively, keeping the
// first occurrence.
func dedupeFold(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// importAll decodes an import payload, validates every element with update
// semantics, and commits wholesale only when every element passes.
func importAll(
	ctx context.Context,
	payload json.RawMessage,
	validate func(storage.Document) []string,
	replace func(context.Context, []storage.Document) error,
) error {
	docs, err := storage.DecodePayload(payload)
	if err != nil {
		return err
	}

	var issues []storage.ImportIssue
	for i, doc := range docs {
		if errs := validate(doc); len(errs) > 0 {
			issues = append(issues, storage.ImportIssue{Index: i, Errors: errs})
		}
	}
	if len(issues) > 0 {
		return &storage.ImportError{Reason: "one or more records failed validation", Issues: issues}
	}
	return replace(ctx, docs)
}
