package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/repository"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

// Soundtrack validates and normalizes song-generation prompts before
// delegating to the repository.
type Soundtrack struct {
	repo *repository.Soundtrack
}

// NewSoundtrack builds the soundtrack service.
func NewSoundtrack(repo *repository.Soundtrack) *Soundtrack {
	return &Soundtrack{repo: repo}
}

// ValidatePrompt checks prompt fields. Length and range limits apply on
// create and update alike; a violation is a validation failure, never a
// silent truncation.
func (s *Soundtrack) ValidatePrompt(fields storage.Document, isUpdate bool) (bool, []string) {
	var errs []string
	if !isUpdate {
		errs = checkRequired(fields, "songTitle", "songTitle", errs)
	}
	if title, present, ok := strField(fields, "songTitle"); present && isUpdate {
		if !ok || strings.TrimSpace(title) == "" {
			errs = append(errs, "songTitle cannot be empty")
		}
	}
	errs = checkMaxLen(fields, "songTitle", "songTitle", models.MaxSongTitleLen, errs)
	errs = checkMaxLen(fields, "lyrics", "lyrics", models.MaxLyricsLen, errs)
	errs = checkMaxLen(fields, "styleDescription", "styleDescription", models.MaxStyleDescriptionLen, errs)
	errs = checkMaxLen(fields, "excludedStyle", "excludedStyle", models.MaxExcludedStyleLen, errs)
	errs = checkIntRange(fields, "weirdness", "weirdness", 0, 100, errs)
	errs = checkIntRange(fields, "styleInfluence", "styleInfluence", 0, 100, errs)

	// A null calificacion means "not rated" and is always acceptable.
	if v, exists := fields["calificacion"]; exists && v != nil {
		errs = checkIntRange(fields, "calificacion", "calificacion", 1, 10, errs)
	}
	return len(errs) == 0, errs
}

// normalizePrompt trims strings and trims/dedupes tags when present.
func normalizePrompt(doc storage.Document) {
	trimStrings(doc)
	if tags := stringSlice(doc, "tags"); tags != nil {
		trimmed := make([]string, 0, len(tags))
		for _, t := range tags {
			if tt := strings.TrimSpace(t); tt != "" {
				trimmed = append(trimmed, tt)
			}
		}
		doc["tags"] = dedupeFold(trimmed)
	}
}

// CreatePrompt validates, normalizes and persists a new prompt.
func (s *Soundtrack) CreatePrompt(ctx context.Context, fields storage.Document) (*models.SoundtrackPrompt, error) {
	if ok, errs := s.ValidatePrompt(fields, false); !ok {
		return nil, newValidationError(errs)
	}

	doc := fields.Clone()
	normalizePrompt(doc)
	for _, key := range []string{"tags", "estructura", "cuePoints"} {
		if _, exists := doc[key]; !exists {
			doc[key] = []any{}
		}
	}

	prompt, err := storage.FromDocument[models.SoundtrackPrompt](doc)
	if err != nil {
		return nil, fmt.Errorf("decode prompt fields: %w", err)
	}
	return s.repo.Create(ctx, prompt)
}

// UpdatePrompt validates and normalizes a partial update.
func (s *Soundtrack) UpdatePrompt(ctx context.Context, id string, fields storage.Document) (*models.SoundtrackPrompt, error) {
	if ok, errs := s.ValidatePrompt(fields, true); !ok {
		return nil, newValidationError(errs)
	}
	doc := fields.Clone()
	normalizePrompt(doc)
	return s.repo.Update(ctx, id, doc)
}

// DeletePrompt removes a prompt; a missing id reports false.
func (s *Soundtrack) DeletePrompt(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// GetAllPrompts lists every prompt.
func (s *Soundtrack) GetAllPrompts(ctx context.Context) ([]models.SoundtrackPrompt, error) {
	return s.repo.GetAll(ctx)
}

// GetPromptByID fetches one prompt.
func (s *Soundtrack) GetPromptByID(ctx context.Context, id string) (*models.SoundtrackPrompt, error) {
	return s.repo.GetByID(ctx, id)
}

// SearchPrompts matches a substring against songTitle, styleDescription and
// momento.
func (s *Soundtrack) SearchPrompts(ctx context.Context, query string) ([]models.SoundtrackPrompt, error) {
	return s.repo.Search(ctx, query)
}

// GetPromptsByMomento lists prompts for one narrative moment.
func (s *Soundtrack) GetPromptsByMomento(ctx context.Context, momento string) ([]models.SoundtrackPrompt, error) {
	return s.repo.GetByMomento(ctx, momento)
}

// RatePrompt sets the 1-10 rating.
func (s *Soundtrack) RatePrompt(ctx context.Context, id string, calificacion int) (*models.SoundtrackPrompt, error) {
	if calificacion < 1 || calificacion > 10 {
		return nil, newValidationError([]string{"calificacion must be an integer between 1 and 10"})
	}
	return s.repo.Update(ctx, id, storage.Document{"calificacion": calificacion})
}

// AddSection validates and appends a song structure section.
func (s *Soundtrack) AddSection(ctx context.Context, id string, section models.Section) (*models.SoundtrackPrompt, error) {
	var errs []string
	if strings.TrimSpace(section.Nombre) == "" {
		errs = append(errs, "section nombre is required")
	}
	if strings.TrimSpace(section.Inicio) == "" {
		errs = append(errs, "section inicio is required")
	}
	if len(errs) > 0 {
		return nil, newValidationError(errs)
	}
	return s.repo.AddSection(ctx, id, section)
}

// RemoveSectionAt removes a structure section by index.
func (s *Soundtrack) RemoveSectionAt(ctx context.Context, id string, index int) (*models.SoundtrackPrompt, error) {
	return s.repo.RemoveSectionAt(ctx, id, index)
}

// AddCuePoint validates and appends a cue point marker.
func (s *Soundtrack) AddCuePoint(ctx context.Context, id string, cue models.CuePoint) (*models.SoundtrackPrompt, error) {
	if strings.TrimSpace(cue.Tiempo) == "" {
		return nil, newValidationError([]string{"cue point tiempo is required"})
	}
	return s.repo.AddCuePoint(ctx, id, cue)
}

// RemoveCuePointAt removes a cue point by index.
func (s *Soundtrack) RemoveCuePointAt(ctx context.Context, id string, index int) (*models.SoundtrackPrompt, error) {
	return s.repo.RemoveCuePointAt(ctx, id, index)
}

// DuplicatePrompt clones a prompt with a copy marker on the title.
func (s *Soundtrack) DuplicatePrompt(ctx context.Context, id string) (*models.SoundtrackPrompt, error) {
	return s.repo.Duplicate(ctx, id)
}

// Stats aggregates prompt statistics.
func (s *Soundtrack) Stats(ctx context.Context, topN int) (*repository.SoundtrackStats, error) {
	return s.repo.Stats(ctx, topN)
}

// ExportAll wraps the collection in the interchange envelope.
func (s *Soundtrack) ExportAll(ctx context.Context) (*storage.Envelope, error) {
	return s.repo.Export(ctx)
}

// ImportAll validates every record with update semantics and commits
// all-or-nothing.
func (s *Soundtrack) ImportAll(ctx context.Context, payload json.RawMessage) error {
	return importAll(ctx, payload,
		func(doc storage.Document) []string {
			_, errs := s.ValidatePrompt(doc, true)
			return errs
		},
		s.repo.ReplaceAll,
	)
}

// Clear empties the collection.
func (s *Soundtrack) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Count returns the number of prompts.
func (s *Soundtrack) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
