package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/repository"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

// Notebook field limits.
const (
	MaxPageTitleLen = 255
	MaxTagLen       = 50
)

// tagCharset strips everything a persisted tag may not contain.
var tagCharset = regexp.MustCompile(`[^a-z0-9\s-]`)

// NormalizeTag lowercases, trims and restricts a tag to letters, digits,
// spaces and hyphens.
func NormalizeTag(tag string) string {
	lowered := strings.ToLower(strings.TrimSpace(tag))
	return strings.TrimSpace(tagCharset.ReplaceAllString(lowered, ""))
}

// PagesEnvelope is the notebook-specific export form, with records nested
// under "pages".
type PagesEnvelope struct {
	Pages      []storage.Document `json:"pages"`
	ExportDate time.Time          `json:"exportDate"`
	Version    string             `json:"version"`
}

// Notebook validates and normalizes notebook pages before delegating to the
// repository.
type Notebook struct {
	repo *repository.Notebook
}

// NewNotebook builds the notebook service.
func NewNotebook(repo *repository.Notebook) *Notebook {
	return &Notebook{repo: repo}
}

// ValidatePage checks page fields.
func (s *Notebook) ValidatePage(fields storage.Document, isUpdate bool) (bool, []string) {
	var errs []string
	if !isUpdate {
		errs = checkRequired(fields, "title", "title", errs)
	}
	if title, present, ok := strField(fields, "title"); present {
		if isUpdate && (!ok || strings.TrimSpace(title) == "") {
			errs = append(errs, "title cannot be empty")
		}
	}
	errs = checkMaxLen(fields, "title", "title", MaxPageTitleLen, errs)

	for _, tag := range stringSlice(fields, "tags") {
		if utf8.RuneCountInString(tag) > MaxTagLen {
			errs = append(errs, fmt.Sprintf("tag %q must not exceed %d characters", tag, MaxTagLen))
		}
	}
	return len(errs) == 0, errs
}

// normalizePage trims strings and normalizes/dedupes tags when present.
func normalizePage(doc storage.Document) {
	trimStrings(doc)
	if tags := stringSlice(doc, "tags"); tags != nil {
		normalized := make([]string, 0, len(tags))
		for _, t := range tags {
			if nt := NormalizeTag(t); nt != "" {
				normalized = append(normalized, nt)
			}
		}
		doc["tags"] = dedupeFold(normalized)
	}
}

// CreatePage validates, normalizes and persists a new page.
func (s *Notebook) CreatePage(ctx context.Context, fields storage.Document) (*models.NotebookPage, error) {
	if ok, errs := s.ValidatePage(fields, false); !ok {
		return nil, newValidationError(errs)
	}

	doc := fields.Clone()
	normalizePage(doc)
	if _, exists := doc["tags"]; !exists {
		doc["tags"] = []string{}
	}

	page, err := storage.FromDocument[models.NotebookPage](doc)
	if err != nil {
		return nil, fmt.Errorf("decode page fields: %w", err)
	}
	return s.repo.Create(ctx, page)
}

// UpdatePage validates and normalizes a partial update. Absent tags are
// left alone so a partial update never erases them.
func (s *Notebook) UpdatePage(ctx context.Context, id string, fields storage.Document) (*models.NotebookPage, error) {
	if ok, errs := s.ValidatePage(fields, true); !ok {
		return nil, newValidationError(errs)
	}
	doc := fields.Clone()
	normalizePage(doc)
	return s.repo.Update(ctx, id, doc)
}

// DeletePage removes a page; a missing id reports false.
func (s *Notebook) DeletePage(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// GetAllPages lists every page.
func (s *Notebook) GetAllPages(ctx context.Context) ([]models.NotebookPage, error) {
	return s.repo.GetAll(ctx)
}

// GetPageByID fetches one page.
func (s *Notebook) GetPageByID(ctx context.Context, id string) (*models.NotebookPage, error) {
	return s.repo.GetByID(ctx, id)
}

// SearchPages matches a substring against title, content and tags.
func (s *Notebook) SearchPages(ctx context.Context, query string) ([]models.NotebookPage, error) {
	return s.repo.Search(ctx, query)
}

// GetPagesByTag lists pages carrying the normalized tag.
func (s *Notebook) GetPagesByTag(ctx context.Context, tag string) ([]models.NotebookPage, error) {
	return s.repo.GetByTag(ctx, NormalizeTag(tag))
}

// AddTagToPage normalizes the tag and rejects duplicates against the page's
// current normalized tags.
func (s *Notebook) AddTagToPage(ctx context.Context, pageID, tag string) (*models.NotebookPage, error) {
	normalized := NormalizeTag(tag)
	if normalized == "" {
		return nil, newValidationError([]string{"tag cannot be empty"})
	}
	if utf8.RuneCountInString(normalized) > MaxTagLen {
		return nil, newValidationError([]string{fmt.Sprintf("tag %q must not exceed %d characters", normalized, MaxTagLen)})
	}

	page, err := s.repo.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	for _, t := range page.Tags {
		if strings.EqualFold(t, normalized) {
			return nil, newValidationError([]string{fmt.Sprintf("tag %q already exists on page", normalized)})
		}
	}
	return s.repo.AddTag(ctx, pageID, normalized)
}

// RemoveTagFromPage removes a tag by normalized value.
func (s *Notebook) RemoveTagFromPage(ctx context.Context, pageID, tag string) (*models.NotebookPage, error) {
	return s.repo.RemoveTag(ctx, pageID, NormalizeTag(tag))
}

// RemoveTagAt removes a tag by index.
func (s *Notebook) RemoveTagAt(ctx context.Context, pageID string, index int) (*models.NotebookPage, error) {
	return s.repo.RemoveTagAt(ctx, pageID, index)
}

// DuplicatePage clones a page with a copy marker on the title.
func (s *Notebook) DuplicatePage(ctx context.Context, id string) (*models.NotebookPage, error) {
	return s.repo.Duplicate(ctx, id)
}

// Stats aggregates notebook counts.
func (s *Notebook) Stats(ctx context.Context, topN int) (*repository.NotebookStats, error) {
	return s.repo.Stats(ctx, topN)
}

// ExportPages produces the notebook export form, with records nested under
// "pages".
func (s *Notebook) ExportPages(ctx context.Context) (*PagesEnvelope, error) {
	env, err := s.repo.Export(ctx)
	if err != nil {
		return nil, err
	}
	return &PagesEnvelope{
		Pages:      env.Data,
		ExportDate: env.ExportDate,
		Version:    env.Version,
	}, nil
}

// ImportAll accepts a bare array, the generic envelope or the pages form;
// validates every record with update semantics and commits all-or-nothing.
func (s *Notebook) ImportAll(ctx context.Context, payload json.RawMessage) error {
	return importAll(ctx, payload,
		func(doc storage.Document) []string {
			_, errs := s.ValidatePage(doc, true)
			return errs
		},
		s.repo.ReplaceAll,
	)
}

// Clear empties the collection.
func (s *Notebook) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Count returns the number of pages.
func (s *Notebook) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
