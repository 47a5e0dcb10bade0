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

// Dictionary validates and normalizes word categories before delegating to
// the repository. Category names and words are uppercased; name uniqueness
// is case-insensitive across the collection.
type Dictionary struct {
	repo *repository.Dictionary
}

// NewDictionary builds the dictionary service.
func NewDictionary(repo *repository.Dictionary) *Dictionary {
	return &Dictionary{repo: repo}
}

// ValidateCategory checks category fields.
func (s *Dictionary) ValidateCategory(fields storage.Document, isUpdate bool) (bool, []string) {
	var errs []string
	if !isUpdate {
		errs = checkRequired(fields, "name", "name", errs)
	}
	if name, present, ok := strField(fields, "name"); present && isUpdate {
		if !ok || strings.TrimSpace(name) == "" {
			errs = append(errs, "name cannot be empty")
		}
	}
	return len(errs) == 0, errs
}

// normalizeCategory uppercases the name, and trims/uppercases/dedupes the
// word list when present.
func normalizeCategory(doc storage.Document) {
	trimStrings(doc)
	if name, _, ok := strField(doc, "name"); ok {
		doc["name"] = strings.ToUpper(name)
	}
	if words := stringSlice(doc, "words"); words != nil {
		for i := range words {
			words[i] = strings.ToUpper(strings.TrimSpace(words[i]))
		}
		doc["words"] = dedupeFold(words)
	}
}

// CreateCategory validates, normalizes and persists a new category. The
// normalized name must not collide case-insensitively with an existing one.
func (s *Dictionary) CreateCategory(ctx context.Context, fields storage.Document) (*models.DictionaryCategory, error) {
	if ok, errs := s.ValidateCategory(fields, false); !ok {
		return nil, newValidationError(errs)
	}

	doc := fields.Clone()
	normalizeCategory(doc)
	if _, exists := doc["words"]; !exists {
		doc["words"] = []string{}
	}

	name, _, _ := strField(doc, "name")
	if err := s.checkNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	cat, err := storage.FromDocument[models.DictionaryCategory](doc)
	if err != nil {
		return nil, fmt.Errorf("decode category fields: %w", err)
	}
	return s.repo.Create(ctx, cat)
}

// UpdateCategory validates and normalizes a partial update. A rename
// re-checks uniqueness against the whole collection.
func (s *Dictionary) UpdateCategory(ctx context.Context, id string, fields storage.Document) (*models.DictionaryCategory, error) {
	if ok, errs := s.ValidateCategory(fields, true); !ok {
		return nil, newValidationError(errs)
	}

	doc := fields.Clone()
	normalizeCategory(doc)

	if name, present, ok := strField(doc, "name"); present && ok {
		if err := s.checkNameFree(ctx, name, id); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, doc)
}

// checkNameFree fails when another category already uses the normalized
// name, comparing case-insensitively.
func (s *Dictionary) checkNameFree(ctx context.Context, name, excludeID string) error {
	cats, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range cats {
		if cats[i].ID == excludeID {
			continue
		}
		if strings.EqualFold(cats[i].Name, name) {
			return newValidationError([]string{fmt.Sprintf("category %q already exists", name)})
		}
	}
	return nil
}

// DeleteCategory removes a category; a missing id reports false.
func (s *Dictionary) DeleteCategory(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// GetAllCategories lists every category.
func (s *Dictionary) GetAllCategories(ctx context.Context) ([]models.DictionaryCategory, error) {
	return s.repo.GetAll(ctx)
}

// GetCategoryByID fetches one category.
func (s *Dictionary) GetCategoryByID(ctx context.Context, id string) (*models.DictionaryCategory, error) {
	return s.repo.GetByID(ctx, id)
}

// GetCategoryByName fetches a category by case-insensitive name, nil when
// absent.
func (s *Dictionary) GetCategoryByName(ctx context.Context, name string) (*models.DictionaryCategory, error) {
	return s.repo.GetByName(ctx, name)
}

// AddWordToCategory normalizes the word and rejects case-insensitive
// duplicates within the category.
func (s *Dictionary) AddWordToCategory(ctx context.Context, catID, word string) (*models.DictionaryCategory, error) {
	normalized := strings.ToUpper(strings.TrimSpace(word))
	if normalized == "" {
		return nil, newValidationError([]string{"word cannot be empty"})
	}

	cat, err := s.repo.GetByID(ctx, catID)
	if err != nil {
		return nil, err
	}
	for _, w := range cat.Words {
		if strings.EqualFold(w, normalized) {
			return nil, newValidationError([]string{fmt.Sprintf("word %q already exists in category %q", normalized, cat.Name)})
		}
	}
	return s.repo.AddWord(ctx, catID, normalized)
}

// UpdateWordInCategory replaces the word at an index, keeping the
// duplicate-free invariant.
func (s *Dictionary) UpdateWordInCategory(ctx context.Context, catID string, index int, word string) (*models.DictionaryCategory, error) {
	normalized := strings.ToUpper(strings.TrimSpace(word))
	if normalized == "" {
		return nil, newValidationError([]string{"word cannot be empty"})
	}

	cat, err := s.repo.GetByID(ctx, catID)
	if err != nil {
		return nil, err
	}
	for i, w := range cat.Words {
		if i != index && strings.EqualFold(w, normalized) {
			return nil, newValidationError([]string{fmt.Sprintf("word %q already exists in category %q", normalized, cat.Name)})
		}
	}
	return s.repo.UpdateWordAt(ctx, catID, index, normalized)
}

// RemoveWordFromCategory removes a word by value after normalization.
func (s *Dictionary) RemoveWordFromCategory(ctx context.Context, catID, word string) (*models.DictionaryCategory, error) {
	return s.repo.RemoveWord(ctx, catID, strings.ToUpper(strings.TrimSpace(word)))
}

// RemoveWordAt removes a word by index.
func (s *Dictionary) RemoveWordAt(ctx context.Context, catID string, index int) (*models.DictionaryCategory, error) {
	return s.repo.RemoveWordAt(ctx, catID, index)
}

// DuplicateCategory clones a category under the uppercase copy marker,
// numbering the name when the marked one is already taken so the
// case-insensitive uniqueness invariant holds across repeated duplication.
func (s *Dictionary) DuplicateCategory(ctx context.Context, id string) (*models.DictionaryCategory, error) {
	src, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	base := strings.ToUpper(src.Name + " (Copy)")
	name := base
	for i := 2; ; i++ {
		existing, err := s.repo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			break
		}
		name = fmt.Sprintf("%s %d", base, i)
	}
	return s.repo.DuplicateAs(ctx, id, name)
}

// Stats aggregates dictionary counts.
func (s *Dictionary) Stats(ctx context.Context, topN int) (*repository.DictionaryStats, error) {
	return s.repo.Stats(ctx, topN)
}

// RandomWords draws distinct words, optionally constrained to categories.
func (s *Dictionary) RandomWords(ctx context.Context, n int, categories ...string) ([]string, error) {
	return s.repo.RandomWords(ctx, n, categories...)
}

// BuildPrompt joins random words into a comma-separated prompt string.
func (s *Dictionary) BuildPrompt(ctx context.Context, n int, categories ...string) (string, error) {
	return s.repo.BuildPrompt(ctx, n, categories...)
}

// ExportAll wraps the collection in the interchange envelope.
func (s *Dictionary) ExportAll(ctx context.Context) (*storage.Envelope, error) {
	return s.repo.Export(ctx)
}

// ImportAll validates every record with update semantics and commits
// all-or-nothing.
func (s *Dictionary) ImportAll(ctx context.Context, payload json.RawMessage) error {
	return importAll(ctx, payload,
		func(doc storage.Document) []string {
			_, errs := s.ValidateCategory(doc, true)
			return errs
		},
		s.repo.ReplaceAll,
	)
}

// Clear empties the collection.
func (s *Dictionary) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Count returns the number of categories.
func (s *Dictionary) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
