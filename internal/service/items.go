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

// Items validates and normalizes catalog items before delegating to the
// repository.
type Items struct {
	repo *repository.Items
}

// NewItems builds the items service.
func NewItems(repo *repository.Items) *Items {
	return &Items{repo: repo}
}

// ValidateItem checks item fields. Required-field checks are skipped on
// update so partial updates may omit unchanged fields; enumeration and
// format checks always apply.
func (s *Items) ValidateItem(fields storage.Document, isUpdate bool) (bool, []string) {
	var errs []string
	if !isUpdate {
		errs = checkRequired(fields, "nombre", "nombre", errs)
		errs = checkRequired(fields, "tipo", "tipo", errs)
	}
	if nombre, present, ok := strField(fields, "nombre"); present && isUpdate {
		if !ok || strings.TrimSpace(nombre) == "" {
			errs = append(errs, "nombre cannot be empty")
		}
	}

	if tipo, present, ok := strField(fields, "tipo"); present {
		if !ok || !models.IsValidTipo(models.Tipo(tipo)) {
			errs = append(errs, fmt.Sprintf("tipo must be one of %v", models.ValidTipos))
		}
	}
	if imagen, present, ok := strField(fields, "imagen"); present {
		if !ok {
			errs = append(errs, "imagen must be a string")
		} else if imagen != "" && !validImagen(imagen) {
			errs = append(errs, "imagen must be a data:image/ URI or an http(s) URL")
		}
	}
	return len(errs) == 0, errs
}

func validImagen(s string) bool {
	return strings.HasPrefix(s, "data:image/") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://")
}

// CreateItem validates, normalizes and persists a new item.
func (s *Items) CreateItem(ctx context.Context, fields storage.Document) (*models.Item, error) {
	if ok, errs := s.ValidateItem(fields, false); !ok {
		return nil, newValidationError(errs)
	}

	doc := fields.Clone()
	trimStrings(doc)
	if _, exists := doc["components"]; !exists {
		doc["components"] = map[string]models.Component{}
	}

	item, err := storage.FromDocument[models.Item](doc)
	if err != nil {
		return nil, fmt.Errorf("decode item fields: %w", err)
	}
	return s.repo.Create(ctx, item)
}

// UpdateItem validates and normalizes a partial update. Fields the caller
// did not mention are left untouched by the merge semantics downstream.
func (s *Items) UpdateItem(ctx context.Context, id string, fields storage.Document) (*models.Item, error) {
	if ok, errs := s.ValidateItem(fields, true); !ok {
		return nil, newValidationError(errs)
	}
	doc := fields.Clone()
	trimStrings(doc)
	return s.repo.Update(ctx, id, doc)
}

// DeleteItem removes an item; a missing id reports false, never an error.
func (s *Items) DeleteItem(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

// GetAllItems lists every item.
func (s *Items) GetAllItems(ctx context.Context) ([]models.Item, error) {
	return s.repo.GetAll(ctx)
}

// GetItemByID fetches one item.
func (s *Items) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByTipo lists items of one kind.
func (s *Items) GetByTipo(ctx context.Context, tipo models.Tipo) ([]models.Item, error) {
	return s.repo.GetByTipo(ctx, tipo)
}

// GetPersonajes lists entities (everything that is not an arc).
func (s *Items) GetPersonajes(ctx context.Context) ([]models.Item, error) {
	return s.repo.GetPersonajes(ctx)
}

// GetArcos lists narrative arcs.
func (s *Items) GetArcos(ctx context.Context) ([]models.Item, error) {
	return s.repo.GetArcos(ctx)
}

// SearchItems matches a substring against nombre, descripcion and origen.
func (s *Items) SearchItems(ctx context.Context, query string) ([]models.Item, error) {
	return s.repo.Search(ctx, query)
}

// GetComponents returns an item's component map.
func (s *Items) GetComponents(ctx context.Context, itemID string) (map[string]models.Component, error) {
	return s.repo.GetComponents(ctx, itemID)
}

// AddComponent validates and attaches a component, returning its new id.
// The data payload's shape belongs to external configuration and is stored
// unchanged.
func (s *Items) AddComponent(ctx context.Context, itemID, compType string, data map[string]any) (string, error) {
	if strings.TrimSpace(compType) == "" {
		return "", newValidationError([]string{"component type is required"})
	}
	if data == nil {
		data = map[string]any{}
	}
	return s.repo.AddComponent(ctx, itemID, models.Component{Type: strings.TrimSpace(compType), Data: data})
}

// UpdateComponent replaces a component payload.
func (s *Items) UpdateComponent(ctx context.Context, itemID, compID, compType string, data map[string]any) error {
	if strings.TrimSpace(compType) == "" {
		return newValidationError([]string{"component type is required"})
	}
	if data == nil {
		data = map[string]any{}
	}
	return s.repo.UpdateComponent(ctx, itemID, compID, models.Component{Type: strings.TrimSpace(compType), Data: data})
}

// DeleteComponent removes a component by id.
func (s *Items) DeleteComponent(ctx context.Context, itemID, compID string) error {
	return s.repo.DeleteComponent(ctx, itemID, compID)
}

// DuplicateItem clones an item with a copy marker.
func (s *Items) DuplicateItem(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.Duplicate(ctx, id)
}

// Stats aggregates catalog counts.
func (s *Items) Stats(ctx context.Context) (*repository.ItemStats, error) {
	return s.repo.Stats(ctx)
}

// ExportAll wraps the collection in the interchange envelope.
func (s *Items) ExportAll(ctx context.Context) (*storage.Envelope, error) {
	return s.repo.Export(ctx)
}

// ImportAll validates every record with update semantics and commits
// all-or-nothing.
func (s *Items) ImportAll(ctx context.Context, payload json.RawMessage) error {
	return importAll(ctx, payload,
		func(doc storage.Document) []string {
			_, errs := s.ValidateItem(doc, true)
			return errs
		},
		s.repo.ReplaceAll,
	)
}

// Clear empties the collection.
func (s *Items) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Count returns the number of items.
func (s *Items) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
