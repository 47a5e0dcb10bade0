package repository

import (
	"context"
	"fmt"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

// Items is the repository for catalog items (entities and narrative arcs).
type Items struct {
	passthrough
}

// NewItems builds the items repository over the given collection.
func NewItems(col storage.Collection) *Items {
	return &Items{passthrough{col: col}}
}

// GetAll returns every item in stored order.
func (r *Items) GetAll(ctx context.Context) ([]models.Item, error) {
	docs, err := r.col.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := storage.DecodeAll[models.Item](docs)
	if err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	for i := range items {
		ensureComponents(&items[i])
	}
	return items, nil
}

// GetByID returns the item with the given id.
func (r *Items) GetByID(ctx context.Context, id string) (*models.Item, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := storage.FromDocument[models.Item](doc)
	if err != nil {
		return nil, fmt.Errorf("decode item %q: %w", id, err)
	}
	ensureComponents(&item)
	return &item, nil
}

// Create persists a new item. Components is forced to a map when absent.
func (r *Items) Create(ctx context.Context, item models.Item) (*models.Item, error) {
	ensureComponents(&item)
	doc, err := storage.ToDocument(item)
	if err != nil {
		return nil, err
	}
	created, err := r.col.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	out, err := storage.FromDocument[models.Item](created)
	if err != nil {
		return nil, fmt.Errorf("decode created item: %w", err)
	}
	return &out, nil
}

// Update merges the given fields over the stored item.
func (r *Items) Update(ctx context.Context, id string, fields storage.Document) (*models.Item, error) {
	doc, err := r.col.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	item, err := storage.FromDocument[models.Item](doc)
	if err != nil {
		return nil, fmt.Errorf("decode updated item: %w", err)
	}
	ensureComponents(&item)
	return &item, nil
}

// GetByTipo returns items of one kind.
func (r *Items) GetByTipo(ctx context.Context, tipo models.Tipo) ([]models.Item, error) {
	return r.filter(ctx, func(it *models.Item) bool { return it.Tipo == tipo })
}

// GetPersonajes returns every item that is not a narrative arc.
func (r *Items) GetPersonajes(ctx context.Context) ([]models.Item, error) {
	return r.filter(ctx, func(it *models.Item) bool { return !it.IsArco() })
}

// GetArcos returns the narrative arcs.
func (r *Items) GetArcos(ctx context.Context) ([]models.Item, error) {
	return r.filter(ctx, func(it *models.Item) bool { return it.IsArco() })
}

// Search matches a case-insensitive substring against nombre, descripcion
// and origen.
func (r *Items) Search(ctx context.Context, query string) ([]models.Item, error) {
	return r.filter(ctx, func(it *models.Item) bool {
		return containsFold(it.Nombre, query) ||
			containsFold(it.Descripcion, query) ||
			containsFold(it.Origen, query)
	})
}

func (r *Items) filter(ctx context.Context, keep func(*models.Item) bool) ([]models.Item, error) {
	items, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Item, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// GetComponents returns the component map of an item.
func (r *Items) GetComponents(ctx context.Context, itemID string) (map[string]models.Component, error) {
	item, err := r.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return item.Components, nil
}

// AddComponent attaches a component under a freshly generated id and
// returns that id.
func (r *Items) AddComponent(ctx context.Context, itemID string, comp models.Component) (string, error) {
	item, err := r.GetByID(ctx, itemID)
	if err != nil {
		return "", err
	}
	compID := storage.NewID()
	item.Components[compID] = comp
	if _, err := r.col.Update(ctx, itemID, storage.Document{"components": item.Components}); err != nil {
		return "", err
	}
	return compID, nil
}

// UpdateComponent replaces the component stored under compID.
func (r *Items) UpdateComponent(ctx context.Context, itemID, compID string, comp models.Component) error {
	item, err := r.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if _, ok := item.Components[compID]; !ok {
		return storage.NewNotFound("component", compID)
	}
	item.Components[compID] = comp
	_, err = r.col.Update(ctx, itemID, storage.Document{"components": item.Components})
	return err
}

// DeleteComponent removes the component stored under compID.
func (r *Items) DeleteComponent(ctx context.Context, itemID, compID string) error {
	item, err := r.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if _, ok := item.Components[compID]; !ok {
		return storage.NewNotFound("component", compID)
	}
	delete(item.Components, compID)
	_, err = r.col.Update(ctx, itemID, storage.Document{"components": item.Components})
	return err
}

// Duplicate clones an item under a new id with a copy marker on the name.
// The clone is decoded fresh from storage, so nested structures never alias
// the source record.
func (r *Items) Duplicate(ctx context.Context, id string) (*models.Item, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := doc.Clone()
	delete(clone, storage.FieldID)
	delete(clone, storage.FieldCreatedAt)
	delete(clone, storage.FieldUpdatedAt)
	if nombre, ok := clone["nombre"].(string); ok {
		clone["nombre"] = nombre + copyMarker
	}
	created, err := r.col.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	item, err := storage.FromDocument[models.Item](created)
	if err != nil {
		return nil, fmt.Errorf("decode duplicated item: %w", err)
	}
	ensureComponents(&item)
	return &item, nil
}

// ItemStats aggregates catalog counts.
type ItemStats struct {
	Total      int                 `json:"total"`
	PorTipo    map[models.Tipo]int `json:"porTipo"`
	Personajes int                 `json:"personajes"`
	Arcos      int                 `json:"arcos"`
	ConImagen  int                 `json:"conImagen"`
}

// Stats computes catalog statistics in memory.
func (r *Items) Stats(ctx context.Context) (*ItemStats, error) {
	items, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := &ItemStats{Total: len(items), PorTipo: make(map[models.Tipo]int)}
	for i := range items {
		it := &items[i]
		stats.PorTipo[it.Tipo]++
		if it.IsArco() {
			stats.Arcos++
		} else {
			stats.Personajes++
		}
		if it.Imagen != "" {
			stats.ConImagen++
		}
	}
	return stats, nil
}

// ensureComponents keeps the structural invariant that components is always
// a map, even for records stored before the field existed.
func ensureComponents(item *models.Item) {
	if item.Components == nil {
		item.Components = map[string]models.Component{}
	}
}
