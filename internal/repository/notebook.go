package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

// Notebook is the repository for notebook pages.
type Notebook struct {
	passthrough
}

// NewNotebook builds the notebook repository over the given collection.
func NewNotebook(col storage.Collection) *Notebook {
	return &Notebook{passthrough{col: col}}
}

// GetAll returns every page in stored order.
func (r *Notebook) GetAll(ctx context.Context) ([]models.NotebookPage, error) {
	docs, err := r.col.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := storage.DecodeAll[models.NotebookPage](docs)
	if err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	for i := range pages {
		if pages[i].Tags == nil {
			pages[i].Tags = []string{}
		}
	}
	return pages, nil
}

// GetByID returns the page with the given id.
func (r *Notebook) GetByID(ctx context.Context, id string) (*models.NotebookPage, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	page, err := storage.FromDocument[models.NotebookPage](doc)
	if err != nil {
		return nil, fmt.Errorf("decode page %q: %w", id, err)
	}
	if page.Tags == nil {
		page.Tags = []string{}
	}
	return &page, nil
}

// Create persists a new page.
func (r *Notebook) Create(ctx context.Context, page models.NotebookPage) (*models.NotebookPage, error) {
	if page.Tags == nil {
		page.Tags = []string{}
	}
	doc, err := storage.ToDocument(page)
	if err != nil {
		return nil, err
	}
	created, err := r.col.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	out, err := storage.FromDocument[models.NotebookPage](created)
	if err != nil {
		return nil, fmt.Errorf("decode created page: %w", err)
	}
	return &out, nil
}

// Update merges the given fields over the stored page.
func (r *Notebook) Update(ctx context.Context, id string, fields storage.Document) (*models.NotebookPage, error) {
	doc, err := r.col.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	page, err := storage.FromDocument[models.NotebookPage](doc)
	if err != nil {
		return nil, fmt.Errorf("decode updated page: %w", err)
	}
	return &page, nil
}

// Search matches a case-insensitive substring against title, content and
// tags.
func (r *Notebook) Search(ctx context.Context, query string) ([]models.NotebookPage, error) {
	pages, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.NotebookPage, 0, len(pages))
	for i := range pages {
		p := &pages[i]
		if containsFold(p.Title, query) || containsFold(p.Content, query) || tagMatches(p.Tags, query) {
			out = append(out, pages[i])
		}
	}
	return out, nil
}

// GetByTag returns pages carrying the tag (case-insensitive equality).
func (r *Notebook) GetByTag(ctx context.Context, tag string) ([]models.NotebookPage, error) {
	pages, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.NotebookPage, 0, len(pages))
	for i := range pages {
		for _, t := range pages[i].Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, pages[i])
				break
			}
		}
	}
	return out, nil
}

// AddTag appends a tag to the page.
func (r *Notebook) AddTag(ctx context.Context, pageID, tag string) (*models.NotebookPage, error) {
	page, err := r.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	page.Tags = append(page.Tags, tag)
	return r.Update(ctx, pageID, storage.Document{"tags": page.Tags})
}

// RemoveTag removes the first tag equal to the given value.
func (r *Notebook) RemoveTag(ctx context.Context, pageID, tag string) (*models.NotebookPage, error) {
	page, err := r.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	for i, t := range page.Tags {
		if t == tag {
			page.Tags = append(page.Tags[:i], page.Tags[i+1:]...)
			return r.Update(ctx, pageID, storage.Document{"tags": page.Tags})
		}
	}
	return nil, storage.NewNotFound("tag", tag)
}

// RemoveTagAt removes the tag at the given index.
func (r *Notebook) RemoveTagAt(ctx context.Context, pageID string, index int) (*models.NotebookPage, error) {
	page, err := r.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(page.Tags) {
		return nil, &storage.RangeError{What: "tag", Index: index, Length: len(page.Tags)}
	}
	page.Tags = append(page.Tags[:index], page.Tags[index+1:]...)
	return r.Update(ctx, pageID, storage.Document{"tags": page.Tags})
}

// Duplicate clones a page under a new id with a copy marker on the title.
func (r *Notebook) Duplicate(ctx context.Context, id string) (*models.NotebookPage, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := doc.Clone()
	delete(clone, storage.FieldID)
	delete(clone, storage.FieldCreatedAt)
	delete(clone, storage.FieldUpdatedAt)
	if title, ok := clone["title"].(string); ok {
		clone["title"] = title + copyMarker
	}
	created, err := r.col.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	page, err := storage.FromDocument[models.NotebookPage](created)
	if err != nil {
		return nil, fmt.Errorf("decode duplicated page: %w", err)
	}
	return &page, nil
}

// TagCount pairs a tag with the number of pages using it.
type TagCount struct {
	Tag   string `json:"tag"`
	Pages int    `json:"pages"`
}

// NotebookStats aggregates notebook counts.
type NotebookStats struct {
	TotalPages   int        `json:"totalPages"`
	DistinctTags int        `json:"distinctTags"`
	TopTags      []TagCount `json:"topTags"`
}

// Stats computes notebook statistics in memory. topN limits TopTags.
func (r *Notebook) Stats(ctx context.Context, topN int) (*NotebookStats, error) {
	pages, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	usage := make(map[string]int)
	for i := range pages {
		for _, t := range pages[i].Tags {
			usage[t]++
		}
	}
	counts := make([]TagCount, 0, len(usage))
	for tag, n := range usage {
		counts = append(counts, TagCount{Tag: tag, Pages: n})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Pages != counts[j].Pages {
			return counts[i].Pages > counts[j].Pages
		}
		return counts[i].Tag < counts[j].Tag
	})
	if topN > 0 && topN < len(counts) {
		counts = counts[:topN]
	}
	return &NotebookStats{
		TotalPages:   len(pages),
		DistinctTags: len(usage),
		TopTags:      counts,
	}, nil
}

func tagMatches(tags []string, query string) bool {
	for _, t := range tags {
		if containsFold(t, query) {
			return true
		}
	}
	return false
}
