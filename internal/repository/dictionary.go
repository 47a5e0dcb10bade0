package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

// Dictionary is the repository for word categories.
type Dictionary struct {
	passthrough
}

// NewDictionary builds the dictionary repository over the given collection.
func NewDictionary(col storage.Collection) *Dictionary {
	return &Dictionary{passthrough{col: col}}
}

// GetAll returns every category in stored order.
func (r *Dictionary) GetAll(ctx context.Context) ([]models.DictionaryCategory, error) {
	docs, err := r.col.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := storage.DecodeAll[models.DictionaryCategory](docs)
	if err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	for i := range cats {
		if cats[i].Words == nil {
			cats[i].Words = []string{}
		}
	}
	return cats, nil
}

// GetByID returns the category with the given id.
func (r *Dictionary) GetByID(ctx context.Context, id string) (*models.DictionaryCategory, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cat, err := storage.FromDocument[models.DictionaryCategory](doc)
	if err != nil {
		return nil, fmt.Errorf("decode category %q: %w", id, err)
	}
	if cat.Words == nil {
		cat.Words = []string{}
	}
	return &cat, nil
}

// GetByName returns the category whose name matches case-insensitively,
// or nil when absent.
func (r *Dictionary) GetByName(ctx context.Context, name string) (*models.DictionaryCategory, error) {
	cats, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if strings.EqualFold(cats[i].Name, name) {
			return &cats[i], nil
		}
	}
	return nil, nil
}

// Create persists a new category.
func (r *Dictionary) Create(ctx context.Context, cat models.DictionaryCategory) (*models.DictionaryCategory, error) {
	if cat.Words == nil {
		cat.Words = []string{}
	}
	doc, err := storage.ToDocument(cat)
	if err != nil {
		return nil, err
	}
	created, err := r.col.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	out, err := storage.FromDocument[models.DictionaryCategory](created)
	if err != nil {
		return nil, fmt.Errorf("decode created category: %w", err)
	}
	return &out, nil
}

// Update merges the given fields over the stored category.
func (r *Dictionary) Update(ctx context.Context, id string, fields storage.Document) (*models.DictionaryCategory, error) {
	doc, err := r.col.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	cat, err := storage.FromDocument[models.DictionaryCategory](doc)
	if err != nil {
		return nil, fmt.Errorf("decode updated category: %w", err)
	}
	return &cat, nil
}

// AddWord appends a word to the category.
func (r *Dictionary) AddWord(ctx context.Context, catID, word string) (*models.DictionaryCategory, error) {
	cat, err := r.GetByID(ctx, catID)
	if err != nil {
		return nil, err
	}
	cat.Words = append(cat.Words, word)
	return r.Update(ctx, catID, storage.Document{"words": cat.Words})
}

// UpdateWordAt replaces the word at the given index.
func (r *Dictionary) UpdateWordAt(ctx context.Context, catID string, index int, word string) (*models.DictionaryCategory, error) {
	cat, err := r.GetByID(ctx, catID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cat.Words) {
		return nil, &storage.RangeError{What: "word", Index: index, Length: len(cat.Words)}
	}
	cat.Words[index] = word
	return r.Update(ctx, catID, storage.Document{"words": cat.Words})
}

// RemoveWordAt removes the word at the given index.
func (r *Dictionary) RemoveWordAt(ctx context.Context, catID string, index int) (*models.DictionaryCategory, error) {
	cat, err := r.GetByID(ctx, catID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cat.Words) {
		return nil, &storage.RangeError{What: "word", Index: index, Length: len(cat.Words)}
	}
	cat.Words = append(cat.Words[:index], cat.Words[index+1:]...)
	return r.Update(ctx, catID, storage.Document{"words": cat.Words})
}

// RemoveWord removes the first word equal to the given value.
func (r *Dictionary) RemoveWord(ctx context.Context, catID, word string) (*models.DictionaryCategory, error) {
	cat, err := r.GetByID(ctx, catID)
	if err != nil {
		return nil, err
	}
	for i, w := range cat.Words {
		if w == word {
			cat.Words = append(cat.Words[:i], cat.Words[i+1:]...)
			return r.Update(ctx, catID, storage.Document{"words": cat.Words})
		}
	}
	return nil, storage.NewNotFound("word", word)
}

// Duplicate clones a category under a new id with a copy marker on the name.
func (r *Dictionary) Duplicate(ctx context.Context, id string) (*models.DictionaryCategory, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name, _ := doc["name"].(string)
	return r.DuplicateAs(ctx, id, name+strings.ToUpper(copyMarker))
}

// DuplicateAs clones a category under a new id and the given name.
func (r *Dictionary) DuplicateAs(ctx context.Context, id, name string) (*models.DictionaryCategory, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := doc.Clone()
	delete(clone, storage.FieldID)
	delete(clone, storage.FieldCreatedAt)
	delete(clone, storage.FieldUpdatedAt)
	clone["name"] = name
	created, err := r.col.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	cat, err := storage.FromDocument[models.DictionaryCategory](created)
	if err != nil {
		return nil, fmt.Errorf("decode duplicated category: %w", err)
	}
	return &cat, nil
}

// CategoryCount pairs a category name with its word count.
type CategoryCount struct {
	Name  string `json:"name"`
	Words int    `json:"words"`
}

// DictionaryStats aggregates dictionary counts.
type DictionaryStats struct {
	TotalCategories int             `json:"totalCategories"`
	TotalWords      int             `json:"totalWords"`
	AvgWordsPerCat  float64         `json:"avgWordsPerCategory"`
	TopCategories   []CategoryCount `json:"topCategories"`
}

// Stats computes dictionary statistics in memory. topN limits TopCategories.
func (r *Dictionary) Stats(ctx context.Context, topN int) (*DictionaryStats, error) {
	cats, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := &DictionaryStats{TotalCategories: len(cats)}
	counts := make([]CategoryCount, 0, len(cats))
	for i := range cats {
		n := len(cats[i].Words)
		stats.TotalWords += n
		counts = append(counts, CategoryCount{Name: cats[i].Name, Words: n})
	}
	if len(cats) > 0 {
		stats.AvgWordsPerCat = float64(stats.TotalWords) / float64(len(cats))
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Words > counts[j].Words })
	if topN > 0 && topN < len(counts) {
		counts = counts[:topN]
	}
	stats.TopCategories = counts
	return stats, nil
}

// RandomWords draws up to n distinct words uniformly without replacement.
// With category names given, only those categories contribute to the pool;
// names match case-insensitively. A non-positive n draws nothing.
func (r *Dictionary) RandomWords(ctx context.Context, n int, categories ...string) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	cats, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var pool []string
	for i := range cats {
		if len(categories) > 0 && !nameListed(cats[i].Name, categories) {
			continue
		}
		pool = append(pool, cats[i].Words...)
	}

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool, nil
}

// BuildPrompt joins random words into a comma-separated prompt string.
func (r *Dictionary) BuildPrompt(ctx context.Context, n int, categories ...string) (string, error) {
	words, err := r.RandomWords(ctx, n, categories...)
	if err != nil {
		return "", err
	}
	return strings.Join(words, ", "), nil
}

func nameListed(name string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(name, n) {
			return true
		}
	}
	return false
}
