package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

// Soundtrack is the repository for song-generation prompts.
type Soundtrack struct {
	passthrough
}

// NewSoundtrack builds the soundtrack repository over the given collection.
func NewSoundtrack(col storage.Collection) *Soundtrack {
	return &Soundtrack{passthrough{col: col}}
}

// GetAll returns every prompt in stored order.
func (r *Soundtrack) GetAll(ctx context.Context) ([]models.SoundtrackPrompt, error) {
	docs, err := r.col.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	prompts, err := storage.DecodeAll[models.SoundtrackPrompt](docs)
	if err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}
	for i := range prompts {
		ensureSlices(&prompts[i])
	}
	return prompts, nil
}

// GetByID returns the prompt with the given id.
func (r *Soundtrack) GetByID(ctx context.Context, id string) (*models.SoundtrackPrompt, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prompt, err := storage.FromDocument[models.SoundtrackPrompt](doc)
	if err != nil {
		return nil, fmt.Errorf("decode prompt %q: %w", id, err)
	}
	ensureSlices(&prompt)
	return &prompt, nil
}

// Create persists a new prompt.
func (r *Soundtrack) Create(ctx context.Context, prompt models.SoundtrackPrompt) (*models.SoundtrackPrompt, error) {
	ensureSlices(&prompt)
	doc, err := storage.ToDocument(prompt)
	if err != nil {
		return nil, err
	}
	created, err := r.col.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	out, err := storage.FromDocument[models.SoundtrackPrompt](created)
	if err != nil {
		return nil, fmt.Errorf("decode created prompt: %w", err)
	}
	return &out, nil
}

// Update merges the given fields over the stored prompt.
func (r *Soundtrack) Update(ctx context.Context, id string, fields storage.Document) (*models.SoundtrackPrompt, error) {
	doc, err := r.col.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	prompt, err := storage.FromDocument[models.SoundtrackPrompt](doc)
	if err != nil {
		return nil, fmt.Errorf("decode updated prompt: %w", err)
	}
	ensureSlices(&prompt)
	return &prompt, nil
}

// Search matches a case-insensitive substring against songTitle,
// styleDescription and momento.
func (r *Soundtrack) Search(ctx context.Context, query string) ([]models.SoundtrackPrompt, error) {
	prompts, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SoundtrackPrompt, 0, len(prompts))
	for i := range prompts {
		p := &prompts[i]
		if containsFold(p.SongTitle, query) || containsFold(p.StyleDescription, query) || containsFold(p.Momento, query) {
			out = append(out, prompts[i])
		}
	}
	return out, nil
}

// GetByMomento returns prompts for one narrative moment (case-insensitive).
func (r *Soundtrack) GetByMomento(ctx context.Context, momento string) ([]models.SoundtrackPrompt, error) {
	prompts, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SoundtrackPrompt, 0, len(prompts))
	for i := range prompts {
		if strings.EqualFold(prompts[i].Momento, momento) {
			out = append(out, prompts[i])
		}
	}
	return out, nil
}

// AddSection appends a section to the song structure.
func (r *Soundtrack) AddSection(ctx context.Context, id string, section models.Section) (*models.SoundtrackPrompt, error) {
	prompt, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prompt.Estructura = append(prompt.Estructura, section)
	return r.Update(ctx, id, storage.Document{"estructura": prompt.Estructura})
}

// RemoveSectionAt removes the section at the given index.
func (r *Soundtrack) RemoveSectionAt(ctx context.Context, id string, index int) (*models.SoundtrackPrompt, error) {
	prompt, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(prompt.Estructura) {
		return nil, &storage.RangeError{What: "section", Index: index, Length: len(prompt.Estructura)}
	}
	prompt.Estructura = append(prompt.Estructura[:index], prompt.Estructura[index+1:]...)
	return r.Update(ctx, id, storage.Document{"estructura": prompt.Estructura})
}

// AddCuePoint appends a cue point marker.
func (r *Soundtrack) AddCuePoint(ctx context.Context, id string, cue models.CuePoint) (*models.SoundtrackPrompt, error) {
	prompt, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prompt.CuePoints = append(prompt.CuePoints, cue)
	return r.Update(ctx, id, storage.Document{"cuePoints": prompt.CuePoints})
}

// RemoveCuePointAt removes the cue point at the given index.
func (r *Soundtrack) RemoveCuePointAt(ctx context.Context, id string, index int) (*models.SoundtrackPrompt, error) {
	prompt, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(prompt.CuePoints) {
		return nil, &storage.RangeError{What: "cue point", Index: index, Length: len(prompt.CuePoints)}
	}
	prompt.CuePoints = append(prompt.CuePoints[:index], prompt.CuePoints[index+1:]...)
	return r.Update(ctx, id, storage.Document{"cuePoints": prompt.CuePoints})
}

// Duplicate clones a prompt under a new id with a copy marker on the title.
func (r *Soundtrack) Duplicate(ctx context.Context, id string) (*models.SoundtrackPrompt, error) {
	doc, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	clone := doc.Clone()
	delete(clone, storage.FieldID)
	delete(clone, storage.FieldCreatedAt)
	delete(clone, storage.FieldUpdatedAt)
	if title, ok := clone["songTitle"].(string); ok {
		clone["songTitle"] = title + copyMarker
	}
	created, err := r.col.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	prompt, err := storage.FromDocument[models.SoundtrackPrompt](created)
	if err != nil {
		return nil, fmt.Errorf("decode duplicated prompt: %w", err)
	}
	ensureSlices(&prompt)
	return &prompt, nil
}

// SoundtrackStats aggregates prompt statistics.
type SoundtrackStats struct {
	Total             int        `json:"total"`
	Rated             int        `json:"rated"`
	AvgWeirdness      float64    `json:"avgWeirdness"`
	AvgStyleInfluence float64    `json:"avgStyleInfluence"`
	AvgCalificacion   float64    `json:"avgCalificacion"`
	TopTags           []TagCount `json:"topTags"`
}

// Stats computes prompt statistics in memory; averages over rated prompts
// only for calificacion. topN limits TopTags.
func (r *Soundtrack) Stats(ctx context.Context, topN int) (*SoundtrackStats, error) {
	prompts, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := &SoundtrackStats{Total: len(prompts)}
	usage := make(map[string]int)
	var weirdSum, styleSum, ratingSum int
	for i := range prompts {
		p := &prompts[i]
		weirdSum += p.Weirdness
		styleSum += p.StyleInfluence
		if p.Calificacion != nil {
			stats.Rated++
			ratingSum += *p.Calificacion
		}
		for _, t := range p.Tags {
			usage[t]++
		}
	}
	if stats.Total > 0 {
		stats.AvgWeirdness = float64(weirdSum) / float64(stats.Total)
		stats.AvgStyleInfluence = float64(styleSum) / float64(stats.Total)
	}
	if stats.Rated > 0 {
		stats.AvgCalificacion = float64(ratingSum) / float64(stats.Rated)
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
	stats.TopTags = counts
	return stats, nil
}

func ensureSlices(p *models.SoundtrackPrompt) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Estructura == nil {
		p.Estructura = []models.Section{}
	}
	if p.CuePoints == nil {
		p.CuePoints = []models.CuePoint{}
	}
}
