package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

func newSoundtrackRepo(t *testing.T) *Soundtrack {
	t.Helper()
	return NewSoundtrack(newTestCollection(t, storage.CollectionSoundtrack))
}

func createPrompt(t *testing.T, repo *Soundtrack, prompt models.SoundtrackPrompt) *models.SoundtrackPrompt {
	t.Helper()
	created, err := repo.Create(context.Background(), prompt)
	require.NoError(t, err)
	return created
}

func TestSoundtrack_CreateDefaultsSlices(t *testing.T) {
	repo := newSoundtrackRepo(t)

	prompt := createPrompt(t, repo, models.SoundtrackPrompt{SongTitle: "Tema de LACE"})
	assert.NotEmpty(t, prompt.ID)
	assert.NotNil(t, prompt.Tags)
	assert.NotNil(t, prompt.Estructura)
	assert.NotNil(t, prompt.CuePoints)
}

func TestSoundtrack_SearchAndMomento(t *testing.T) {
	ctx := context.Background()
	repo := newSoundtrackRepo(t)

	createPrompt(t, repo, models.SoundtrackPrompt{SongTitle: "Tema de LACE", Momento: "clímax"})
	createPrompt(t, repo, models.SoundtrackPrompt{SongTitle: "Interludio", StyleDescription: "ambient lace textures"})

	found, err := repo.Search(ctx, "lace")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	byMomento, err := repo.GetByMomento(ctx, "CLÍMAX")
	require.NoError(t, err)
	require.Len(t, byMomento, 1)
	assert.Equal(t, "Tema de LACE", byMomento[0].SongTitle)
}

func TestSoundtrack_SectionOperations(t *testing.T) {
	ctx := context.Background()
	repo := newSoundtrackRepo(t)
	prompt := createPrompt(t, repo, models.SoundtrackPrompt{SongTitle: "Tema de LACE"})

	updated, err := repo.AddSection(ctx, prompt.ID, models.Section{Nombre: "intro", Inicio: "0:00", Fin: "0:15"})
	require.NoError(t, err)
	require.Len(t, updated.Estructura, 1)
	assert.Equal(t, "intro", updated.Estructura[0].Nombre)

	updated, err = repo.RemoveSectionAt(ctx, prompt.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.Estructura)

	_, err = repo.RemoveSectionAt(ctx, prompt.ID, 0)
	var rangeErr *storage.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "section", rangeErr.What)
}

func TestSoundtrack_CuePointOperations(t *testing.T) {
	ctx := context.Background()
	repo := newSoundtrackRepo(t)
	prompt := createPrompt(t, repo, models.SoundtrackPrompt{SongTitle: "Tema de LACE"})

	updated, err := repo.AddCuePoint(ctx, prompt.ID, models.CuePoint{Tiempo: "0:42", Etiqueta: "drop"})
	require.NoError(t, err)
	require.Len(t, updated.CuePoints, 1)

	updated, err = repo.RemoveCuePointAt(ctx, prompt.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.CuePoints)

	_, err = repo.RemoveCuePointAt(ctx, prompt.ID, 3)
	var rangeErr *storage.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "cue point", rangeErr.What)
}

func TestSoundtrack_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := newSoundtrackRepo(t)
	prompt := createPrompt(t, repo, models.SoundtrackPrompt{SongTitle: "Tema de LACE", Weirdness: 30})

	clone, err := repo.Duplicate(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tema de LACE (Copy)", clone.SongTitle)
	assert.NotEqual(t, prompt.ID, clone.ID)
	assert.Equal(t, 30, clone.Weirdness)
}

func TestSoundtrack_Stats(t *testing.T) {
	ctx := context.Background()
	repo := newSoundtrackRepo(t)

	rating := 8
	createPrompt(t, repo, models.SoundtrackPrompt{
		SongTitle: "A", Weirdness: 20, StyleInfluence: 40,
		Calificacion: &rating, Tags: []string{"épica"},
	})
	createPrompt(t, repo, models.SoundtrackPrompt{
		SongTitle: "B", Weirdness: 60, StyleInfluence: 80,
		Tags: []string{"épica", "ambient"},
	})

	stats, err := repo.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Rated)
	assert.InDelta(t, 40.0, stats.AvgWeirdness, 1e-9)
	assert.InDelta(t, 60.0, stats.AvgStyleInfluence, 1e-9)
	assert.InDelta(t, 8.0, stats.AvgCalificacion, 1e-9)
	require.Len(t, stats.TopTags, 1)
	assert.Equal(t, "épica", stats.TopTags[0].Tag)
}
