package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/repository"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

func newSoundtrackService(t *testing.T) *Soundtrack {
	t.Helper()
	return NewSoundtrack(repository.NewSoundtrack(newTestCollection(t, storage.CollectionSoundtrack)))
}

func mustCreatePrompt(t *testing.T, svc *Soundtrack, fields storage.Document) *models.SoundtrackPrompt {
	t.Helper()
	prompt, err := svc.CreatePrompt(context.Background(), fields)
	require.NoError(t, err)
	return prompt
}

func TestSoundtrack_CreateDefaultsCollections(t *testing.T) {
	svc := newSoundtrackService(t)

	prompt := mustCreatePrompt(t, svc, storage.Document{"songTitle": "Tema de LACE"})
	assert.NotEmpty(t, prompt.ID)
	assert.NotNil(t, prompt.Tags)
	assert.NotNil(t, prompt.Estructura)
	assert.NotNil(t, prompt.CuePoints)
	assert.Nil(t, prompt.Calificacion, "a new prompt starts unrated")
}

func TestSoundtrack_LyricsBoundary(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)

	atLimit := strings.Repeat("a", models.MaxLyricsLen)
	_, err := svc.CreatePrompt(ctx, storage.Document{"songTitle": "A", "lyrics": atLimit})
	require.NoError(t, err)

	_, err = svc.CreatePrompt(ctx, storage.Document{"songTitle": "A", "lyrics": atLimit + "a"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "lyrics must not exceed 5000 characters")
}

func TestSoundtrack_StyleBoundaries(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)

	atLimit := strings.Repeat("s", models.MaxStyleDescriptionLen)
	_, err := svc.CreatePrompt(ctx, storage.Document{
		"songTitle":        "A",
		"styleDescription": atLimit,
		"excludedStyle":    atLimit,
	})
	require.NoError(t, err)

	_, err = svc.CreatePrompt(ctx, storage.Document{"songTitle": "A", "styleDescription": atLimit + "s"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "styleDescription must not exceed 1000 characters")

	_, err = svc.CreatePrompt(ctx, storage.Document{"songTitle": "A", "excludedStyle": atLimit + "s"})
	require.ErrorAs(t, err, &verr)
}

func TestSoundtrack_SongTitleBoundary(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)

	_, err := svc.CreatePrompt(ctx, storage.Document{"songTitle": strings.Repeat("t", models.MaxSongTitleLen+1)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "songTitle must not exceed 255 characters")
}

func TestSoundtrack_PercentageRanges(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)

	for _, v := range []int{0, 100} {
		_, err := svc.CreatePrompt(ctx, storage.Document{"songTitle": "A", "weirdness": v, "styleInfluence": v})
		assert.NoError(t, err, "value %d is inside the range", v)
	}

	var verr *ValidationError
	_, err := svc.CreatePrompt(ctx, storage.Document{"songTitle": "A", "weirdness": -1})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "weirdness must be an integer between 0 and 100")

	_, err = svc.CreatePrompt(ctx, storage.Document{"songTitle": "A", "styleInfluence": 101})
	require.ErrorAs(t, err, &verr)
}

func TestSoundtrack_CalificacionRange(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)

	_, err := svc.CreatePrompt(ctx, storage.Document{"songTitle": "A", "calificacion": nil})
	require.NoError(t, err, "null calificacion means unrated")

	_, err = svc.CreatePrompt(ctx, storage.Document{"songTitle": "B", "calificacion": 10})
	require.NoError(t, err)

	var verr *ValidationError
	_, err = svc.CreatePrompt(ctx, storage.Document{"songTitle": "C", "calificacion": 0})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreatePrompt(ctx, storage.Document{"songTitle": "C", "calificacion": 11})
	require.ErrorAs(t, err, &verr)
}

func TestSoundtrack_RatePrompt(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)
	prompt := mustCreatePrompt(t, svc, storage.Document{"songTitle": "Tema de LACE"})

	rated, err := svc.RatePrompt(ctx, prompt.ID, 8)
	require.NoError(t, err)
	require.NotNil(t, rated.Calificacion)
	assert.Equal(t, 8, *rated.Calificacion)

	_, err = svc.RatePrompt(ctx, prompt.ID, 11)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSoundtrack_CreateDedupesTags(t *testing.T) {
	svc := newSoundtrackService(t)

	prompt := mustCreatePrompt(t, svc, storage.Document{
		"songTitle": "Tema de LACE",
		"tags":      []any{" épica ", "Épica", "ambient"},
	})
	assert.Equal(t, []string{"épica", "ambient"}, prompt.Tags)
}

func TestSoundtrack_AddSectionValidation(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)
	prompt := mustCreatePrompt(t, svc, storage.Document{"songTitle": "Tema de LACE"})

	_, err := svc.AddSection(ctx, prompt.ID, models.Section{Nombre: "", Inicio: ""})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)

	updated, err := svc.AddSection(ctx, prompt.ID, models.Section{Nombre: "intro", Inicio: "0:00", Fin: "0:15"})
	require.NoError(t, err)
	require.Len(t, updated.Estructura, 1)
}

func TestSoundtrack_AddCuePointValidation(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)
	prompt := mustCreatePrompt(t, svc, storage.Document{"songTitle": "Tema de LACE"})

	_, err := svc.AddCuePoint(ctx, prompt.ID, models.CuePoint{Tiempo: " "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	updated, err := svc.AddCuePoint(ctx, prompt.ID, models.CuePoint{Tiempo: "1:30", Etiqueta: "drop"})
	require.NoError(t, err)
	require.Len(t, updated.CuePoints, 1)
}

func TestSoundtrack_ImportValidatesEveryRecord(t *testing.T) {
	ctx := context.Background()
	svc := newSoundtrackService(t)

	err := svc.ImportAll(ctx, []byte(`[{"songTitle":"A"},{"songTitle":"B","weirdness":200}]`))
	var importErr *storage.ImportError
	require.ErrorAs(t, err, &importErr)
	require.Len(t, importErr.Issues, 1)
	assert.Equal(t, 1, importErr.Issues[0].Index)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
