package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

func newNotebookRepo(t *testing.T) *Notebook {
	t.Helper()
	return NewNotebook(newTestCollection(t, storage.CollectionNotebook))
}

func createPage(t *testing.T, repo *Notebook, title string, tags ...string) *models.NotebookPage {
	t.Helper()
	page, err := repo.Create(context.Background(), models.NotebookPage{Title: title, Tags: tags})
	require.NoError(t, err)
	return page
}

func TestNotebook_CreateDefaultsTags(t *testing.T) {
	repo := newNotebookRepo(t)

	page := createPage(t, repo, "Primera entrada")
	assert.NotEmpty(t, page.ID)
	assert.NotNil(t, page.Tags)
	assert.Empty(t, page.Tags)
}

func TestNotebook_Search(t *testing.T) {
	ctx := context.Background()
	repo := newNotebookRepo(t)

	createPage(t, repo, "Sobre LACE-7", "personajes")
	_, err := repo.Create(ctx, models.NotebookPage{Title: "Notas sueltas", Content: "apunta a lace"})
	require.NoError(t, err)
	createPage(t, repo, "Otra cosa")

	found, err := repo.Search(ctx, "lace")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	byTag, err := repo.Search(ctx, "personajes")
	require.NoError(t, err)
	assert.Len(t, byTag, 1)
}

func TestNotebook_GetByTag(t *testing.T) {
	ctx := context.Background()
	repo := newNotebookRepo(t)

	createPage(t, repo, "A", "lore")
	createPage(t, repo, "B", "lore", "borrador")
	createPage(t, repo, "C")

	pages, err := repo.GetByTag(ctx, "LORE")
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestNotebook_TagOperations(t *testing.T) {
	ctx := context.Background()
	repo := newNotebookRepo(t)
	page := createPage(t, repo, "A", "lore")

	updated, err := repo.AddTag(ctx, page.ID, "borrador")
	require.NoError(t, err)
	assert.Equal(t, []string{"lore", "borrador"}, updated.Tags)

	updated, err = repo.RemoveTag(ctx, page.ID, "lore")
	require.NoError(t, err)
	assert.Equal(t, []string{"borrador"}, updated.Tags)

	_, err = repo.RemoveTag(ctx, page.ID, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	updated, err = repo.RemoveTagAt(ctx, page.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	_, err = repo.RemoveTagAt(ctx, page.ID, 0)
	var rangeErr *storage.RangeError
	assert.ErrorAs(t, err, &rangeErr)
}

func TestNotebook_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := newNotebookRepo(t)
	page := createPage(t, repo, "Cronología", "lore")

	clone, err := repo.Duplicate(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cronología (Copy)", clone.Title)
	assert.NotEqual(t, page.ID, clone.ID)
	assert.Equal(t, page.Tags, clone.Tags)
}

func TestNotebook_Stats(t *testing.T) {
	ctx := context.Background()
	repo := newNotebookRepo(t)

	createPage(t, repo, "A", "lore", "borrador")
	createPage(t, repo, "B", "lore")
	createPage(t, repo, "C")

	stats, err := repo.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPages)
	assert.Equal(t, 2, stats.DistinctTags)
	require.Len(t, stats.TopTags, 1)
	assert.Equal(t, TagCount{Tag: "lore", Pages: 2}, stats.TopTags[0])
}
