package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmiralles/lorekeeper/internal/models"
	"github.com/pmiralles/lorekeeper/internal/repository"
	"github.com/pmiralles/lorekeeper/internal/storage"
)

func newItemsService(t *testing.T) *Items {
	t.Helper()
	return NewItems(repository.NewItems(newTestCollection(t, storage.CollectionItems)))
}

func TestItems_CreateAssignsMetadata(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	item, err := svc.CreateItem(ctx, storage.Document{"nombre": "LACE-7", "tipo": "lace"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	assert.NotNil(t, item.Components)
	assert.Empty(t, item.Components)
}

func TestItems_CreateRequiresFields(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	_, err := svc.CreateItem(ctx, storage.Document{"tipo": "lace"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "nombre is required")

	_, err = svc.CreateItem(ctx, storage.Document{"nombre": "X"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "tipo is required")
}

func TestItems_CreateRejectsUnknownTipo(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	_, err := svc.CreateItem(ctx, storage.Document{"nombre": "X", "tipo": "dragon"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestItems_ImagenFormat(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	for _, imagen := range []string{"data:image/png;base64,AAAA", "https://example.com/a.png", "http://example.com/a.png", ""} {
		_, err := svc.CreateItem(ctx, storage.Document{"nombre": "X", "tipo": "lace", "imagen": imagen})
		assert.NoError(t, err, "imagen %q should be accepted", imagen)
	}

	_, err := svc.CreateItem(ctx, storage.Document{"nombre": "X", "tipo": "lace", "imagen": "ftp://example.com/a.png"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateItem(ctx, storage.Document{"nombre": "X", "tipo": "lace", "imagen": 7})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "imagen must be a string")
}

func TestItems_UpdateSkipsRequiredChecks(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	item, err := svc.CreateItem(ctx, storage.Document{"nombre": "LACE-7", "tipo": "lace"})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, item.ID, storage.Document{"descripcion": "unidad de reconocimiento"})
	require.NoError(t, err)
	assert.Equal(t, "LACE-7", updated.Nombre, "unmentioned fields survive a partial update")
	assert.Equal(t, "unidad de reconocimiento", updated.Descripcion)

	_, err = svc.UpdateItem(ctx, item.ID, storage.Document{"tipo": "dragon"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr, "enumeration checks still apply on update")
}

func TestItems_UpdateRejectsBlankNombre(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	item, err := svc.CreateItem(ctx, storage.Document{"nombre": "LACE-7", "tipo": "lace"})
	require.NoError(t, err)

	var verr *ValidationError
	for _, nombre := range []any{"", "   ", 7} {
		_, err = svc.UpdateItem(ctx, item.ID, storage.Document{"nombre": nombre})
		require.ErrorAs(t, err, &verr, "nombre %v", nombre)
		assert.Contains(t, verr.Error(), "nombre cannot be empty")
	}

	stored, err := svc.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "LACE-7", stored.Nombre)
}

func TestItems_CreateTrimsStrings(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	item, err := svc.CreateItem(ctx, storage.Document{"nombre": "  LACE-7  ", "tipo": "lace"})
	require.NoError(t, err)
	assert.Equal(t, "LACE-7", item.Nombre)
}

func TestItems_AddComponentRequiresType(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	item, err := svc.CreateItem(ctx, storage.Document{"nombre": "LACE-7", "tipo": "lace"})
	require.NoError(t, err)

	_, err = svc.AddComponent(ctx, item.ID, "  ", nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	compID, err := svc.AddComponent(ctx, item.ID, "motivaciones", nil)
	require.NoError(t, err)

	comps, err := svc.GetComponents(ctx, item.ID)
	require.NoError(t, err)
	require.Contains(t, comps, compID)
	assert.NotNil(t, comps[compID].Data, "nil data is stored as an empty payload")
}

func TestItems_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	item, err := svc.CreateItem(ctx, storage.Document{"nombre": "LACE-7", "tipo": "lace"})
	require.NoError(t, err)

	removed, err := svc.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestItems_ImportRejectsInvalidRecordsWholesale(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	_, err := svc.CreateItem(ctx, storage.Document{"nombre": "Superviviente", "tipo": "personaje"})
	require.NoError(t, err)

	payload := []byte(`[{"nombre":"A","tipo":"lace"},{"nombre":"B","tipo":"dragon"}]`)
	err = svc.ImportAll(ctx, payload)
	var importErr *storage.ImportError
	require.ErrorAs(t, err, &importErr)
	require.Len(t, importErr.Issues, 1)
	assert.Equal(t, 1, importErr.Issues[0].Index)

	// The failed import must not have touched the stored data.
	items, err := svc.GetAllItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Superviviente", items[0].Nombre)
}

func TestItems_ImportReplacesCollection(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	_, err := svc.CreateItem(ctx, storage.Document{"nombre": "Viejo", "tipo": "personaje"})
	require.NoError(t, err)

	err = svc.ImportAll(ctx, []byte(`[{"nombre":"Nuevo","tipo":"arco"}]`))
	require.NoError(t, err)

	items, err := svc.GetAllItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Nuevo", items[0].Nombre)
	assert.Equal(t, models.TipoArco, items[0].Tipo)
	assert.NotEmpty(t, items[0].ID, "imported records without ids get fresh ones")
}

func TestItems_ExportEnvelope(t *testing.T) {
	ctx := context.Background()
	svc := newItemsService(t)

	_, err := svc.CreateItem(ctx, storage.Document{"nombre": "LACE-7", "tipo": "lace"})
	require.NoError(t, err)

	env, err := svc.ExportAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.ExportVersion, env.Version)
	assert.Equal(t, storage.CollectionItems, env.StorageKey)
	assert.Equal(t, 1, env.Count)
	assert.Len(t, env.Data, 1)
	assert.False(t, env.ExportDate.IsZero())
}
