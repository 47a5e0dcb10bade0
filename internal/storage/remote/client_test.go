package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmiralles/lorekeeper/internal/storage"
)

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL, storage.CollectionItems, time.Second)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestClient_Ping_Unavailable(t *testing.T) {
	client := New("http://127.0.0.1:1", storage.CollectionItems, 200*time.Millisecond)
	assert.Error(t, client.Ping(context.Background()))
}

func TestClient_GetAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/universe_items", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[{"id":"1","nombre":"A"}]`))
	}))
	defer srv.Close()

	client := New(srv.URL, storage.CollectionItems, time.Second)
	docs, err := client.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "A", docs[0]["nombre"])
}

func TestClient_Create_NotFoundMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, storage.CollectionItems, time.Second)
	_, err := client.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClient_Delete_ReportsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = w.Write([]byte(`{"deleted":false}`))
	}))
	defer srv.Close()

	client := New(srv.URL, storage.CollectionItems, time.Second)
	removed, err := client.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestClient_Count(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/collections/universe_items/count", r.URL.Path)
		_, _ = w.Write([]byte(`{"count":7}`))
	}))
	defer srv.Close()

	client := New(srv.URL, storage.CollectionItems, time.Second)
	count, err := client.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal","message":"boom"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, storage.CollectionItems, time.Second)
	_, err := client.GetAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_SoundtrackCreate_UsesWireCasing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var wire map[string]any
		require.NoError(t, json.Unmarshal(body, &wire))
		assert.Contains(t, wire, "song_title")
		assert.NotContains(t, wire, "songTitle")

		_, _ = w.Write([]byte(`{"id":"1","song_title":"Tema de LACE","style_influence":40}`))
	}))
	defer srv.Close()

	client := New(srv.URL, storage.CollectionSoundtrack, time.Second)
	doc, err := client.Create(context.Background(), storage.Document{"songTitle": "Tema de LACE"})
	require.NoError(t, err)
	assert.Equal(t, "Tema de LACE", doc["songTitle"])
	assert.Equal(t, float64(40), doc["styleInfluence"])
	assert.NotContains(t, doc, "song_title")
}

func TestWireRename_RoundTrip(t *testing.T) {
	doc := storage.Document{
		"songTitle":      "A",
		"cuePoints":      []any{},
		"weirdness":      10,
		"calificacion":   5,
		"styleInfluence": 20,
	}
	back := fromWire(storage.CollectionSoundtrack, toWire(storage.CollectionSoundtrack, doc))
	assert.Equal(t, doc, back)
}
