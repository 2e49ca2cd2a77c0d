package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pxlassets/pkg/codec"
	"github.com/ssargent/pxlassets/pkg/pipeline"
	"github.com/ssargent/pxlassets/pkg/shard"
)

func testSource(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})

	db0 := shard.NewDatabase()
	require.NoError(t, db0.PushEntry(codec.EncodeTexture("world", img)))
	require.NoError(t, db0.PushEntry(codec.EncodeAudio("theme", []byte("OggS"))))
	db1 := shard.NewDatabase()
	require.NoError(t, db1.PushEntry(codec.EncodeTexture("wall", img)))

	p, err := pipeline.FromDatabases([]string{"assets-0000.pxl", "assets-0001.pxl"}, []*shard.Database{db0, db1})
	require.NoError(t, err)
	return p
}

func setupTestServer(t *testing.T, config ServerConfig) (*Server, *prometheus.Registry, http.Handler) {
	t.Helper()

	reg := prometheus.NewRegistry()
	server := NewServer(testSource(t), config, NewMetrics(reg))
	return server, reg, NewRouter(server, reg)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()

	resp := APIResponse{Data: data}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestServer_handleHealth(t *testing.T) {
	_, _, router := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var data map[string]string
	resp := decodeResponse(t, w, &data)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", data["status"])
}

func TestServer_handleListAssets(t *testing.T) {
	_, _, router := setupTestServer(t, ServerConfig{})

	tests := []struct {
		name  string
		query string
		keys  []string
	}{
		{"all", "", []string{"world", "theme", "wall"}},
		{"by type", "?type=Texture", []string{"world", "wall"}},
		{"by prefix", "?q=w", []string{"world", "wall"}},
		{"type and prefix", "?type=Audio&q=w", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/assets"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			require.Equal(t, http.StatusOK, w.Code)

			var assets []AssetInfo
			decodeResponse(t, w, &assets)

			keys := []string{}
			for _, a := range assets {
				keys = append(keys, a.Key)
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestServer_handleListAssets_BadType(t *testing.T) {
	_, _, router := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/api/v1/assets?type=Sprite", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w, nil)
	assert.False(t, resp.Success)
}

func TestServer_handleGetAsset(t *testing.T) {
	server, _, router := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/api/v1/assets/theme", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var info AssetInfo
	decodeResponse(t, w, &info)
	assert.Equal(t, AssetInfo{
		Key:        "theme",
		Type:       "Audio",
		Shard:      "assets-0000.pxl",
		Size:       4,
		SizeHuman:  "4 B",
		Compressed: false,
	}, info)

	req = httptest.NewRequest("GET", "/api/v1/assets/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(server.metrics.lookupsTotal.WithLabelValues(resultHit)))
	assert.Equal(t, float64(1), testutil.ToFloat64(server.metrics.lookupsTotal.WithLabelValues(resultMiss)))
}

func TestServer_handleGetAsset_DirectRouteContext(t *testing.T) {
	server, _, _ := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/assets/wall", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("key", "wall")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	server.handleGetAsset(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var info AssetInfo
	decodeResponse(t, w, &info)
	assert.Equal(t, "assets-0001.pxl", info.Shard)
	assert.True(t, info.Compressed)
}

func TestServer_handleRawAsset(t *testing.T) {
	_, _, router := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/api/v1/assets/theme/raw", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "Audio", w.Header().Get("X-Asset-Type"))
	assert.Equal(t, []byte("OggS"), w.Body.Bytes())
}

func TestServer_handleThumbnail(t *testing.T) {
	_, _, router := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/api/v1/assets/world/thumbnail", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	r, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)
}

func TestServer_handleThumbnail_Errors(t *testing.T) {
	_, _, router := setupTestServer(t, ServerConfig{})

	tests := []struct {
		name string
		path string
		code int
	}{
		{"not a texture", "/api/v1/assets/theme/thumbnail", http.StatusBadRequest},
		{"missing", "/api/v1/assets/missing/thumbnail", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestServer_handleListShards(t *testing.T) {
	_, _, router := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/api/v1/shards", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var shards []ShardInfo
	decodeResponse(t, w, &shards)
	require.Len(t, shards, 2)
	assert.Equal(t, "assets-0000.pxl", shards[0].ID)
	assert.Equal(t, 2, shards[0].Entries)
	assert.Equal(t, shard.MaxSize, shards[1].Capacity)
}

func TestServer_handleStats(t *testing.T) {
	server, _, router := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]interface{}
	decodeResponse(t, w, &data)
	assert.Equal(t, float64(2), data["shards"])
	assert.Equal(t, float64(3), data["entries"])

	assert.Equal(t, float64(3), testutil.ToFloat64(server.metrics.entriesLoaded))
	assert.Equal(t, float64(2), testutil.ToFloat64(server.metrics.entriesByTypeLoad.WithLabelValues("Texture")))
}
