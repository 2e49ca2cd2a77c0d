package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/ssargent/pxlassets/pkg/codec"
)

// Server holds the asset browser state
type Server struct {
	source  AssetSource
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new asset browser over source
func NewServer(source AssetSource, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		source:  source,
		config:  config,
		metrics: metrics,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleListAssets lists every entry of every shard in load order. The
// optional "type" query parameter filters by entry type name and "q" by key
// prefix.
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")

	var typeFilter *codec.EntryType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := codec.ParseEntryType(raw)
		if err != nil {
			sendError(w, fmt.Sprintf("Unknown asset type %q", raw), http.StatusBadRequest)
			return
		}
		typeFilter = &t
	}

	assets := []AssetInfo{}
	for _, shardID := range s.source.Shards() {
		db, ok := s.source.Database(shardID)
		if !ok {
			continue
		}
		for _, e := range db.Iter() {
			if typeFilter != nil && e.Type() != *typeFilter {
				continue
			}
			if !strings.HasPrefix(e.Key(), prefix) {
				continue
			}
			assets = append(assets, assetInfo(shardID, e))
		}
	}

	sendSuccess(w, assets)
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	shardID, e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sendSuccess(w, assetInfo(shardID, e))
}

// handleRawAsset streams the decoded payload as stored in memory
func (s *Server) handleRawAsset(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(e.Payload())))
	w.Header().Set("X-Asset-Type", e.Type().String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(e.Payload())
}

// handleThumbnail renders a texture entry back to PNG
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	_, e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	img, err := codec.DecodeTexture(e)
	if err != nil {
		s.recordThumbnail(false)
		if errors.Is(err, codec.ErrTypeMismatch) {
			sendError(w, fmt.Sprintf("Asset %q is not a texture", e.Key()), http.StatusBadRequest)
			return
		}
		slog.Error("Failed to decode texture", "key", e.Key(), "error", err)
		sendError(w, "Failed to decode texture", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := codec.EncodePNG(&buf, img); err != nil {
		s.recordThumbnail(false)
		sendError(w, "Failed to encode thumbnail", http.StatusInternalServerError)
		return
	}

	s.recordThumbnail(true)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ShardInfo describes one loaded shard
type ShardInfo struct {
	ID        string `json:"id"`
	Entries   int    `json:"entries"`
	TotalSize int    `json:"total_size"`
	Capacity  int    `json:"capacity"`
}

func (s *Server) handleListShards(w http.ResponseWriter, r *http.Request) {
	shards := []ShardInfo{}
	for _, id := range s.source.Shards() {
		db, ok := s.source.Database(id)
		if !ok {
			continue
		}
		shards = append(shards, ShardInfo{
			ID:        id,
			Entries:   db.Len(),
			TotalSize: db.TotalSize(),
			Capacity:  db.Capacity(),
		})
	}
	sendSuccess(w, shards)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.source.Stats()
	if s.metrics != nil {
		s.metrics.UpdatePipelineStats(stats)
	}

	types := make([]string, 0, len(stats.ByType))
	for t := range stats.ByType {
		types = append(types, t)
	}
	sort.Strings(types)

	sendSuccess(w, map[string]interface{}{
		"shards":      stats.Shards,
		"entries":     stats.Entries,
		"total_bytes": stats.TotalBytes,
		"total_human": humanize.IBytes(uint64(stats.TotalBytes)),
		"by_type":     stats.ByType,
		"types":       types,
	})
}

// lookup resolves the {key} URL parameter, writing the error response itself
// when the key is missing.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, codec.Entry, bool) {
	key := chi.URLParam(r, "key")
	if key == "" {
		sendError(w, "Key is required", http.StatusBadRequest)
		return "", codec.Entry{}, false
	}

	shardID, e, found := s.source.Locate(key)
	if s.metrics != nil {
		s.metrics.RecordLookup(found)
	}
	if !found {
		sendError(w, fmt.Sprintf("Asset %q not found", key), http.StatusNotFound)
		return "", codec.Entry{}, false
	}
	return shardID, e, true
}

func (s *Server) recordThumbnail(success bool) {
	if s.metrics != nil {
		s.metrics.RecordThumbnail(success)
	}
}

func assetInfo(shardID string, e codec.Entry) AssetInfo {
	size := len(e.Payload())
	return AssetInfo{
		Key:        e.Key(),
		Type:       e.Type().String(),
		Shard:      shardID,
		Size:       size,
		SizeHuman:  humanize.IBytes(uint64(size)),
		Compressed: e.Compressed(),
	}
}
