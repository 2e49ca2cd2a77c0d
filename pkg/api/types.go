package api

import (
	"github.com/ssargent/pxlassets/pkg/codec"
	"github.com/ssargent/pxlassets/pkg/pipeline"
	"github.com/ssargent/pxlassets/pkg/shard"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AssetInfo describes one entry as shown by the browser
type AssetInfo struct {
	Key        string `json:"key"`
	Type       string `json:"type"`
	Shard      string `json:"shard"`
	Size       int    `json:"size"`
	SizeHuman  string `json:"size_human"`
	Compressed bool   `json:"compressed"`
}

// ServerConfig holds configuration for the asset browser
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string // Optional; when set every /api/v1 route requires it
}

// AssetSource is the read-only view of a loaded pipeline the browser needs
type AssetSource interface {
	Locate(key string) (string, codec.Entry, bool)
	Shards() []string
	Database(id string) (*shard.Database, bool)
	Stats() pipeline.Stats
}
