// Package storage exports loaded assets into a Pebble database for tools that
// want random access without parsing shards.
package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/pxlassets/pkg/codec"
	"github.com/ssargent/pxlassets/pkg/pipeline"
)

const (
	assetPrefix = "asset/"
	metaPrefix  = "meta/"
	exportIDKey = "export/id"
)

// ErrNotFound is returned when a key has no exported entry
var ErrNotFound = errors.New("asset not found in export")

// AssetMeta is stored next to each exported payload
type AssetMeta struct {
	Key        string `yaml:"key"`
	Shard      string `yaml:"shard"`
	Type       string `yaml:"type"`
	Size       int    `yaml:"size"`
	Compressed bool   `yaml:"compressed"`
}

type ExportStorage struct {
	db *pebble.DB
}

func NewExportStorage(path string) (*ExportStorage, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &ExportStorage{db: db}, nil
}

// Export writes every entry of p in one batch and returns the export id.
// Keys are "asset/<shard>/<key>" for payloads and "meta/<shard>/<key>" for
// the YAML metadata.
func (s *ExportStorage) Export(p *pipeline.Pipeline) (ksuid.KSUID, int, error) {
	id := ksuid.New()
	batch := s.db.NewBatch()
	defer batch.Close()

	count := 0
	for _, shardID := range p.Shards() {
		db, _ := p.Database(shardID)
		for _, e := range db.Iter() {
			meta, err := yaml.Marshal(AssetMeta{
				Key:        e.Key(),
				Shard:      shardID,
				Type:       e.Type().String(),
				Size:       len(e.Payload()),
				Compressed: e.Compressed(),
			})
			if err != nil {
				return ksuid.Nil, 0, fmt.Errorf("failed to marshal metadata of %q: %w", e.Key(), err)
			}

			name := shardID + "/" + e.Key()
			if err := batch.Set([]byte(assetPrefix+name), e.Payload(), nil); err != nil {
				return ksuid.Nil, 0, err
			}
			if err := batch.Set([]byte(metaPrefix+name), meta, nil); err != nil {
				return ksuid.Nil, 0, err
			}
			count++
		}
	}

	if err := batch.Set([]byte(exportIDKey), id.Bytes(), nil); err != nil {
		return ksuid.Nil, 0, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, 0, fmt.Errorf("failed to commit export: %w", err)
	}

	return id, count, nil
}

// ExportID returns the id of the last export
func (s *ExportStorage) ExportID() (ksuid.KSUID, error) {
	data, closer, err := s.db.Get([]byte(exportIDKey))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ksuid.Nil, ErrNotFound
		}
		return ksuid.Nil, err
	}
	defer closer.Close()

	return ksuid.FromBytes(data)
}

// Read returns the exported entry stored under shard and key
func (s *ExportStorage) Read(shardID, key string) (codec.Entry, error) {
	name := shardID + "/" + key

	var meta AssetMeta
	if err := s.get(metaPrefix+name, func(data []byte) error {
		return yaml.Unmarshal(data, &meta)
	}); err != nil {
		return codec.Entry{}, err
	}

	typ, err := codec.ParseEntryType(meta.Type)
	if err != nil {
		return codec.Entry{}, err
	}

	var payload []byte
	if err := s.get(assetPrefix+name, func(data []byte) error {
		payload = append([]byte(nil), data...)
		return nil
	}); err != nil {
		return codec.Entry{}, err
	}

	return codec.NewEntry(typ, meta.Key, meta.Compressed, payload), nil
}

// List returns the metadata of every exported entry in key order
func (s *ExportStorage) List() ([]AssetMeta, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(metaPrefix),
		UpperBound: []byte("meta0"), // '0' follows '/'
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var metas []AssetMeta
	for iter.First(); iter.Valid(); iter.Next() {
		var m AssetMeta
		if err := yaml.Unmarshal(iter.Value(), &m); err != nil {
			return nil, fmt.Errorf("corrupt metadata at %s: %w", iter.Key(), err)
		}
		metas = append(metas, m)
	}

	return metas, iter.Error()
}

func (s *ExportStorage) get(key string, fn func([]byte) error) error {
	data, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return err
	}
	defer closer.Close()

	return fn(data)
}

func (s *ExportStorage) Close() error {
	return s.db.Close()
}
