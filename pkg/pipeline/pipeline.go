// Package pipeline loads compiled shards at startup and resolves assets by key.
package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"

	"github.com/ssargent/pxlassets/pkg/codec"
	"github.com/ssargent/pxlassets/pkg/shard"
)

// DefaultPattern matches the shards written by the compile command
const DefaultPattern = "assets-*.pxl"

// Pipeline holds every loaded shard. It is read-only once New returns.
type Pipeline struct {
	order  []string
	shards map[string]*shard.Database
}

// Stats summarizes what a pipeline has loaded
type Stats struct {
	Shards     int            `json:"shards" yaml:"shards"`
	Entries    int            `json:"entries" yaml:"entries"`
	TotalBytes int64          `json:"total_bytes" yaml:"total_bytes"`
	ByType     map[string]int `json:"by_type" yaml:"by_type"`
}

// Option configures New
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used while loading shards. It defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New loads every shard file matching pattern. Shards are visited in lexical
// order of their path; the first one that fails to load aborts the pipeline.
func New(pattern string, opts ...Option) (*Pipeline, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid shard pattern %q: %w", pattern, err)
	}
	sort.Strings(paths)

	p := &Pipeline{shards: make(map[string]*shard.Database, len(paths))}
	for _, path := range paths {
		id := filepath.Base(path)
		if _, dup := p.shards[id]; dup {
			id = path
		}

		start := time.Now()
		o.logger.Info("Loading shard", "file", id)

		db, err := shard.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load shard: %w", err)
		}

		o.logger.Info("Loaded shard",
			"file", id,
			"entries", db.Len(),
			"size", humanize.Bytes(uint64(db.TotalSize())),
			"took", time.Since(start))

		p.order = append(p.order, id)
		p.shards[id] = db
	}

	return p, nil
}

// FromDatabases builds a pipeline from shards already in memory. ids and dbs
// must line up.
func FromDatabases(ids []string, dbs []*shard.Database) (*Pipeline, error) {
	if len(ids) != len(dbs) {
		return nil, fmt.Errorf("need one id per shard: %d ids, %d shards", len(ids), len(dbs))
	}

	p := &Pipeline{shards: make(map[string]*shard.Database, len(ids))}
	for i, id := range ids {
		if _, dup := p.shards[id]; dup {
			return nil, fmt.Errorf("duplicate shard id %q", id)
		}
		p.order = append(p.order, id)
		p.shards[id] = dbs[i]
	}

	return p, nil
}

// Search returns the first entry with key, looking at shards in load order
func (p *Pipeline) Search(key string) (codec.Entry, bool) {
	for _, id := range p.order {
		if e, ok := p.shards[id].GetEntry(key); ok {
			return e, true
		}
	}
	return codec.Entry{}, false
}

// Locate is Search that also reports which shard the entry came from
func (p *Pipeline) Locate(key string) (string, codec.Entry, bool) {
	for _, id := range p.order {
		if e, ok := p.shards[id].GetEntry(key); ok {
			return id, e, true
		}
	}
	return "", codec.Entry{}, false
}

// AllEntries returns every entry of every shard in load order
func (p *Pipeline) AllEntries() []codec.Entry {
	var entries []codec.Entry
	for _, db := range p.AllDatabases() {
		for _, e := range db.Iter() {
			entries = append(entries, e)
		}
	}
	return entries
}

// AllDatabases returns the loaded shards in load order
func (p *Pipeline) AllDatabases() []*shard.Database {
	dbs := make([]*shard.Database, 0, len(p.order))
	for _, id := range p.order {
		dbs = append(dbs, p.shards[id])
	}
	return dbs
}

// Shards returns the shard ids in load order
func (p *Pipeline) Shards() []string {
	return append([]string(nil), p.order...)
}

// Database returns the shard loaded under id
func (p *Pipeline) Database(id string) (*shard.Database, bool) {
	db, ok := p.shards[id]
	return db, ok
}

// Stats counts shards, entries and resident bytes
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Shards: len(p.order),
		ByType: map[string]int{},
	}
	for _, db := range p.AllDatabases() {
		s.Entries += db.Len()
		s.TotalBytes += int64(db.TotalSize())
		for _, e := range db.Iter() {
			s.ByType[e.Type().String()]++
		}
	}
	return s
}
