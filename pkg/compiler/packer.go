package compiler

import (
	"fmt"

	"github.com/ssargent/pxlassets/pkg/codec"
	"github.com/ssargent/pxlassets/pkg/shard"
)

// Packer places entries into shards. Only the last shard is ever a target:
// when an entry does not fit there a new shard is opened, and earlier shards
// are never revisited even if they have room left.
type Packer struct {
	shards   []*shard.Database
	capacity int
}

// NewPacker creates a packer holding one empty shard of the given capacity
func NewPacker(capacity int) *Packer {
	return &Packer{
		shards:   []*shard.Database{shard.NewDatabaseWithCapacity(capacity)},
		capacity: capacity,
	}
}

// Add places e and returns the index of the shard it went to
func (p *Packer) Add(e codec.Entry) (int, error) {
	if len(e.Payload()) >= p.capacity {
		return 0, fmt.Errorf("%w: %q is %d bytes, shard capacity is %d",
			ErrAssetTooLarge, e.Key(), len(e.Payload()), p.capacity)
	}

	current := len(p.shards) - 1
	if !p.shards[current].DoesFit(e) {
		p.shards = append(p.shards, shard.NewDatabaseWithCapacity(p.capacity))
		current++
	}

	if err := p.shards[current].PushEntry(e); err != nil {
		return 0, err
	}

	return current, nil
}

// Shards returns the shards built so far
func (p *Packer) Shards() []*shard.Database {
	return p.shards
}
