package shard

import (
	"fmt"
	"iter"
	"slices"

	"github.com/ssargent/pxlassets/pkg/codec"
)

// Database is an ordered, size-bounded collection of entries
type Database struct {
	entries   []codec.Entry
	wire      [][]byte // compressed payloads, filled lazily by ToBytes
	totalSize int
	capacity  int
}

// NewDatabase creates an empty database with the default MaxSize capacity
func NewDatabase() *Database {
	return NewDatabaseWithCapacity(MaxSize)
}

// NewDatabaseWithCapacity creates an empty database bounded by capacity
// instead of MaxSize
func NewDatabaseWithCapacity(capacity int) *Database {
	return &Database{capacity: capacity}
}

// DoesFit reports whether e can be pushed without reaching the capacity
func (db *Database) DoesFit(e codec.Entry) bool {
	return db.totalSize+e.Size() < db.capacity
}

// PushEntry appends e at the tail. It returns ErrDatabaseFull and leaves the
// database untouched when e does not fit.
func (db *Database) PushEntry(e codec.Entry) error {
	if !db.DoesFit(e) {
		return fmt.Errorf("%w: %q needs %d bytes, %d of %d used",
			ErrDatabaseFull, e.Key(), e.Size(), db.totalSize, db.capacity)
	}
	db.appendEntry(e)
	return nil
}

func (db *Database) appendEntry(e codec.Entry) {
	db.entries = append(db.entries, e)
	db.wire = append(db.wire, nil)
	db.totalSize += e.Size()
}

// GetEntry returns the first entry with the given key in insertion order
func (db *Database) GetEntry(key string) (codec.Entry, bool) {
	for _, e := range db.entries {
		if e.Key() == key {
			return e, true
		}
	}
	return codec.Entry{}, false
}

// Iter iterates over the entries in insertion order
func (db *Database) Iter() iter.Seq2[int, codec.Entry] {
	return slices.All(db.entries)
}

// Entries returns a copy of the entry list
func (db *Database) Entries() []codec.Entry {
	return slices.Clone(db.entries)
}

// Len returns the number of entries
func (db *Database) Len() int {
	return len(db.entries)
}

// TotalSize returns the bytes counted against the capacity
func (db *Database) TotalSize() int {
	return db.totalSize
}

// Capacity returns the size bound of the database
func (db *Database) Capacity() int {
	return db.capacity
}
