package shard

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"

	"github.com/ssargent/pxlassets/pkg/codec"
)

// descriptor is one header row as read from a shard
type descriptor struct {
	key        string
	typ        codec.EntryType
	compressed bool
	length     uint32
}

// ToBytes serializes the database in the shard format
func (db *Database) ToBytes() ([]byte, error) {
	if err := db.prepare(); err != nil {
		return nil, err
	}

	size := headerSize
	for i, e := range db.entries {
		size += descriptorSize + len(e.Key()) + len(db.stored(i))
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Version)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(db.entries)))

	for i, e := range db.entries {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(e.Key())))
		buf = append(buf, e.Key()...)
		buf = append(buf, byte(e.Type()))
		if e.Compressed() {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(db.stored(i))))
	}

	for i := range db.entries {
		buf = append(buf, db.stored(i)...)
	}

	return buf, nil
}

// prepare compresses every flagged entry that has not been compressed yet
func (db *Database) prepare() error {
	for i, e := range db.entries {
		if !e.Compressed() || db.wire[i] != nil {
			continue
		}
		c, err := compress(e.Payload())
		if err != nil {
			return fmt.Errorf("failed to compress %q: %w", e.Key(), err)
		}
		db.wire[i] = c
	}
	return nil
}

// stored returns the bytes written to the data section for entry i
func (db *Database) stored(i int) []byte {
	if db.entries[i].Compressed() {
		return db.wire[i]
	}
	return db.entries[i].Payload()
}

// FromBytes parses a serialized shard
func FromBytes(buf []byte) (*Database, error) {
	return Decode(bytes.NewReader(buf), int64(len(buf)))
}

// Decode parses a shard from r. size is the number of bytes available in r,
// or -1 when unknown; declared lengths beyond it are rejected up front.
func Decode(r io.Reader, size int64) (*Database, error) {
	d := &decoder{r: r, size: size}

	version, err := d.u8("version")
	if err != nil {
		return nil, err
	}
	if version < MinVersion {
		return nil, fmt.Errorf("%w: 0x%02x, need at least 0x%02x", ErrUnsupportedVersion, version, MinVersion)
	}

	count, err := d.u32("entry count")
	if err != nil {
		return nil, err
	}

	var descs []descriptor
	for i := uint32(0); i < count; i++ {
		desc, err := d.descriptor()
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
		slog.Debug("Found asset", "key", desc.key, "type", desc.typ)
		descs = append(descs, desc)
	}

	db := NewDatabase()
	for _, desc := range descs {
		raw, err := d.bytes(desc.length, "payload of "+desc.key)
		if err != nil {
			return nil, err
		}

		payload := raw
		if desc.compressed {
			if payload, err = decompress(raw); err != nil {
				return nil, fmt.Errorf("%w: entry %q: %v", ErrDecompress, desc.key, err)
			}
		}

		e := codec.NewEntry(desc.typ, desc.key, desc.compressed, payload)
		db.appendEntry(e)

		slog.Debug("Loaded asset",
			"key", desc.key,
			"type", desc.typ,
			"compressed", desc.compressed,
			"size", humanize.Bytes(uint64(len(desc.key)+e.Size())))
	}

	return db, nil
}

type decoder struct {
	r    io.Reader
	size int64
	off  int64
}

func (d *decoder) bytes(n uint32, what string) ([]byte, error) {
	if d.size >= 0 && int64(n) > d.size-d.off {
		return nil, fmt.Errorf("%w: %s needs %d bytes at offset %d, only %d left",
			ErrMalformedShard, what, n, d.off, d.size-d.off)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %s at offset %d: %v", ErrMalformedShard, what, d.off, err)
	}
	d.off += int64(n)
	return buf, nil
}

func (d *decoder) u8(what string) (uint8, error) {
	b, err := d.bytes(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) u32(what string) (uint32, error) {
	b, err := d.bytes(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) descriptor() (descriptor, error) {
	keyLen, err := d.u32("key length")
	if err != nil {
		return descriptor{}, err
	}
	key, err := d.bytes(keyLen, "key")
	if err != nil {
		return descriptor{}, err
	}
	if !utf8.Valid(key) {
		return descriptor{}, fmt.Errorf("%w: key at offset %d is not valid UTF-8", ErrMalformedShard, d.off-int64(keyLen))
	}
	typ, err := d.u8("entry type")
	if err != nil {
		return descriptor{}, err
	}
	flag, err := d.u8("compressed flag")
	if err != nil {
		return descriptor{}, err
	}
	length, err := d.u32("payload length")
	if err != nil {
		return descriptor{}, err
	}

	return descriptor{
		key:        string(key),
		typ:        codec.EntryTypeFromByte(typ),
		compressed: flag != 0,
		length:     length,
	}, nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
