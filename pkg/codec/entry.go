package codec

import "fmt"

// EntryType tags the kind of media an entry holds
type EntryType uint8

const (
	Unknown EntryType = iota
	Texture
	AnimatedTexture
	Audio
	Video
	Particle
	Shader
)

// EntryTypeFromByte maps a raw tag to an EntryType. Codes this version does
// not know map to Unknown.
func EntryTypeFromByte(b uint8) EntryType {
	switch t := EntryType(b); t {
	case Texture, AnimatedTexture, Audio, Video, Particle, Shader:
		return t
	default:
		return Unknown
	}
}

// ParseEntryType is the inverse of String. It is case sensitive.
func ParseEntryType(s string) (EntryType, error) {
	for t := Unknown; t <= Shader; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown entry type %q", s)
}

func (t EntryType) String() string {
	switch t {
	case Texture:
		return "Texture"
	case AnimatedTexture:
		return "AnimatedTexture"
	case Audio:
		return "Audio"
	case Video:
		return "Video"
	case Particle:
		return "Particle"
	case Shader:
		return "Shader"
	default:
		return "Unknown"
	}
}

// Entry is one packaged asset. Entries are values: the payload must not be
// modified once the entry has been created.
type Entry struct {
	typ        EntryType
	key        string
	compressed bool
	payload    []byte
}

// NewEntry creates an entry from an already encoded payload
func NewEntry(typ EntryType, key string, compressed bool, payload []byte) Entry {
	return Entry{
		typ:        typ,
		key:        key,
		compressed: compressed,
		payload:    payload,
	}
}

// Type returns the entry type tag
func (e Entry) Type() EntryType { return e.typ }

// Key returns the lookup key
func (e Entry) Key() string { return e.key }

// Compressed reports whether the payload is compressed when written to a shard
func (e Entry) Compressed() bool { return e.compressed }

// Payload returns the uncompressed payload. Callers must not modify it.
func (e Entry) Payload() []byte { return e.payload }

// Size is the number of bytes the entry counts against a shard's capacity:
// the payload plus the type/flag byte.
func (e Entry) Size() int { return len(e.payload) + 1 }

// WithCompression returns a copy of e with the compressed flag set to on
func (e Entry) WithCompression(on bool) Entry {
	e.compressed = on
	return e
}

func (e Entry) String() string {
	return fmt.Sprintf("%s<%s>", e.key, e.typ)
}

func (e Entry) expect(t EntryType) error {
	if e.typ != t {
		return fmt.Errorf("%w: entry %q is %s, want %s", ErrTypeMismatch, e.key, e.typ, t)
	}
	return nil
}
