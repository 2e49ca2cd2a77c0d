package codec

// Sound is a playable sound produced by an AudioSystem
type Sound interface {
	// Len returns the size of the encoded source in bytes
	Len() int
}

// AudioSystem builds playable audio from an in-memory source file. The
// engine's playback device implements it.
type AudioSystem interface {
	FromMemory(data []byte) (Sound, error)
}

// MemoryAudio is the Sound returned by NullAudioSystem
type MemoryAudio struct {
	Data []byte
}

func (a *MemoryAudio) Len() int { return len(a.Data) }

// NullAudioSystem is used when no playback device is configured. It keeps the
// encoded bytes around without decoding them.
type NullAudioSystem struct{}

func (NullAudioSystem) FromMemory(data []byte) (Sound, error) {
	return &MemoryAudio{Data: data}, nil
}

// EncodeAudio wraps raw audio file bytes in an Audio entry. The bytes are
// stored as-is and never flagged as compressed.
func EncodeAudio(key string, raw []byte) Entry {
	return NewEntry(Audio, key, false, raw)
}

// DecodeAudio hands the payload of an Audio entry to the audio system
func DecodeAudio(e Entry, sys AudioSystem) (Sound, error) {
	if err := e.expect(Audio); err != nil {
		return nil, err
	}
	return sys.FromMemory(e.payload)
}
