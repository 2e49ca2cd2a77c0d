package di

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssargent/pxlassets/pkg/codec"
)

type fakeAudioSystem struct{}

func (fakeAudioSystem) FromMemory(data []byte) (codec.Sound, error) {
	return &codec.MemoryAudio{Data: append(data, data...)}, nil
}

func TestContainer_Defaults(t *testing.T) {
	c := NewContainer()

	assert.IsType(t, codec.StdImageDecoder{}, c.GetImageDecoder())
	assert.IsType(t, codec.NullAudioSystem{}, c.GetAudioSystem())
	assert.NotNil(t, c.GetServerFactory())
}

func TestContainer_SetAudioSystem(t *testing.T) {
	c := NewContainer()
	c.SetAudioSystem(fakeAudioSystem{})

	a, err := codec.DecodeAudio(codec.EncodeAudio("theme", []byte("ab")), c.GetAudioSystem())
	assert.NoError(t, err)
	assert.Equal(t, 4, a.Len())
}
