package codec

import (
	"fmt"
	"image"
	"io"

	// Registered with image.Decode
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// ImageDecoder turns a source image file into pixels
type ImageDecoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// StdImageDecoder decodes png, jpeg and bmp files
type StdImageDecoder struct{}

func (StdImageDecoder) Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// DecodeAnimatedTexture is not supported yet
func DecodeAnimatedTexture(e Entry) error {
	return notImplemented(e, AnimatedTexture)
}

// DecodeVideo is not supported yet
func DecodeVideo(e Entry) error {
	return notImplemented(e, Video)
}

// DecodeParticles is not supported yet
func DecodeParticles(e Entry) error {
	return notImplemented(e, Particle)
}

func notImplemented(e Entry, t EntryType) error {
	if err := e.expect(t); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrNotImplemented, t)
}
