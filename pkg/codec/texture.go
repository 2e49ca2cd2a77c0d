package codec

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
)

const textureHeaderSize = 8

// EncodeTexture packs an RGBA8 pixel buffer into a Texture entry
// Format: [Width(4)][Height(4)][RGBA pixels, row-major]
func EncodeTexture(key string, img *image.NRGBA) Entry {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	payload := make([]byte, textureHeaderSize+w*h*4)
	binary.LittleEndian.PutUint32(payload[0:], uint32(w))
	binary.LittleEndian.PutUint32(payload[4:], uint32(h))

	// Copy row by row so sub-images with a wider stride pack tightly
	rowLen := w * 4
	dst := payload[textureHeaderSize:]
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst[y*rowLen:(y+1)*rowLen], img.Pix[off:off+rowLen])
	}

	return NewEntry(Texture, key, true, payload)
}

// EncodeTextureImage converts any decoded image to RGBA8 and packs it
func EncodeTextureImage(key string, img image.Image) Entry {
	return EncodeTexture(key, ToNRGBA(img))
}

// DecodeTexture unpacks a Texture entry back into a pixel buffer
func DecodeTexture(e Entry) (*image.NRGBA, error) {
	if err := e.expect(Texture); err != nil {
		return nil, err
	}

	data := e.payload
	if len(data) < textureHeaderSize {
		return nil, fmt.Errorf("%w: texture %q is %d bytes, shorter than its header", ErrMalformedPayload, e.key, len(data))
	}

	w := binary.LittleEndian.Uint32(data[0:4])
	h := binary.LittleEndian.Uint32(data[4:8])
	pixels := data[textureHeaderSize:]

	if len(pixels)%4 != 0 || uint64(len(pixels)/4) != uint64(w)*uint64(h) {
		return nil, fmt.Errorf("%w: texture %q has %d pixel bytes, want %dx%dx4",
			ErrMalformedPayload, e.key, len(pixels), w, h)
	}

	img := &image.NRGBA{
		Pix:    make([]byte, len(pixels)),
		Stride: int(w) * 4,
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}
	copy(img.Pix, pixels)

	return img, nil
}

// ToNRGBA returns img as a non-premultiplied RGBA8 buffer, converting if needed
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// EncodePNG writes a pixel buffer back out as a source image
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
