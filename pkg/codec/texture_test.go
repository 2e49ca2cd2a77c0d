package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: uint8(x), B: uint8(y), A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 0, G: 0, B: 0, A: 128})
			}
		}
	}
	return img
}

func TestEncodeTexture_Layout(t *testing.T) {
	img := checkerboard(3, 2)
	e := EncodeTexture("board", img)

	if e.Type() != Texture {
		t.Fatalf("Expected Texture, got %s", e.Type())
	}
	if !e.Compressed() {
		t.Error("Expected textures to be flagged as compressed")
	}

	payload := e.Payload()
	if len(payload) != 8+3*2*4 {
		t.Fatalf("Expected %d payload bytes, got %d", 8+3*2*4, len(payload))
	}
	if w := binary.LittleEndian.Uint32(payload[0:4]); w != 3 {
		t.Errorf("Expected width 3, got %d", w)
	}
	if h := binary.LittleEndian.Uint32(payload[4:8]); h != 2 {
		t.Errorf("Expected height 2, got %d", h)
	}

	// Second pixel of the first row, RGBA order
	px := payload[8+4 : 8+8]
	if !bytes.Equal(px, []byte{0, 0, 0, 128}) {
		t.Errorf("Unexpected pixel (1,0): %v", px)
	}
}

func TestTexture_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		w, h int
	}{
		{"single pixel", 1, 1},
		{"square", 16, 16},
		{"wide", 33, 2},
		{"empty", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := checkerboard(tc.w, tc.h)

			got, err := DecodeTexture(EncodeTexture("tex", src))
			if err != nil {
				t.Fatalf("DecodeTexture failed: %v", err)
			}

			if got.Bounds() != src.Bounds() {
				t.Fatalf("Bounds mismatch: got %v, want %v", got.Bounds(), src.Bounds())
			}
			if !bytes.Equal(got.Pix, src.Pix) {
				t.Error("Pixel data mismatch")
			}
		})
	}
}

func TestEncodeTexture_SubImage(t *testing.T) {
	full := checkerboard(8, 8)
	sub := full.SubImage(image.Rect(2, 3, 5, 7)).(*image.NRGBA)

	got, err := DecodeTexture(EncodeTexture("sub", sub))
	if err != nil {
		t.Fatalf("DecodeTexture failed: %v", err)
	}

	if got.Bounds().Dx() != 3 || got.Bounds().Dy() != 4 {
		t.Fatalf("Unexpected size %v", got.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 3; x++ {
			if got.NRGBAAt(x, y) != full.NRGBAAt(x+2, y+3) {
				t.Errorf("Pixel (%d,%d) mismatch", x, y)
			}
		}
	}
}

func TestEncodeTextureImage_ConvertsRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	got, err := DecodeTexture(EncodeTextureImage("rgba", src))
	if err != nil {
		t.Fatalf("DecodeTexture failed: %v", err)
	}

	if c := got.NRGBAAt(0, 0); c != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("Unexpected converted pixel %v", c)
	}
}

func TestDecodeTexture_Errors(t *testing.T) {
	header := func(w, h uint32) []byte {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint32(b[0:], w)
		binary.LittleEndian.PutUint32(b[4:], h)
		return b
	}

	testCases := []struct {
		name  string
		entry Entry
		want  error
	}{
		{
			name:  "audio entry",
			entry: EncodeAudio("music", []byte("OggS")),
			want:  ErrTypeMismatch,
		},
		{
			name:  "short header",
			entry: NewEntry(Texture, "short", false, []byte{1, 0, 0}),
			want:  ErrMalformedPayload,
		},
		{
			name:  "missing pixels",
			entry: NewEntry(Texture, "missing", false, append(header(2, 2), make([]byte, 12)...)),
			want:  ErrMalformedPayload,
		},
		{
			name:  "extra pixels",
			entry: NewEntry(Texture, "extra", false, append(header(1, 1), make([]byte, 5)...)),
			want:  ErrMalformedPayload,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTexture(tc.entry)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestStdImageDecoder_PNG(t *testing.T) {
	src := checkerboard(4, 3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}

	img, err := StdImageDecoder{}.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !bytes.Equal(ToNRGBA(img).Pix, src.Pix) {
		t.Error("Decoded pixels differ from source")
	}
}

func TestEncodePNG(t *testing.T) {
	src := checkerboard(5, 5)

	var buf bytes.Buffer
	if err := EncodePNG(&buf, src); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("Bounds mismatch: %v", img.Bounds())
	}
}
