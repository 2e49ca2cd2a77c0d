package codec_test

import (
	"fmt"
	"image"
	"log"

	"github.com/ssargent/pxlassets/pkg/codec"
)

// ExampleEncodeTexture demonstrates packing and unpacking a texture
func ExampleEncodeTexture() {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))

	entry := codec.EncodeTexture("player", img)
	fmt.Printf("Entry: %s\n", entry)
	fmt.Printf("Payload: %d bytes\n", len(entry.Payload()))

	pixels, err := codec.DecodeTexture(entry)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Size: %dx%d\n", pixels.Bounds().Dx(), pixels.Bounds().Dy())

	// Output:
	// Entry: player<Texture>
	// Payload: 40 bytes
	// Size: 4x2
}

// ExampleEntryTypeFromByte demonstrates the unknown tag fallback
func ExampleEntryTypeFromByte() {
	fmt.Println(codec.EntryTypeFromByte(3))
	fmt.Println(codec.EntryTypeFromByte(99))

	// Output:
	// Audio
	// Unknown
}
