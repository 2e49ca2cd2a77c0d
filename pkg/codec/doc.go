// Package codec converts game media to and from the flat payloads stored in
// pxlassets shards.
//
// The codec package is the bottom layer of the asset pipeline. It knows how a
// decoded image or an audio file becomes an [Entry], and how an Entry becomes
// something the engine can use again. It does not know about shards, files or
// compression; those belong to the shard package.
//
// # Entry Types
//
// Every entry carries a one byte type tag:
//
//	0 Unknown  1 Texture  2 AnimatedTexture  3 Audio
//	4 Video    5 Particle 6 Shader
//
// Tags that this version does not know decode to Unknown instead of failing,
// so older readers can still load shards written by newer compilers.
//
// # Texture Payload
//
// Textures are stored as raw non-premultiplied RGBA8:
//
//	[Width(4)][Height(4)][Pixels(Width*Height*4)]
//
// Width and Height are little-endian unsigned 32-bit integers and pixels are
// written row by row, left to right. Texture entries are flagged as
// compressed by default.
//
// # Audio Payload
//
// Audio entries are the source file bytes, untouched. Ogg and mp3 are
// already compressed, so audio entries are never flagged as compressed.
//
// # Usage
//
//	img, err := codec.StdImageDecoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	entry := codec.EncodeTextureImage("player", img)
//
//	// later, at runtime
//	pixels, err := codec.DecodeTexture(entry)
//
// # Error Handling
//
// Typed accessors return [ErrTypeMismatch] when called on the wrong kind of
// entry, [ErrMalformedPayload] when the payload does not match its declared
// layout and [ErrNotImplemented] for media kinds that have no conversion yet
// (animated textures, video and particles).
package codec
