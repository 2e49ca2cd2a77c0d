// Package shard implements the size-bounded asset container and its binary
// file format.
//
// A shard holds an ordered list of [codec.Entry] values. Its capacity is
// counted as the sum of every payload plus one byte per entry, and an insert
// that would bring that sum to [MaxSize] (128 MiB) or above is refused with
// [ErrDatabaseFull].
//
// # File Format
//
// All integers are little-endian.
//
//	[Version(1)][EntryCount(4)]
//	EntryCount descriptor rows:
//	    [KeyLen(4)][Key(KeyLen)][Type(1)][Compressed(1)][PayloadLen(4)]
//	EntryCount payloads, same order:
//	    [Payload(PayloadLen)]
//
// PayloadLen is the length of the bytes as stored, so for a compressed entry
// it is the length of the gzip stream. Every header comes before any payload.
//
// Files with a version below [MinVersion] are rejected before any entry is
// read. Unknown type tags load as [codec.Unknown].
//
// # Compression
//
// Entries flagged as compressed are gzip compressed at the best compression
// level when the shard is serialized and decompressed when it is loaded.
// The compressed form is computed once per entry and reused by later calls
// to [Database.ToBytes].
//
// # Thread Safety
//
// A Database is not safe for concurrent mutation. Once loaded it may be read
// from several goroutines as long as nobody calls PushEntry or ToBytes.
package shard
