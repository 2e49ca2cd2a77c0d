package shard

const (
	// MaxSize is the capacity of a shard: 128 MiB
	MaxSize = 0x8000000

	// Version is the format version written by this package
	Version uint8 = 0x10
	// MinVersion is the oldest format version that can be read
	MinVersion uint8 = 0x10

	// FileExtension is appended to numbered shard files
	FileExtension = ".pxl"

	headerSize     = 1 + 4
	descriptorSize = 4 + 1 + 1 + 4 // without the key bytes
)

// WriterConfig holds configuration for the shard writer
type WriterConfig struct {
	FilePath   string // Path of the shard file to create
	BufferSize int    // Write buffer size
	NoSync     bool   // Skip the fsync on close
}

// ReaderConfig holds configuration for the shard reader
type ReaderConfig struct {
	FilePath string // Path of the shard file
}

// Errors
var (
	ErrDatabaseFull       = &ShardError{"database full"}
	ErrUnsupportedVersion = &ShardError{"unsupported shard version"}
	ErrMalformedShard     = &ShardError{"malformed shard"}
	ErrDecompress         = &ShardError{"payload decompression failed"}
)

// ShardError represents a shard error
type ShardError struct {
	Message string
}

func (e *ShardError) Error() string {
	return e.Message
}
