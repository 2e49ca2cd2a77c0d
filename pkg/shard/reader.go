package shard

import (
	"bufio"
	"fmt"
	"os"
)

// Reader loads a shard file
type Reader struct {
	file   *os.File
	reader *bufio.Reader
	size   int64
	config ReaderConfig
}

// NewReader opens the shard file for reading
func NewReader(config ReaderConfig) (*Reader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	return &Reader{
		file:   file,
		reader: bufio.NewReaderSize(file, defaultBufferSize),
		size:   stat.Size(),
		config: config,
	}, nil
}

// Read decodes the whole file into a Database
func (r *Reader) Read() (*Database, error) {
	db, err := Decode(r.reader, r.size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.config.FilePath, err)
	}
	return db, nil
}

// Size returns the size of the file in bytes
func (r *Reader) Size() int64 {
	return r.size
}

// Close closes the shard file
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadFile loads the shard at path
func ReadFile(path string) (*Database, error) {
	r, err := NewReader(ReaderConfig{FilePath: path})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.Read()
}
