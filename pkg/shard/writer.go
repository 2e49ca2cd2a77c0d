package shard

import (
	"bufio"
	"os"
	"path/filepath"
)

const defaultBufferSize = 64 * 1024

// Writer writes serialized shards to a file
type Writer struct {
	file   *os.File
	writer *bufio.Writer
	config WriterConfig
	offset int64 // Bytes written so far
}

// NewWriter creates the shard file, truncating any previous content
func NewWriter(config WriterConfig) (*Writer, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0750); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}

	return &Writer{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		config: config,
	}, nil
}

// Write serializes db and appends it to the file, returning the bytes written
func (w *Writer) Write(db *Database) (int64, error) {
	data, err := db.ToBytes()
	if err != nil {
		return 0, err
	}

	n, err := w.writer.Write(data)
	w.offset += int64(n)

	return int64(n), err
}

// Close flushes buffered data, syncs unless disabled and closes the file
func (w *Writer) Close() error {
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}

	if !w.config.NoSync {
		if err := w.file.Sync(); err != nil {
			w.file.Close()
			return err
		}
	}

	return w.file.Close()
}

// Size returns the number of bytes written
func (w *Writer) Size() int64 {
	return w.offset
}

// Path returns the file path
func (w *Writer) Path() string {
	return w.config.FilePath
}

// WriteFile writes db to path in one call
func WriteFile(path string, db *Database) (int64, error) {
	w, err := NewWriter(WriterConfig{FilePath: path})
	if err != nil {
		return 0, err
	}

	n, err := w.Write(db)
	if err != nil {
		w.Close()
		return n, err
	}

	return n, w.Close()
}
