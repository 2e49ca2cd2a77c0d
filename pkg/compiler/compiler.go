// Package compiler turns a folder of source media into shards.
package compiler

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"

	"github.com/ssargent/pxlassets/pkg/codec"
	"github.com/ssargent/pxlassets/pkg/shard"
)

// ErrAssetTooLarge is returned when a single asset cannot fit in any shard
var ErrAssetTooLarge = errors.New("asset too large for a shard")

var (
	DefaultImageExtensions = []string{"png", "jpg", "bmp"}
	DefaultAudioExtensions = []string{"ogg", "mp3"}
)

// Options configures a Compiler. Zero values fall back to the defaults.
type Options struct {
	ImageExtensions           []string
	AudioExtensions           []string
	MaxShardSize              int
	DisableTextureCompression bool
	ImageDecoder              codec.ImageDecoder
	Logger                    *slog.Logger
}

// Compiler discovers media under a folder and packs it into shards
type Compiler struct {
	opts Options
}

// New creates a compiler
func New(opts Options) *Compiler {
	if len(opts.ImageExtensions) == 0 {
		opts.ImageExtensions = DefaultImageExtensions
	}
	if len(opts.AudioExtensions) == 0 {
		opts.AudioExtensions = DefaultAudioExtensions
	}
	if opts.MaxShardSize <= 0 {
		opts.MaxShardSize = shard.MaxSize
	}
	if opts.ImageDecoder == nil {
		opts.ImageDecoder = codec.StdImageDecoder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Compiler{opts: opts}
}

// CompileFolder compiles root with the given options
func CompileFolder(root string, opts Options) ([]*shard.Database, error) {
	return New(opts).CompileFolder(root)
}

// CompileFolder packs every image and then every audio file found under root.
// Any unreadable file or oversized asset aborts the whole run.
func (c *Compiler) CompileFolder(root string) ([]*shard.Database, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open source folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", root)
	}
	fsys := os.DirFS(root)

	images, err := discover(fsys, c.opts.ImageExtensions)
	if err != nil {
		return nil, fmt.Errorf("failed to discover images: %w", err)
	}
	audio, err := discover(fsys, c.opts.AudioExtensions)
	if err != nil {
		return nil, fmt.Errorf("failed to discover audio: %w", err)
	}

	c.opts.Logger.Info("Discovered assets", "root", root, "images", len(images), "audio", len(audio))

	packer := NewPacker(c.opts.MaxShardSize)
	last := 0

	add := func(name string, e codec.Entry) error {
		idx, err := packer.Add(e)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if idx != last {
			c.opts.Logger.Info("Opened new shard", "index", idx)
			last = idx
		}
		c.opts.Logger.Debug("Packed asset",
			"file", name,
			"key", e.Key(),
			"type", e.Type(),
			"size", humanize.Bytes(uint64(len(e.Payload()))),
			"shard", idx)
		return nil
	}

	for _, name := range images {
		e, err := c.loadImage(fsys, name)
		if err != nil {
			return nil, err
		}
		if err := add(name, e); err != nil {
			return nil, err
		}
	}

	for _, name := range audio {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read audio: %w", err)
		}
		if err := add(name, codec.EncodeAudio(KeyFromPath(name), raw)); err != nil {
			return nil, err
		}
	}

	return packer.Shards(), nil
}

func (c *Compiler) loadImage(fsys fs.FS, name string) (codec.Entry, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return codec.Entry{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := c.opts.ImageDecoder.Decode(f)
	if err != nil {
		return codec.Entry{}, fmt.Errorf("failed to decode image %s: %w", name, err)
	}

	e := codec.EncodeTextureImage(KeyFromPath(name), img)
	if c.opts.DisableTextureCompression {
		e = e.WithCompression(false)
	}
	return e, nil
}

// KeyFromPath derives the entry key of a source file: its base name up to the
// first dot. "textures/world.icon.png" gives "world".
func KeyFromPath(name string) string {
	base := path.Base(filepath.ToSlash(name))
	key, _, _ := strings.Cut(base, ".")
	return key
}

// discover returns files under fsys whose extension is one of exts, in walk
// order
func discover(fsys fs.FS, exts []string) ([]string, error) {
	return doublestar.Glob(fsys, extensionPattern(exts),
		doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}

func extensionPattern(exts []string) string {
	if len(exts) == 1 {
		return "**/*." + exts[0]
	}
	return "**/*.{" + strings.Join(exts, ",") + "}"
}

// ShardFileName returns the name of the i-th shard file
func ShardFileName(prefix string, i int) string {
	return fmt.Sprintf("%s%04d%s", prefix, i, shard.FileExtension)
}

// WriteShards writes every database to dir as prefix0000.pxl, prefix0001.pxl
// and so on, returning the paths written
func WriteShards(dir, prefix string, dbs []*shard.Database) ([]string, error) {
	return New(Options{}).WriteShards(dir, prefix, dbs)
}

// WriteShards writes dbs like the package level WriteShards, logging through
// the compiler's logger
func (c *Compiler) WriteShards(dir, prefix string, dbs []*shard.Database) ([]string, error) {
	var paths []string
	for i, db := range dbs {
		p := filepath.Join(dir, ShardFileName(prefix, i))
		n, err := shard.WriteFile(p, db)
		if err != nil {
			return paths, fmt.Errorf("failed to write shard %s: %w", p, err)
		}
		c.opts.Logger.Info("Wrote shard", "file", p, "entries", db.Len(), "size", humanize.Bytes(uint64(n)))
		paths = append(paths, p)
	}
	return paths, nil
}

// RemoveStaleShards deletes the numbered shard files in dir whose index is
// keep or above, left behind by an earlier build that produced more shards.
// Files not named by ShardFileName are never touched.
func (c *Compiler) RemoveStaleShards(dir, prefix string, keep int) ([]string, error) {
	names, err := doublestar.Glob(os.DirFS(dir), "*"+shard.FileExtension, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list shards in %s: %w", dir, err)
	}

	var removed []string
	for _, name := range names {
		idx, ok := shardIndex(prefix, name)
		if !ok || idx < keep {
			continue
		}
		p := filepath.Join(dir, name)
		if err := os.Remove(p); err != nil {
			return removed, fmt.Errorf("failed to remove stale shard: %w", err)
		}
		c.opts.Logger.Info("Removed stale shard", "file", p)
		removed = append(removed, p)
	}
	return removed, nil
}

// shardIndex parses the index out of a name produced by ShardFileName
func shardIndex(prefix, name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return 0, false
	}
	digits, ok = strings.CutSuffix(digits, shard.FileExtension)
	if !ok || len(digits) < 4 {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return idx, true
}
