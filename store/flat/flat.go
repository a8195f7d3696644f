package flat

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"github.com/rotblauer/sinuosity/conceptual"
	"github.com/rotblauer/sinuosity/params"
	"github.com/rotblauer/sinuosity/types/channel"
	"os"
	"path/filepath"
	"syscall"
)

type Flat struct {
	// path is the channel-subdirectory for flat file storage.
	// It includes the root directory.
	path string
}

func NewFlatWithRoot(root string) *Flat {
	root = filepath.Clean(root)
	// If root is not absolute, make it absolute.
	if !filepath.IsAbs(root) {
		root, _ = filepath.Abs(root)
	}
	return &Flat{path: root}
}

// ForChannel returns a Flat rooted at the channel's own directory.
// The receiver is not modified.
func (f *Flat) ForChannel(id conceptual.ChannelID) *Flat {
	return f.Joining(params.ChannelsDir, id.PathSafe())
}

func (f *Flat) Joining(paths ...string) *Flat {
	return &Flat{path: filepath.Join(append([]string{f.path}, paths...)...)}
}

// Exists returns true if the directory exists.
func (f *Flat) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

func (f *Flat) MkdirAll() error {
	return os.MkdirAll(f.path, 0770)
}

func (f *Flat) Path() string {
	return f.path
}

func (f *Flat) NamedGZWriter(name string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	if config == nil {
		config = DefaultGZFileWriterConfig()
	}
	return NewFlatGZWriter(filepath.Join(f.path, name), config)
}

func (f *Flat) NamedGZReader(name string) (*GZFileReader, error) {
	return NewFlatGZReader(filepath.Join(f.path, name))
}

// WriteTable writes the table's rows as gzipped NDJSON point features,
// and its summary LineString feature as plain GeoJSON, into the channel's directory.
// Existing files are replaced.
func (f *Flat) WriteTable(t *channel.Table) (dir string, err error) {
	cf := f.ForChannel(t.ID)
	if err := cf.MkdirAll(); err != nil {
		return "", err
	}

	features, err := t.PointFeatures()
	if err != nil {
		return "", fmt.Errorf("render rows: %w", err)
	}
	config := DefaultGZFileWriterConfig()
	config.Flag = os.O_WRONLY | os.O_TRUNC | os.O_CREATE
	gzw, err := cf.NamedGZWriter(params.RowsGZFileName, config)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(gzw.Writer())
	for _, feat := range features {
		if err := enc.Encode(feat); err != nil {
			_ = gzw.Close()
			return "", err
		}
	}
	if err := gzw.Close(); err != nil {
		return "", err
	}

	data, err := t.Feature().MarshalJSON()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(cf.Path(), params.ChannelFileName), data, 0660); err != nil {
		return "", err
	}
	return cf.Path(), nil
}

type GZFileWriter struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool

	GZFileWriterConfig
}

type GZFileWriterConfig struct {
	CompressionLevel int
	Flag             int
	FilePerm         os.FileMode
	DirPerm          os.FileMode
}

func DefaultGZFileWriterConfig() *GZFileWriterConfig {
	return &GZFileWriterConfig{
		CompressionLevel: params.DefaultGZipCompressionLevel,
		Flag:             os.O_WRONLY | os.O_APPEND | os.O_CREATE,
		FilePerm:         0660,
		DirPerm:          0770,
	}
}

func NewFlatGZWriter(path string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, config.Flag, config.FilePerm)
	if err != nil {
		return nil, err
	}
	gzw, err := gzip.NewWriterLevel(fi, config.CompressionLevel)
	if err != nil {
		_ = fi.Close()
		return nil, err
	}
	return &GZFileWriter{
		f:                  fi,
		gzw:                gzw,
		GZFileWriterConfig: *config,
	}, nil
}

// Writer returns a gzip writer for the file.
// While the writer is not closed, an exclusive lock is held on the file.
func (g *GZFileWriter) Writer() *gzip.Writer {
	if !g.locked && g.f != nil {
		if err := syscall.Flock(int(g.f.Fd()), syscall.LOCK_EX); err != nil {
			panic(err)
		}
		g.locked = true
	}
	return g.gzw
}

func (g *GZFileWriter) Close() error {
	if err := g.gzw.Close(); err != nil {
		return err
	}
	if err := g.f.Sync(); err != nil {
		return err
	}
	if g.locked {
		if err := syscall.Flock(int(g.f.Fd()), syscall.LOCK_UN); err != nil {
			return err
		}
		g.locked = false
	}
	return g.f.Close()
}

func (g *GZFileWriter) Path() string {
	return g.f.Name()
}

type GZFileReader struct {
	f      *os.File
	gzr    *gzip.Reader
	locked bool
	closed bool
}

func NewFlatGZReader(path string) (*GZFileReader, error) {
	fi, err := os.OpenFile(path, os.O_RDONLY, 0660)
	if err != nil {
		return nil, err
	}
	gzr, err := gzip.NewReader(fi)
	if err != nil {
		_ = fi.Close()
		return nil, err
	}
	return &GZFileReader{f: fi, gzr: gzr}, nil
}

// Reader returns a gzip reader for the file.
// While the reader is not closed, a shared lock is held on the file.
func (g *GZFileReader) Reader() *gzip.Reader {
	if g.closed {
		panic("closed")
	}
	if !g.locked {
		if err := syscall.Flock(int(g.f.Fd()), syscall.LOCK_SH); err != nil {
			panic(err)
		}
		g.locked = true
	}
	return g.gzr
}

// Read implements io.Reader, taking the shared lock on first use.
func (g *GZFileReader) Read(p []byte) (int, error) {
	return g.Reader().Read(p)
}

func (g *GZFileReader) Close() error {
	if g.closed {
		return nil
	}
	defer func() {
		g.closed = true
	}()
	if err := g.gzr.Close(); err != nil {
		return err
	}
	if g.locked {
		if err := syscall.Flock(int(g.f.Fd()), syscall.LOCK_UN); err != nil {
			return err
		}
	}
	return g.f.Close()
}
