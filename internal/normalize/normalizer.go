package normalize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/parser"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
)

// Sink receives the normalized copy of each input file.
type Sink interface {
	Write(ctx context.Context, path, normalized string) error
}

// Source is one input file. Content is a private copy; the original is never
// written to.
type Source struct {
	Path    string
	Content string
}

// Normalizer parses sources, applies the configured features and hands the
// normalized text to a sink.
type Normalizer struct {
	features []Feature
	sink     Sink
}

// New creates a Normalizer. A nil sink keeps normalized copies in memory only.
func New(features []Feature, sink Sink) *Normalizer {
	return &Normalizer{features: features, sink: sink}
}

// Features returns the configured features in application order.
func (n *Normalizer) Features() []Feature {
	return append([]Feature(nil), n.features...)
}

// Normalize builds and normalizes the Element Model of src. Elements a pass
// skipped are reported in the returned error alongside a usable file; a
// FileError (the sink could not store the copy) comes with a nil file.
func (n *Normalizer) Normalize(ctx context.Context, src Source) (*elements.JavaFile, error) {
	file := parser.Parse(src.Path, src.Content)
	issues := Apply(file, n.features)

	if n.sink != nil {
		if err := n.sink.Write(ctx, src.Path, file.Text()); err != nil {
			var fe *FileError
			if !errors.As(err, &fe) {
				err = &FileError{Path: src.Path, Op: "write", Err: err}
			}
			return nil, err
		}
	}
	return file, issues
}

// Outcome is the result of normalizing one source of a corpus.
type Outcome struct {
	File   *elements.JavaFile
	Issues error
	Err    error
}

// NormalizeAll normalizes a corpus concurrently. Outcomes are returned in
// input order; a failed source has a nil File and a non-nil Err.
func (n *Normalizer) NormalizeAll(ctx context.Context, sources []Source) []Outcome {
	return iter.Map(sources, func(src *Source) Outcome {
		if err := ctx.Err(); err != nil {
			return Outcome{Err: &FileError{Path: src.Path, Op: "normalize", Err: err}}
		}
		file, err := n.Normalize(ctx, *src)
		if file == nil {
			log.Error().Err(err).Str("path", src.Path).Msg("Failed to normalize file")
			return Outcome{Err: err}
		}
		if err != nil {
			log.Warn().Err(err).Str("path", src.Path).Msg("Normalized with skipped elements")
		}
		return Outcome{File: file, Issues: err}
	})
}

// ReadSources reads each path from disk. Unreadable paths are returned as
// FileErrors and left out of the sources.
func ReadSources(paths []string) ([]Source, []error) {
	var sources []Source
	var errs []error
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, &FileError{Path: path, Op: "read", Err: err})
			continue
		}
		sources = append(sources, Source{Path: path, Content: string(content)})
	}
	return sources, errs
}

// DirSink writes each normalized copy into a directory under the base name of
// its source. Files are written to a temporary name and renamed into place.
type DirSink struct {
	dir string

	mu    sync.Mutex
	names map[string]string
}

// NewDirSink creates dir if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &FileError{Path: dir, Op: "mkdir", Err: err}
	}
	return &DirSink{dir: dir, names: make(map[string]string)}, nil
}

// Dir returns the output directory.
func (s *DirSink) Dir() string { return s.dir }

// PathFor returns where the copy of source is written.
func (s *DirSink) PathFor(source string) string {
	return filepath.Join(s.dir, filepath.Base(source))
}

func (s *DirSink) Write(ctx context.Context, path, normalized string) error {
	if err := ctx.Err(); err != nil {
		return &FileError{Path: path, Op: "write", Err: err}
	}
	name := filepath.Base(path)

	s.mu.Lock()
	if owner, taken := s.names[name]; taken && owner != path {
		s.mu.Unlock()
		return &FileError{Path: path, Op: "write", Err: fmt.Errorf("output name %s already used by %s", name, owner)}
	}
	s.names[name] = path
	s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return &FileError{Path: path, Op: "write", Err: err}
	}
	if _, err := tmp.WriteString(normalized); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &FileError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &FileError{Path: path, Op: "write", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.PathFor(path)); err != nil {
		os.Remove(tmp.Name())
		return &FileError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
