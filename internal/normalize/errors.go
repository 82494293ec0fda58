package normalize

import (
	"errors"
	"fmt"

	"github.com/RishiKendai/codeplag/internal/elements"
)

// ErrUnknownFeature is returned for a feature name that has no pass.
var ErrUnknownFeature = errors.New("unknown normalization feature")

// NormalizationError records an element a pass had to skip. The rest of the
// file is still normalized.
type NormalizationError struct {
	Feature   Feature
	Path      string
	ElementID elements.ID
	Err       error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s: %s: element %d: %v", e.Path, e.Feature, e.ElementID, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// FileError is an I/O failure on one input or output file. The file is
// excluded from comparison; other files are unaffected.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// IsFileError reports whether err carries a FileError.
func IsFileError(err error) bool {
	var fe *FileError
	return errors.As(err, &fe)
}
