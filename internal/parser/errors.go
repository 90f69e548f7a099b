package parser

import (
	"errors"
	"fmt"
)

// ErrFormat is the class of every input problem reported by this package.
var ErrFormat = errors.New("format error")

var (
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported file format", ErrFormat)
	ErrExtractionFailure = fmt.Errorf("%w: text extraction failed", ErrFormat)
	ErrEmptyDocument     = fmt.Errorf("%w: document is empty or too short", ErrFormat)
)
