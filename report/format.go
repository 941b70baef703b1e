/*
format.go - Renderer selection

The output format is a closed enum, not a string-keyed registry: unknown
keys fail at parse time and the renderer switch is exhaustive with an
error default, so adding a format is a compile-visible change.
*/
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for unknown report format keys.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Format identifies a statement output format.
type Format int

const (
	FormatJSON Format = iota
	FormatPDF
)

// ParseFormat maps a caller-supplied key to a Format, case-insensitively.
// The empty string defaults to JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatPDF:
		return "pdf"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Rendered is a statement ready for transport.
type Rendered struct {
	Payload     []byte
	ContentType string
}

// Renderer turns a report into a transport payload.
type Renderer interface {
	Render(ctx context.Context, report *ClientReport) (Rendered, error)
}

// RenderSet holds one renderer per supported format.
type RenderSet struct {
	JSON Renderer
	PDF  Renderer
}

// For selects the renderer for a format. A format without a configured
// renderer (PDF with no converter wired) is reported as unsupported.
func (s RenderSet) For(f Format) (Renderer, error) {
	var r Renderer
	switch f {
	case FormatJSON:
		r = s.JSON
	case FormatPDF:
		r = s.PDF
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return r, nil
}
