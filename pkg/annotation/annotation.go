// Package annotation maintains the source-text marker that mirrors the
// current (possibly predicted) input size of a training iteration. The
// marker has the literal form
//
//	@innpv size (v0, v1, ..., vn)
//
// where v0 is the batch-size dimension. The engine rewrites only v0;
// the remaining dimensions always match the original input.
package annotation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const sizeMarker = "@innpv size ("

// Render produces the literal annotation text for the given input size.
func Render(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return sizeMarker + strings.Join(parts, ", ") + ")"
}

// Parse extracts the input-size dimensions from annotation text.
func Parse(text string) ([]int, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, sizeMarker) || !strings.HasSuffix(trimmed, ")") {
		return nil, fmt.Errorf("malformed size annotation: %q", text)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, sizeMarker), ")")
	fields := strings.Split(inner, ",")
	dims := make([]int, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("malformed size annotation: %q", text)
		}
		dims = append(dims, d)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("size annotation has no dimensions: %q", text)
	}
	return dims, nil
}

// Locate finds the first size annotation in source text and returns its
// range and parsed dimensions.
func Locate(source string) (Range, []int, error) {
	for i, line := range strings.Split(source, "\n") {
		start := strings.Index(line, sizeMarker)
		if start < 0 {
			continue
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			return Range{}, nil, fmt.Errorf("unterminated size annotation on line %d", i)
		}
		text := line[start : start+end+1]
		dims, err := Parse(text)
		if err != nil {
			return Range{}, nil, err
		}
		r := Range{
			Start: Position{Line: i, Column: start},
			End:   Position{Line: i, Column: start + end + 1},
		}
		return r, dims, nil
	}
	return Range{}, nil, fmt.Errorf("no size annotation found")
}

// Manager keeps one size annotation in sync with prediction state. It
// tracks the live text range across rewrites, brackets every programmatic
// edit in suspend/resume so the host does not mistake it for a user edit,
// and groups all rewrites of an analysis session into one undo checkpoint.
type Manager struct {
	surface  Surface
	rng      Range
	original []int
	tracking bool
}

func NewManager(surface Surface) *Manager {
	return &Manager{surface: surface}
}

// Track captures the annotation range and original input size for a new
// analysis session and opens the undo checkpoint that subsequent rewrites
// group into.
func (m *Manager) Track(start, end Position, dims []int) {
	m.rng = Range{Start: start, End: end}
	m.original = make([]int, len(dims))
	copy(m.original, dims)
	m.tracking = true
	m.surface.BeginCheckpoint()
}

// WriteBatchSize rewrites the annotation with the predicted batch size,
// rounded to the nearest integer at display time only.
func (m *Manager) WriteBatchSize(batchSize float64) error {
	if !m.tracking {
		return fmt.Errorf("no annotation tracked")
	}
	dims := make([]int, len(m.original))
	copy(dims, m.original)
	dims[0] = int(math.Round(batchSize))
	return m.rewrite(dims)
}

// Restore rewrites the annotation back to the unmodified input size.
func (m *Manager) Restore() error {
	return m.rewrite(m.original)
}

func (m *Manager) rewrite(dims []int) error {
	if !m.tracking {
		return fmt.Errorf("no annotation tracked")
	}
	m.surface.SuspendChangeEvents()
	defer m.surface.ResumeChangeEvents()

	newRange, err := m.surface.ReplaceRange(m.rng, Render(dims))
	if err != nil {
		return fmt.Errorf("failed to rewrite annotation at %s: %w", m.rng, err)
	}
	m.rng = newRange
	return nil
}
