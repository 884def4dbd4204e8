package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferTextInRange(t *testing.T) {
	b := NewBuffer("alpha\nbravo\ncharlie")

	text, err := b.TextInRange(Range{
		Start: Position{Line: 1, Column: 0},
		End:   Position{Line: 1, Column: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, "bravo", text)

	text, err = b.TextInRange(Range{
		Start: Position{Line: 0, Column: 3},
		End:   Position{Line: 2, Column: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "ha\nbravo\nch", text)
}

func TestBufferTextInRangeOutOfBounds(t *testing.T) {
	b := NewBuffer("alpha")
	tests := []struct {
		name string
		r    Range
	}{
		{name: "line too large", r: Range{Start: Position{Line: 3}, End: Position{Line: 3}}},
		{name: "column too large", r: Range{Start: Position{Column: 99}, End: Position{Column: 99}}},
		{name: "inverted", r: Range{Start: Position{Column: 4}, End: Position{Column: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.TextInRange(tt.r)
			assert.Error(t, err)
		})
	}
}

func TestBufferReplaceRangeSameLine(t *testing.T) {
	b := NewBuffer("batch size = 16 # comment")
	newRange, err := b.ReplaceRange(Range{
		Start: Position{Line: 0, Column: 13},
		End:   Position{Line: 0, Column: 15},
	}, "1024")
	require.NoError(t, err)
	assert.Equal(t, "batch size = 1024 # comment", b.Text())
	assert.Equal(t, Position{Line: 0, Column: 13}, newRange.Start)
	assert.Equal(t, Position{Line: 0, Column: 17}, newRange.End)
}

func TestBufferReplaceRangeMultiline(t *testing.T) {
	b := NewBuffer("one\ntwo\nthree")
	newRange, err := b.ReplaceRange(Range{
		Start: Position{Line: 0, Column: 2},
		End:   Position{Line: 2, Column: 3},
	}, "ce\nfour")
	require.NoError(t, err)
	assert.Equal(t, "once\nfouree", b.Text())
	assert.Equal(t, Position{Line: 1, Column: 4}, newRange.End)
}

func TestBufferChangeEvents(t *testing.T) {
	b := NewBuffer("hello")
	changes := 0
	b.OnChange(func() { changes++ })

	_, err := b.ReplaceRange(Range{End: Position{Column: 5}}, "goodbye")
	require.NoError(t, err)
	assert.Equal(t, 1, changes)

	b.SuspendChangeEvents()
	_, err = b.ReplaceRange(Range{End: Position{Column: 7}}, "silent")
	require.NoError(t, err)
	assert.Equal(t, 1, changes)

	b.ResumeChangeEvents()
	_, err = b.ReplaceRange(Range{End: Position{Column: 6}}, "loud")
	require.NoError(t, err)
	assert.Equal(t, 2, changes)
}

func TestBufferUndoCheckpoints(t *testing.T) {
	b := NewBuffer("v1")
	b.BeginCheckpoint()
	_, err := b.ReplaceRange(Range{End: Position{Column: 2}}, "v2")
	require.NoError(t, err)
	_, err = b.ReplaceRange(Range{End: Position{Column: 2}}, "v3")
	require.NoError(t, err)

	require.True(t, b.Undo())
	assert.Equal(t, "v1", b.Text())
	assert.False(t, b.Undo())
}
