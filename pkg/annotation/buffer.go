package annotation

import (
	"fmt"
	"strings"
)

// Buffer is an in-memory Surface implementation addressed by line and
// column. It backs the REST host and the engine tests; a real editor
// plugin supplies its own Surface instead.
type Buffer struct {
	lines     []string
	listeners []func()
	suspended bool
	undo      [][]string
}

// NewBuffer creates a buffer holding the given text.
func NewBuffer(text string) *Buffer {
	return &Buffer{lines: strings.Split(text, "\n")}
}

// Text returns the full buffer contents.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// OnChange registers a listener invoked after every non-suspended edit.
func (b *Buffer) OnChange(listener func()) {
	b.listeners = append(b.listeners, listener)
}

func (b *Buffer) offset(p Position) (int, error) {
	if p.Line < 0 || p.Line >= len(b.lines) {
		return 0, fmt.Errorf("line %d out of range (have %d lines)", p.Line, len(b.lines))
	}
	if p.Column < 0 || p.Column > len(b.lines[p.Line]) {
		return 0, fmt.Errorf("column %d out of range on line %d", p.Column, p.Line)
	}
	off := p.Column
	for i := 0; i < p.Line; i++ {
		off += len(b.lines[i]) + 1
	}
	return off, nil
}

func (b *Buffer) TextInRange(r Range) (string, error) {
	start, err := b.offset(r.Start)
	if err != nil {
		return "", err
	}
	end, err := b.offset(r.End)
	if err != nil {
		return "", err
	}
	if end < start {
		return "", fmt.Errorf("range %s ends before it starts", r)
	}
	return b.Text()[start:end], nil
}

func (b *Buffer) ReplaceRange(r Range, text string) (Range, error) {
	start, err := b.offset(r.Start)
	if err != nil {
		return Range{}, err
	}
	end, err := b.offset(r.End)
	if err != nil {
		return Range{}, err
	}
	if end < start {
		return Range{}, fmt.Errorf("range %s ends before it starts", r)
	}

	full := b.Text()
	b.lines = strings.Split(full[:start]+text+full[end:], "\n")

	newEnd := r.Start
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		newEnd.Line += strings.Count(text, "\n")
		newEnd.Column = len(text) - i - 1
	} else {
		newEnd.Column += len(text)
	}

	if !b.suspended {
		for _, listener := range b.listeners {
			listener()
		}
	}
	return Range{Start: r.Start, End: newEnd}, nil
}

func (b *Buffer) BeginCheckpoint() {
	snapshot := make([]string, len(b.lines))
	copy(snapshot, b.lines)
	b.undo = append(b.undo, snapshot)
}

// Undo restores the buffer to the most recent checkpoint. Edits made since
// the checkpoint are discarded as one step.
func (b *Buffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}
	b.lines = b.undo[len(b.undo)-1]
	b.undo = b.undo[:len(b.undo)-1]
	return true
}

func (b *Buffer) SuspendChangeEvents() {
	b.suspended = true
}

func (b *Buffer) ResumeChangeEvents() {
	b.suspended = false
}
