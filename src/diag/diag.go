// Package diag implements source-ranged diagnostics: a file:line:col header,
// the offending source line, and a caret pointing at the column, colored the
// way sam-decook-lox colors its interpreter diagnostics. The counting scheme
// (separate error/warning tallies behind a mutex) mirrors the teacher's
// util.perror, which guards a shared error buffer the same way even though
// this compiler's pipeline only ever calls Bag from one goroutine.
package diag

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/lzmru/north/src/source"
)

// Bag collects diagnostics for one compilation and terminates the process at
// the first error, per the front-end's no-recovery error model.
type Bag struct {
	file   string
	lines  []string
	mx     sync.Mutex
	errors int
	warns  int
}

// NewBag creates a Bag reporting against file, whose already-read content is
// src (used to print the offending source line under each diagnostic).
func NewBag(file, src string) *Bag {
	return &Bag{file: file, lines: strings.Split(src, "\n")}
}

// Errors returns the number of errors reported so far.
func (b *Bag) Errors() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.errors
}

// Warnings returns the number of warnings reported so far.
func (b *Bag) Warnings() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.warns
}

// Error prints a ranged error diagnostic and terminates the process: the
// front end emits a diagnostic and stops at the first semantic error, it
// does not attempt recovery.
func (b *Bag) Error(pos source.Position, format string, args ...interface{}) {
	b.mx.Lock()
	b.errors++
	b.mx.Unlock()
	b.print(color.New(color.FgRed, color.Bold), "error", pos, format, args...)
	os.Exit(1)
}

// Warning prints a ranged warning diagnostic and only increments the
// warning counter; it never terminates the process.
func (b *Bag) Warning(pos source.Position, format string, args ...interface{}) {
	b.mx.Lock()
	b.warns++
	b.mx.Unlock()
	b.print(color.New(color.FgYellow, color.Bold), "warning", pos, format, args...)
}

func (b *Bag) print(tag *color.Color, label string, pos source.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s:%s: %s: %s\n", b.file, pos, tag.Sprint(label), msg)
	if pos.Line-1 >= 0 && pos.Line-1 < len(b.lines) {
		line := b.lines[pos.Line-1]
		fmt.Fprintf(os.Stderr, "  %s\n", line)
		col := pos.Column - 1
		if col < 0 {
			col = 0
		}
		if col > len(line) {
			col = len(line)
		}
		fmt.Fprintf(os.Stderr, "  %s^\n", strings.Repeat(" ", col))
	}
}
