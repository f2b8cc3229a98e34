// Package emit holds what the target emitters share: an indenting text
// writer, JSDoc rendering, and JavaScript literal quoting.
package emit

import (
	"fmt"
	"strings"
)

// Writer builds source text with two-space indentation.
type Writer struct {
	buf    strings.Builder
	indent int
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Line writes s as one line at the current indentation level.
func (w *Writer) Line(line string) {
	if line == "" {
		w.buf.WriteByte('\n')
		return
	}
	w.pad()
	w.buf.WriteString(line)
	w.buf.WriteByte('\n')
}

// Linef formats and writes one line at the current indentation level.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Raw writes s without indentation or newline.
func (w *Writer) Raw(s string) {
	w.buf.WriteString(s)
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.buf.WriteByte('\n')
}

// Indent increases the indentation level.
func (w *Writer) Indent() {
	w.indent++
}

// Dedent decreases the indentation level.
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Doc writes a JSDoc block at the current indentation. Empty lines inside
// the block are kept as bare " *" lines.
func (w *Writer) Doc(lines ...string) {
	w.Line("/**")
	for _, l := range lines {
		if l == "" {
			w.Line(" *")
			continue
		}
		w.Linef(" * %s", l)
	}
	w.Line(" */")
}

// String returns the accumulated text.
func (w *Writer) String() string {
	return w.buf.String()
}

func (w *Writer) pad() {
	for i := 0; i < w.indent; i++ {
		w.buf.WriteString("  ")
	}
}
