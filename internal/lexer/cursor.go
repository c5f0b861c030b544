package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"mapl/internal/source"
)

// Cursor walks the bytes of one file. Reads past the end yield 0.
type Cursor struct {
	file    source.FileID
	content []byte
	Off     uint32
}

func NewCursor(f *source.File) Cursor {
	if _, err := safecast.Conv[uint32](len(f.Content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return Cursor{file: f.ID, content: f.Content}
}

func (c *Cursor) EOF() bool {
	return int(c.Off) >= len(c.content)
}

// Peek returns the current byte.
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// PeekAt returns the byte n positions ahead of the cursor.
func (c *Cursor) PeekAt(n int) byte {
	i := int(c.Off) + n
	if i >= len(c.content) {
		return 0
	}
	return c.content[i]
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	rest := c.content[c.Off:]
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.content[c.Off]
	c.Off++
	return b
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.content[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// EatSeq consumes s if the input starts with it.
func (c *Cursor) EatSeq(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	for range len(s) {
		c.Off++
	}
	return true
}

// EatWhile consumes bytes while pred holds and reports how many it ate.
func (c *Cursor) EatWhile(pred func(byte) bool) int {
	start := c.Off
	for !c.EOF() && pred(c.content[c.Off]) {
		c.Off++
	}
	return int(c.Off - start)
}

// Mark is a saved cursor position.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span between m and the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Идентификаторы только ASCII: [A-Za-z_][A-Za-z0-9_]*
func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// продолжение многобайтной UTF-8 руны
func isContinuationByte(b byte) bool { return b&0xC0 == 0x80 }
