package poet

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-runewidth"
)

type flushType uint8

const (
	flushNone flushType = iota
	flushWrap
	flushSpace
	flushEmpty
)

// lineWrapper streams text to out, deciding at each safe-wrap-mark whether
// the mark becomes a space or a line break. Only the text after the most
// recent mark is held back; everything else is written through.
type lineWrapper struct {
	out         io.Writer
	indent      string
	indentWidth int
	tabWidth    int
	columnLimit int

	buffer      strings.Builder
	column      int
	indentLevel int
	nextFlush   flushType
	closed      bool
	err         error
}

func newLineWrapper(out io.Writer, cfg *Config) *lineWrapper {
	lw := &lineWrapper{
		out:         out,
		indent:      cfg.indentUnit(),
		tabWidth:    cfg.IndentWidth,
		columnLimit: cfg.MaxWidth,
		indentLevel: -1,
	}
	lw.indentWidth = lw.width(lw.indent)
	return lw
}

// width is the display width of s, counting a tab as one indentation unit.
func (lw *lineWrapper) width(s string) int {
	tabs := strings.Count(s, "\t")
	if tabs == 0 {
		return runewidth.StringWidth(s)
	}
	return runewidth.StringWidth(strings.ReplaceAll(s, "\t", "")) + tabs*lw.tabWidth
}

// write is sticky: after the first sink failure nothing more is written and
// the sink's error is returned unchanged.
func (lw *lineWrapper) write(s string) error {
	if lw.err != nil {
		return lw.err
	}
	if s == "" {
		return nil
	}
	if _, err := io.WriteString(lw.out, s); err != nil {
		lw.err = err
	}
	return lw.err
}

// append emits s, which may contain newlines.
func (lw *lineWrapper) append(s string) error {
	if lw.closed {
		return errors.AssertionFailedf("line wrapper is closed")
	}
	if lw.err != nil {
		return lw.err
	}
	if lw.nextFlush != flushNone {
		nl := strings.IndexByte(s, '\n')
		if nl == -1 && lw.column+lw.width(s) <= lw.columnLimit {
			lw.buffer.WriteString(s)
			lw.column += lw.width(s)
			return nil
		}
		wrap := nl == -1 || lw.column+lw.width(s[:nl]) > lw.columnLimit
		next := lw.nextFlush
		if wrap {
			next = flushWrap
		}
		if err := lw.flush(next); err != nil {
			return err
		}
	}
	if err := lw.write(s); err != nil {
		return err
	}
	if nl := strings.LastIndexByte(s, '\n'); nl != -1 {
		lw.column = lw.width(s[nl+1:])
	} else {
		lw.column += lw.width(s)
	}
	return nil
}

// wrappingSpace marks a position that is a space unless the line overflows,
// in which case it is a newline followed by indentLevel indents.
func (lw *lineWrapper) wrappingSpace(indentLevel int) error {
	if lw.closed {
		return errors.AssertionFailedf("line wrapper is closed")
	}
	if lw.nextFlush != flushNone {
		if err := lw.flush(lw.nextFlush); err != nil {
			return err
		}
	}
	// the deferred space already occupies a column
	lw.column++
	lw.nextFlush = flushSpace
	lw.indentLevel = indentLevel
	return nil
}

// zeroWidthSpace marks a position that is empty unless the line overflows.
func (lw *lineWrapper) zeroWidthSpace(indentLevel int) error {
	if lw.closed {
		return errors.AssertionFailedf("line wrapper is closed")
	}
	if lw.column == 0 {
		return nil
	}
	if lw.nextFlush != flushNone {
		if err := lw.flush(lw.nextFlush); err != nil {
			return err
		}
	}
	lw.nextFlush = flushEmpty
	lw.indentLevel = indentLevel
	return nil
}

func (lw *lineWrapper) close() error {
	if lw.nextFlush != flushNone {
		if err := lw.flush(lw.nextFlush); err != nil {
			return err
		}
	}
	lw.closed = true
	return lw.err
}

func (lw *lineWrapper) flush(ft flushType) error {
	switch ft {
	case flushWrap:
		if err := lw.write("\n" + strings.Repeat(lw.indent, lw.indentLevel)); err != nil {
			return err
		}
		lw.column = lw.indentLevel*lw.indentWidth + lw.width(lw.buffer.String())
	case flushSpace:
		if err := lw.write(" "); err != nil {
			return err
		}
	case flushEmpty, flushNone:
	}
	if err := lw.write(lw.buffer.String()); err != nil {
		return err
	}
	lw.buffer.Reset()
	lw.indentLevel = -1
	lw.nextFlush = flushNone
	return nil
}
