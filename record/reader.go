package record

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"strings"
)

// CommentMarker starts a comment line before the header, and a trailing
// annotation anywhere else.
const CommentMarker = "#"

// Reader hands out the lines of a package file one at a time. It never looks
// further ahead than the next line.
type Reader struct {
	br     *bufio.Reader
	line   int
	peeked *string
	fsys   fs.FS
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// WithFS sets the file system used to resolve OPEN/CLOSE array files.
func (r *Reader) WithFS(fsys fs.FS) *Reader {
	r.fsys = fsys
	return r
}

func (r *Reader) FS() fs.FS { return r.fsys }

// LineNo is the number of the last line handed out.
func (r *Reader) LineNo() int { return r.line }

func (r *Reader) readRaw() (string, error) {
	s, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if s == "" {
				return "", io.EOF
			}
		} else {
			return "", &IOError{Op: "read", Err: err}
		}
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// Line returns the next line without its terminator. It returns io.EOF once
// the input is exhausted.
func (r *Reader) Line() (string, error) {
	if r.peeked != nil {
		s := *r.peeked
		r.peeked = nil
		r.line++
		return s, nil
	}
	s, err := r.readRaw()
	if err != nil {
		return "", err
	}
	r.line++
	return s, nil
}

// Peek returns the next line without consuming it.
func (r *Reader) Peek() (string, error) {
	if r.peeked != nil {
		return *r.peeked, nil
	}
	s, err := r.readRaw()
	if err != nil {
		return "", err
	}
	r.peeked = &s
	return s, nil
}

// Header skips the leading comment lines and returns the first data line.
func (r *Reader) Header() (string, error) {
	for {
		s, err := r.Line()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", &FormatError{Field: "header", Line: r.line}
			}
			return "", err
		}
		if !strings.HasPrefix(s, CommentMarker) {
			return s, nil
		}
	}
}

// More reports whether any non-blank line remains. Blank lines are consumed.
func (r *Reader) More() (bool, error) {
	for {
		s, err := r.Peek()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, err
		}
		if strings.TrimSpace(s) != "" {
			return true, nil
		}
		r.peeked = nil
		r.line++
	}
}

// Fields collects n whitespace separated tokens, continuing onto following
// lines as needed. Anything after a comment marker is ignored, as is the
// remainder of the line holding the n-th token.
func (r *Reader) Fields(n int, field string) ([]string, error) {
	out := make([]string, 0, n)
	for len(out) < n {
		s, err := r.Line()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &FormatError{Field: field, Line: r.line}
			}
			return nil, err
		}
		for _, tok := range strings.Fields(StripComment(s)) {
			out = append(out, tok)
			if len(out) == n {
				break
			}
		}
	}
	return out, nil
}

// StripComment drops a trailing annotation from a data line.
func StripComment(s string) string {
	if i := strings.Index(s, CommentMarker); i >= 0 {
		return s[:i]
	}
	return s
}
