package csv

// streaming.go provides line readers for CSV import.
//
// Files exported from spreadsheet tools often start with a UTF-8 byte order
// mark, end lines with CRLF, and occasionally carry bytes that are not valid
// UTF-8. LineReader hides all three so the pipeline sees clean lines.

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MaxLineSize is the longest line LineReader accepts.
var MaxLineSize = 1024 * 1024

// LineReader reads a CSV source one physical line at a time.
type LineReader struct {
	scanner   *bufio.Scanner
	counter   *CountingReader
	line      int
	bomRemove bool
}

// NewLineReader wraps r. The reader strips a leading BOM, trailing CR and
// replaces invalid UTF-8 with '?'.
func NewLineReader(r io.Reader) *LineReader {
	counter := &CountingReader{reader: r}
	sc := bufio.NewScanner(counter)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &LineReader{scanner: sc, counter: counter, bomRemove: true}
}

// Next returns the next line without its terminator. ok is false at EOF or
// on error; call Err to distinguish.
func (lr *LineReader) Next() (line string, ok bool) {
	if !lr.scanner.Scan() {
		return "", false
	}
	b := lr.scanner.Bytes()
	if lr.bomRemove {
		b = bytes.TrimPrefix(b, utf8BOM)
		lr.bomRemove = false
	}
	b = bytes.TrimSuffix(b, []byte{'\r'})
	lr.line++
	return strings.ToValidUTF8(string(b), "?"), true
}

// Line returns the 1-based physical line number of the last line returned.
func (lr *LineReader) Line() int {
	return lr.line
}

// BytesRead returns how many bytes have been consumed from the source.
func (lr *LineReader) BytesRead() int64 {
	return lr.counter.BytesRead
}

// Err returns the first non-EOF error encountered.
func (lr *LineReader) Err() error {
	return lr.scanner.Err()
}

// CountingReader tracks bytes read for progress reporting.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.BytesRead += int64(n)
	return n, err
}
