package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads header-led CSV records and exposes each data row as a
// column-name → value mapping. Ragged rows are tolerated: missing trailing
// columns resolve to empty strings, extra columns are dropped.
type Parser struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool

	headers    []string
	reader     *csv.Reader
	currentRow int
}

// Option is a functional option for Parser configuration
type Option func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) Option {
	return func(p *Parser) { p.delimiter = d }
}

// WithTrimSpace controls trimming of leading/trailing spaces (default on)
func WithTrimSpace(trim bool) Option {
	return func(p *Parser) { p.trimSpace = trim }
}

// NewParser creates a parser over the reader, stripping a UTF-8 BOM when
// present and rejecting non-UTF-8 content up front.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	p := &Parser{
		delimiter:  ',',
		lazyQuotes: true,
		trimSpace:  true,
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if bytes.Equal(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = buf.Discard(3)
	}

	if err := checkUTF8(buf); err != nil {
		return nil, err
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = p.lazyQuotes
	p.reader.TrimLeadingSpace = p.trimSpace
	p.reader.FieldsPerRecord = -1

	return p, nil
}

// ParseBytes creates a parser from an in-memory buffer
func ParseBytes(data []byte, opts ...Option) (*Parser, error) {
	return NewParser(bytes.NewReader(data), opts...)
}

func checkUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read source for encoding check: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	// Trim a possibly split trailing rune before validating a partial buffer
	if len(content) == checkSize {
		for i := 0; i < utf8.UTFMax && len(content) > 0; i++ {
			if r, _ := utf8.DecodeLastRune(content); r != utf8.RuneError {
				break
			}
			content = content[:len(content)-1]
		}
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader reads and stores the header row
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		if p.trimSpace {
			h = strings.TrimSpace(h)
		}
		p.headers[i] = h
	}
	p.currentRow = 1

	return nil
}

// Headers returns the parsed header names
func (p *Parser) Headers() []string {
	return p.headers
}

// Row is one parsed CSV record with its source line number
type Row struct {
	LineNumber int
	Data       map[string]string
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row, mapping fields onto the header. Returns
// io.EOF at the end of the source.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
	}
	for i, header := range p.headers {
		value := ""
		if i < len(record) {
			value = record[i]
			if p.trimSpace {
				value = strings.TrimSpace(value)
			}
		}
		row.Data[header] = value
	}

	return row, nil
}

// ReadAll reads all remaining rows, skipping completely empty ones. A
// malformed record degrades to a skipped row rather than aborting the read.
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
