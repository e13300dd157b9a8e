package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

type Encoding string

const (
	EncodingLatin1 Encoding = "latin1"
	EncodingUTF8   Encoding = "utf-8"
)

type readConfig struct {
	encoding Encoding
}

type ReadOption func(*readConfig)

// WithEncoding sets the encoding of the input. The default is Latin-1.
func WithEncoding(encoding Encoding) ReadOption {
	return func(c *readConfig) {
		c.encoding = encoding
	}
}

func ParseEncoding(value string) (Encoding, error) {
	switch strings.ToLower(value) {
	case "latin1", "latin-1", "iso-8859-1":
		return EncodingLatin1, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	}
	return "", fmt.Errorf("unsupported encoding: %s", value)
}

// ReadFile loads a whole table from a delimited file
func ReadFile(path string, opts ...ReadOption) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	t, err := Read(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("read %s > %w", path, err)
	}
	return t, nil
}

// Read loads a whole table. The first header cell names the index column.
func Read(r io.Reader, opts ...ReadOption) (*Table, error) {
	cfg := readConfig{encoding: EncodingLatin1}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch cfg.encoding {
	case EncodingLatin1:
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	case EncodingUTF8:
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", cfg.encoding)
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty input, header is missing")
	}
	if err != nil {
		return nil, fmt.Errorf("csv.Reader.Read(header) > %w", err)
	}
	if len(header) == 0 {
		return nil, errors.New("header has no columns")
	}

	t, err := New(header[0], header[1:])
	if err != nil {
		return nil, err
	}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv.Reader.Read > %w", err)
		}
		if err := t.Append(record[0], record[1:]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// WriteFile writes the whole table as UTF-8. The file is truncated first,
// a failure in the middle leaves a partial file.
func (t *Table) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create > %w", err)
	}

	if err := t.Write(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s > %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	return nil
}

func (t *Table) Write(w io.Writer) error {
	buffered := bufio.NewWriter(w)
	writer := csv.NewWriter(buffered)

	if err := writer.Write(append([]string{t.IndexName}, t.Columns...)); err != nil {
		return fmt.Errorf("csv.Writer.Write(header) > %w", err)
	}
	for row := range t.rows {
		if err := writer.Write(append([]string{t.Index[row]}, t.rows[row]...)); err != nil {
			return fmt.Errorf("csv.Writer.Write(%d) > %w", row, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv.Writer.Flush > %w", err)
	}
	return buffered.Flush()
}
