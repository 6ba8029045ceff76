package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapxfer/pkg/frame"
)

// source is what decoders read from. *os.File satisfies it; columnar
// formats need random access.
type source interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

type codecOptions struct {
	delimiter rune
}

type decodeFunc func(r source, opts codecOptions) (*frame.Frame, error)

type encodeFunc func(w io.Writer, f *frame.Frame, opts codecOptions) error

// format binds an extension to its codec. A zero readDelim or writeDelim
// means the configured delimiter is used. A nil encode marks a read-only
// format.
type format struct {
	name       string
	decode     decodeFunc
	encode     encodeFunc
	readDelim  rune
	writeDelim rune
}

var formats = map[string]format{
	".csv":     {name: "csv", decode: decodeDelimited, encode: encodeDelimited, writeDelim: ','},
	".txt":     {name: "txt", decode: decodeDelimited, encode: encodeDelimited},
	".tsv":     {name: "tsv", decode: decodeDelimited, encode: encodeDelimited, readDelim: '\t', writeDelim: '\t'},
	".xlsx":    {name: "excel", decode: decodeExcel, encode: encodeExcel},
	".xls":     {name: "xls", decode: decodeXLS},
	".json":    {name: "json", decode: decodeJSON, encode: encodeJSON},
	".jsonl":   {name: "jsonl", decode: decodeJSONLines, encode: encodeJSONLines},
	".ndjson":  {name: "jsonl", decode: decodeJSONLines, encode: encodeJSONLines},
	".yaml":    {name: "yaml", decode: decodeYAML, encode: encodeYAML},
	".yml":     {name: "yaml", decode: decodeYAML, encode: encodeYAML},
	".parquet": {name: "parquet", decode: decodeParquet, encode: encodeParquet},
}

// Extensions returns every supported file extension, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supported reports whether path has a supported extension.
func Supported(path string) bool {
	_, err := lookup(path)
	return err == nil
}

// Writable reports whether path has an extension that can be written.
func Writable(path string) bool {
	f, err := lookup(path)
	return err == nil && f.encode != nil
}

func lookup(path string) (format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		if ext == "" {
			ext = "(none)"
		}
		return format{}, fmt.Errorf("unsupported file format %s; supported: %s", ext, strings.Join(Extensions(), ", "))
	}
	return f, nil
}

func (f format) readOptions(configured rune) codecOptions {
	if f.readDelim != 0 {
		return codecOptions{delimiter: f.readDelim}
	}
	return codecOptions{delimiter: configured}
}

func (f format) writeOptions(configured rune) codecOptions {
	if f.writeDelim != 0 {
		return codecOptions{delimiter: f.writeDelim}
	}
	return codecOptions{delimiter: configured}
}
