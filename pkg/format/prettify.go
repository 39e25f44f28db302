package format

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fulmenhq/lessonkit/pkg/logger"
	"github.com/tidwall/pretty"
)

// JSONOptions controls how lesson JSON is written back to disk.
type JSONOptions struct {
	Indent          string // "" selects compact output
	TrailingNewline bool
	SizeWarningMB   int
}

// DefaultJSONOptions mirrors the layout of the original lesson files: two-space indent,
// one element per line, trailing newline.
var DefaultJSONOptions = JSONOptions{Indent: "  ", TrailingNewline: true, SizeWarningMB: 50}

// PrettifyJSON re-indents JSON without reordering keys. Non-ASCII text is
// written as raw UTF-8, including text that arrived as \u escapes.
func PrettifyJSON(input []byte, opts JSONOptions) ([]byte, error) {
	if !json.Valid(input) {
		return nil, fmt.Errorf("invalid JSON")
	}

	if opts.SizeWarningMB > 0 && len(input) > opts.SizeWarningMB*1024*1024 {
		logger.Warn(fmt.Sprintf("Processing very large JSON file (>%dMB); may consume significant memory", opts.SizeWarningMB))
	}

	var output []byte
	if opts.Indent == "" {
		output = pretty.Ugly(input)
		if opts.TrailingNewline {
			output = append(output, '\n')
		}
	} else {
		// Width 0 keeps every array element on its own line.
		output = pretty.PrettyOptions(input, &pretty.Options{
			Width:    0,
			Indent:   opts.Indent,
			SortKeys: false,
		})
		if !opts.TrailingNewline {
			output = bytes.TrimRight(output, "\n")
		}
	}

	return unescapeNonASCII(output), nil
}

// MarshalNoEscape encodes v as compact JSON, leaving '&', '<' and '>' unescaped.
func MarshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
