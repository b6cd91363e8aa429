package format

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"

	"github.com/sambeau/eol/pkg/eol/ast"
)

// JSONOptions controls WriteJSON.
type JSONOptions struct {
	Gzip   bool // compress the output
	Indent bool // two-space indentation instead of compact output
}

// WriteJSON encodes n to w. Kinds are written by name and spans as
// positions; token detail is not included.
func WriteJSON(w io.Writer, n *ast.Node, opts JSONOptions) error {
	if !opts.Gzip {
		return encodeJSON(w, n, opts.Indent)
	}
	zw := gzip.NewWriter(w)
	if err := encodeJSON(zw, n, opts.Indent); err != nil {
		_ = zw.Close()
		return err
	}
	return errors.Wrap(zw.Close(), "closing gzip stream")
}

func encodeJSON(w io.Writer, n *ast.Node, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return errors.Wrap(enc.Encode(n), "encoding syntax tree")
}

// gzipMagic starts every gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// ReadJSON decodes a tree written by WriteJSON, compressed or not.
func ReadJSON(r io.Reader) (*ast.Node, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "opening gzip stream")
		}
		defer zr.Close()
		return decodeJSON(zr)
	}
	return decodeJSON(br)
}

func decodeJSON(r io.Reader) (*ast.Node, error) {
	var n ast.Node
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, errors.Wrap(err, "decoding syntax tree")
	}
	return &n, nil
}
