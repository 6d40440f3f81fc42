// Package query selects values from a compiled document with JSONPath.
//
// Expressions are evaluated against the generic decoding of the document, so
// any path that addresses the published JSON works, for example:
//
//	$.clusters[*].slug
//	$.master.tree..[?(@.judge == true)].name
//	$.clusters[?(@.slug == 'judges')].tree.children[*].id
//
// Matched objects are plain maps, so [Write] prints their keys in sorted
// order rather than in the order of the document: a node comes out as
// {"children":[...],"id":...,"name":...}. Scalars and arrays keep their
// order.
package query

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	fterrors "github.com/matzehuels/famtree/pkg/errors"
)

// Compile parses a JSONPath expression. Parse failures carry the
// INVALID_QUERY code.
func Compile(expr string) (jp.Expr, error) {
	if expr == "" {
		return nil, fterrors.New(fterrors.ErrCodeInvalidQuery, "query expression cannot be empty")
	}
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeInvalidQuery, err, "invalid jsonpath %q", expr)
	}
	return x, nil
}

// Select evaluates expr against the JSON document in data and returns every
// match in document order. No match is an empty result, not an error.
func Select(data []byte, expr string) ([]any, error) {
	x, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	root, err := oj.Parse(data)
	if err != nil {
		return nil, fterrors.Wrap(fterrors.ErrCodeInvalidFormat, err, "parse document")
	}
	return x.Get(root), nil
}

// Write encodes each value as compact JSON on its own line. Object keys
// are sorted.
func Write(w io.Writer, values []any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return fterrors.Wrap(fterrors.ErrCodeInternal, err, "encode match")
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
