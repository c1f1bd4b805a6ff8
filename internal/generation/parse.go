package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/kotoba/internal/llm"
)

// wrapperKeys are the object keys a reply may nest its list under, in the
// order they are tried.
var wrapperKeys = []string{"items", "data"}

// extractList pulls the record list out of a reply. It accepts a bare JSON
// array or an object wrapping the array under one of wrapperKeys, with any
// prose or markdown fences around it ignored. Each top-level '[' or '{' is
// tried as a start in turn, so brackets in leading prose do not hide the
// payload.
func extractList(content []byte) (json.RawMessage, error) {
	var first error
	for off := 0; off < len(content); {
		i := bytes.IndexAny(content[off:], "[{")
		if i == -1 {
			break
		}
		off += i

		var value json.RawMessage
		dec := json.NewDecoder(bytes.NewReader(content[off:]))
		if err := dec.Decode(&value); err != nil {
			off++
			continue
		}
		list, err := listFrom(value)
		if err == nil {
			return list, nil
		}
		if first == nil {
			first = err
		}
		// Values nested in a rejected one are not candidates.
		off += int(dec.InputOffset())
	}
	if first != nil {
		return nil, first
	}
	return nil, errors.New("no JSON found in reply")
}

// listFrom returns value itself when it is an array, or the array stored
// under the first present wrapper key when it is an object.
func listFrom(value json.RawMessage) (json.RawMessage, error) {
	if value[0] == '[' {
		return value, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(value, &obj); err != nil {
		return nil, fmt.Errorf("reply is not valid JSON: %w", err)
	}
	for _, key := range wrapperKeys {
		raw, ok := obj[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		return raw, nil
	}
	return nil, fmt.Errorf("reply object has none of the keys %v", wrapperKeys)
}

// decodeList extracts, validates and decodes a reply into out, which must
// point to a slice. Every failure is an *llm.ErrInvalidResponse except an
// empty list, which is ErrEmptyResult.
func decodeList(resp *llm.Response, schema *llm.Schema, out any) error {
	list, err := extractList(resp.Content)
	if err != nil {
		if resp.StopReason == "max_tokens" {
			return &llm.ErrMaxTokensExceeded{Content: resp.Content}
		}
		return &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	if err := llm.Validate(schema, list); err != nil {
		return err
	}
	if err := json.Unmarshal(list, out); err != nil {
		return &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return nil
}
