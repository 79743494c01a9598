// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
)

// ErrNoJSON is returned when a reply holds no decodable JSON value.
var ErrNoJSON = errors.New("reply contains no JSON")

// DecodeLenient decodes a model reply into v. The whole reply is tried
// first; failing that, the span from the first opening bracket of the
// expected kind to the last matching closing bracket. Markdown code fences
// are ignored.
func DecodeLenient(reply string, v any) error {
	reply = strings.TrimSpace(reply)
	if err := json.Unmarshal([]byte(reply), v); err == nil {
		return nil
	}

	open, close := "{", "}"
	if isSlice(v) {
		open, close = "[", "]"
	}
	start := strings.Index(reply, open)
	end := strings.LastIndex(reply, close)
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), v); err != nil {
		return errors.Join(ErrNoJSON, err)
	}
	return nil
}

func isSlice(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Slice
}
