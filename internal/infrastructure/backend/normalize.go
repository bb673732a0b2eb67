package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// normalizeList decodes a collection answer. The backend has served lists as a
// bare array, a paginated {"results": [...]}, an envelope {"data": [...]} and an
// enveloped page {"data": {"results": [...]}}; all four decode the same way.
func normalizeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	case '{':
		var wrapper struct {
			Results json.RawMessage `json:"results"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("decode list wrapper: %w", err)
		}
		if isArray(wrapper.Results) {
			return normalizeList[T](wrapper.Results)
		}
		if len(bytes.TrimSpace(wrapper.Data)) > 0 {
			inner := bytes.TrimSpace(wrapper.Data)
			if inner[0] == '{' {
				var page struct {
					Results json.RawMessage `json:"results"`
				}
				if err := json.Unmarshal(inner, &page); err != nil {
					return nil, fmt.Errorf("decode data page: %w", err)
				}
				if isArray(page.Results) {
					return normalizeList[T](page.Results)
				}
				return nil, ErrUnexpectedShape
			}
			return normalizeList[T](inner)
		}
	}
	return nil, ErrUnexpectedShape
}

// normalizeItem decodes a single resource, unwrapping a {"data": {...}} envelope.
func normalizeItem[T any](raw json.RawMessage) (*T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrUnexpectedShape
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	if data, ok := probe["data"]; ok {
		if _, hasID := probe["id"]; !hasID {
			data = bytes.TrimSpace(data)
			if len(data) > 0 && data[0] == '{' {
				raw = data
			}
		}
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return &item, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
