package utils

import (
	"encoding/json"
	"fmt"
)

// EncodeJSON encodes any value to JSON bytes
func EncodeJSON[T any](value T) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	return data, nil
}

// DecodeJSON decodes JSON bytes to the specified type
func DecodeJSON[T any](data []byte) (T, error) {
	var result T
	if len(data) == 0 {
		return result, fmt.Errorf("JSON data is empty")
	}

	err := json.Unmarshal(data, &result)
	if err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON (bytes length: %d): %w", len(data), err)
	}

	return result, nil
}
