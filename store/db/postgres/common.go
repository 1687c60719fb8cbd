package postgres

import (
	"encoding/json"
	"fmt"
	"strings"
)

// placeholder returns a positional placeholder for PostgreSQL ($1, $2, ...)
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n placeholders for PostgreSQL
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

func marshalStrings(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	bytes, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(bytes), nil
}

func unmarshalStrings(raw string) ([]string, error) {
	list := []string{}
	if raw == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string list: %w", err)
	}
	return list, nil
}
