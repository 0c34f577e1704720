package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID — непрозрачный идентификатор. Бэкенд отдаёт его то числом, то строкой,
// поэтому декодируем оба варианта и всегда кодируем строкой.
type ID string

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// Equal сравнивает идентификаторы как строки, без учёта пробелов по краям.
func (id ID) Equal(other ID) bool {
	return !id.IsZero() && strings.TrimSpace(string(id)) == strings.TrimSpace(string(other))
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id string: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", string(data))
	}
	*id = ID(n.String())
	return nil
}
