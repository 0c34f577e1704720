package models

import (
	"bytes"
	"encoding/json"
)

// SportRef представляет вид спорта в ответе события.
// Поле "sport" приходит либо строкой с названием, либо объектом.
type SportRef struct {
	ID       ID     `json:"id,omitempty"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

func (s *SportRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = SportRef{}
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = SportRef{Name: name}
		return nil
	}

	type plain SportRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = SportRef(p)
	return nil
}
