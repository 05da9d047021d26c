package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldText is a free-text form field. Clients may send it as a JSON string
// or a bare number; both decode to the literal text.
type FieldText string

func (f *FieldText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FieldText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("field must be text or a number: %w", err)
	}
	*f = FieldText(n.String())
	return nil
}

func (f FieldText) String() string { return string(f) }
