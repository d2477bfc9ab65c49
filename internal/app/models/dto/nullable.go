package dto

import (
	"bytes"
	"encoding/json"
)

// NullableString distinguishes an absent JSON field from an explicit null.
// The update path needs the distinction for fields like nurseId, where
// null means "unassign" and absence means "leave unchanged".
type NullableString struct {
	// Set is true when the field appeared in the JSON payload at all.
	Set bool
	// Valid is true when the field carried a non-null value.
	Valid bool
	// Value is the decoded string when Valid.
	Value string
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the
// field is present, so Set is always true here.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		n.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullableString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
