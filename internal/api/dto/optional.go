package dto

import (
	"bytes"
	"encoding/json"
)

// OptionalInt64 distinguishes an absent JSON field from an explicit null.
// Absent fields keep the stored value; an explicit null clears it.
type OptionalInt64 struct {
	Present bool
	Value   *int64
}

func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o OptionalInt64) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
