package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// NullableUUID distinguishes a JSON field that was absent from one that was
// explicitly null. PATCH handlers use it to clear optional references.
type NullableUUID struct {
	Valid bool
	Value *uuid.UUID
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 {
		return nil
	}
	if bytes.Equal(raw, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var id uuid.UUID
	if err := json.Unmarshal(raw, &id); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &id
	return nil
}
