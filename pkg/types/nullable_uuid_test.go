package types

import (
	"encoding/json"
	"testing"
)

func TestNullableUUIDUnmarshal(t *testing.T) {
	type patch struct {
		FarmID NullableUUID `json:"fazenda_id"`
	}

	var got patch
	if err := json.Unmarshal([]byte(`{"fazenda_id": "00000000-0000-0000-0000-000000000001"}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.FarmID.Valid || got.FarmID.Value == nil {
		t.Fatalf("expected set uuid, got %+v", got.FarmID)
	}
	if got.FarmID.Value.String() != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("unexpected uuid %s", got.FarmID.Value)
	}

	got = patch{}
	if err := json.Unmarshal([]byte(`{"fazenda_id": null}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.FarmID.Valid || got.FarmID.Value != nil {
		t.Fatalf("expected explicit null, got %+v", got.FarmID)
	}

	got = patch{}
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatalf("unmarshal missing: %v", err)
	}
	if got.FarmID.Valid {
		t.Fatalf("expected absent field to stay invalid, got %+v", got.FarmID)
	}
}
