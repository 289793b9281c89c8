package middleware

import (
	"testing"
)

func TestCustomValidators(t *testing.T) {
	v := InitValidator()

	cases := []struct {
		tag   string
		value string
		valid bool
	}{
		{"sscc", "340123456789012345", true},
		{"sscc", "34012345678901234", false},
		{"sscc", "34012345678901234X", false},
		{"process_name", "pick", true},
		{"process_name", "pick-and-pack", true},
		{"process_name", "putaway", false},
		{"round_name", "ROUND-2024_001", true},
		{"round_name", "r", false},
		{"handling_unit_id", "HU-000123", true},
		{"handling_unit_id", "x", false},
		{"location_id", "A01-02-03", true},
		{"location_id", "a01", false},
		{"safe_string", "picker one", true},
	}

	for _, tc := range cases {
		err := v.Var(tc.value, tc.tag)
		if tc.valid && err != nil {
			t.Errorf("Expected %q to satisfy %s, got %v", tc.value, tc.tag, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("Expected %q to fail %s", tc.value, tc.tag)
		}
	}
}

func TestStepCodeValidator(t *testing.T) {
	v := InitValidator()

	for _, code := range []int{5, 10, 15, 20, 30, 40, 50, 60, 90} {
		if err := v.Var(code, "step_code"); err != nil {
			t.Errorf("Expected step code %d to be valid, got %v", code, err)
		}
	}
	for _, code := range []int{0, 25, 45, 100} {
		if err := v.Var(code, "step_code"); err == nil {
			t.Errorf("Expected step code %d to be rejected", code)
		}
	}
}

func TestValidatorTagsOnRequestStruct(t *testing.T) {
	v := InitValidator()

	type startRequest struct {
		OwnerID     string `json:"ownerId" validate:"required,safe_string"`
		ProcessName string `json:"processName" validate:"required,process_name"`
	}

	if err := v.Struct(startRequest{OwnerID: "picker-1", ProcessName: "pick"}); err != nil {
		t.Errorf("Expected valid request, got %v", err)
	}
	if err := v.Struct(startRequest{OwnerID: "picker-1", ProcessName: "sort"}); err == nil {
		t.Error("Expected unknown process name to be rejected")
	}
}
