package types

import (
	"math"
	"testing"
	"time"
)

func TestInferValueType(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr error
	}{
		{"int", 5, ValueTypeInteger, nil},
		{"int64", int64(5), ValueTypeInteger, nil},
		{"uint32", uint32(5), ValueTypeInteger, nil},
		{"float64", 2.5, ValueTypeFloat, nil},
		{"float32", float32(2.5), ValueTypeFloat, nil},
		{"string", "red", ValueTypeText, nil},
		{"bool", true, ValueTypeBoolean, nil},
		{"time", time.Now(), ValueTypeTimestamp, nil},
		{"nil", nil, "", ErrInvalidValueType},
		{"slice", []string{"x"}, "", ErrInvalidValueType},
		{"map", map[string]any{}, "", ErrInvalidValueType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InferValueType(tt.value)
			if err != tt.wantErr {
				t.Errorf("InferValueType(%v) error = %v, want %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("InferValueType(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		valueType string
		value     any
		want      any
		wantErr   error
	}{
		{"int to integer", ValueTypeInteger, 5, int64(5), nil},
		{"int32 widens", ValueTypeInteger, int32(7), int64(7), nil},
		{"uint64 in range", ValueTypeInteger, uint64(7), int64(7), nil},
		{"uint64 overflow", ValueTypeInteger, uint64(math.MaxInt64) + 1, nil, ErrTypeMismatch},
		{"uint64 max", ValueTypeInteger, uint64(math.MaxInt64), int64(math.MaxInt64), nil},
		{"uint64 overflow to float", ValueTypeFloat, uint64(math.MaxInt64) + 1, nil, ErrTypeMismatch},
		{"float to integer", ValueTypeInteger, 2.5, nil, ErrTypeMismatch},
		{"string to integer", ValueTypeInteger, "5", nil, ErrTypeMismatch},
		{"float64", ValueTypeFloat, 2.5, float64(2.5), nil},
		{"int to float", ValueTypeFloat, 5, float64(5), nil},
		{"string to float", ValueTypeFloat, "2.5", nil, ErrTypeMismatch},
		{"text", ValueTypeText, "red", "red", nil},
		{"int to text", ValueTypeText, 5, nil, ErrTypeMismatch},
		{"bool", ValueTypeBoolean, true, true, nil},
		{"text to bool", ValueTypeBoolean, "true", nil, ErrTypeMismatch},
		{"time", ValueTypeTimestamp, ts, ts, nil},
		{"rfc3339 string", ValueTypeTimestamp, "2024-06-01T12:00:00Z", ts, nil},
		{"bad timestamp", ValueTypeTimestamp, "yesterday", nil, ErrTypeMismatch},
		{"unknown type", "blob", "x", nil, ErrInvalidValueType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.valueType, tt.value)
			if err != tt.wantErr {
				t.Fatalf("Normalize(%q, %v) error = %v, want %v", tt.valueType, tt.value, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if wantTime, ok := tt.want.(time.Time); ok {
				gotTime, ok := got.(time.Time)
				if !ok || !gotTime.Equal(wantTime) {
					t.Errorf("Normalize(%q, %v) = %v, want %v", tt.valueType, tt.value, got, tt.want)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Normalize(%q, %v) = %v, want %v", tt.valueType, tt.value, got, tt.want)
			}
		})
	}
}

func TestIsValidValueType(t *testing.T) {
	for _, vt := range ValueTypes {
		if !IsValidValueType(vt) {
			t.Errorf("IsValidValueType(%q) = false, want true", vt)
		}
	}
	for _, vt := range []string{"", "date", "list", "categorical", "INTEGER"} {
		if IsValidValueType(vt) {
			t.Errorf("IsValidValueType(%q) = true, want false", vt)
		}
	}
}
