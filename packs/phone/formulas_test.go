// ABOUTME: Tests for the phone pack formulas.
// ABOUTME: Validation, formatting outputs, and metadata lookup.

package phone

import (
	"context"
	"errors"
	"testing"

	"github.com/2389/packkit/packs/core"
)

func formulaByName(t *testing.T, name string) core.Formula {
	t.Helper()
	pack := &Pack{}
	for _, f := range pack.Formulas() {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("formula %q not found", name)
	return core.Formula{}
}

func TestIsValidNumber(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want bool
	}{
		{"valid US e164", map[string]any{"number": "+16502530000"}, true},
		{"valid with region", map[string]any{"number": "(650) 253-0000", "regionCode": "US"}, true},
		{"valid GB", map[string]any{"number": "+442070313000"}, true},
		{"too short", map[string]any{"number": "+1234"}, false},
		{"not a number", map[string]any{"number": "hello"}, false},
		{"missing region for national format", map[string]any{"number": "650-253-0000"}, false},
	}

	formula := formulaByName(t, "IsValidNumber")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formula.Execute(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("IsValidNumber() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsValidNumber(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"e164", "+16502530000"},
		{"international", "+1 650-253-0000"},
		{"national", "(650) 253-0000"},
		{"rfc3966", "tel:+1-650-253-0000"},
	}

	formula := formulaByName(t, "FormatNumber")
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := formula.Execute(context.Background(), map[string]any{
				"number": "+16502530000",
				"format": tt.format,
			})
			if err != nil {
				t.Fatalf("FormatNumber() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatNumber(%s) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatNumberUnknownFormat(t *testing.T) {
	formula := formulaByName(t, "FormatNumber")
	_, err := formula.Execute(context.Background(), map[string]any{
		"number": "+16502530000",
		"format": "fancy",
	})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	var userErr *core.UserVisibleError
	if !errors.As(err, &userErr) {
		t.Errorf("expected UserVisibleError, got %T", err)
	}
}

func TestFormatNumberUnparseable(t *testing.T) {
	formula := formulaByName(t, "FormatNumber")
	_, err := formula.Execute(context.Background(), map[string]any{
		"number": "hello",
		"format": "e164",
	})
	if err == nil {
		t.Fatal("expected error for unparseable number")
	}
}

func TestNumberMetadata(t *testing.T) {
	formula := formulaByName(t, "NumberMetadata")
	result, err := formula.Execute(context.Background(), map[string]any{"number": "+16502530000"})
	if err != nil {
		t.Fatalf("NumberMetadata() error = %v", err)
	}

	meta, ok := result.(core.Item)
	if !ok {
		t.Fatalf("result = %T, want core.Item", result)
	}

	if meta["countryCode"] != 1 {
		t.Errorf("countryCode = %v, want 1", meta["countryCode"])
	}
	if meta["regionCode"] != "US" {
		t.Errorf("regionCode = %v, want US", meta["regionCode"])
	}
	if meta["valid"] != true {
		t.Errorf("valid = %v, want true", meta["valid"])
	}
	if meta["e164"] != "+16502530000" {
		t.Errorf("e164 = %v", meta["e164"])
	}
	if meta["numberType"] != "fixedLineOrMobile" {
		t.Errorf("numberType = %v", meta["numberType"])
	}
}

func TestNumberMetadataMissingNumber(t *testing.T) {
	formula := formulaByName(t, "NumberMetadata")
	_, err := formula.Execute(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing number")
	}
}
