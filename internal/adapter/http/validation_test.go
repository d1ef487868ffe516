package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		BorrowerID string `validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{BorrowerID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		bad := P{BorrowerID: s}
		err := cv.Validate(bad)
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		found := false
		for _, e := range fe {
			if e.Field == "BorrowerID" && strings.Contains(e.Message, "32-char lowercase hex") {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestDecimalAmountValidation(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `validate:"required,dpos,dscale"`
	}
	cv := NewValidator()

	for _, v := range []string{"1", "5000", "0.00000001", "99999.12345678"} {
		if err := cv.Validate(P{Amount: decimal.RequireFromString(v)}); err != nil {
			t.Fatalf("expected %s to pass, got %v", v, err)
		}
	}

	bad := map[string]string{
		"0":           "positive amount",
		"-3.14":       "positive amount",
		"1.123456789": "at most 8 decimal places",
	}
	for v, msg := range bad {
		err := cv.Validate(P{Amount: decimal.RequireFromString(v)})
		if err == nil {
			t.Fatalf("expected error for %s", v)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "Amount", msg) {
			t.Fatalf("expected %q for %s, got %+v", msg, v, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string `validate:"required"`
		Min  int    `validate:"gte=10"`
		Max  int    `validate:"lte=5"`
		Doc  string `validate:"oneof=passport id_card"`
		Note string `validate:"max=3"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{Name: "", Min: 9, Max: 6, Doc: "selfie", Note: "toolong"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
	if !containsFieldMsg(fe, "Doc", "one of: passport id_card") {
		t.Fatalf("missing oneof message for Doc: %+v", fe)
	}
	if !containsFieldMsg(fe, "Note", "at most 3 characters") {
		t.Fatalf("missing max message for Note: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
