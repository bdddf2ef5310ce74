package fill

import (
	"errors"
	"testing"
)

func TestStringValidator_AdaptsAnswerTypes(t *testing.T) {
	errEmpty := errors.New("value is required")
	validate := stringValidator(func(s string) error {
		if s == "" {
			return errEmpty
		}
		return nil
	})

	if err := validate("72.5"); err != nil {
		t.Errorf("validate(%q) = %v, want nil", "72.5", err)
	}
	if err := validate(""); !errors.Is(err, errEmpty) {
		t.Errorf("validate(\"\") = %v, want %v", err, errEmpty)
	}
	// Non-string answers validate as the zero string.
	if err := validate(42); !errors.Is(err, errEmpty) {
		t.Errorf("validate(42) = %v, want %v", err, errEmpty)
	}
}
