package http

import (
	"testing"
)

type dec2Probe struct {
	Amount float64 `validate:"required,gt=0,dec2"`
}

func TestValidator_Dec2(t *testing.T) {
	cv := NewValidator()

	tests := []struct {
		name   string
		amount float64
		wantOK bool
	}{
		{"whole number", 1000, true},
		{"two decimals", 1080.25, true},
		{"one decimal", 99.5, true},
		{"three decimals", 10.005, false},
		{"zero fails required", 0, false},
		{"negative fails gt", -5, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Validate(&dec2Probe{Amount: tt.amount})
			if (err == nil) != tt.wantOK {
				t.Fatalf("Validate(%v) err=%v, wantOK=%v", tt.amount, err, tt.wantOK)
			}
		})
	}
}

func TestToFieldErrors(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(&dec2Probe{Amount: 10.005})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	fes := ToFieldErrors(err)
	if len(fes) != 1 || fes[0].Field != "Amount" {
		t.Fatalf("unexpected field errors: %+v", fes)
	}
	if fes[0].Message != "must have at most 2 decimal places" {
		t.Fatalf("message = %q", fes[0].Message)
	}
}
