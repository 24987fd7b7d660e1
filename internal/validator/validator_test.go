package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Color string `validate:"omitempty,hex_color"`
	Month string `validate:"omitempty,month"`
	Date  string `validate:"omitempty,calendar_date"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"all valid", sample{Color: "#ef4444", Month: "2024-03", Date: "2024-02-29"}, false},
		{"short color", sample{Color: "#fff"}, false},
		{"bad color", sample{Color: "red"}, true},
		{"bad month", sample{Month: "2024-13"}, true},
		{"month with day", sample{Month: "2024-03-01"}, true},
		{"impossible date", sample{Date: "2023-02-29"}, true},
		{"date with time", sample{Date: "2024-03-01T10:00:00Z"}, true},
		{"empty", sample{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
