package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestAsk(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes uppercase", "Y\n", true},
		{"yes with spaces", "  y  \n", true},
		{"no", "n\n", false},
		{"empty answer", "\n", false},
		{"anything else", "yes\n", false},
		{"closed stream", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := NewPrompter(strings.NewReader(tt.input), out)

			if got := p.Ask("Delete stuff?"); got != tt.want {
				t.Errorf("Ask() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Delete stuff?") {
				t.Errorf("prompt not written: %q", out.String())
			}
			if !strings.Contains(out.String(), "(y/N)") {
				t.Errorf("y/N hint not written: %q", out.String())
			}
		})
	}
}
