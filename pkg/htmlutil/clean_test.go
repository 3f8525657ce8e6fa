package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"plain text", "Dune", "Dune"},
		{"surrounding whitespace", "  Dune \n", "Dune"},
		{"inner whitespace", "The   Left Hand\tof Darkness", "The Left Hand of Darkness"},
		{"entities", "Pride &amp; Prejudice", "Pride & Prejudice"},
		{"numeric entity", "Caf&#233;", "Café"},
		{"inline tags", "<i>Dune</i> Messiah", "Dune Messiah"},
		{"block tags separate words", "<p>First</p><p>Second</p>", "First Second"},
		{"self closing", "Line<br/>Break", "Line Break"},
		{"only tags", "<b></b>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}
