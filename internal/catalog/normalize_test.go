package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Liverpool FC", "liverpool fc"},
		{"collapses whitespace", "  Manchester   United ", "manchester united"},
		{"strips diacritics", "Atlético de Madrid", "atletico de madrid"},
		{"strips cedilla and tilde", "São Paulo Futebol Clube", "sao paulo futebol clube"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestStripStopwords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips club suffix", "liverpool fc reserve", "liverpool reserve"},
		{"keeps name when full strip leaves one token", "ac milan", "ac milan"},
		{"reduced set still applies", "de la cruz", "cruz"},
		{"multi token survives full strip", "atletico de madrid", "atletico madrid"},
		{"no stopwords", "manchester united", "manchester united"},
		{"all stopwords falls back to input", "de la", "de la"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripStopwords(tt.input))
		})
	}
}
