package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain words", "one two three", []string{"one", "two", "three"}},
		{"double quotes keep a piece whole", `--name "ada lovelace"`, []string{"--name", "ada lovelace"}},
		{"single quotes keep a piece whole", "--name 'ada lovelace'", []string{"--name", "ada lovelace"}},
		{"escaped space joins words", `a\ b c`, []string{"a b", "c"}},
		{"inline values survive", "--count=5 rest", []string{"--count=5", "rest"}},
		{"collapsed whitespace", "  a \t b  ", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input)
			assert.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit_UnterminatedQuote(t *testing.T) {
	_, err := Split(`--name "ada`)
	assert.NotNil(t, err)
}
