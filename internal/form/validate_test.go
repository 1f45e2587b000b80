package form

import (
	"testing"

	"github.com/MikhailRaia/qr-generator/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL_BlankInput(t *testing.T) {
	inputs := []string{"", " ", "   ", "\t", "\n", " \t\r\n "}

	for _, input := range inputs {
		_, err := NormalizeURL(input)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyInput), "input %q", input)
	}
}

func TestNormalizeURL_PrependsScheme(t *testing.T) {
	inputs := []string{
		"example.com",
		"www.example.com",
		"example.com/path?q=1#frag",
		"localhost:3000",
		"sub.domain.example.org/a/b",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := NormalizeURL(input)
			require.NoError(t, err)
			assert.Equal(t, "https://"+input, got)
		})
	}
}

func TestNormalizeURL_RejectsStructurallyInvalid(t *testing.T) {
	inputs := []string{
		"not a url",
		"exa mple.com",
		"example.com:port",
		"http://",
		"https://",
		"%zz",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := NormalizeURL(input)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidURLFormat))
		})
	}
}

func TestNormalizeURL_KeepsExistingScheme(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "http://example.com", want: "http://example.com"},
		{input: "https://example.com/a", want: "https://example.com/a"},
		{input: "HTTPS://Example.com", want: "HTTPS://Example.com"},
		{input: "  https://example.com  ", want: "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
