package form

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MikhailRaia/qr-generator/internal/apperrors"
)

const defaultScheme = "https://"

var (
	errNoHost         = errors.New("missing host")
	errUnsupportedURL = errors.New("unsupported scheme")
)

// NormalizeURL turns user input into the URL sent to the QR service.
// Input without an http:// or https:// prefix gets https:// prepended.
func NormalizeURL(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", apperrors.EmptyInput()
	}

	if !hasHTTPScheme(trimmed) {
		trimmed = defaultScheme + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", apperrors.InvalidURLFormat(err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", apperrors.InvalidURLFormat(fmt.Errorf("%w: %q", errUnsupportedURL, parsed.Scheme))
	}

	if parsed.Hostname() == "" {
		return "", apperrors.InvalidURLFormat(errNoHost)
	}

	return trimmed, nil
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
