package qrapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MikhailRaia/qr-generator/internal/model"
)

// ErrorMessage extracts a human readable message from an error response.
// The order is: a string "message", then "detail", then the reason phrase
// sent by the service, then a generic message.
func ErrorMessage(statusCode int, reason string, body []byte) string {
	var errResp model.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if msg := stringValue(errResp.Message); msg != "" {
			return msg
		}
		if msg := detailMessage(errResp.Detail); msg != "" {
			return msg
		}
	}

	if reason = strings.TrimSpace(reason); reason != "" {
		return reason
	}

	return fmt.Sprintf("HTTP error! status: %d", statusCode)
}

// ReasonPhrase returns the text after the code in the status line of resp.
func ReasonPhrase(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

func stringValue(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// detailMessage renders "detail", which is a string, a list of validation
// errors with "msg" fields, or an arbitrary JSON value.
func detailMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	if bytes.HasPrefix(raw, []byte(`"`)) {
		return stringValue(raw)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return ""
	}
	return compact.String()
}
