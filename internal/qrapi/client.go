// Package qrapi talks to the external QR code microservice.
package qrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MikhailRaia/qr-generator/internal/apperrors"
	"github.com/MikhailRaia/qr-generator/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	generatePath = "/generate_qr"

	contentTypeJSON = "application/json"
)

var errMissingFileURL = errors.New("file_url is missing")

// Client calls POST {baseURL}/generate_qr.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client. A nil httpClient means a plain &http.Client{} without a timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the address the image paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Generate requests a QR code for validatedURL and returns the address of the image.
func (c *Client) Generate(ctx context.Context, validatedURL string) (string, error) {
	payload, err := json.Marshal(model.GenerateRequest{URL: validatedURL})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", req.URL.String()).Msg("QR service unreachable")
		return "", apperrors.NetworkFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NetworkFailure(fmt.Errorf("failed to read response body: %w", err))
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("QR service responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := ErrorMessage(resp.StatusCode, ReasonPhrase(resp), body)
		log.Warn().Int("status", resp.StatusCode).Str("message", message).Msg("QR service returned an error")
		return "", apperrors.HTTPError(resp.StatusCode, message)
	}

	var generated model.GenerateResponse
	if err := json.Unmarshal(body, &generated); err != nil {
		return "", apperrors.MalformedResponse(fmt.Errorf("failed to parse response: %w", err))
	}

	if generated.FileURL == "" {
		return "", apperrors.MalformedResponse(errMissingFileURL)
	}

	return c.ImageURL(generated.FileURL), nil
}

// ImageURL resolves a file_url returned by the service. The two parts are concatenated verbatim.
func (c *Client) ImageURL(fileURL string) string {
	return c.baseURL + fileURL
}
