package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// NormalizeBearer strips any existing "Bearer " prefix from a raw credential
// so callers can re-apply exactly one.
func NormalizeBearer(token string) string {
	token = strings.TrimSpace(token)
	for strings.HasPrefix(token, bearerPrefix) {
		token = strings.TrimSpace(strings.TrimPrefix(token, bearerPrefix))
	}
	return token
}

// DecodeJSON reads the full response body and unmarshals it into v.
func DecodeJSON(resp *http.Response, v any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// ReadBody drains the response body, capping what is kept for error messages.
func ReadBody(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	if err != nil {
		return ""
	}
	return string(body)
}
