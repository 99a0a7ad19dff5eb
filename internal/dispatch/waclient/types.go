package waclient

import (
	"encoding/json"
	"fmt"
)

type sendTemplateRequest struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Template         templatePayload `json:"template"`
}

type templatePayload struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string          `json:"type"`
	Parameters []bodyParameter `json:"parameters"`
}

type bodyParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendTemplateResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIError is a structured Cloud API error response.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message,omitempty"`
	Type       string `json:"type,omitempty"`
	Code       int    `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("waclient: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("waclient: http status %d", e.StatusCode)
}

func decodeAPIError(status int, body []byte) error {
	var wrapper struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || wrapper.Error == (APIError{}) {
		return &APIError{StatusCode: status, Message: string(body)}
	}
	parsed := wrapper.Error
	parsed.StatusCode = status
	return &parsed
}
