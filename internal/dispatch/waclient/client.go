package waclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

const (
	defaultBaseURL   = "https://graph.facebook.com/v19.0"
	defaultUserAgent = "contact-relay/0.1"
)

// Config controls how the WhatsApp Cloud API client behaves.
type Config struct {
	BaseURL       string
	AccessToken   string
	PhoneNumberID string
	Timeout       time.Duration
	HTTPClient    *http.Client
	Logger        *slog.Logger
	UserAgent     string
}

// Client wraps the Cloud API endpoints used for templated sends.
type Client struct {
	accessToken   string
	baseURL       string
	phoneNumberID string
	httpClient    *http.Client
	logger        *slog.Logger
	userAgent     string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.New("waclient: access token is required")
	}
	if strings.TrimSpace(cfg.PhoneNumberID) == "" {
		return nil, errors.New("waclient: phone number id is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		accessToken:   cfg.AccessToken,
		baseURL:       baseURL,
		phoneNumberID: cfg.PhoneNumberID,
		httpClient:    httpClient,
		logger:        logger,
		userAgent:     userAgent,
	}, nil
}

// TemplateMessage is one templated send: the pre-approved template name,
// its language, and the text bound to the template's body parameters.
type TemplateMessage struct {
	To             string
	Template       string
	LanguageCode   string
	BodyParameters []string
}

func (m TemplateMessage) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return errors.New("waclient: recipient number required")
	}
	if strings.TrimSpace(m.Template) == "" {
		return errors.New("waclient: template name required")
	}
	return nil
}

// SendResult carries the provider-assigned id of an accepted message.
type SendResult struct {
	MessageID string
}

// SendTemplate posts one templated message to the recipient. Non-2xx
// responses come back as *APIError; transport failures as wrapped errors.
func (c *Client) SendTemplate(ctx context.Context, msg TemplateMessage) (*SendResult, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	language := msg.LanguageCode
	if language == "" {
		language = "pt_BR"
	}
	parameters := make([]bodyParameter, 0, len(msg.BodyParameters))
	for _, p := range msg.BodyParameters {
		parameters = append(parameters, bodyParameter{Type: "text", Text: p})
	}
	body, err := json.Marshal(sendTemplateRequest{
		MessagingProduct: "whatsapp",
		To:               msg.To,
		Type:             "template",
		Template: templatePayload{
			Name:     msg.Template,
			Language: templateLanguage{Code: language},
			Components: []templateComponent{
				{Type: "body", Parameters: parameters},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("waclient: marshal send body: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("waclient: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("waclient: http error: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("waclient: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}

	var parsed sendTemplateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("waclient: decode response: %w", err)
	}
	result := &SendResult{}
	if len(parsed.Messages) > 0 {
		result.MessageID = parsed.Messages[0].ID
	}
	return result, nil
}
