package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smart-bharat/backend/internal/config"
)

// SMSSender delivers a notification text to a phone number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioClient posts form-encoded messages to the Twilio REST API with HTTP
// Basic auth, as the free-trial account supports.
type TwilioClient struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioClient builds an SMS sender from configuration.
func NewTwilioClient(cfg config.EmergencyConfig) *TwilioClient {
	return &TwilioClient{
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioFromNumber,
		baseURL:    "https://api.twilio.com",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the API host, for tests.
func (c *TwilioClient) WithBaseURL(baseURL string) *TwilioClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Send delivers one SMS.
func (c *TwilioClient) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("sms: unexpected status %d: %s", res.StatusCode, string(buf))
	}
	return nil
}
