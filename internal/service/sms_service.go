package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/logger"
)

// SMSSender delivers one text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, toPhone, body string) error
}

// SMSService is a Twilio-style HTTP provider client. One form POST per
// message, basic auth, no automatic retry.
type SMSService struct {
	cfg        *config.SMSConfig
	httpClient *http.Client
}

// NewSMSService creates the SMS client.
func NewSMSService(cfg *config.SMSConfig) *SMSService {
	timeout := 5 * time.Second
	if cfg != nil && cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &SMSService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendSMS posts the message to the provider's Messages endpoint.
func (s *SMSService) SendSMS(ctx context.Context, toPhone, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrSMSServiceDisabled
	}
	if s.cfg.DryRun {
		logger.Infow("sms_dry_run", "to", toPhone, "body_length", len(body))
		return nil
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.PathEscape(s.cfg.AccountSID))

	form := url.Values{}
	form.Set("From", s.cfg.FromNumber)
	form.Set("To", toPhone)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sms provider rejected message: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	return nil
}
