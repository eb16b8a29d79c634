// Package hcaptcha verifies hCaptcha tokens sent with anonymous form posts.
package hcaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
)

const DefaultVerifyURL = "https://hcaptcha.com/siteverify"

var ErrEmptyToken = errors.New("hCaptcha token is empty")

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

type Verifier struct {
	Secret     string
	VerifyURL  string
	HTTPClient *http.Client
}

// NewFromEnv returns nil when HCAPTCHA_SECRET is not set; forms are then accepted without a captcha.
func NewFromEnv() *Verifier {
	secret := strings.TrimSpace(env.GetEnv("HCAPTCHA_SECRET", ""))
	if secret == "" {
		return nil
	}
	return &Verifier{
		Secret:     secret,
		VerifyURL:  env.GetEnv("HCAPTCHA_VERIFY_URL", DefaultVerifyURL),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify checks token with the hCaptcha API. remoteIP is optional.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrEmptyToken
	}

	formData := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}
	if remoteIP != "" {
		formData.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.VerifyURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := v.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}

	if !response.Success {
		errorMsg := "hCaptcha validation failed"
		if len(response.ErrorCodes) > 0 {
			errorMsg = errorMsg + ": " + strings.Join(response.ErrorCodes, ", ")
		}
		return errors.New(errorMsg)
	}

	return nil
}
