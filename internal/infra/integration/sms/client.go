package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

const providerName = "sms_verification"

// Client talks to the SMS verification provider. Its auth token lives in the
// shared TokenRepository so every API instance reuses the same one.
type Client struct {
	HTTPClient  *http.Client
	BaseURL     string
	CustomerID  string
	APIKey      string
	CountryCode string
	Tokens      entity.TokenRepository

	mu  sync.Mutex
	now func() time.Time
}

func NewClient(baseURL, customerID, apiKey, countryCode string, tokens entity.TokenRepository) *Client {
	return &Client{
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		BaseURL:     baseURL,
		CustomerID:  customerID,
		APIKey:      apiKey,
		CountryCode: countryCode,
		Tokens:      tokens,
		now:         time.Now,
	}
}

// token returns the shared token, refreshing it when missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, err := c.Tokens.Get(ctx, providerName)
	if err != nil && !errors.Is(err, entity.ErrTokenNotFound) {
		return "", err
	}
	if cached != nil && c.now().Add(30*time.Second).Before(cached.ExpiresAt) {
		return cached.Token, nil
	}

	log.Println("🔄 [SMS] Refreshing provider token...")

	q := url.Values{}
	q.Set("customerId", c.CustomerID)
	q.Set("key", c.APIKey)
	q.Set("country", c.CountryCode)

	var data tokenResponse
	if err := c.do(ctx, http.MethodGet, "/auth/v1/authentication/token?"+q.Encode(), "", &data); err != nil {
		return "", fmt.Errorf("sms auth: %w", err)
	}
	if data.Token == "" {
		return "", errors.New("sms auth: empty token")
	}

	exp := data.ExpiresIn
	if exp == 0 {
		exp = 3600
	}
	fresh := &entity.ProviderToken{
		Provider:  providerName,
		Token:     data.Token,
		ExpiresAt: c.now().Add(time.Duration(exp) * time.Second),
	}
	if err := c.Tokens.Save(ctx, fresh); err != nil {
		log.Printf("⚠️ [SMS] token not cached: %v", err)
	}
	return fresh.Token, nil
}

func (c *Client) SendOTP(ctx context.Context, phone string) (string, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("countryCode", c.CountryCode)
	q.Set("customerId", c.CustomerID)
	q.Set("flowType", "SMS")
	q.Set("mobileNumber", phone)

	var data sendResponse
	if err := c.do(ctx, http.MethodPost, "/verification/v3/send?"+q.Encode(), tok, &data); err != nil {
		return "", fmt.Errorf("sms send: %w", err)
	}
	if data.Data.VerificationID == "" {
		return "", fmt.Errorf("sms send: %s", data.Message)
	}
	log.Printf("✅ [SMS] OTP sent to ******%s", last4(phone))
	return data.Data.VerificationID, nil
}

func (c *Client) ValidateOTP(ctx context.Context, phone, verificationID, code string) (bool, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return false, err
	}

	q := url.Values{}
	q.Set("countryCode", c.CountryCode)
	q.Set("mobileNumber", phone)
	q.Set("verificationId", verificationID)
	q.Set("customerId", c.CustomerID)
	q.Set("code", code)

	var data validateResponse
	err = c.do(ctx, http.MethodGet, "/verification/v3/validateOtp?"+q.Encode(), tok, &data)
	var se *statusError
	if errors.As(err, &se) && se.Code == http.StatusBadRequest {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sms validate: %w", err)
	}
	return data.Data.VerificationStatus == statusVerified, nil
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (c *Client) do(ctx context.Context, method, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("authToken", token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("❌ [SMS] %s %s: %d", method, req.URL.Path, resp.StatusCode)
		return &statusError{Code: resp.StatusCode, Body: string(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func last4(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return phone[len(phone)-4:]
}
