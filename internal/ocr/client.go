// Package ocr is the client for the external text-recognition service.
// The analysis pipeline only depends on the Recognize call; everything
// about transport, retries and rate limiting is contained here.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL            = "http://localhost:8884"
	DefaultLanguageHint       = "eng+rus"
	DefaultRateLimitPerMinute = 60
	maxAttempts               = 3
)

type Config struct {
	BaseURL            string
	LanguageHint       string
	RateLimitPerMinute int
	HTTPClient         *http.Client
}

type Client struct {
	cfg      Config
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func NewClient(cfg Config) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid OCR base URL: %w", err)
	}
	if cfg.LanguageHint == "" {
		cfg.LanguageHint = DefaultLanguageHint
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = DefaultRateLimitPerMinute
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{cfg: cfg, interval: time.Minute / time.Duration(cfg.RateLimitPerMinute)}, nil
}

type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Recognize submits one image and returns the recognized text. Empty text
// on a 200 response is a valid result (unreadable but processable input);
// a non-2xx response or transport failure is an error the caller records
// per document.
func (c *Client) Recognize(ctx context.Context, image []byte, languageHint string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}
	if languageHint == "" {
		languageHint = c.cfg.LanguageHint
	}
	if err := c.waitRateLimit(ctx); err != nil {
		return "", err
	}

	endpoint := c.cfg.BaseURL + "/v1/recognize?lang=" + url.QueryEscape(languageHint)
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, retryable, err := c.recognizeOnce(ctx, endpoint, image)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable || attempt == maxAttempts {
			break
		}
		log.Printf("ocr retrying attempt=%d err=%v", attempt, err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return "", lastErr
}

func (c *Client) recognizeOnce(ctx context.Context, endpoint string, image []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(image))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", true, fmt.Errorf("recognition timed out: %w", err)
		}
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", true, err
	}

	var parsed recognizeResponse
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", false, fmt.Errorf("malformed recognition response: %w", err)
		}
		return parsed.Text, false, nil
	}

	message := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		message = parsed.Error
	}
	retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
	return "", retryable, fmt.Errorf("recognition service returned %d: %s", resp.StatusCode, message)
}

// waitRateLimit reserves the next send slot. The first call goes through
// immediately; later calls are spaced at least one interval apart.
func (c *Client) waitRateLimit(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	if c.next.Before(now) {
		c.next = now
	}
	wait := c.next.Sub(now)
	c.next = c.next.Add(c.interval)
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
