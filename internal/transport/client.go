// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/protocol"
)

const (
	// MaxResponseSize is the maximum accepted response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// maxErrorBody is how much of a failed response body is kept for diagnostics.
	maxErrorBody = 512
)

// UserAgent is sent with every request. Overridden at startup with the build version.
var UserAgent = "rigchat/dev"

// ErrResponseTooLarge indicates the body exceeded MaxResponseSize.
var ErrResponseTooLarge = errors.New("response too large")

// Sender is the contract the conversation engine depends on.
type Sender interface {
	Send(ctx context.Context, env model.Envelope) (protocol.Payload, error)
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Status     int
	StatusText string
	Body       string // truncated, for logs only
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.StatusText != "" {
		return fmt.Sprintf("server returned %d %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client posts envelopes to a single endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for endpoint using a pooled HTTP client
// with no overall request timeout.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger: log.With().Str("component", "transport").Logger(),
	}
}


// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send performs one POST of env and interprets the response.
func (c *Client) Send(ctx context.Context, env model.Envelope) (protocol.Payload, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return protocol.Payload{}, errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return protocol.Payload{}, errors.Wrap(err, "failed to create request")
	}
	c.setHeaders(req)

	c.logger.Debug().Str("method", req.Method).Str("url", c.endpoint).Int("bytes", len(body)).Msg("request")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("request failed")
		return protocol.Payload{}, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("content_type", resp.Header.Get("Content-Type")).
		Dur("duration", time.Since(start)).
		Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return protocol.Payload{}, &StatusError{
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			Body:       string(snippet),
		}
	}

	data, err := readResponse(resp)
	if err != nil {
		return protocol.Payload{}, err
	}

	p := c.decode(resp.Header.Get("Content-Type"), data)
	c.logger.Debug().Str("kind", p.Kind().String()).Bool("text", p.IsText()).Msg("payload decoded")
	return p, nil
}

// setHeaders sets the headers sent with every request. No credentials.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.5")
	req.Header.Set("User-Agent", UserAgent)
}

// decode turns a successful body into a payload according to its declared type.
func (c *Client) decode(contentType string, data []byte) protocol.Payload {
	if isJSON(contentType) {
		p, err := protocol.FromJSON(data)
		if err == nil {
			return p
		}
		// Declared JSON that does not parse is handled like a text response.
		c.logger.Warn().Str("content_type", contentType).Int("bytes", len(data)).
			Msg("body labeled as JSON did not parse, treating as text")
		return protocol.FromText(string(data))
	}
	return protocol.Parse(data)
}

// isJSON reports whether a Content-Type header declares JSON.
func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// statusText strips the numeric prefix from resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// readResponse reads the body with a size limit to prevent memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, errors.Wrapf(ErrResponseTooLarge, "limit is %d bytes", MaxResponseSize)
	}
	return body, nil
}
