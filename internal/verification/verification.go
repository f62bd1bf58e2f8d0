// Package verification acquires human-verification tokens for claim submission.
package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dErrors "github.com/martirspe/complaints-book-pro/pkg/domain-errors"
)

// ActionClaimSubmit is the action every submission token is bound to.
const ActionClaimSubmit = "claim_submit"

// MsgFailed is shown when no token could be obtained.
const MsgFailed = "No pudimos validar reCAPTCHA. Intenta de nuevo."

// TokenSource yields a fresh token bound to action.
type TokenSource interface {
	Token(ctx context.Context, action string) (string, error)
}

func failed(err error) error {
	return dErrors.Wrap(err, dErrors.CodeVerificationFailed, MsgFailed)
}

// Supplied is a token produced by the browser and sent with the submit request.
type Supplied string

func (s Supplied) Token(_ context.Context, action string) (string, error) {
	tok := strings.TrimSpace(string(s))
	if tok == "" {
		return "", failed(fmt.Errorf("no token supplied for action %s", action))
	}
	return tok, nil
}

// HTTPIssuer requests tokens from a remote issuing service.
type HTTPIssuer struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

type IssuerOption func(*HTTPIssuer)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) IssuerOption {
	return func(i *HTTPIssuer) {
		i.httpClient = client
	}
}

func NewHTTPIssuer(baseURL, secret string, timeout time.Duration, opts ...IssuerOption) *HTTPIssuer {
	i := &HTTPIssuer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

type tokenRequest struct {
	Action string `json:"action"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Token posts the action to {issuer}/token and returns the issued token.
// Every failure, including an empty token, is CodeVerificationFailed.
func (i *HTTPIssuer) Token(ctx context.Context, action string) (string, error) {
	body, err := json.Marshal(tokenRequest{Action: action})
	if err != nil {
		return "", failed(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/token", bytes.NewReader(body))
	if err != nil {
		return "", failed(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if i.secret != "" {
		req.Header.Set("Authorization", "Bearer "+i.secret)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", failed(fmt.Errorf("token request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", failed(fmt.Errorf("token issuer returned status %d", resp.StatusCode))
	}

	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&tr); err != nil {
		return "", failed(fmt.Errorf("decode token response: %w", err))
	}
	if strings.TrimSpace(tr.Token) == "" {
		return "", failed(fmt.Errorf("token issuer returned an empty token"))
	}
	return tr.Token, nil
}

var (
	_ TokenSource = Supplied("")
	_ TokenSource = (*HTTPIssuer)(nil)
)
