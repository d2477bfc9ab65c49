package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshMargin is how long before expiry the token is renewed.
const refreshMargin = 30 * time.Second

// tokenSource logs the service account in against the record API and
// caches the issued Bearer token until shortly before its JWT expiry.
type tokenSource struct {
	client   *Client
	email    string
	password string

	mu      sync.Mutex
	current string
	expiry  time.Time
}

func newTokenSource(client *Client, email, password string) *tokenSource {
	return &tokenSource{
		client:   client,
		email:    email,
		password: password,
	}
}

// token returns a valid Bearer token, logging in again when the cached one
// is missing or about to expire.
func (s *tokenSource) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != "" && time.Until(s.expiry) > refreshMargin {
		return s.current, nil
	}

	token, err := s.login(ctx)
	if err != nil {
		return "", err
	}
	s.current = token
	s.expiry = tokenExpiry(token)
	return s.current, nil
}

// loginData is the data payload of a successful login response.
type loginData struct {
	Token string `json:"token"`
}

// login authenticates the service account and returns the issued token.
func (s *tokenSource) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    s.email,
		"password": s.password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("record API login failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "unexpected login response from record API"}
	}
	if !env.Success || len(env.Data) == 0 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "login response carried no token"}
	}

	s.client.logger.Debug().Str("email", s.email).Msg("Record API service account authenticated")
	return data.Token, nil
}

// tokenExpiry reads the exp claim out of the issued JWT. The token is not
// verified here, the record API is the issuer and sole verifier; the claim
// only schedules the next refresh. Tokens without a readable expiry are
// refreshed on every request.
func tokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
