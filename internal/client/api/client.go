package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	authdomain "github.com/AlibekovAA/profile-editor/internal/auth/domain"
	authhttp "github.com/AlibekovAA/profile-editor/internal/auth/http"
	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	profilehttp "github.com/AlibekovAA/profile-editor/internal/profile/http"
	"github.com/AlibekovAA/profile-editor/internal/session"
)

// APIError is a failed call. Message carries the server's error text when the
// response had one.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	// Token returns the bearer token to attach, or "" for none.
	Token func() string
	Log   *logger.Logger
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	token   func() string
	log     *logger.Logger
}

func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultClientTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		token:   opts.Token,
		log:     opts.Log,
	}, nil
}

type responseEnvelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields"`
}

func (c *Client) GetProfile(ctx context.Context) (domain.Profile, error) {
	env, err := c.do(ctx, http.MethodGet, profilehttp.ProfilePath, nil)
	if err != nil {
		return domain.Profile{}, err
	}
	if !env.Success {
		return domain.Profile{}, envelopeError(env, "Failed to fetch profile")
	}
	return decodeProfile(env.Data)
}

type UpdateResult struct {
	Profile domain.Profile
	Message string
}

func (c *Client) UpdateProfile(ctx context.Context, u domain.Update) (UpdateResult, error) {
	body, err := json.Marshal(domain.PatchFromUpdate(u))
	if err != nil {
		return UpdateResult{}, err
	}

	env, err := c.do(ctx, http.MethodPut, profilehttp.ProfilePath, body)
	if err != nil {
		return UpdateResult{}, err
	}
	if !env.Success {
		return UpdateResult{}, envelopeError(env, "Failed to update profile")
	}

	p, err := decodeProfile(env.Data)
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Profile: p, Message: env.Message}, nil
}

type LoginResult struct {
	Token   string
	User    authdomain.User
	Message string
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResult{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, authhttp.LoginPath, body)
	if err != nil {
		return LoginResult{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return LoginResult{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return LoginResult{}, err
	}

	var out struct {
		Success bool                  `json:"success"`
		Message string                `json:"message"`
		Error   string                `json:"error"`
		Code    string                `json:"code"`
		Token   string                `json:"token"`
		User    authdomain.UserRecord `json:"user"`
	}
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || !out.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = out.Code
			apiErr.Message = out.Error
		}
		return LoginResult{}, apiErr
	}

	user, err := authdomain.UserFromRecord(out.User)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: out.Token, User: user, Message: out.Message}, nil
}

// Authenticate adapts Login to the session store.
func (c *Client) Authenticate(ctx context.Context, email, password string) (session.Grant, error) {
	res, err := c.Login(ctx, email, password)
	if err != nil {
		return session.Grant{}, err
	}
	user := res.User
	return session.Grant{Token: res.Token, User: &user}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (responseEnvelope, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return responseEnvelope{}, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.debugf("%s %s failed after %v: %v", method, path, time.Since(start), err)
		return responseEnvelope{}, err
	}
	defer resp.Body.Close()
	c.debugf("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return responseEnvelope{}, err
	}

	var env responseEnvelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Error
			apiErr.Fields = env.Fields
		}
		return responseEnvelope{}, apiErr
	}
	if decodeErr != nil {
		return responseEnvelope{}, fmt.Errorf("decode response: %w", decodeErr)
	}
	return env, nil
}

func (c *Client) debugf(format string, args ...any) {
	if c.log != nil && c.log.ShouldLog(logger.DEBUG) {
		c.log.Debugf(format, args...)
	}
}

func envelopeError(env responseEnvelope, fallback string) error {
	msg := env.Error
	if msg == "" {
		msg = fallback
	}
	return &APIError{Status: http.StatusOK, Code: env.Code, Message: msg, Fields: env.Fields}
}

func decodeProfile(data json.RawMessage) (domain.Profile, error) {
	if len(data) == 0 || string(data) == "null" {
		return domain.Profile{}, errors.New("response carried no profile")
	}
	var rec domain.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return domain.FromRecord(rec)
}
