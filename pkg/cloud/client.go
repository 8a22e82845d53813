package cloud

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
)

// Remote failures the caller can tell apart.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("save not found")
	ErrNoCredential = errors.New("no credential")
)

// StatusError is a non-2xx response from the save service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// Unwrap maps well-known status codes to sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// DefaultTimeout bounds every request made by a Client built without an
// explicit http.Client.
const DefaultTimeout = 10 * time.Second

// Client talks to the auth and save endpoints of the backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for a backend base URL such as
// "http://localhost:3000". A nil httpClient gets DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createReq struct {
	Name string    `json:"name"`
	Data SaveState `json:"data"`
}

type saveResp struct {
	Save Save `json:"save"`
}

type listResp struct {
	Saves []Save `json:"saves"`
}

type errorResp struct {
	Error string `json:"error"`
}

// Login exchanges a username and password for a credential.
func (c *Client) Login(ctx context.Context, username, password string) (Credential, error) {
	return c.authenticate(ctx, "/api/auth/login", username, password)
}

// Register creates an account and returns its credential.
func (c *Client) Register(ctx context.Context, username, password string) (Credential, error) {
	return c.authenticate(ctx, "/api/auth/register", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (Credential, error) {
	var cred Credential
	if err := c.do(ctx, http.MethodPost, path, Credential{}, loginReq{Username: username, Password: password}, &cred); err != nil {
		return Credential{}, err
	}
	if cred.Username == "" {
		cred.Username = username
	}
	return cred, nil
}

// ListSaves returns the signed-in user's saves, newest first.
func (c *Client) ListSaves(ctx context.Context, cred Credential) ([]Save, error) {
	var out listResp
	if err := c.do(ctx, http.MethodGet, "/api/saves", cred, nil, &out); err != nil {
		return nil, err
	}
	return out.Saves, nil
}

// CreateSave stores a new named save.
func (c *Client) CreateSave(ctx context.Context, cred Credential, name string, data SaveState) (Save, error) {
	var out saveResp
	if err := c.do(ctx, http.MethodPost, "/api/saves", cred, createReq{Name: name, Data: data}, &out); err != nil {
		return Save{}, err
	}
	return out.Save, nil
}

// GetSave fetches one save by id.
func (c *Client) GetSave(ctx context.Context, cred Credential, id string) (Save, error) {
	var out saveResp
	if err := c.do(ctx, http.MethodGet, "/api/saves/"+url.PathEscape(id), cred, nil, &out); err != nil {
		return Save{}, err
	}
	return out.Save, nil
}

// DeleteSave removes one save by id.
func (c *Client) DeleteSave(ctx context.Context, cred Credential, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/saves/"+url.PathEscape(id), cred, nil, nil)
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, cred Credential, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e errorResp
		_ = json.Unmarshal(data, &e)
		return fmt.Errorf("%s %s: %w", method, path, &StatusError{Code: resp.StatusCode, Message: e.Error})
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
