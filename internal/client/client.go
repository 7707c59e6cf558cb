// Package client is a typed HTTP client for the community API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ydaci/lillehelperplatform/internal/account"
	"github.com/ydaci/lillehelperplatform/internal/event"
	"github.com/ydaci/lillehelperplatform/internal/session"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrTooLarge     = errors.New("payload too large")
	ErrServer       = errors.New("server error")
)

// APIError is returned for any non-2xx response. It unwraps to one of the
// package sentinels chosen by status code.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest:
		return ErrInvalidInput
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusRequestEntityTooLarge:
		return ErrTooLarge
	case e.Status >= 500:
		return ErrServer
	default:
		return nil
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Holder
}

// NewClient talks to the API mounted at baseURL + "/api". holder may be nil
// when no login state needs to be kept.
func NewClient(baseURL string, holder *session.Holder) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		session: holder,
	}
}

func (c *Client) Session() *session.Holder {
	return c.session
}

func (c *Client) Signup(ctx context.Context, req account.SignupRequest) (*account.SignupResponse, error) {
	var resp account.SignupResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and, on success, stores the user in the session holder.
func (c *Client) Login(ctx context.Context, req account.LoginRequest) (*account.User, error) {
	var resp account.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", req, &resp); err != nil {
		return nil, err
	}

	if c.session != nil {
		if err := c.session.Set(ctx, resp.User); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	return c.session.Clear(ctx)
}

func (c *Client) ListTeachers(ctx context.Context) ([]account.Teacher, error) {
	var teachers []account.Teacher
	if err := c.doJSON(ctx, http.MethodGet, "/api/teachers", nil, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (c *Client) ListEvents(ctx context.Context, filter event.DateFilter) ([]event.Event, error) {
	path := "/api/events"
	if filter != event.FilterNone {
		path += "?" + url.Values{"dateFilter": {string(filter)}}.Encode()
	}

	var events []event.Event
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, req event.CreateEventRequest) (*event.Event, error) {
	var e event.Event
	if err := c.doJSON(ctx, http.MethodPost, "/api/events", req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// UploadVideo sends r as the multipart "video" field and returns the stored
// reference, suitable for SignupRequest.Video.
func (c *Client) UploadVideo(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("video", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/uploads/video", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp struct {
		Video string `json:"video"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Video, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
