package frappe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xelth-com/eckmobile/internal/models"
)

// Client represents a Frappe REST client
type Client struct {
	URL        string
	APIKey     string
	APISecret  string
	HttpClient *http.Client
}

// NewClient creates a new Frappe client
func NewClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		URL:        strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		APISecret:  apiSecret,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

// Filter is one condition in Frappe's list filter syntax: [field, operator, value]
type Filter []interface{}

// Eq builds an equality filter
func Eq(field string, value interface{}) Filter { return Filter{field, "=", value} }

// Like builds a LIKE filter
func Like(field, pattern string) Filter { return Filter{field, "like", pattern} }

// IsNotSet matches empty link fields
func IsNotSet(field string) Filter { return Filter{field, "is", "not set"} }

// ListOptions configures a GetList call
type ListOptions struct {
	Fields    []string
	Filters   []Filter
	OrFilters []Filter
	OrderBy   string
	Limit     int
}

// APIError is a non-2xx answer from the ERP
type APIError struct {
	Status  int
	ExcType string
	Message string
}

func (e *APIError) Error() string {
	if e.ExcType != "" {
		return fmt.Sprintf("frappe %d %s: %s", e.Status, e.ExcType, e.Message)
	}
	return fmt.Sprintf("frappe %d: %s", e.Status, e.Message)
}

// Is maps ERP exception types onto the store sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case models.ErrNotFound:
		return e.Status == http.StatusNotFound || e.ExcType == "DoesNotExistError"
	case models.ErrInvalidCredentials:
		return e.Status == http.StatusUnauthorized || e.ExcType == "AuthenticationError"
	}
	return false
}

// GetList performs a list query on /api/resource/{doctype}
// result: pointer to slice of structs with json tags
func (c *Client) GetList(ctx context.Context, doctype string, opts ListOptions, result interface{}) error {
	params := url.Values{}
	if len(opts.Fields) > 0 {
		params.Set("fields", mustJSON(opts.Fields))
	}
	if len(opts.Filters) > 0 {
		params.Set("filters", mustJSON(opts.Filters))
	}
	if len(opts.OrFilters) > 0 {
		params.Set("or_filters", mustJSON(opts.OrFilters))
	}
	if opts.OrderBy != "" {
		params.Set("order_by", opts.OrderBy)
	}
	// limit_page_length=0 means "everything" to the ERP
	params.Set("limit_page_length", strconv.Itoa(opts.Limit))

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, resourcePath(doctype)+"?"+params.Encode(), nil, &envelope); err != nil {
		return fmt.Errorf("failed to list %s: %w", doctype, err)
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("failed to decode %s list: %w", doctype, err)
	}
	return nil
}

// GetDoc reads one document including its child tables
func (c *Client) GetDoc(ctx context.Context, doctype, name string, result interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, resourcePath(doctype, name), nil, &envelope); err != nil {
		return fmt.Errorf("failed to read %s %s: %w", doctype, name, err)
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", doctype, name, err)
	}
	return nil
}

// UpdateDoc writes values onto an existing document. Child tables sent in
// values replace the stored ones; rows without a name are appended.
func (c *Client) UpdateDoc(ctx context.Context, doctype, name string, values interface{}, result interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, resourcePath(doctype, name), values, &envelope); err != nil {
		return fmt.Errorf("failed to update %s %s: %w", doctype, name, err)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", doctype, name, err)
	}
	return nil
}

// Login verifies credentials with the ERP's session login.
// The session id comes back in the "sid" cookie.
func (c *Client) Login(ctx context.Context, usr, pwd string) (*models.Session, error) {
	form := url.Values{"usr": {usr}, "pwd": {pwd}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"/api/method/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("login failed: %w", parseAPIError(resp.StatusCode, body))
	}

	var payload struct {
		Message  string `json:"message"`
		FullName string `json:"full_name"`
	}
	_ = json.Unmarshal(body, &payload)

	session := &models.Session{FullName: payload.FullName, Email: usr}
	for _, cookie := range resp.Cookies() {
		value, err := url.QueryUnescape(cookie.Value)
		if err != nil {
			value = cookie.Value
		}
		switch cookie.Name {
		case "sid":
			session.SID = value
		case "user_id":
			session.Email = value
		case "full_name":
			if session.FullName == "" {
				session.FullName = value
			}
		}
	}
	if session.SID == "" || session.SID == "Guest" {
		return nil, fmt.Errorf("login returned no session: %w", models.ErrInvalidCredentials)
	}
	return session, nil
}

// do sends one JSON request and decodes the JSON answer into out
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.APIKey, c.APISecret))
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseAPIError extracts the human message from an ERP error body.
// _server_messages is a JSON-encoded list of JSON-encoded {"message": ...} objects.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var payload struct {
		ExcType        string `json:"exc_type"`
		Exception      string `json:"exception"`
		Message        string `json:"message"`
		ServerMessages string `json:"_server_messages"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(status)
		}
		return apiErr
	}

	apiErr.ExcType = payload.ExcType
	if msg := firstServerMessage(payload.ServerMessages); msg != "" {
		apiErr.Message = msg
	} else if payload.Exception != "" {
		apiErr.Message = payload.Exception
	} else if payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func firstServerMessage(raw string) string {
	if raw == "" {
		return ""
	}
	var encoded []string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil || len(encoded) == 0 {
		return ""
	}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(encoded[0]), &msg); err != nil {
		return encoded[0]
	}
	return msg.Message
}

func resourcePath(doctype string, name ...string) string {
	p := "/api/resource/" + url.PathEscape(doctype)
	for _, n := range name {
		p += "/" + url.PathEscape(n)
	}
	return p
}

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("frappe: cannot encode %T: %v", v, err))
	}
	return string(data)
}
