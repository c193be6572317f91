// Package api is the typed client for the revenue-integrity REST backend.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/alexanderramin/revint/internal/domain"
)

// Config holds the connection settings for a Client.
type Config struct {
	// BaseURL includes the versioned prefix, e.g. http://host/api/v1.
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Transport defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client issues one request per call. It never retries; failures come back
// as *Error.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	creds     Credentials
	observer  Observer
}

// NewClient builds a Client. A nil observer discards call events.
func NewClient(cfg Config, creds Credentials, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		creds:    creds,
		observer: observer,
	}
}

// Login exchanges a username and password for an access token. The caller
// decides where to persist it.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out loginDTO
	err := c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
		fallbackMsg: "Login failed",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResult{AccessToken: out.AccessToken, TokenType: out.TokenType}, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var out userDTO
	if err := c.getJSON(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) Overview(ctx context.Context, days int) (*domain.Overview, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))

	var out overviewDTO
	if err := c.getJSON(ctx, "/dashboard/overview", q, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) Anomalies(ctx context.Context, f domain.AnomalyFilter) ([]domain.Anomaly, error) {
	var out anomalyListDTO
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/dashboard/anomalies",
		query:  anomalyQuery(f),
		auth:   true,
	}, &out); err != nil {
		return nil, err
	}
	return anomaliesToDomain(out), nil
}

// anomalyQuery encodes only the set filter keys, in a fixed order.
func anomalyQuery(f domain.AnomalyFilter) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(v))
		}
	}
	add("department", f.Department)
	add("priority", f.Priority)
	add("date_from", f.DateFrom)
	add("date_to", f.DateTo)
	if f.Limit > 0 {
		add("limit", strconv.Itoa(f.Limit))
	}
	return strings.Join(parts, "&")
}

func (c *Client) Patient(ctx context.Context, patientID string) (*domain.Patient, error) {
	var out patientDTO
	if err := c.getJSON(ctx, "/dashboard/patient/"+url.PathEscape(patientID), nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) Patients(ctx context.Context, limit int) ([]domain.PatientSummary, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var out patientListDTO
	if err := c.getJSON(ctx, "/dashboard/patients", q, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) ResolveAnomaly(ctx context.Context, id int64, action, notes string) (*domain.Resolution, error) {
	if action == "" {
		action = "resolve"
	}
	var out resolutionDTO
	path := fmt.Sprintf("/dashboard/anomaly/%d/resolve", id)
	if err := c.sendJSON(ctx, http.MethodPost, path, resolveRequest{Action: action, ResolutionNotes: notes}, &out); err != nil {
		return nil, err
	}
	res := &domain.Resolution{
		AnomalyID: int64(out.AnomalyID),
		Status:    string(out.Status),
		Message:   string(out.Message),
	}
	if res.AnomalyID == 0 {
		res.AnomalyID = id
	}
	return res, nil
}

// IngestData uploads patient and billing records. A nil billing slice is
// sent as an empty array.
func (c *Client) IngestData(ctx context.Context, patients, billing []map[string]any) (*domain.IngestResult, error) {
	if billing == nil {
		billing = []map[string]any{}
	}
	var out map[string]any
	if err := c.sendJSON(ctx, http.MethodPost, "/dashboard/ingest-data", ingestRequest{PatientData: patients, BillingData: billing}, &out); err != nil {
		return nil, err
	}
	msg, _ := out["message"].(string)
	return &domain.IngestResult{Message: msg, Fields: out}, nil
}

func (c *Client) GenerateAPIKey(ctx context.Context, name string, expiresDays int) (*domain.GeneratedKey, error) {
	var out generatedKeyDTO
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/generate_api_key", generateKeyRequest{Name: name, ExpiresDays: expiresDays}, &out); err != nil {
		return nil, err
	}
	key := out.toDomain()
	if key.Name == "" {
		key.Name = name
	}
	return key, nil
}

func (c *Client) APIKeys(ctx context.Context) ([]domain.APIKey, error) {
	var out apiKeyListDTO
	if err := c.getJSON(ctx, "/auth/api_keys", nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) RevokeAPIKey(ctx context.Context, id int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/auth/api_key/%d", id),
		auth:   true,
	}, nil)
}

type call struct {
	method      string
	path        string
	query       string
	body        io.Reader
	contentType string
	auth        bool
	// fallbackMsg replaces the generic status message on failure.
	fallbackMsg string
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, query: q.Encode(), auth: true}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s body: %w", path, err)
	}
	return c.do(ctx, call{method: method, path: path, body: bytes.NewReader(data), auth: true}, out)
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	start := time.Now()
	requestID := uuid.NewString()
	status := 0
	defer func() {
		c.observer.OnCallComplete(CallEvent{
			Method:    cl.method,
			Path:      cl.path,
			RequestID: requestID,
			Status:    status,
			Latency:   time.Since(start),
			Err:       err,
		})
	}()

	target := c.baseURL + cl.path
	if cl.query != "" {
		target += "?" + cl.query
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, cl.body)
	if err != nil {
		return transportError(cl.method, cl.path, fmt.Errorf("creating request: %w", err))
	}

	contentType := cl.contentType
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if cl.auth && c.creds != nil {
		if err := c.creds.Apply(ctx, req); err != nil {
			return transportError(cl.method, cl.path, err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(cl.method, cl.path, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(cl.method, cl.path, fmt.Errorf("reading response: %w", err))
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nonJSONError(cl.method, cl.path, resp.StatusCode, body)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		msg := eb.text()
		if msg == "" {
			msg = cl.fallbackMsg
		}
		return httpError(cl.method, cl.path, resp.StatusCode, msg)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Kind:    KindNonJSON,
			Status:  resp.StatusCode,
			Method:  cl.method,
			Path:    cl.path,
			Message: "Server returned malformed JSON: " + err.Error(),
			Err:     err,
		}
	}
	return nil
}
