package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/revint/internal/domain"
	"github.com/alexanderramin/revint/internal/session"
)

type recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

// fakeBackend records every request and answers with handler.
type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	handler  http.HandlerFunc
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     string(body),
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeBackend) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, creds Credentials) (*Client, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{handler: handler}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/v1/", UserAgent: "revint-test"}, creds, nil), fb
}

func TestAnomalies_QueryEncodesOnlySetKeysInOrder(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `[]`), nil)

	_, err := client.Anomalies(context.Background(), domain.AnomalyFilter{Department: "ICU", Priority: "high"})
	require.NoError(t, err)
	req := fb.last(t)
	assert.Equal(t, "/api/v1/dashboard/anomalies", req.Path)
	assert.Equal(t, "department=ICU&priority=high", req.RawQuery)

	_, err = client.Anomalies(context.Background(), domain.AnomalyFilter{Limit: 5, DateTo: "2025-02-01", DateFrom: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "date_from=2025-01-01&date_to=2025-02-01&limit=5", fb.last(t).RawQuery)

	_, err = client.Anomalies(context.Background(), domain.AnomalyFilter{})
	require.NoError(t, err)
	assert.Empty(t, fb.last(t).RawQuery)
}

func TestDo_NonJSONResponseTruncatesTo200Chars(t *testing.T) {
	html := strings.Repeat("x", 250)
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, html)
	}, nil)

	_, err := client.Overview(context.Background(), 30)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindNonJSON, apiErr.Kind)
	assert.Equal(t, "Server returned non-JSON response: "+strings.Repeat("x", 200), apiErr.Error())
}

func TestDo_ErrorMessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail string", `{"detail":"Anomaly not found","message":"ignored"}`, "Anomaly not found"},
		{"message only", `{"message":"Backend exploded"}`, "Backend exploded"},
		{"neither", `{}`, "HTTP error! status: 500"},
		{"structured detail", `{"detail":[{"loc":["query","days"],"msg":"bad"}]}`, `[{"loc":["query","days"],"msg":"bad"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, jsonReply(500, tt.body), nil)
			_, err := client.APIKeys(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, KindHTTP, apiErr.Kind)
			assert.Equal(t, 500, apiErr.Status)
		})
	}
}

func TestBearerToken_ReadFreshOnEveryCall(t *testing.T) {
	store := session.NewMemoryStore("")
	client, fb := newTestClient(t, jsonReply(200, `[]`), BearerToken{Tokens: store})
	ctx := context.Background()

	_, err := client.APIKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, fb.last(t).Header.Get("Authorization"), "no token, no header")

	require.NoError(t, store.Save(ctx, "tok-1"))
	_, err = client.APIKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", fb.last(t).Header.Get("Authorization"))

	require.NoError(t, store.Save(ctx, "tok-2"))
	_, err = client.APIKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-2", fb.last(t).Header.Get("Authorization"))
}

func TestAPIKey_SetsHeaderWithoutSession(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `[]`), APIKey{Key: "rk_live_1"})
	_, err := client.APIKeys(context.Background())
	require.NoError(t, err)

	req := fb.last(t)
	assert.Equal(t, "rk_live_1", req.Header.Get("X-API-Key"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestDo_StandardHeaders(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `[]`), nil)
	ctx := context.Background()

	_, err := client.APIKeys(ctx)
	require.NoError(t, err)
	first := fb.last(t)
	_, err = client.APIKeys(ctx)
	require.NoError(t, err)
	second := fb.last(t)

	assert.Equal(t, "application/json", first.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", first.Header.Get("Accept"))
	assert.Equal(t, "revint-test", first.Header.Get("User-Agent"))
	assert.NotEmpty(t, first.Header.Get("X-Request-ID"))
	assert.NotEqual(t, first.Header.Get("X-Request-ID"), second.Header.Get("X-Request-ID"))
}

func TestLogin_FormEncodedAndFallbackMessage(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `{"access_token":"abc","token_type":"bearer"}`), BearerToken{Tokens: session.NewMemoryStore("stale")})

	res, err := client.Login(context.Background(), "ana@example.org", "s3cret&x")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.AccessToken)

	req := fb.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/auth/login", req.Path)
	assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
	assert.Equal(t, "password=s3cret%26x&username=ana%40example.org", req.Body)
	assert.Empty(t, req.Header.Get("Authorization"))

	failing, _ := newTestClient(t, jsonReply(400, `{}`), nil)
	_, err = failing.Login(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Equal(t, "Login failed", err.Error())
}

func TestRevokeAPIKey_Path(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `{"message":"revoked"}`), nil)
	require.NoError(t, client.RevokeAPIKey(context.Background(), 7))

	req := fb.last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/api/v1/auth/api_key/7", req.Path)
}

func TestResolveAnomaly_Body(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `{"status":"resolved","message":"ok"}`), nil)
	res, err := client.ResolveAnomaly(context.Background(), 42, "", "duplicate charge")
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.AnomalyID)
	assert.Equal(t, "resolved", res.Status)

	req := fb.last(t)
	assert.Equal(t, "/api/v1/dashboard/anomaly/42/resolve", req.Path)
	assert.JSONEq(t, `{"action":"resolve","resolution_notes":"duplicate charge"}`, req.Body)
}

func TestGenerateAPIKey_BodyAndResult(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `{"id":3,"api_key":"rk_secret","expires_at":"2026-01-01T00:00:00"}`), nil)
	key, err := client.GenerateAPIKey(context.Background(), "ETL", 90)
	require.NoError(t, err)
	assert.Equal(t, "rk_secret", key.Key)
	assert.Equal(t, "ETL", key.Name)
	require.NotNil(t, key.ExpiresAt)
	assert.Equal(t, 2026, key.ExpiresAt.Year())

	assert.JSONEq(t, `{"name":"ETL","expires_days":90}`, fb.last(t).Body)
}

func TestIngestData_DefaultsBillingToEmptyArray(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `{"message":"Ingested 1 patients","anomalies_detected":2}`), nil)
	res, err := client.IngestData(context.Background(), []map[string]any{{"patient_id": "P001"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ingested 1 patients", res.Message)
	assert.EqualValues(t, 2, res.Fields["anomalies_detected"])

	assert.JSONEq(t, `{"patient_data":[{"patient_id":"P001"}],"billing_data":[]}`, fb.last(t).Body)
}

func TestCurrentUser_NormalizesWrappedPlan(t *testing.T) {
	client, _ := newTestClient(t, jsonReply(200,
		`{"id":"5","email":"a@b.org","full_name":null,"role":{"value":"admin"},"hospital":{"name":"General","plan":{"value":"PREMIUM"}}}`), nil)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, domain.PlanPremium, user.Plan())
	assert.Equal(t, "a@b.org", user.DisplayName())
}

func TestOverview_NormalizesShapes(t *testing.T) {
	body := `{
		"total_leakage": "1234.5",
		"total_anomalies": 3,
		"high_priority_count": 1,
		"medium_priority_count": 2,
		"department_breakdown": {
			"Radiology": {"count": 1, "leakage": "200.10"},
			"ICU": {"count": 2, "leakage": null}
		},
		"recent_anomalies": [
			{"id": 1, "type": "unbilled_service", "priority": "HIGH", "leakage": 99.5, "detected_at": "2025-01-15T10:30:00"}
		]
	}`
	client, fb := newTestClient(t, jsonReply(200, body), nil)

	ov, err := client.Overview(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "days=30", fb.last(t).RawQuery)

	assert.InDelta(t, 1234.5, ov.TotalLeakage, 0.001)
	require.Len(t, ov.Departments, 2)
	assert.Equal(t, "ICU", ov.Departments[0].Name)
	assert.Zero(t, ov.Departments[0].Leakage)
	assert.InDelta(t, 200.10, ov.Departments[1].Leakage, 0.001)

	require.Len(t, ov.RecentAnomalies, 1)
	a := ov.RecentAnomalies[0]
	assert.Equal(t, "unbilled_service", a.Type)
	assert.Equal(t, domain.PriorityHigh, a.Priority)
	assert.InDelta(t, 99.5, a.Leakage, 0.001)
	require.NotNil(t, a.DetectedAt)
	assert.Equal(t, 15, a.DetectedAt.Day())
}

func TestAnomalies_AcceptsWrappedListAndAliases(t *testing.T) {
	body := `{"anomalies":[{"id":9,"anomaly_type":{"value":"duplicate_billing"},"priority":{"value":"Low"},"leakage_amount":"12.5","leakage":1}]}`
	client, _ := newTestClient(t, jsonReply(200, body), nil)

	list, err := client.Anomalies(context.Background(), domain.AnomalyFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "duplicate_billing", list[0].Type)
	assert.Equal(t, domain.PriorityLow, list[0].Priority)
	assert.InDelta(t, 12.5, list[0].Leakage, 0.001, "leakage_amount wins over leakage")
}

func TestAnomalies_ResolvedFlagShapes(t *testing.T) {
	body := `[{"id":1,"is_resolved":true},{"id":2,"is_resolved":"true"},{"id":3,"is_resolved":1},
		{"id":4,"is_resolved":"no"},{"id":5,"is_resolved":null},{"id":6,"status":"resolved"}]`
	client, _ := newTestClient(t, jsonReply(200, body), nil)

	list, err := client.Anomalies(context.Background(), domain.AnomalyFilter{})
	require.NoError(t, err)
	require.Len(t, list, 6)
	got := make([]bool, 0, len(list))
	for _, a := range list {
		got = append(got, a.Resolved)
	}
	assert.Equal(t, []bool{true, true, true, false, false, true}, got)
}

func TestAPIKeys_ActiveAsString(t *testing.T) {
	client, _ := newTestClient(t, jsonReply(200, `[{"id":1,"name":"ci","is_active":"false"},{"id":2,"name":"etl","is_active":"True"}]`), nil)

	keys, err := client.APIKeys(context.Background())
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.False(t, keys[0].Active)
	assert.True(t, keys[1].Active)
}

func TestPatient_EscapesID(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `{"patient_id":"P 1/2","anomalies":[]}`), nil)
	p, err := client.Patient(context.Background(), "P 1/2")
	require.NoError(t, err)
	assert.Equal(t, "P 1/2", p.PatientID)
	assert.Equal(t, "/api/v1/dashboard/patient/P 1/2", fb.last(t).Path)
}

func TestPatients_LimitAndRoster(t *testing.T) {
	client, fb := newTestClient(t, jsonReply(200, `[{"patient_id":"P001","patient_name":"Ann","anomaly_count":"3","total_leakage":50}]`), nil)
	list, err := client.Patients(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, "limit=50", fb.last(t).RawQuery)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].AnomalyCount)
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: base}, nil, nil)
	_, err := client.APIKeys(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
	assert.NotNil(t, errors.Unwrap(err))
}

type captureObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *captureObserver) OnCallComplete(ev CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func TestDo_NotifiesObserver(t *testing.T) {
	fb := &fakeBackend{handler: jsonReply(401, `{"detail":"Could not validate credentials"}`)}
	srv := httptest.NewServer(fb)
	defer srv.Close()
	obs := &captureObserver{}
	client := NewClient(Config{BaseURL: srv.URL}, nil, obs)

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	require.Len(t, obs.events, 1)
	ev := obs.events[0]
	assert.Equal(t, "/auth/me", ev.Path)
	assert.Equal(t, 401, ev.Status)
	assert.Equal(t, fb.last(t).Header.Get("X-Request-ID"), ev.RequestID)
	assert.Error(t, ev.Err)
}
