package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/revint/internal/api"
	"github.com/alexanderramin/revint/internal/domain"
	"github.com/alexanderramin/revint/internal/session"
	"github.com/alexanderramin/revint/internal/testutil"
)

func newController(fake *fakeAPI, token string) (*Controller, *session.MemoryStore) {
	store := session.NewMemoryStore(token)
	return New(fake, store, Options{}), store
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func asFailure(t *testing.T, err error) *Failure {
	t.Helper()
	var f *Failure
	require.ErrorAs(t, err, &f)
	return f
}

func TestNew_AppliesDefaults(t *testing.T) {
	c, _ := newController(&fakeAPI{}, "tok")
	assert.Equal(t, DefaultOptions(), c.Options())
}

func TestBootstrap_NoTokenFailsBeforeAnyRequest(t *testing.T) {
	fake := &fakeAPI{}
	c, _ := newController(fake, "")

	err := c.Bootstrap(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, fake.Calls())

	c, _ = newController(fake, "tok")
	assert.NoError(t, c.Bootstrap(context.Background()))
}

func TestLoadUserInfo_Success(t *testing.T) {
	fake := &fakeAPI{user: testutil.NewTestUser(domain.PlanPremium)}
	c, _ := newController(fake, "tok")

	v, err := c.LoadUserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dana Analyst", v.DisplayName)
	assert.Equal(t, "PREMIUM", v.PlanBadge)
	assert.False(t, v.Degraded)
}

func TestLoadUserInfo_AuthFailureClearsSession(t *testing.T) {
	fake := &fakeAPI{userErr: &api.Error{Kind: api.KindHTTP, Status: 401, Message: "Could not validate credentials"}}
	c, store := newController(fake, "tok")

	_, err := c.LoadUserInfo(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)

	token, _ := store.Token(context.Background())
	assert.Empty(t, token)
	assert.Equal(t, 1, store.Clears())
	assert.Equal(t, session.ReasonExpired, store.LastClearReason())
}

func TestLoadUserInfo_OtherFailureKeepsTokenAndFallsBack(t *testing.T) {
	boom := &api.Error{Kind: api.KindHTTP, Status: 500, Message: "Internal Server Error"}

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"sub claim", signedToken(t, jwt.MapClaims{"sub": "42"}), "User ID: 42"},
		{"numeric sub", signedToken(t, jwt.MapClaims{"sub": 7}), "User ID: 7"},
		{"no sub", signedToken(t, jwt.MapClaims{"exp": 1}), "User ID: Unknown"},
		{"not a jwt", "opaque-token", "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newController(&fakeAPI{userErr: boom}, tt.token)

			v, err := c.LoadUserInfo(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.DisplayName)
			assert.Equal(t, "STARTER", v.PlanBadge)
			assert.True(t, v.Degraded)

			token, _ := store.Token(context.Background())
			assert.Equal(t, tt.token, token)
			assert.Zero(t, store.Clears())
		})
	}
}

func TestNameFromToken_Empty(t *testing.T) {
	assert.Equal(t, "Not logged in", nameFromToken(""))
}

func TestLoadOverview_Formatting(t *testing.T) {
	fake := &fakeAPI{overview: &domain.Overview{
		TotalLeakage:        1234.5,
		TotalAnomalies:      4,
		HighPriorityCount:   1,
		MediumPriorityCount: 3,
		Departments: []domain.DepartmentStat{
			{Name: "ICU", Count: 2, Leakage: 1000.456},
			{Name: "Lab", Count: 2},
		},
		RecentAnomalies: []domain.Anomaly{testutil.NewTestAnomaly(testutil.WithLeakage(12.5))},
	}}
	c, _ := newController(fake, "tok")

	v, err := c.LoadOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, fake.lastDays)
	assert.Equal(t, "$1,235", v.TotalLeakage)
	assert.Equal(t, 4, v.TotalAnomalies)
	require.Len(t, v.Departments, 2)
	assert.Equal(t, "$1000.46", v.Departments[0].Leakage)
	assert.Equal(t, "$0.00", v.Departments[1].Leakage)
	assert.Empty(t, v.DepartmentsPlaceholder)
	require.Len(t, v.Recent, 1)
	assert.Equal(t, "$12.50", v.Recent[0].Leakage)
	assert.Equal(t, "Jan 15, 2025", v.Recent[0].Detected)
}

func TestLoadOverview_EmptyPlaceholders(t *testing.T) {
	c, _ := newController(&fakeAPI{}, "tok")

	v, err := c.LoadOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "$0", v.TotalLeakage)
	assert.Equal(t, "No department data available", v.DepartmentsPlaceholder)
	assert.Equal(t, "No recent anomalies", v.RecentPlaceholder)
}

func TestLoadOverview_FailureIsInlineWithRetry(t *testing.T) {
	c, _ := newController(&fakeAPI{overviewErr: errors.New("boom")}, "tok")

	_, err := c.LoadOverview(context.Background())
	f := asFailure(t, err)
	assert.Equal(t, Inline, f.Presentation)
	assert.Equal(t, "Error: boom", f.Message)
	assert.True(t, f.Retry)
}

func TestLoadAnomalies(t *testing.T) {
	a := testutil.NewTestAnomaly(testutil.WithDepartment("ICU"))
	a.Type = ""
	fake := &fakeAPI{anomalies: []domain.Anomaly{a}}
	c, _ := newController(fake, "tok")

	filter := domain.AnomalyFilter{Department: "ICU", Priority: "high"}
	v, err := c.LoadAnomalies(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, filter, fake.lastFilter)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "unknown", v.Rows[0].Type)
	assert.Equal(t, "ICU", v.Rows[0].Department)
}

func TestLoadAnomalies_EmptyAndFailures(t *testing.T) {
	fake := &fakeAPI{}
	c, _ := newController(fake, "tok")

	v, err := c.LoadAnomalies(context.Background(), domain.AnomalyFilter{})
	require.NoError(t, err)
	assert.Equal(t, "No anomalies found", v.Placeholder)

	_, err = c.LoadAnomalies(context.Background(), domain.AnomalyFilter{Priority: "urgent"})
	f := asFailure(t, err)
	assert.Equal(t, Alert, f.Presentation)
	assert.Contains(t, f.Message, "Failed to load anomalies: Priority must be one of")
	assert.Equal(t, []string{"Anomalies"}, fake.Calls(), "invalid filter sends nothing")

	fake.anomalyErr = errors.New("HTTP error! status: 502")
	_, err = c.LoadAnomalies(context.Background(), domain.AnomalyFilter{})
	assert.Equal(t, "Failed to load anomalies: HTTP error! status: 502", asFailure(t, err).Message)
}

func TestResolveAnomaly_CancelSendsNothing(t *testing.T) {
	fake := &fakeAPI{}
	c, _ := newController(fake, "tok")

	var asked string
	decline := ConfirmFunc(func(p string) (bool, error) { asked = p; return false, nil })

	_, err := c.ResolveAnomaly(context.Background(), ResolveRequest{AnomalyID: 3}, decline)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, "Mark this anomaly as resolved?", asked)
	assert.Empty(t, fake.Calls())
}

func TestResolveAnomaly_OnePostThenRefresh(t *testing.T) {
	fake := &fakeAPI{}
	c, _ := newController(fake, "tok")
	filter := domain.AnomalyFilter{Department: "ICU"}

	out, err := c.ResolveAnomaly(context.Background(), ResolveRequest{AnomalyID: 3, Notes: "fixed", Filter: filter}, Preconfirmed)
	require.NoError(t, err)
	assert.Equal(t, "Anomaly resolved successfully", out.Message)
	assert.Equal(t, []string{"ResolveAnomaly", "Overview", "Anomalies"}, fake.Calls())
	assert.Equal(t, int64(3), fake.lastResolved)
	assert.Equal(t, "fixed", fake.lastNotes)
	assert.Equal(t, filter, fake.lastFilter)
	assert.NotNil(t, out.Overview)
	assert.NotNil(t, out.Anomalies)
	assert.Empty(t, out.RefreshErrors)
}

func TestResolveAnomaly_RefreshFailureDoesNotFailResolve(t *testing.T) {
	fake := &fakeAPI{overviewErr: errors.New("down")}
	c, _ := newController(fake, "tok")

	out, err := c.ResolveAnomaly(context.Background(), ResolveRequest{AnomalyID: 3}, Preconfirmed)
	require.NoError(t, err)
	require.Len(t, out.RefreshErrors, 1)
	assert.Contains(t, out.RefreshErrors[0].Error(), "refreshing overview")
	assert.NotNil(t, out.Anomalies)
}

func TestResolveAnomaly_Failure(t *testing.T) {
	fake := &fakeAPI{resolveErr: errors.New("Anomaly already resolved")}
	c, _ := newController(fake, "tok")

	_, err := c.ResolveAnomaly(context.Background(), ResolveRequest{AnomalyID: 3}, Preconfirmed)
	f := asFailure(t, err)
	assert.Equal(t, Alert, f.Presentation)
	assert.Equal(t, "Failed to resolve anomaly: Anomaly already resolved", f.Message)
	assert.Equal(t, []string{"ResolveAnomaly"}, fake.Calls())
}

func TestConfirmerError(t *testing.T) {
	c, _ := newController(&fakeAPI{}, "tok")
	broken := ConfirmFunc(func(string) (bool, error) { return false, errors.New("tty gone") })

	_, err := c.RevokeAPIKey(context.Background(), 1, broken)
	assert.EqualError(t, err, "tty gone")

	_, err = c.RevokeAPIKey(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestSearchPatient(t *testing.T) {
	fake := &fakeAPI{patient: &domain.Patient{PatientID: "P001", TotalLeakage: 99}}
	c, _ := newController(fake, "tok")

	v, err := c.SearchPatient(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Please enter a Patient ID to search", "Example: P001, P002, etc."}, v.Prompt)
	assert.Empty(t, fake.Calls())

	v, err = c.SearchPatient(context.Background(), "P001")
	require.NoError(t, err)
	assert.Equal(t, "P001", v.Name, "falls back to the id")
	assert.Equal(t, "N/A", v.VisitID)
	assert.Equal(t, "$99.00", v.TotalLeakage)
	assert.Equal(t, "No anomalies found for this patient", v.Placeholder)
}

func TestSearchPatient_Failures(t *testing.T) {
	fake := &fakeAPI{patientErr: &api.Error{Kind: api.KindHTTP, Status: 404, Message: "Patient not found"}}
	c, _ := newController(fake, "tok")

	_, err := c.SearchPatient(context.Background(), "P999")
	f := asFailure(t, err)
	assert.Equal(t, `Patient "P999" not found. Please check the Patient ID and try again.`, f.Message)
	assert.Contains(t, f.Hint, "P001, P002")

	// The status decides, whatever the backend's detail says.
	fake.patientErr = &api.Error{Kind: api.KindHTTP, Status: 404, Message: "No anomalies recorded for patient P999"}
	_, err = c.SearchPatient(context.Background(), "P999")
	f = asFailure(t, err)
	assert.Equal(t, `Patient "P999" not found. Please check the Patient ID and try again.`, f.Message)

	fake.patientErr = errors.New("database locked")
	_, err = c.SearchPatient(context.Background(), "P001")
	f = asFailure(t, err)
	assert.Equal(t, "database locked", f.Message)
	assert.Equal(t, Inline, f.Presentation)
}

func TestLoadPatientList(t *testing.T) {
	fake := &fakeAPI{patients: []domain.PatientSummary{{PatientID: "P001", AnomalyCount: 2, TotalLeakage: 10}}}
	c, _ := newController(fake, "tok")

	v, err := c.LoadPatientList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, fake.lastLimit)
	assert.Equal(t, "Patients with Anomalies (1)", v.Title)
	assert.Equal(t, PatientRow{PatientID: "P001", Name: "N/A", AnomalyCount: 2, TotalLeakage: "$10.00"}, v.Rows[0])

	fake.patients = nil
	v, err = c.LoadPatientList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No patients with anomalies found", v.Placeholder)

	fake.patientsErr = errors.New("boom")
	_, err = c.LoadPatientList(context.Background())
	assert.Equal(t, "Failed to load patient list: boom", asFailure(t, err).Message)
}

func TestListAPIKeys(t *testing.T) {
	created := time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)
	fake := &fakeAPI{keys: []domain.APIKey{
		{ID: 1, CreatedAt: &created, Active: true},
		{ID: 2, Name: "ETL"},
	}}
	c, _ := newController(fake, "tok")

	v, err := c.ListAPIKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, APIKeyRow{ID: 1, Name: "Unnamed", Created: "Feb 3, 2025", LastUsed: "Never", Expires: "Never", Status: "Active"}, v.Rows[0])
	assert.Equal(t, "N/A", v.Rows[1].Created)
	assert.Equal(t, "Inactive", v.Rows[1].Status)

	fake.keys = nil
	v, err = c.ListAPIKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No API keys found. Generate one to get started.", v.Placeholder)

	fake.keysErr = errors.New("boom")
	_, err = c.ListAPIKeys(context.Background())
	f := asFailure(t, err)
	assert.Equal(t, Inline, f.Presentation)
	assert.Equal(t, "Error loading API keys: boom", f.Message)
}

func TestGenerateAPIKey(t *testing.T) {
	fake := &fakeAPI{}
	c, _ := newController(fake, "tok")

	v, err := c.GenerateAPIKey(context.Background(), domain.APIKeyRequest{Name: "ETL"})
	require.NoError(t, err)
	assert.Equal(t, 365, fake.lastKeyDays)
	assert.Equal(t, "rk_generated", v.Key)
	assert.NotNil(t, v.Keys)
	assert.Equal(t, []string{"GenerateAPIKey", "APIKeys"}, fake.Calls())

	_, err = c.GenerateAPIKey(context.Background(), domain.APIKeyRequest{Name: "", ExpiresDays: 30})
	assert.Equal(t, "Failed to generate API key: Name is required", asFailure(t, err).Message)

	_, err = c.GenerateAPIKey(context.Background(), domain.APIKeyRequest{Name: "x", ExpiresDays: 5000})
	assert.Contains(t, asFailure(t, err).Message, "ExpiresDays must be at most 3650")
	assert.Len(t, fake.Calls(), 2, "invalid input sends nothing")
}

func TestRevokeAPIKey(t *testing.T) {
	fake := &fakeAPI{}
	c, _ := newController(fake, "tok")

	var asked string
	confirm := ConfirmFunc(func(p string) (bool, error) { asked = p; return true, nil })
	out, err := c.RevokeAPIKey(context.Background(), 7, confirm)
	require.NoError(t, err)
	assert.Equal(t, "Are you sure you want to revoke this API key?", asked)
	assert.Equal(t, int64(7), fake.lastRevoked)
	assert.Equal(t, []string{"RevokeAPIKey", "APIKeys"}, fake.Calls())
	assert.Equal(t, "API key revoked successfully", out.Message)

	fake.revokeErr = errors.New("not yours")
	_, err = c.RevokeAPIKey(context.Background(), 7, Preconfirmed)
	assert.Equal(t, "Failed to revoke API key: not yours", asFailure(t, err).Message)
}

func TestLoadSettings(t *testing.T) {
	user := testutil.NewTestUser(domain.PlanStandard)
	user.Role = ""
	c, _ := newController(&fakeAPI{user: user}, "tok")

	v, err := c.LoadSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "analyst@example.org", v.Email)
	assert.Equal(t, "N/A", v.Role)
	assert.Equal(t, "STANDARD", v.PlanBadge)
	assert.Equal(t, "Admission + OPD + Lab", v.Features)

	c, _ = newController(&fakeAPI{userErr: errors.New("boom")}, "tok")
	_, err = c.LoadSettings(context.Background())
	assert.Equal(t, "Error loading account information: boom", asFailure(t, err).Message)
}

func TestFeatures(t *testing.T) {
	assert.Equal(t, "Admission + OPD", Features(domain.PlanStarter))
	assert.Equal(t, "Admission + OPD + Lab + Pharmacy", Features(domain.PlanPremium))
	assert.Equal(t, "All modules + Multi-hospital", Features(domain.PlanEnterprise))
	assert.Equal(t, "Admission + OPD", Features(domain.Plan("bogus")))
}

func TestUpgradePlan(t *testing.T) {
	v := UpgradePlan(domain.PlanStarter)
	assert.Equal(t, "Standard", v.NextPlan)
	assert.Equal(t, "$3,000/month", v.Price)
	assert.Equal(t, "Adds Lab module", v.Features)
	assert.Contains(t, v.Lines(), "Email: sales@revenueintegrity.com")
	assert.Contains(t, v.Lines(), "Phone: +1 (555) 123-4567")

	assert.Equal(t, "$7,500/month", UpgradePlan(domain.PlanStandard).Price)
	assert.Equal(t, "Multi-hospital + Custom reports", UpgradePlan(domain.PlanPremium).Features)

	top := UpgradePlan(domain.PlanEnterprise)
	assert.True(t, top.AtTop)
	assert.Equal(t, []string{"You are already on the highest plan available."}, top.Lines())
}

func TestLogout(t *testing.T) {
	c, store := newController(&fakeAPI{}, "tok")
	require.NoError(t, c.Logout(context.Background()))
	token, _ := store.Token(context.Background())
	assert.Empty(t, token)
	assert.Equal(t, session.ReasonLogout, store.LastClearReason())
}

func TestIngest(t *testing.T) {
	fake := &fakeAPI{ingest: &domain.IngestResult{
		Message: "ok",
		Fields:  map[string]any{"message": "ok", "patients_processed": float64(2), "anomalies_detected": float64(1), "details": []any{}},
	}}
	c, _ := newController(fake, "tok")

	v, err := c.Ingest(context.Background(), []map[string]any{{"patient_id": "P001"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", v.Message)
	assert.Equal(t, [][2]string{{"anomalies_detected", "1"}, {"patients_processed", "2"}}, v.Counters)

	_, err = c.Ingest(context.Background(), nil, nil)
	assert.Equal(t, "Failed to ingest data: no patient records to upload", asFailure(t, err).Message)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1,235", WholeDollars(1234.5))
	assert.Equal(t, "$1,000,000", WholeDollars(999999.6))
	assert.Equal(t, "$0.00", Dollars(0))
	assert.Equal(t, "N/A", DateOr(nil, "N/A"))
}
