package cli

import (
	"context"
	"sync"

	"github.com/alexanderramin/revint/internal/domain"
	"github.com/alexanderramin/revint/internal/testutil"
)

// fakeBackend is an in-memory Backend. Resolving removes the anomaly and
// revoking deactivates the key, so reloads observe the change.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	user        *domain.User
	userErr     error
	overview    *domain.Overview
	overviewErr error
	anomalies   []domain.Anomaly
	anomalyErr  error
	patient     *domain.Patient
	patientErr  error
	patients    []domain.PatientSummary
	keys        []domain.APIKey
	keysErr     error
	loginErr    error

	lastFilter   domain.AnomalyFilter
	lastResolved int64
	lastRevoked  int64
	lastKeyName  string
	lastPatient  string
	lastIngested int
}

func newFakeBackend() *fakeBackend {
	a1 := testutil.NewTestAnomaly(testutil.WithAnomalyID(101), testutil.WithDepartment("ICU"), testutil.WithPriority(domain.PriorityHigh), testutil.WithPatient("P001"))
	a2 := testutil.NewTestAnomaly(testutil.WithAnomalyID(102), testutil.WithDepartment("Radiology"))
	return &fakeBackend{
		user:      testutil.NewTestUser(domain.PlanPremium),
		overview:  testutil.NewTestOverview(a1, a2),
		anomalies: []domain.Anomaly{a1, a2},
		patient: &domain.Patient{
			PatientID:    "P001",
			Name:         "Jane Roe",
			VisitID:      "V-7",
			TotalLeakage: 200,
			Anomalies:    []domain.Anomaly{a1},
		},
		patients: []domain.PatientSummary{
			{PatientID: "P001", Name: "Jane Roe", AnomalyCount: 1, TotalLeakage: 200},
			{PatientID: "P002", Name: "John Poe", AnomalyCount: 1, TotalLeakage: 100},
		},
		keys: []domain.APIKey{{ID: 7, Name: "ci", Active: true}},
	}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

// count returns how many times name was called.
func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeBackend) Login(_ context.Context, username, _ string) (*domain.LoginResult, error) {
	f.record("Login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &domain.LoginResult{AccessToken: "tok-" + username, TokenType: "bearer"}, nil
}

func (f *fakeBackend) CurrentUser(context.Context) (*domain.User, error) {
	f.record("CurrentUser")
	return f.user, f.userErr
}

func (f *fakeBackend) Overview(context.Context, int) (*domain.Overview, error) {
	f.record("Overview")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overviewErr != nil {
		return nil, f.overviewErr
	}
	ov := *f.overview
	ov.RecentAnomalies = append([]domain.Anomaly(nil), f.anomalies...)
	ov.TotalAnomalies = len(f.anomalies)
	return &ov, nil
}

func (f *fakeBackend) Anomalies(_ context.Context, filter domain.AnomalyFilter) ([]domain.Anomaly, error) {
	f.record("Anomalies")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	if f.anomalyErr != nil {
		return nil, f.anomalyErr
	}
	var out []domain.Anomaly
	for _, a := range f.anomalies {
		if filter.Department == "" || a.Department == filter.Department {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeBackend) Patient(_ context.Context, id string) (*domain.Patient, error) {
	f.record("Patient")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPatient = id
	return f.patient, f.patientErr
}

func (f *fakeBackend) Patients(context.Context, int) ([]domain.PatientSummary, error) {
	f.record("Patients")
	return f.patients, nil
}

func (f *fakeBackend) ResolveAnomaly(_ context.Context, id int64, _, _ string) (*domain.Resolution, error) {
	f.record("ResolveAnomaly")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastResolved = id
	kept := f.anomalies[:0]
	for _, a := range f.anomalies {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	f.anomalies = kept
	return &domain.Resolution{AnomalyID: id, Status: "resolved"}, nil
}

func (f *fakeBackend) IngestData(_ context.Context, patients, _ []map[string]any) (*domain.IngestResult, error) {
	f.record("IngestData")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIngested = len(patients)
	return &domain.IngestResult{
		Message: "Data ingested successfully",
		Fields:  map[string]any{"message": "Data ingested successfully", "anomalies_detected": float64(2)},
	}, nil
}

func (f *fakeBackend) GenerateAPIKey(_ context.Context, name string, _ int) (*domain.GeneratedKey, error) {
	f.record("GenerateAPIKey")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastKeyName = name
	f.keys = append(f.keys, domain.APIKey{ID: int64(len(f.keys) + 100), Name: name, Active: true})
	return &domain.GeneratedKey{Name: name, Key: "rk_live_secret"}, nil
}

func (f *fakeBackend) APIKeys(context.Context) ([]domain.APIKey, error) {
	f.record("APIKeys")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	return append([]domain.APIKey(nil), f.keys...), nil
}

func (f *fakeBackend) RevokeAPIKey(_ context.Context, id int64) error {
	f.record("RevokeAPIKey")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRevoked = id
	for i := range f.keys {
		if f.keys[i].ID == id {
			f.keys[i].Active = false
		}
	}
	return nil
}
