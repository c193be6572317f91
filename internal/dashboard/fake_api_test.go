package dashboard

import (
	"context"
	"sync"

	"github.com/alexanderramin/revint/internal/domain"
)

// fakeAPI answers from canned values and records every call by name.
type fakeAPI struct {
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
	patientsErr error
	resolveErr  error
	keys        []domain.APIKey
	keysErr     error
	generated   *domain.GeneratedKey
	generateErr error
	revokeErr   error
	ingest      *domain.IngestResult
	ingestErr   error

	lastDays     int
	lastFilter   domain.AnomalyFilter
	lastResolved int64
	lastNotes    string
	lastRevoked  int64
	lastKeyName  string
	lastKeyDays  int
	lastLimit    int
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) CurrentUser(context.Context) (*domain.User, error) {
	f.record("CurrentUser")
	return f.user, f.userErr
}

func (f *fakeAPI) Overview(_ context.Context, days int) (*domain.Overview, error) {
	f.record("Overview")
	f.lastDays = days
	if f.overviewErr != nil {
		return nil, f.overviewErr
	}
	if f.overview == nil {
		return &domain.Overview{}, nil
	}
	return f.overview, nil
}

func (f *fakeAPI) Anomalies(_ context.Context, filter domain.AnomalyFilter) ([]domain.Anomaly, error) {
	f.record("Anomalies")
	f.lastFilter = filter
	return f.anomalies, f.anomalyErr
}

func (f *fakeAPI) Patient(context.Context, string) (*domain.Patient, error) {
	f.record("Patient")
	return f.patient, f.patientErr
}

func (f *fakeAPI) Patients(_ context.Context, limit int) ([]domain.PatientSummary, error) {
	f.record("Patients")
	f.lastLimit = limit
	return f.patients, f.patientsErr
}

func (f *fakeAPI) ResolveAnomaly(_ context.Context, id int64, _, notes string) (*domain.Resolution, error) {
	f.record("ResolveAnomaly")
	f.lastResolved = id
	f.lastNotes = notes
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &domain.Resolution{AnomalyID: id, Status: "resolved"}, nil
}

func (f *fakeAPI) IngestData(context.Context, []map[string]any, []map[string]any) (*domain.IngestResult, error) {
	f.record("IngestData")
	return f.ingest, f.ingestErr
}

func (f *fakeAPI) GenerateAPIKey(_ context.Context, name string, days int) (*domain.GeneratedKey, error) {
	f.record("GenerateAPIKey")
	f.lastKeyName = name
	f.lastKeyDays = days
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	if f.generated != nil {
		return f.generated, nil
	}
	return &domain.GeneratedKey{Name: name, Key: "rk_generated"}, nil
}

func (f *fakeAPI) APIKeys(context.Context) ([]domain.APIKey, error) {
	f.record("APIKeys")
	return f.keys, f.keysErr
}

func (f *fakeAPI) RevokeAPIKey(_ context.Context, id int64) error {
	f.record("RevokeAPIKey")
	f.lastRevoked = id
	return f.revokeErr
}
