package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/revint/internal/domain"
)

var anomalyIDCounter atomic.Int64

// AnomalyOption customizes a fixture anomaly.
type AnomalyOption func(*domain.Anomaly)

func WithDepartment(d string) AnomalyOption {
	return func(a *domain.Anomaly) { a.Department = d }
}

func WithPriority(p domain.Priority) AnomalyOption {
	return func(a *domain.Anomaly) { a.Priority = p }
}

func WithLeakage(v float64) AnomalyOption {
	return func(a *domain.Anomaly) { a.Leakage = v }
}

func WithPatient(id string) AnomalyOption {
	return func(a *domain.Anomaly) { a.PatientID = id }
}

func WithAnomalyID(id int64) AnomalyOption {
	return func(a *domain.Anomaly) { a.ID = id }
}

// NewTestAnomaly returns an unresolved medium-priority billing anomaly with a
// unique ID.
func NewTestAnomaly(opts ...AnomalyOption) domain.Anomaly {
	id := anomalyIDCounter.Add(1)
	detected := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	a := domain.Anomaly{
		ID:          id,
		Type:        "unbilled_service",
		Priority:    domain.PriorityMedium,
		Department:  "General",
		Leakage:     100,
		Description: fmt.Sprintf("Test anomaly %d", id),
		PatientID:   "P001",
		DetectedAt:  &detected,
		Status:      "open",
	}
	for _, o := range opts {
		o(&a)
	}
	return a
}

// NewTestUser returns a user on the given plan.
func NewTestUser(plan domain.Plan) *domain.User {
	return &domain.User{
		ID:       1,
		Email:    "analyst@example.org",
		FullName: "Dana Analyst",
		Role:     "analyst",
		Hospital: &domain.Hospital{ID: 1, Name: "St. Example", Plan: plan},
	}
}

// NewTestOverview returns an overview with two departments and the given
// recent anomalies.
func NewTestOverview(recent ...domain.Anomaly) *domain.Overview {
	return &domain.Overview{
		TotalLeakage:        1234.5,
		TotalAnomalies:      len(recent),
		HighPriorityCount:   1,
		MediumPriorityCount: 1,
		Departments: []domain.DepartmentStat{
			{Name: "ICU", Count: 1, Leakage: 1000},
			{Name: "Radiology", Count: 1, Leakage: 234.5},
		},
		RecentAnomalies: recent,
	}
}
