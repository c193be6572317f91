package domain

import "time"

type Anomaly struct {
	ID          int64
	Type        string
	Priority    Priority
	Department  string
	Leakage     float64
	Description string
	PatientID   string
	DetectedAt  *time.Time
	Status      string
	Resolved    bool
}

// AnomalyFilter narrows the anomaly listing. Empty fields are omitted from
// the query entirely.
type AnomalyFilter struct {
	Department string `validate:"omitempty,max=100"`
	Priority   string `validate:"omitempty,oneof=high medium low"`
	DateFrom   string `validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `validate:"omitempty,datetime=2006-01-02"`
	Limit      int    `validate:"omitempty,min=1,max=1000"`
}

// IsZero reports whether no filter field is set.
func (f AnomalyFilter) IsZero() bool {
	return f == AnomalyFilter{}
}

type Resolution struct {
	AnomalyID int64
	Status    string
	Message   string
}
