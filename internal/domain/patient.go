package domain

type Patient struct {
	PatientID    string
	Name         string
	VisitID      string
	TotalLeakage float64
	Anomalies    []Anomaly
}

// PatientSummary is one row of the patient roster.
type PatientSummary struct {
	PatientID    string
	Name         string
	AnomalyCount int
	TotalLeakage float64
}

// IngestResult carries the backend's ingestion summary. Fields is the raw
// decoded body so callers can display counters the backend adds later.
type IngestResult struct {
	Message string
	Fields  map[string]any
}
