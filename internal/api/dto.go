package api

import (
	"bytes"
	"sort"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/alexanderramin/revint/internal/domain"
)

// The backend is inconsistent about shapes: enums sometimes arrive as
// {"value": "..."} objects, numbers as strings, and anomalies use
// different field names depending on the endpoint. Everything is folded
// into the domain types here so nothing past this file sees wire quirks.

// flexString accepts a string, a {"value": ...} wrapper, a bare number or
// null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	case '{':
		var w struct {
			Value flexString `json:"value"`
		}
		if err := json.Unmarshal(b, &w); err != nil {
			return err
		}
		*s = w.Value
	default:
		*s = flexString(b)
	}
	return nil
}

// flexFloat accepts a number, a numeric string or null. Unparseable
// strings decode as zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		v = 0
	}
	*f = flexFloat(v)
	return nil
}

func (f *flexFloat) ptr() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func (f *flexFloat) value() float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}

// flexInt accepts an integer, a numeric string or null.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	*n = flexInt(int64(f))
	return nil
}

// flexBool accepts a boolean, "true"/"false" style strings, 1/0 or null.
// Anything unrecognised decodes as false.
type flexBool bool

func (v *flexBool) UnmarshalJSON(b []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(b); err != nil {
		return err
	}
	parsed, err := strconv.ParseBool(string(raw))
	*v = flexBool(err == nil && parsed)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// flexTime accepts RFC 3339 timestamps, naive ISO timestamps (read as UTC)
// and plain dates. Anything else decodes as unset.
type flexTime struct {
	t *time.Time
}

func (ft *flexTime) UnmarshalJSON(b []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(b); err != nil {
		return err
	}
	ft.t = nil
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, string(raw)); err == nil {
			ft.t = &t
			return nil
		}
	}
	return nil
}

type userDTO struct {
	ID       flexInt      `json:"id"`
	Email    flexString   `json:"email"`
	FullName flexString   `json:"full_name"`
	Role     flexString   `json:"role"`
	Hospital *hospitalDTO `json:"hospital"`
}

type hospitalDTO struct {
	ID   flexInt    `json:"id"`
	Name flexString `json:"name"`
	Plan flexString `json:"plan"`
}

func (u userDTO) toDomain() *domain.User {
	user := &domain.User{
		ID:       int64(u.ID),
		Email:    string(u.Email),
		FullName: string(u.FullName),
		Role:     string(u.Role),
	}
	if u.Hospital != nil {
		user.Hospital = &domain.Hospital{
			ID:   int64(u.Hospital.ID),
			Name: string(u.Hospital.Name),
			Plan: domain.ParsePlan(string(u.Hospital.Plan)),
		}
	}
	return user
}

type loginDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// anomalyDTO covers both the list shape (anomaly_type, leakage_amount) and
// the overview shape (type, leakage).
type anomalyDTO struct {
	ID            flexInt    `json:"id"`
	AnomalyType   flexString `json:"anomaly_type"`
	Type          flexString `json:"type"`
	Priority      flexString `json:"priority"`
	Department    flexString `json:"department"`
	LeakageAmount *flexFloat `json:"leakage_amount"`
	Leakage       *flexFloat `json:"leakage"`
	Description   flexString `json:"description"`
	PatientID     flexString `json:"patient_id"`
	DetectedAt    flexTime   `json:"detected_at"`
	Status        flexString `json:"status"`
	IsResolved    flexBool   `json:"is_resolved"`
}

func (a anomalyDTO) toDomain() domain.Anomaly {
	status := string(a.Status)
	return domain.Anomaly{
		ID:          int64(a.ID),
		Type:        domain.CoalesceStr(string(a.AnomalyType), string(a.Type)),
		Priority:    domain.ParsePriority(string(a.Priority)),
		Department:  string(a.Department),
		Leakage:     domain.CoalesceFloat(0, a.LeakageAmount.ptr(), a.Leakage.ptr()),
		Description: string(a.Description),
		PatientID:   string(a.PatientID),
		DetectedAt:  a.DetectedAt.t,
		Status:      status,
		Resolved:    bool(a.IsResolved) || status == "resolved",
	}
}

func anomaliesToDomain(in []anomalyDTO) []domain.Anomaly {
	out := make([]domain.Anomaly, 0, len(in))
	for _, a := range in {
		out = append(out, a.toDomain())
	}
	return out
}

// anomalyListDTO accepts either a bare array or {"anomalies": [...]}.
type anomalyListDTO []anomalyDTO

func (l *anomalyListDTO) UnmarshalJSON(b []byte) error {
	return decodeList(b, "anomalies", (*[]anomalyDTO)(l))
}

type departmentDTO struct {
	Count   flexInt    `json:"count"`
	Leakage *flexFloat `json:"leakage"`
}

type overviewDTO struct {
	TotalLeakage        flexFloat                `json:"total_leakage"`
	TotalAnomalies      flexInt                  `json:"total_anomalies"`
	HighPriorityCount   flexInt                  `json:"high_priority_count"`
	MediumPriorityCount flexInt                  `json:"medium_priority_count"`
	DepartmentBreakdown map[string]departmentDTO `json:"department_breakdown"`
	RecentAnomalies     []anomalyDTO             `json:"recent_anomalies"`
}

// toDomain sorts departments by name so repeated renders are stable.
func (o overviewDTO) toDomain() *domain.Overview {
	depts := make([]domain.DepartmentStat, 0, len(o.DepartmentBreakdown))
	for name, d := range o.DepartmentBreakdown {
		depts = append(depts, domain.DepartmentStat{
			Name:    name,
			Count:   int(d.Count),
			Leakage: d.Leakage.value(),
		})
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].Name < depts[j].Name })

	return &domain.Overview{
		TotalLeakage:        float64(o.TotalLeakage),
		TotalAnomalies:      int(o.TotalAnomalies),
		HighPriorityCount:   int(o.HighPriorityCount),
		MediumPriorityCount: int(o.MediumPriorityCount),
		Departments:         depts,
		RecentAnomalies:     anomaliesToDomain(o.RecentAnomalies),
	}
}

type patientDTO struct {
	PatientID    flexString   `json:"patient_id"`
	PatientName  flexString   `json:"patient_name"`
	VisitID      flexString   `json:"visit_id"`
	TotalLeakage flexFloat    `json:"total_leakage"`
	Anomalies    []anomalyDTO `json:"anomalies"`
}

func (p patientDTO) toDomain() *domain.Patient {
	return &domain.Patient{
		PatientID:    string(p.PatientID),
		Name:         string(p.PatientName),
		VisitID:      string(p.VisitID),
		TotalLeakage: float64(p.TotalLeakage),
		Anomalies:    anomaliesToDomain(p.Anomalies),
	}
}

type patientSummaryDTO struct {
	PatientID    flexString `json:"patient_id"`
	PatientName  flexString `json:"patient_name"`
	AnomalyCount flexInt    `json:"anomaly_count"`
	TotalLeakage flexFloat  `json:"total_leakage"`
}

type patientListDTO []patientSummaryDTO

func (l *patientListDTO) UnmarshalJSON(b []byte) error {
	return decodeList(b, "patients", (*[]patientSummaryDTO)(l))
}

func (l patientListDTO) toDomain() []domain.PatientSummary {
	out := make([]domain.PatientSummary, 0, len(l))
	for _, p := range l {
		out = append(out, domain.PatientSummary{
			PatientID:    string(p.PatientID),
			Name:         string(p.PatientName),
			AnomalyCount: int(p.AnomalyCount),
			TotalLeakage: float64(p.TotalLeakage),
		})
	}
	return out
}

type apiKeyDTO struct {
	ID         flexInt    `json:"id"`
	Name       flexString `json:"name"`
	CreatedAt  flexTime   `json:"created_at"`
	LastUsedAt flexTime   `json:"last_used_at"`
	ExpiresAt  flexTime   `json:"expires_at"`
	IsActive   flexBool   `json:"is_active"`
}

type apiKeyListDTO []apiKeyDTO

func (l *apiKeyListDTO) UnmarshalJSON(b []byte) error {
	return decodeList(b, "api_keys", (*[]apiKeyDTO)(l))
}

func (l apiKeyListDTO) toDomain() []domain.APIKey {
	out := make([]domain.APIKey, 0, len(l))
	for _, k := range l {
		out = append(out, domain.APIKey{
			ID:         int64(k.ID),
			Name:       string(k.Name),
			CreatedAt:  k.CreatedAt.t,
			LastUsedAt: k.LastUsedAt.t,
			ExpiresAt:  k.ExpiresAt.t,
			Active:     bool(k.IsActive),
		})
	}
	return out
}

type generatedKeyDTO struct {
	ID        flexInt    `json:"id"`
	Name      flexString `json:"name"`
	APIKey    flexString `json:"api_key"`
	ExpiresAt flexTime   `json:"expires_at"`
}

func (g generatedKeyDTO) toDomain() *domain.GeneratedKey {
	return &domain.GeneratedKey{
		ID:        int64(g.ID),
		Name:      string(g.Name),
		Key:       string(g.APIKey),
		ExpiresAt: g.ExpiresAt.t,
	}
}

type resolutionDTO struct {
	AnomalyID flexInt    `json:"anomaly_id"`
	Status    flexString `json:"status"`
	Message   flexString `json:"message"`
}

type resolveRequest struct {
	Action          string `json:"action"`
	ResolutionNotes string `json:"resolution_notes"`
}

type ingestRequest struct {
	PatientData []map[string]any `json:"patient_data"`
	BillingData []map[string]any `json:"billing_data"`
}

type generateKeyRequest struct {
	Name        string `json:"name"`
	ExpiresDays int    `json:"expires_days"`
}

// errorBody is the subset of an error response used for messages. Detail
// is kept raw because validation failures send a structured array.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message flexString      `json:"message"`
}

func (e errorBody) text() string {
	d := bytes.TrimSpace(e.Detail)
	if len(d) > 0 && !bytes.Equal(d, []byte("null")) {
		if d[0] == '"' {
			var s string
			if err := json.Unmarshal(d, &s); err == nil && s != "" {
				return s
			}
		} else {
			return string(d)
		}
	}
	return string(e.Message)
}

// decodeList decodes a bare array, or the array stored under key when the
// body is an object.
func decodeList[T any](b []byte, key string, out *[]T) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*out = nil
		return nil
	}
	if b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*out = items
		return nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	raw, ok := wrapped[key]
	if !ok {
		*out = nil
		return nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	*out = items
	return nil
}
