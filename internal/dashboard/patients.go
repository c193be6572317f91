package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/revint/internal/api"
)

// PatientView is either a search prompt (Prompt set) or a patient detail.
type PatientView struct {
	Prompt []string

	PatientID    string
	Name         string
	VisitID      string
	TotalLeakage string
	Rows         []AnomalyRow
	Placeholder  string
}

const patientSearchTip = "Tip: Try searching with a Patient ID from your data (e.g., P001, P002, etc.)"

// SearchPatient loads one patient's anomalies. A blank id yields a prompt
// without a request.
func (c *Controller) SearchPatient(ctx context.Context, patientID string) (*PatientView, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return &PatientView{Prompt: []string{
			"Please enter a Patient ID to search",
			"Example: P001, P002, etc.",
		}}, nil
	}

	p, err := c.api.Patient(ctx, patientID)
	if err != nil {
		c.log.Error().Err(err).Str("patient_id", patientID).Msg("patient lookup failed")
		msg := err.Error()
		switch {
		case api.IsNotFound(err) || strings.Contains(msg, "404"):
			msg = fmt.Sprintf("Patient %q not found. Please check the Patient ID and try again.", patientID)
		case msg == "":
			msg = "Failed to load patient data"
		}
		return nil, &Failure{Presentation: Inline, Message: msg, Hint: patientSearchTip, Err: err}
	}

	v := &PatientView{
		PatientID:    orDefault(p.PatientID, "N/A"),
		Name:         orDefault(p.Name, orDefault(p.PatientID, "Unknown")),
		VisitID:      orDefault(p.VisitID, "N/A"),
		TotalLeakage: Dollars(p.TotalLeakage),
	}
	for _, a := range p.Anomalies {
		v.Rows = append(v.Rows, anomalyRow(a, "unknown"))
	}
	if len(v.Rows) == 0 {
		v.Placeholder = "No anomalies found for this patient"
	}
	return v, nil
}

type PatientRow struct {
	PatientID    string
	Name         string
	AnomalyCount int
	TotalLeakage string
}

type PatientListView struct {
	Title       string
	Rows        []PatientRow
	Placeholder string
}

// LoadPatientList fetches the roster of patients with anomalies.
func (c *Controller) LoadPatientList(ctx context.Context) (*PatientListView, error) {
	list, err := c.api.Patients(ctx, c.opts.PatientLimit)
	if err != nil {
		return nil, c.alert("patients", "Failed to load patient list: ", err)
	}

	v := &PatientListView{}
	for _, p := range list {
		v.Rows = append(v.Rows, PatientRow{
			PatientID:    p.PatientID,
			Name:         orDefault(p.Name, "N/A"),
			AnomalyCount: p.AnomalyCount,
			TotalLeakage: Dollars(p.TotalLeakage),
		})
	}
	if len(v.Rows) == 0 {
		v.Placeholder = "No patients with anomalies found"
	} else {
		v.Title = fmt.Sprintf("Patients with Anomalies (%d)", len(v.Rows))
	}
	return v, nil
}
