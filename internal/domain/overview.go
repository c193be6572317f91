package domain

// DepartmentStat is one entry of the per-department breakdown.
type DepartmentStat struct {
	Name    string
	Count   int
	Leakage float64
}

type Overview struct {
	TotalLeakage        float64
	TotalAnomalies      int
	HighPriorityCount   int
	MediumPriorityCount int
	Departments         []DepartmentStat
	RecentAnomalies     []Anomaly
}
