package domain

import "strings"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"high": true, "medium": true, "low": true,
}

// ParsePriority lowercases s and maps it onto a known priority.
// Empty or unrecognised values become PriorityMedium.
func ParsePriority(s string) Priority {
	p := strings.ToLower(strings.TrimSpace(s))
	if ValidPriorities[p] {
		return Priority(p)
	}
	return PriorityMedium
}

// Plan is the subscription tier of a hospital. The canonical form is
// lowercase; Badge renders the uppercase label used in headers.
type Plan string

const (
	PlanStarter    Plan = "starter"
	PlanStandard   Plan = "standard"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// ValidPlans is the canonical set of accepted plan strings.
var ValidPlans = map[string]bool{
	"starter": true, "standard": true, "premium": true, "enterprise": true,
}

// ParsePlan maps s onto a known plan regardless of casing.
// Empty or unrecognised values become PlanStarter.
func ParsePlan(s string) Plan {
	p := strings.ToLower(strings.TrimSpace(s))
	if ValidPlans[p] {
		return Plan(p)
	}
	return PlanStarter
}

func (p Plan) Badge() string {
	if p == "" {
		return strings.ToUpper(string(PlanStarter))
	}
	return strings.ToUpper(string(p))
}
