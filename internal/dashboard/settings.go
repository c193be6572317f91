package dashboard

import (
	"context"
	"errors"

	"github.com/alexanderramin/revint/internal/domain"
)

type SettingsView struct {
	Email     string
	Name      string
	Role      string
	Hospital  string
	PlanBadge string
	Features  string
}

var planFeatures = map[domain.Plan]string{
	domain.PlanStarter:    "Admission + OPD",
	domain.PlanStandard:   "Admission + OPD + Lab",
	domain.PlanPremium:    "Admission + OPD + Lab + Pharmacy",
	domain.PlanEnterprise: "All modules + Multi-hospital",
}

// Features returns the module list included in plan.
func Features(plan domain.Plan) string {
	if f, ok := planFeatures[plan]; ok {
		return f
	}
	return planFeatures[domain.PlanStarter]
}

// LoadSettings fetches the account profile. Failures are Inline.
func (c *Controller) LoadSettings(ctx context.Context) (*SettingsView, error) {
	user, err := c.api.CurrentUser(ctx)
	if err == nil && user == nil {
		err = errors.New("User not found")
	}
	if err != nil {
		return nil, c.inline("settings", "Error loading account information: ", err)
	}

	plan := user.Plan()
	v := &SettingsView{
		Email:     orDefault(user.Email, "N/A"),
		Name:      orDefault(user.FullName, "N/A"),
		Role:      orDefault(user.Role, "N/A"),
		Hospital:  "N/A",
		PlanBadge: plan.Badge(),
		Features:  Features(plan),
	}
	if user.Hospital != nil {
		v.Hospital = orDefault(user.Hospital.Name, "N/A")
	}
	return v, nil
}

// UpgradeView describes the next plan up, or that none exists.
type UpgradeView struct {
	AtTop    bool
	Message  string
	NextPlan string
	Price    string
	Features string
	Email    string
	Phone    string
}

type upgradeOffer struct {
	name, price, features string
}

var upgradePath = map[domain.Plan]upgradeOffer{
	domain.PlanStarter:  {"Standard", "$3,000/month", "Adds Lab module"},
	domain.PlanStandard: {"Premium", "$7,500/month", "Adds Pharmacy + Notifications"},
	domain.PlanPremium:  {"Enterprise", "$20,000+/month", "Multi-hospital + Custom reports"},
}

const (
	SalesEmail = "sales@revenueintegrity.com"
	SalesPhone = "+1 (555) 123-4567"
)

// UpgradePlan looks up the offer for the plan above current. No network.
func UpgradePlan(current domain.Plan) UpgradeView {
	offer, ok := upgradePath[current]
	if !ok {
		return UpgradeView{AtTop: true, Message: "You are already on the highest plan available."}
	}
	return UpgradeView{
		Message:  "Upgrade to " + offer.name + " Plan",
		NextPlan: offer.name,
		Price:    offer.price,
		Features: offer.features,
		Email:    SalesEmail,
		Phone:    SalesPhone,
	}
}

// Lines renders the offer as the text block shown to the user.
func (v UpgradeView) Lines() []string {
	if v.AtTop {
		return []string{v.Message}
	}
	return []string{
		v.Message,
		"",
		"Price: " + v.Price,
		"Features: " + v.Features,
		"",
		"To upgrade, please contact:",
		"Email: " + v.Email,
		"Phone: " + v.Phone,
	}
}
