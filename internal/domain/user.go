package domain

type Hospital struct {
	ID   int64
	Name string
	Plan Plan
}

// User is the authenticated account returned by /auth/me.
type User struct {
	ID       int64
	Email    string
	FullName string
	Role     string
	Hospital *Hospital
}

// DisplayName prefers the full name, then the email, then "User".
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	return CoalesceStr(u.FullName, u.Email, "User")
}

// Plan returns the hospital plan, defaulting to starter when the user has
// no hospital attached.
func (u *User) Plan() Plan {
	if u == nil || u.Hospital == nil || u.Hospital.Plan == "" {
		return PlanStarter
	}
	return u.Hospital.Plan
}

type LoginResult struct {
	AccessToken string
	TokenType   string
}
