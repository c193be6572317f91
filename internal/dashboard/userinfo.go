package dashboard

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alexanderramin/revint/internal/api"
	"github.com/alexanderramin/revint/internal/domain"
	"github.com/alexanderramin/revint/internal/session"
)

// UserInfoView is the header's identity block.
type UserInfoView struct {
	DisplayName string
	PlanBadge   string
	Plan        domain.Plan
	// Degraded is set when the profile could not be loaded and the name
	// was derived locally.
	Degraded bool
}

// LoadingUserInfo is shown until the profile arrives.
var LoadingUserInfo = UserInfoView{DisplayName: "Loading...", PlanBadge: "LOADING"}

// FallbackUserInfo replaces LoadingUserInfo when the profile is slow.
var FallbackUserInfo = UserInfoView{DisplayName: "User", PlanBadge: domain.PlanStarter.Badge(), Plan: domain.PlanStarter}

// LoadUserInfo fetches the profile for the header. When the backend rejects
// the credentials the session is cleared and ErrSessionExpired returned.
// Other failures degrade to a name decoded from the token.
func (c *Controller) LoadUserInfo(ctx context.Context) (UserInfoView, error) {
	user, err := c.api.CurrentUser(ctx)
	if err == nil {
		plan := user.Plan()
		return UserInfoView{
			DisplayName: user.DisplayName(),
			PlanBadge:   plan.Badge(),
			Plan:        plan,
		}, nil
	}

	if api.IsAuthError(err) {
		c.log.Warn().Err(err).Msg("credentials rejected, clearing session")
		if clearErr := c.store.Clear(ctx, session.ReasonExpired); clearErr != nil {
			c.log.Error().Err(clearErr).Msg("clearing session")
		}
		return UserInfoView{}, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	c.log.Warn().Err(err).Msg("user info unavailable, using token fallback")
	token, tokErr := c.store.Token(ctx)
	if tokErr != nil {
		c.log.Error().Err(tokErr).Msg("reading session")
	}
	return UserInfoView{
		DisplayName: nameFromToken(token),
		PlanBadge:   domain.PlanStarter.Badge(),
		Plan:        domain.PlanStarter,
		Degraded:    true,
	}, nil
}

// nameFromToken reads the sub claim without verifying the signature; it is
// only used as a display label.
func nameFromToken(token string) string {
	if token == "" {
		return "Not logged in"
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "User"
	}
	sub, ok := claims["sub"]
	if !ok || sub == nil || sub == "" {
		return "User ID: Unknown"
	}
	return fmt.Sprintf("User ID: %v", sub)
}
