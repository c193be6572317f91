package dashboard

import (
	"context"

	"github.com/alexanderramin/revint/internal/domain"
	"github.com/alexanderramin/revint/internal/validation"
)

type APIKeyRow struct {
	ID       int64
	Name     string
	Created  string
	LastUsed string
	Expires  string
	Status   string
}

type APIKeysView struct {
	Rows        []APIKeyRow
	Placeholder string
}

// DefaultKeyExpiryDays applies when no expiry is given.
const DefaultKeyExpiryDays = 365

// ListAPIKeys loads the caller's keys. Failures are Inline.
func (c *Controller) ListAPIKeys(ctx context.Context) (*APIKeysView, error) {
	keys, err := c.api.APIKeys(ctx)
	if err != nil {
		return nil, c.inline("api_keys", "Error loading API keys: ", err)
	}

	v := &APIKeysView{}
	for _, k := range keys {
		status := "Inactive"
		if k.Active {
			status = "Active"
		}
		v.Rows = append(v.Rows, APIKeyRow{
			ID:       k.ID,
			Name:     orDefault(k.Name, "Unnamed"),
			Created:  DateOr(k.CreatedAt, "N/A"),
			LastUsed: DateOr(k.LastUsedAt, "Never"),
			Expires:  DateOr(k.ExpiresAt, "Never"),
			Status:   status,
		})
	}
	if len(v.Rows) == 0 {
		v.Placeholder = "No API keys found. Generate one to get started."
	}
	return v, nil
}

// GeneratedKeyView shows a freshly created secret once, plus the reloaded
// key list.
type GeneratedKeyView struct {
	Name    string
	Key     string
	Expires string
	Keys    *APIKeysView
	// RefreshErr is set when the list reload failed.
	RefreshErr error
}

// GenerateAPIKey validates req, creates the key and reloads the list.
func (c *Controller) GenerateAPIKey(ctx context.Context, req domain.APIKeyRequest) (*GeneratedKeyView, error) {
	if req.ExpiresDays == 0 {
		req.ExpiresDays = DefaultKeyExpiryDays
	}
	if err := validation.Struct(req); err != nil {
		return nil, c.alert("generate_key", "Failed to generate API key: ", err)
	}

	key, err := c.api.GenerateAPIKey(ctx, req.Name, req.ExpiresDays)
	if err != nil {
		return nil, c.alert("generate_key", "Failed to generate API key: ", err)
	}
	c.log.Info().Str("name", req.Name).Int("expires_days", req.ExpiresDays).Msg("api key generated")

	v := &GeneratedKeyView{
		Name:    key.Name,
		Key:     key.Key,
		Expires: DateOr(key.ExpiresAt, "Never"),
	}
	v.Keys, v.RefreshErr = c.ListAPIKeys(ctx)
	return v, nil
}

// RevokePrompt is asked before a key is revoked.
const RevokePrompt = "Are you sure you want to revoke this API key?"

// RevokeOutcome is the confirmation message plus the reloaded list.
type RevokeOutcome struct {
	Message    string
	Keys       *APIKeysView
	RefreshErr error
}

// RevokeAPIKey asks for confirmation, revokes the key and reloads the list.
func (c *Controller) RevokeAPIKey(ctx context.Context, id int64, confirmer Confirmer) (*RevokeOutcome, error) {
	if err := c.confirm(confirmer, RevokePrompt); err != nil {
		return nil, err
	}
	if err := c.api.RevokeAPIKey(ctx, id); err != nil {
		return nil, c.alert("revoke_key", "Failed to revoke API key: ", err)
	}
	c.log.Info().Int64("key_id", id).Msg("api key revoked")

	out := &RevokeOutcome{Message: "API key revoked successfully"}
	out.Keys, out.RefreshErr = c.ListAPIKeys(ctx)
	return out, nil
}
