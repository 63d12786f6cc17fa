package domain

import "time"

// Instance represents the singleton server instance configuration.
type Instance struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	HasRootUser bool      `json:"has_root_user"`
}

// IsSetupRequired reports whether first-run setup is still pending.
// Setup is complete once the root admin has been created.
func (i *Instance) IsSetupRequired() bool {
	return !i.HasRootUser
}

// SetRootUser marks initial setup as complete.
func (i *Instance) SetRootUser() {
	i.HasRootUser = true
}
