package models

import "time"

// Project groups tasks and carries its own append-only activity log.
// Edits to name/description/color/icon are deliberately not logged; only
// creation and propagated task events land in Activity.
type Project struct {
	ID          string          `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Name        string          `json:"name" yaml:"name" toml:"name" validate:"required,min=1,max=120"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Color       string          `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Icon        string          `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Activity    []ActivityEntry `json:"activity,omitempty" yaml:"activity,omitempty" toml:"activity,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt   time.Time       `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// NewProject creates a project with timestamps set.
func NewProject(id, name string, now time.Time) *Project {
	return &Project{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
