// Package types provides type definitions for structured data used throughout the resume-preview system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// ResumeContent is the semantic résumé document as edited by the user.
// It is owned by the surrounding editor; the rendering pipeline only reads it.
type ResumeContent struct {
	Title      string       `json:"title,omitempty"`
	Personal   PersonalInfo `json:"personal"`
	Summary    string       `json:"summary,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
	Projects   []Project    `json:"projects,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	TemplateID string       `json:"template_id,omitempty"`

	// UpdatedAt is editor bookkeeping and never affects rendering output.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PersonalInfo holds the contact header of the résumé.
type PersonalInfo struct {
	FullName string `json:"full_name,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Experience represents a single work entry.
type Experience struct {
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"start_date,omitempty"` // YYYY-MM
	EndDate   string   `json:"end_date,omitempty"`   // YYYY-MM or "present"
	Bullets   []string `json:"bullets,omitempty"`
}

// Education represents a single education entry.
type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree,omitempty"`
	Field     string `json:"field,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Project represents a single project entry.
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Link        string   `json:"link,omitempty"`
	Tech        []string `json:"tech,omitempty"`
}

// RenderSettings are the presentation knobs that affect rendered output
// without being part of the document content itself.
type RenderSettings struct {
	FontSize    int    `json:"font_size,omitempty" validate:"omitempty,min=8,max=16"`
	AccentColor string `json:"accent_color,omitempty" validate:"omitempty,hexcolor"`
}

// DefaultRenderSettings returns the settings used when the editor has not
// customized anything.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		FontSize:    11,
		AccentColor: "#1a3c6e",
	}
}
