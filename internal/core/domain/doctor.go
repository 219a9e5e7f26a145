package domain

import (
	"strings"
	"time"
)

type Doctor struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Specialty       string    `json:"specialty"`
	ExperienceYears int       `json:"experience_years"`
	Rating          float64   `json:"rating"`
	ImageURL        *string   `json:"image_url"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"created_at"`
}

// DoctorSummary is the slice of a doctor shown next to a patient's appointment.
type DoctorSummary struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

func (d *Doctor) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Specialty = strings.TrimSpace(d.Specialty)
	if d.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if d.Specialty == "" {
		return &ValidationError{Field: "specialty", Message: "specialty is required"}
	}
	if d.ExperienceYears < 0 {
		return &ValidationError{Field: "experience_years", Message: "experience_years must not be negative"}
	}
	return nil
}
