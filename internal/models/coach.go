package models

import (
	"strings"
	"time"
)

type CoachStatus string

const (
	CoachPending   CoachStatus = "pending"
	CoachApproved  CoachStatus = "approved"
	CoachRejected  CoachStatus = "rejected"
	CoachSuspended CoachStatus = "suspended"
)

// ParseCoachStatus normalizes any casing received from outside the service.
func ParseCoachStatus(raw string) (CoachStatus, bool) {
	switch status := CoachStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case CoachPending, CoachApproved, CoachRejected, CoachSuspended:
		return status, true
	default:
		return "", false
	}
}

// CanTransitionCoach reports whether a coach may move from one status to
// another. Rejection is terminal.
func CanTransitionCoach(from, to CoachStatus) bool {
	switch from {
	case CoachPending:
		return to == CoachApproved || to == CoachRejected
	case CoachApproved:
		return to == CoachSuspended
	case CoachSuspended:
		return to == CoachApproved
	default:
		return false
	}
}

type CoachRecord struct {
	ID              string      `json:"id"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	Status          CoachStatus `json:"status"`
	RegisteredAt    time.Time   `json:"registered_at"`
	Domain          string      `json:"domain"`
	ExperienceYears int         `json:"experience_years"`
	Languages       []string    `json:"languages"`
	Rating          *float64    `json:"rating,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	ResumeURL       *string     `json:"resume_url,omitempty"`
	LicenseURL      *string     `json:"license_url,omitempty"`
	IntroVideoURL   *string     `json:"intro_video_url,omitempty"`
}

func (c CoachRecord) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
