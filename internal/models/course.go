package models

import (
	"strings"
	"time"

	"github.com/saeid-a/CoachDashboard/internal/schedule"
)

// CourseStatus is the coach-facing lifecycle of a course.
type CourseStatus string

const (
	CourseActive CourseStatus = "active"
	CourseDraft  CourseStatus = "draft"
)

// ReviewStatus is the admin-facing lifecycle of a submitted course.
type ReviewStatus string

const (
	ReviewNone     ReviewStatus = ""
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

func ParseReviewStatus(raw string) (ReviewStatus, bool) {
	switch status := ReviewStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return status, true
	default:
		return "", false
	}
}

// CanTransitionReview only allows a pending submission to be decided once.
func CanTransitionReview(from, to ReviewStatus) bool {
	return from == ReviewPending && (to == ReviewApproved || to == ReviewRejected)
}

type CourseRecord struct {
	ID              string                  `json:"id"`
	CoachName       string                  `json:"coach_name"`
	CoachEmail      string                  `json:"coach_email"`
	OwnerID         string                  `json:"owner_id"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	Benefits        string                  `json:"benefits"`
	Category        string                  `json:"category"`
	Program         string                  `json:"program"`
	Credits         int                     `json:"credits"`
	Price           float64                 `json:"price"`
	Duration        string                  `json:"duration"`
	Lessons         int                     `json:"lessons"`
	Timezone        string                  `json:"timezone"`
	WeeklySchedule  schedule.WeeklySchedule `json:"weekly_schedule"`
	Status          CourseStatus            `json:"status"`
	ReviewStatus    ReviewStatus            `json:"review_status,omitempty"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
	SubmittedAt     *time.Time              `json:"submitted_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}
