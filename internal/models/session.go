package models

import (
	"strings"
	"time"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionNoShow    SessionStatus = "no-show"
)

func ParseSessionStatus(raw string) (SessionStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "canceled":
		return SessionCancelled, true
	case "noshow", "no_show":
		return SessionNoShow, true
	}
	switch status := SessionStatus(normalized); status {
	case SessionScheduled, SessionConfirmed, SessionCompleted, SessionCancelled, SessionNoShow:
		return status, true
	default:
		return "", false
	}
}

func CanTransitionSession(from, to SessionStatus) bool {
	switch from {
	case SessionScheduled:
		return to == SessionConfirmed || to == SessionCancelled || to == SessionNoShow
	case SessionConfirmed:
		return to == SessionCompleted || to == SessionCancelled || to == SessionNoShow
	default:
		return false
	}
}

const (
	SessionOneOnOne   = "one-on-one"
	SessionGroup      = "group"
	SessionAssessment = "assessment"

	PaymentPaid     = "paid"
	PaymentPending  = "pending"
	PaymentRefunded = "refunded"
)

type SessionRecord struct {
	ID            string        `json:"id"`
	CoachID       string        `json:"coach_id"`
	StudentName   string        `json:"student_name"`
	StudentEmail  string        `json:"student_email"`
	CourseTitle   string        `json:"course_title"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Duration      int           `json:"duration"`
	Status        SessionStatus `json:"status"`
	Type          string        `json:"type"`
	Price         float64       `json:"price"`
	PaymentStatus string        `json:"payment_status"`
	Notes         *string       `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
