package mockstore

import (
	"context"

	"github.com/saeid-a/CoachDashboard/internal/models"
)

// Source serves the admin coach views from the mock store when no upstream
// marketplace API is configured.
type Source struct {
	coaches *CoachStore
	courses *CourseStore
}

func NewSource(coaches *CoachStore, courses *CourseStore) *Source {
	return &Source{coaches: coaches, courses: courses}
}

func (s *Source) ListCoaches(ctx context.Context) ([]models.CoachRecord, error) {
	return s.coaches.GetAll(ctx), nil
}

func (s *Source) GetCoach(ctx context.Context, id string) (*models.CoachRecord, error) {
	coach, ok := s.coaches.Get(ctx, id)
	if !ok {
		return nil, ErrNotFound
	}
	return &coach, nil
}

func (s *Source) ApproveCoach(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.CoachApproved, nil)
}

func (s *Source) RejectCoach(ctx context.Context, id string, reason string) error {
	return s.setStatus(ctx, id, models.CoachRejected, &reason)
}

func (s *Source) SuspendCoach(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.CoachSuspended, nil)
}

func (s *Source) ReactivateCoach(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.CoachApproved, nil)
}

func (s *Source) UpdateCoachNotes(ctx context.Context, id string, notes string) error {
	if !s.coaches.UpdateNotes(ctx, id, notes) {
		return ErrNotFound
	}
	return nil
}

func (s *Source) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	for _, coach := range s.coaches.GetAll(ctx) {
		stats.TotalCoaches++
		switch coach.Status {
		case models.CoachPending:
			stats.PendingCoaches++
		case models.CoachApproved:
			stats.ApprovedCoaches++
		case models.CoachRejected:
			stats.RejectedCoaches++
		case models.CoachSuspended:
			stats.SuspendedCoaches++
		}
	}
	if s.courses != nil {
		for _, course := range s.courses.GetAll(ctx) {
			stats.TotalCourses++
			if course.ReviewStatus == models.ReviewPending {
				stats.PendingCourses++
			}
		}
	}
	return stats, nil
}

func (s *Source) setStatus(ctx context.Context, id string, status models.CoachStatus, notes *string) error {
	if !s.coaches.UpdateStatus(ctx, id, status, notes) {
		return ErrNotFound
	}
	return nil
}
