package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachDashboard/internal/listing"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/repository"
	"github.com/saeid-a/CoachDashboard/internal/validation"
)

type sessionStore interface {
	Create(ctx context.Context, input repository.CreateSessionInput) (*models.SessionRecord, error)
	GetByID(ctx context.Context, sessionID string) (*models.SessionRecord, error)
	ListByCoachID(ctx context.Context, coachID string) ([]models.SessionRecord, error)
	UpdateStatusIfCurrent(
		ctx context.Context,
		sessionID string,
		currentStatus models.SessionStatus,
		nextStatus models.SessionStatus,
	) (*models.SessionRecord, error)
	UpdatePaymentStatus(ctx context.Context, sessionID string, paymentStatus string) (*models.SessionRecord, error)
	Delete(ctx context.Context, sessionID string) error
}

type SessionService struct {
	sessionRepo sessionStore
	pageSize    int
}

func NewSessionService(sessionRepo sessionStore, pageSize int) *SessionService {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &SessionService{sessionRepo: sessionRepo, pageSize: pageSize}
}

type SessionInput struct {
	StudentName   string  `json:"student_name" validate:"required,notblank"`
	StudentEmail  string  `json:"student_email" validate:"required,email"`
	CourseTitle   string  `json:"course_title" validate:"required,notblank"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time          string  `json:"time" validate:"required,datetime=15:04"`
	Duration      int     `json:"duration" validate:"gt=0"`
	Type          string  `json:"type" validate:"required,oneof=one-on-one group assessment"`
	Price         float64 `json:"price" validate:"gte=0"`
	PaymentStatus string  `json:"payment_status" validate:"omitempty,oneof=paid pending refunded"`
	Notes         *string `json:"notes"`
}

type SessionListQuery struct {
	Search        string
	Status        string
	Type          string
	PaymentStatus string
	Page          int
}

type SessionCounts struct {
	Total     int     `json:"total"`
	Upcoming  int     `json:"upcoming"`
	Completed int     `json:"completed"`
	Cancelled int     `json:"cancelled"`
	NoShow    int     `json:"no_show"`
	Revenue   float64 `json:"revenue"`
}

type SessionListResult struct {
	Sessions   []models.SessionRecord `json:"sessions"`
	Pagination models.PaginationMeta  `json:"pagination"`
	Counts     SessionCounts          `json:"counts"`
}

func (s *SessionService) AddSession(
	ctx context.Context,
	coachID string,
	input SessionInput,
) (*models.SessionRecord, error) {
	if strings.TrimSpace(coachID) == "" {
		return nil, ErrForbidden
	}
	if err := validation.Struct(input).Err(); err != nil {
		return nil, err
	}

	paymentStatus := input.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentPending
	}
	var notes *string
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed != "" {
			notes = &trimmed
		}
	}

	return s.sessionRepo.Create(ctx, repository.CreateSessionInput{
		ID:            uuid.NewString(),
		CoachID:       coachID,
		StudentName:   strings.TrimSpace(input.StudentName),
		StudentEmail:  strings.TrimSpace(input.StudentEmail),
		CourseTitle:   strings.TrimSpace(input.CourseTitle),
		Date:          input.Date,
		Time:          input.Time,
		Duration:      input.Duration,
		Type:          input.Type,
		Price:         input.Price,
		PaymentStatus: paymentStatus,
		Notes:         notes,
	})
}

// ListSessions filters and pages the coach's sessions; counts always cover
// the whole schedule.
func (s *SessionService) ListSessions(
	ctx context.Context,
	coachID string,
	query SessionListQuery,
) (*SessionListResult, error) {
	sessions, err := s.sessionRepo.ListByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}

	filtered := listing.Filter(sessions,
		listing.Text(query.Search,
			func(r models.SessionRecord) string { return r.StudentName },
			func(r models.SessionRecord) string { return r.StudentEmail },
			func(r models.SessionRecord) string { return r.CourseTitle },
		),
		listing.Category(query.Status, func(r models.SessionRecord) string { return string(r.Status) }),
		listing.Category(query.Type, func(r models.SessionRecord) string { return r.Type }),
		listing.Category(query.PaymentStatus, func(r models.SessionRecord) string { return r.PaymentStatus }),
	)
	items, meta := listing.Page(filtered, s.pageSize, normalizePage(query.Page))
	return &SessionListResult{
		Sessions:   items,
		Pagination: meta,
		Counts:     countSessions(sessions),
	}, nil
}

func (s *SessionService) GetSession(ctx context.Context, coachID string, sessionID string) (*models.SessionRecord, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, ErrNotFound
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if session.CoachID != coachID {
		return nil, ErrForbidden
	}
	return session, nil
}

func (s *SessionService) UpdateStatus(
	ctx context.Context,
	coachID string,
	sessionID string,
	requestedStatus string,
) (*models.SessionRecord, error) {
	nextStatus, ok := models.ParseSessionStatus(requestedStatus)
	if !ok {
		return nil, ErrInvalidInput
	}
	session, err := s.GetSession(ctx, coachID, sessionID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionSession(session.Status, nextStatus) {
		return nil, ErrInvalidStateTransition
	}

	updated, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, sessionID, session.Status, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidStateTransition
		}
		return nil, err
	}
	return updated, nil
}

func (s *SessionService) UpdatePaymentStatus(
	ctx context.Context,
	coachID string,
	sessionID string,
	paymentStatus string,
) (*models.SessionRecord, error) {
	paymentStatus = strings.ToLower(strings.TrimSpace(paymentStatus))
	switch paymentStatus {
	case models.PaymentPaid, models.PaymentPending, models.PaymentRefunded:
	default:
		return nil, ErrInvalidInput
	}
	if _, err := s.GetSession(ctx, coachID, sessionID); err != nil {
		return nil, err
	}
	updated, err := s.sessionRepo.UpdatePaymentStatus(ctx, sessionID, paymentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *SessionService) DeleteSession(ctx context.Context, coachID string, sessionID string) error {
	if _, err := s.GetSession(ctx, coachID, sessionID); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func countSessions(sessions []models.SessionRecord) SessionCounts {
	counts := SessionCounts{Total: len(sessions)}
	for _, session := range sessions {
		switch session.Status {
		case models.SessionScheduled, models.SessionConfirmed:
			counts.Upcoming++
		case models.SessionCompleted:
			counts.Completed++
		case models.SessionCancelled:
			counts.Cancelled++
		case models.SessionNoShow:
			counts.NoShow++
		}
		if session.PaymentStatus == models.PaymentPaid {
			counts.Revenue += session.Price
		}
	}
	return counts
}
