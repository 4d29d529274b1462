package services

import (
	"context"
	"strings"

	"github.com/saeid-a/CoachDashboard/internal/listing"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const coachListNotice = "Could not load coaches right now. Please try again shortly."

// coachSource is implemented by the upstream API client and by the mock store.
type coachSource interface {
	ListCoaches(ctx context.Context) ([]models.CoachRecord, error)
	GetCoach(ctx context.Context, id string) (*models.CoachRecord, error)
	ApproveCoach(ctx context.Context, id string) error
	RejectCoach(ctx context.Context, id string, reason string) error
	SuspendCoach(ctx context.Context, id string) error
	ReactivateCoach(ctx context.Context, id string) error
	UpdateCoachNotes(ctx context.Context, id string, notes string) error
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type AdminService struct {
	source   coachSource
	pageSize int
	logger   *zap.Logger
	inflight singleflight.Group
}

func NewAdminService(source coachSource, pageSize int, logger *zap.Logger) *AdminService {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &AdminService{source: source, pageSize: pageSize, logger: logger}
}

type CoachListQuery struct {
	Search string
	Status string
	Rating string
	Page   int
}

type CoachListResult struct {
	Coaches    []models.CoachRecord  `json:"coaches"`
	Pagination models.PaginationMeta `json:"pagination"`
	Notice     string                `json:"notice,omitempty"`
}

// ListCoaches never fails: a source error yields an empty page with a notice.
func (s *AdminService) ListCoaches(ctx context.Context, query CoachListQuery) CoachListResult {
	page := normalizePage(query.Page)
	coaches, err := s.source.ListCoaches(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch coaches", zap.Error(err))
		return CoachListResult{
			Coaches:    []models.CoachRecord{},
			Pagination: models.PaginationMeta{Page: page, Limit: s.pageSize},
			Notice:     coachListNotice,
		}
	}

	items, meta := listing.Page(FilterCoaches(coaches, query), s.pageSize, page)
	return CoachListResult{Coaches: items, Pagination: meta}
}

// FilteredCoaches returns every coach matching the query, unpaginated.
func (s *AdminService) FilteredCoaches(ctx context.Context, query CoachListQuery) ([]models.CoachRecord, error) {
	coaches, err := s.source.ListCoaches(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}
	return FilterCoaches(coaches, query), nil
}

func FilterCoaches(coaches []models.CoachRecord, query CoachListQuery) []models.CoachRecord {
	return listing.Filter(coaches,
		listing.Text(query.Search,
			func(c models.CoachRecord) string { return c.FirstName },
			func(c models.CoachRecord) string { return c.LastName },
			func(c models.CoachRecord) string { return c.Email },
			func(c models.CoachRecord) string { return c.Domain },
		),
		listing.Category(query.Status, func(c models.CoachRecord) string { return string(c.Status) }),
		listing.Range(query.Rating, listing.RatingBuckets, func(c models.CoachRecord) (float64, bool) {
			if c.Rating == nil {
				return 0, false
			}
			return *c.Rating, true
		}),
	)
}

func (s *AdminService) GetCoach(ctx context.Context, id string) (*models.CoachRecord, error) {
	coach, err := s.source.GetCoach(ctx, id)
	if err != nil {
		return nil, upstreamError(err)
	}
	return coach, nil
}

func (s *AdminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.source.DashboardStats(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}
	return stats, nil
}

// DashboardStats lets the service feed the stats poller.
func (s *AdminService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return s.Stats(ctx)
}

func (s *AdminService) ApproveCoach(ctx context.Context, id string) (*models.CoachRecord, error) {
	return s.moderate(ctx, id, "approve", models.CoachApproved, func(ctx context.Context) error {
		return s.source.ApproveCoach(ctx, id)
	})
}

// RejectCoach requires a reason; an empty one never reaches the source.
func (s *AdminService) RejectCoach(ctx context.Context, id string, reason string) (*models.CoachRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.moderate(ctx, id, "reject", models.CoachRejected, func(ctx context.Context) error {
		return s.source.RejectCoach(ctx, id, reason)
	})
}

func (s *AdminService) SuspendCoach(ctx context.Context, id string) (*models.CoachRecord, error) {
	return s.moderate(ctx, id, "suspend", models.CoachSuspended, func(ctx context.Context) error {
		return s.source.SuspendCoach(ctx, id)
	})
}

func (s *AdminService) ReactivateCoach(ctx context.Context, id string) (*models.CoachRecord, error) {
	return s.moderate(ctx, id, "reactivate", models.CoachApproved, func(ctx context.Context) error {
		return s.source.ReactivateCoach(ctx, id)
	})
}

// UpdateNotes is allowed in every status, rejected coaches included.
func (s *AdminService) UpdateNotes(ctx context.Context, id string, notes string) (*models.CoachRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.source.UpdateCoachNotes(ctx, id, notes); err != nil {
		return nil, upstreamError(err)
	}
	return s.refetch(ctx, &models.CoachRecord{ID: id}, func(coach *models.CoachRecord) {
		coach.Notes = &notes
	})
}

// moderate checks the transition against the current record and performs the
// action at most once per (action, id) among concurrent callers.
func (s *AdminService) moderate(
	ctx context.Context,
	id string,
	action string,
	target models.CoachStatus,
	call func(ctx context.Context) error,
) (*models.CoachRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}

	result, err, shared := s.inflight.Do(action+":"+id, func() (any, error) {
		// Joined callers share this work, so one caller's cancellation must not fail the others.
		ctx := context.WithoutCancel(ctx)
		coach, err := s.source.GetCoach(ctx, id)
		if err != nil {
			return nil, upstreamError(err)
		}
		if !models.CanTransitionCoach(coach.Status, target) {
			return nil, ErrInvalidStateTransition
		}
		if err := call(ctx); err != nil {
			s.logger.Warn("Coach moderation failed",
				zap.String("coach_id", id),
				zap.String("action", action),
				zap.Error(err),
			)
			return nil, upstreamError(err)
		}
		return s.refetch(ctx, coach, func(fallback *models.CoachRecord) {
			fallback.Status = target
		})
	})
	if shared {
		s.logger.Debug("Joined in-flight moderation", zap.String("coach_id", id), zap.String("action", action))
	}
	if err != nil {
		return nil, err
	}
	coach := *result.(*models.CoachRecord)
	return &coach, nil
}

// refetch reads the record back after a successful mutation. When the read
// fails the last known record is patched locally instead.
func (s *AdminService) refetch(
	ctx context.Context,
	known *models.CoachRecord,
	patch func(*models.CoachRecord),
) (*models.CoachRecord, error) {
	coach, err := s.source.GetCoach(ctx, known.ID)
	if err == nil {
		return coach, nil
	}
	s.logger.Warn("Failed to reload coach after update", zap.String("coach_id", known.ID), zap.Error(err))
	fallback := *known
	patch(&fallback)
	return &fallback, nil
}
