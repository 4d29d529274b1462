package services

import (
	"context"
	"strings"
	"time"

	"github.com/saeid-a/CoachDashboard/internal/listing"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"go.uber.org/zap"
)

// courseStore is the shared course collection coaches write and admins review.
type courseStore interface {
	GetAll(ctx context.Context) []models.CourseRecord
	Get(ctx context.Context, id string) (*models.CourseRecord, error)
	Put(ctx context.Context, record models.CourseRecord) error
	Remove(ctx context.Context, id string) error
}

type CourseReviewService struct {
	store    courseStore
	pageSize int
	logger   *zap.Logger
	now      func() time.Time
}

func NewCourseReviewService(store courseStore, pageSize int, logger *zap.Logger) *CourseReviewService {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &CourseReviewService{store: store, pageSize: pageSize, logger: logger, now: time.Now}
}

type CourseListQuery struct {
	Search   string
	Status   string
	Category string
	Price    string
	Page     int
}

type CourseListResult struct {
	Courses    []models.CourseRecord `json:"courses"`
	Pagination models.PaginationMeta `json:"pagination"`
}

// ListSubmissions pages through courses that have been submitted for review.
func (s *CourseReviewService) ListSubmissions(ctx context.Context, query CourseListQuery) CourseListResult {
	submitted := filterSubmitted(s.store.GetAll(ctx))

	items, meta := listing.Page(FilterCourses(submitted, query), s.pageSize, normalizePage(query.Page))
	return CourseListResult{Courses: items, Pagination: meta}
}

func FilterCourses(courses []models.CourseRecord, query CourseListQuery) []models.CourseRecord {
	return listing.Filter(courses,
		listing.Text(query.Search,
			func(c models.CourseRecord) string { return c.Title },
			func(c models.CourseRecord) string { return c.Description },
			func(c models.CourseRecord) string { return c.CoachName },
		),
		listing.Category(query.Status, func(c models.CourseRecord) string { return string(c.ReviewStatus) }),
		listing.Category(query.Category, func(c models.CourseRecord) string { return c.Category }),
		listing.Range(query.Price, listing.PriceBuckets, func(c models.CourseRecord) (float64, bool) {
			return c.Price, true
		}),
	)
}

func (s *CourseReviewService) Approve(ctx context.Context, id string) (*models.CourseRecord, error) {
	return s.decide(ctx, id, models.ReviewApproved, nil)
}

func (s *CourseReviewService) Reject(ctx context.Context, id string, reason string) (*models.CourseRecord, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.decide(ctx, id, models.ReviewRejected, &reason)
}

func (s *CourseReviewService) decide(
	ctx context.Context,
	id string,
	next models.ReviewStatus,
	reason *string,
) (*models.CourseRecord, error) {
	course, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, upstreamError(err)
	}
	if !models.CanTransitionReview(course.ReviewStatus, next) {
		return nil, ErrInvalidStateTransition
	}

	updated := *course
	updated.ReviewStatus = next
	updated.RejectionReason = reason
	updated.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, updated); err != nil {
		s.logger.Error("Failed to store course review", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	return &updated, nil
}

func filterSubmitted(courses []models.CourseRecord) []models.CourseRecord {
	submitted := make([]models.CourseRecord, 0, len(courses))
	for _, course := range courses {
		if course.ReviewStatus != models.ReviewNone {
			submitted = append(submitted, course)
		}
	}
	return submitted
}
