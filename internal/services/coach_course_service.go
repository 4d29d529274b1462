package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachDashboard/internal/apiclient"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/schedule"
	"github.com/saeid-a/CoachDashboard/internal/validation"
	"go.uber.org/zap"
)

type courseSubmitter interface {
	CreateCourse(ctx context.Context, submission apiclient.CourseSubmission) (string, error)
}

type CourseInput struct {
	CoachName      string                  `json:"coach_name" validate:"required,notblank"`
	CoachEmail     string                  `json:"coach_email" validate:"required,email"`
	Title          string                  `json:"title" validate:"required,notblank"`
	Description    string                  `json:"description" validate:"required,notblank"`
	Benefits       string                  `json:"benefits"`
	Category       string                  `json:"category" validate:"required,notblank"`
	Program        string                  `json:"program"`
	Credits        int                     `json:"credits" validate:"gte=0"`
	Price          float64                 `json:"price" validate:"gt=0"`
	Duration       string                  `json:"duration" validate:"required,notblank"`
	Lessons        int                     `json:"lessons" validate:"gte=0"`
	Timezone       string                  `json:"timezone"`
	Status         string                  `json:"status" validate:"omitempty,oneof=active draft"`
	WeeklySchedule schedule.WeeklySchedule `json:"weekly_schedule"`
}

// Validate checks the form fields and the weekly schedule together.
func (in CourseInput) Validate() error {
	fields := validation.Struct(in)
	fields.Merge(in.WeeklySchedule.Validate())
	return fields.Err()
}

type CoachCourseService struct {
	store    courseStore
	upstream courseSubmitter
	logger   *zap.Logger
	now      func() time.Time
}

// NewCoachCourseService accepts a nil upstream; submissions are then only
// queued locally for review.
func NewCoachCourseService(store courseStore, upstream courseSubmitter, logger *zap.Logger) *CoachCourseService {
	return &CoachCourseService{store: store, upstream: upstream, logger: logger, now: time.Now}
}

func (s *CoachCourseService) List(ctx context.Context, ownerID string) []models.CourseRecord {
	all := s.store.GetAll(ctx)
	owned := make([]models.CourseRecord, 0, len(all))
	for _, course := range all {
		if course.OwnerID == ownerID {
			owned = append(owned, course)
		}
	}
	return owned
}

func (s *CoachCourseService) Get(ctx context.Context, ownerID string, id string) (*models.CourseRecord, error) {
	course, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, upstreamError(err)
	}
	if course.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return course, nil
}

func (s *CoachCourseService) Create(ctx context.Context, ownerID string, input CourseInput) (*models.CourseRecord, error) {
	input.WeeklySchedule.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	course := models.CourseRecord{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now,
	}
	applyCourseInput(&course, input, now)
	if err := s.store.Put(ctx, course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CoachCourseService) Update(
	ctx context.Context,
	ownerID string,
	id string,
	input CourseInput,
) (*models.CourseRecord, error) {
	course, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	input.WeeklySchedule.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	updated := *course
	applyCourseInput(&updated, input, s.now().UTC())
	if err := s.store.Put(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *CoachCourseService) Delete(ctx context.Context, ownerID string, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return upstreamError(err)
	}
	return nil
}

// Submit forwards the course to the marketplace and queues it for admin
// review. A failed upstream call leaves the stored course untouched.
func (s *CoachCourseService) Submit(
	ctx context.Context,
	ownerID string,
	id string,
	thumbnail *apiclient.Attachment,
	introVideo *apiclient.Attachment,
) (*models.CourseRecord, error) {
	course, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if course.ReviewStatus != models.ReviewNone {
		return nil, ErrInvalidStateTransition
	}
	if err := courseInputFrom(*course).Validate(); err != nil {
		return nil, err
	}

	if s.upstream != nil {
		upstreamID, err := s.upstream.CreateCourse(ctx, apiclient.CourseSubmission{
			Course:     *course,
			Thumbnail:  thumbnail,
			IntroVideo: introVideo,
		})
		if err != nil {
			s.logger.Warn("Course submission failed", zap.String("course_id", id), zap.Error(err))
			return nil, upstreamError(err)
		}
		s.logger.Info("Course forwarded to marketplace",
			zap.String("course_id", id),
			zap.String("upstream_id", upstreamID),
		)
	}

	now := s.now().UTC()
	submitted := *course
	submitted.ReviewStatus = models.ReviewPending
	submitted.RejectionReason = nil
	submitted.SubmittedAt = &now
	submitted.UpdatedAt = now
	if err := s.store.Put(ctx, submitted); err != nil {
		return nil, err
	}
	return &submitted, nil
}

func applyCourseInput(course *models.CourseRecord, input CourseInput, now time.Time) {
	course.CoachName = strings.TrimSpace(input.CoachName)
	course.CoachEmail = strings.TrimSpace(input.CoachEmail)
	course.Title = strings.TrimSpace(input.Title)
	course.Description = strings.TrimSpace(input.Description)
	course.Benefits = strings.TrimSpace(input.Benefits)
	course.Category = strings.TrimSpace(input.Category)
	course.Program = strings.TrimSpace(input.Program)
	course.Credits = input.Credits
	course.Price = input.Price
	course.Duration = strings.TrimSpace(input.Duration)
	course.Lessons = input.Lessons
	course.Timezone = input.Timezone
	course.WeeklySchedule = input.WeeklySchedule
	course.Status = models.CourseStatus(input.Status)
	if course.Status == "" {
		course.Status = models.CourseDraft
	}
	course.UpdatedAt = now
}

func courseInputFrom(course models.CourseRecord) CourseInput {
	return CourseInput{
		CoachName:      course.CoachName,
		CoachEmail:     course.CoachEmail,
		Title:          course.Title,
		Description:    course.Description,
		Benefits:       course.Benefits,
		Category:       course.Category,
		Program:        course.Program,
		Credits:        course.Credits,
		Price:          course.Price,
		Duration:       course.Duration,
		Lessons:        course.Lessons,
		Timezone:       course.Timezone,
		Status:         string(course.Status),
		WeeklySchedule: course.WeeklySchedule,
	}
}

type SlotPreview struct {
	Day       string `json:"day"`
	SlotID    string `json:"slot_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Sessions  int    `json:"sessions"`
}

type SchedulePreview struct {
	ActiveDays          []string          `json:"active_days"`
	Slots               []SlotPreview     `json:"slots"`
	TotalWeeklySessions int               `json:"total_weekly_sessions"`
	Errors              map[string]string `json:"errors,omitempty"`
}

// PreviewSchedule derives per-slot session counts for the schedule editor.
// Inactive days are listed with their slots but contribute nothing to the total.
func PreviewSchedule(week schedule.WeeklySchedule) SchedulePreview {
	week.Normalize()
	preview := SchedulePreview{
		ActiveDays:          week.ActiveDays(),
		Slots:               []SlotPreview{},
		TotalWeeklySessions: week.TotalWeeklySessions(),
	}
	for _, day := range week.Days {
		for _, slot := range day.TimeSlots {
			sessions := 0
			if day.IsActive {
				sessions = slot.Sessions()
			}
			preview.Slots = append(preview.Slots, SlotPreview{
				Day:       day.Day,
				SlotID:    slot.ID,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				Sessions:  sessions,
			})
		}
	}
	if problems := week.Validate(); len(problems) > 0 {
		preview.Errors = problems
	}
	return preview
}
