package mockstore

import (
	"context"
	"sync"

	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/repository"
	"go.uber.org/zap"
)

// CourseStore holds the courses coaches have created, shared with the admin
// review queue.
type CourseStore struct {
	mu      sync.Mutex
	courses collection[models.CourseRecord]
}

func NewCourseStore(kv repository.KVStore, logger *zap.Logger) *CourseStore {
	return &CourseStore{
		courses: collection[models.CourseRecord]{kv: kv, key: CoursesKey, logger: logger},
	}
}

func (s *CourseStore) GetAll(ctx context.Context) []models.CourseRecord {
	return s.courses.load(ctx)
}

func (s *CourseStore) Get(ctx context.Context, id string) (*models.CourseRecord, error) {
	for _, course := range s.courses.load(ctx) {
		if course.ID == id {
			return &course, nil
		}
	}
	return nil, ErrNotFound
}

// Put replaces the course with the same id in place, or appends it.
func (s *CourseStore) Put(ctx context.Context, record models.CourseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := s.courses.load(ctx)
	for i := range courses {
		if courses[i].ID == record.ID {
			courses[i] = record
			return s.courses.save(ctx, courses)
		}
	}
	return s.courses.save(ctx, append(courses, record))
}

func (s *CourseStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses := s.courses.load(ctx)
	kept := make([]models.CourseRecord, 0, len(courses))
	for _, course := range courses {
		if course.ID != id {
			kept = append(kept, course)
		}
	}
	if len(kept) == len(courses) {
		return ErrNotFound
	}
	return s.courses.save(ctx, kept)
}
