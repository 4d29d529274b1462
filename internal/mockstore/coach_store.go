package mockstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/repository"
	"go.uber.org/zap"
)

// CoachStore is the mock coach database. Every mutation rewrites the whole
// collection; mu keeps this process as its single writer.
type CoachStore struct {
	mu      sync.Mutex
	coaches collection[models.CoachRecord]
	logger  *zap.Logger
	now     func() time.Time
}

func NewCoachStore(kv repository.KVStore, logger *zap.Logger) *CoachStore {
	return &CoachStore{
		coaches: collection[models.CoachRecord]{kv: kv, key: CoachesKey, logger: logger},
		logger:  logger,
		now:     time.Now,
	}
}

func (s *CoachStore) GetAll(ctx context.Context) []models.CoachRecord {
	return s.coaches.load(ctx)
}

func (s *CoachStore) Get(ctx context.Context, id string) (models.CoachRecord, bool) {
	for _, coach := range s.coaches.load(ctx) {
		if coach.ID == id {
			return coach, true
		}
	}
	return models.CoachRecord{}, false
}

// Add refuses a record whose email exactly matches an existing one.
func (s *CoachStore) Add(ctx context.Context, record models.CoachRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	coaches := s.coaches.load(ctx)
	for _, coach := range coaches {
		if coach.Email == record.Email {
			return false
		}
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = models.CoachPending
	}
	if record.RegisteredAt.IsZero() {
		record.RegisteredAt = s.now().UTC()
	}
	if record.Languages == nil {
		record.Languages = []string{}
	}

	return s.write(ctx, append(coaches, record))
}

func (s *CoachStore) UpdateStatus(ctx context.Context, id string, status models.CoachStatus, notes *string) bool {
	return s.mutate(ctx, id, func(coach *models.CoachRecord) {
		coach.Status = status
		if notes != nil {
			coach.Notes = notes
		}
	})
}

func (s *CoachStore) UpdateNotes(ctx context.Context, id string, notes string) bool {
	return s.mutate(ctx, id, func(coach *models.CoachRecord) {
		coach.Notes = &notes
	})
}

func (s *CoachStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	coaches := s.coaches.load(ctx)
	kept := make([]models.CoachRecord, 0, len(coaches))
	for _, coach := range coaches {
		if coach.ID != id {
			kept = append(kept, coach)
		}
	}
	if len(kept) == len(coaches) {
		return false
	}
	return s.write(ctx, kept)
}

// Search matches the query against first name, last name and email.
func (s *CoachStore) Search(ctx context.Context, query string) []models.CoachRecord {
	needle := strings.ToLower(strings.TrimSpace(query))
	coaches := s.coaches.load(ctx)
	matches := make([]models.CoachRecord, 0, len(coaches))
	for _, coach := range coaches {
		if strings.Contains(strings.ToLower(coach.FirstName), needle) ||
			strings.Contains(strings.ToLower(coach.LastName), needle) ||
			strings.Contains(strings.ToLower(coach.Email), needle) {
			matches = append(matches, coach)
		}
	}
	return matches
}

func (s *CoachStore) mutate(ctx context.Context, id string, apply func(*models.CoachRecord)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	coaches := s.coaches.load(ctx)
	for i := range coaches {
		if coaches[i].ID == id {
			apply(&coaches[i])
			return s.write(ctx, coaches)
		}
	}
	return false
}

func (s *CoachStore) write(ctx context.Context, coaches []models.CoachRecord) bool {
	if err := s.coaches.save(ctx, coaches); err != nil {
		s.logger.Error("Failed to persist coaches", zap.Error(err))
		return false
	}
	return true
}
