package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/saeid-a/CoachDashboard/internal/mockstore"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"go.uber.org/zap"
)

type stubCoachSource struct {
	mu          sync.Mutex
	coaches     map[string]*models.CoachRecord
	order       []string
	listErr     error
	actionErr   error
	statsErr    error
	approveHits int
	rejectHits  int
	lastReason  string
}

func newStubCoachSource(coaches ...models.CoachRecord) *stubCoachSource {
	source := &stubCoachSource{coaches: make(map[string]*models.CoachRecord)}
	for i := range coaches {
		coach := coaches[i]
		source.coaches[coach.ID] = &coach
		source.order = append(source.order, coach.ID)
	}
	return source
}

func (s *stubCoachSource) ListCoaches(_ context.Context) ([]models.CoachRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.CoachRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.coaches[id])
	}
	return out, nil
}

func (s *stubCoachSource) GetCoach(_ context.Context, id string) (*models.CoachRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	coach, ok := s.coaches[id]
	if !ok {
		return nil, mockstore.ErrNotFound
	}
	copied := *coach
	return &copied, nil
}

func (s *stubCoachSource) ApproveCoach(_ context.Context, id string) error {
	return s.set(id, models.CoachApproved, func() { s.approveHits++ })
}

func (s *stubCoachSource) RejectCoach(_ context.Context, id string, reason string) error {
	return s.set(id, models.CoachRejected, func() {
		s.rejectHits++
		s.lastReason = reason
	})
}

func (s *stubCoachSource) SuspendCoach(_ context.Context, id string) error {
	return s.set(id, models.CoachSuspended, func() {})
}

func (s *stubCoachSource) ReactivateCoach(_ context.Context, id string) error {
	return s.set(id, models.CoachApproved, func() {})
}

func (s *stubCoachSource) UpdateCoachNotes(_ context.Context, id string, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.actionErr != nil {
		return s.actionErr
	}
	coach, ok := s.coaches[id]
	if !ok {
		return mockstore.ErrNotFound
	}
	coach.Notes = &notes
	return nil
}

func (s *stubCoachSource) DashboardStats(_ context.Context) (*models.DashboardStats, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return &models.DashboardStats{TotalCoaches: len(s.order)}, nil
}

func (s *stubCoachSource) set(id string, status models.CoachStatus, record func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record()
	if s.actionErr != nil {
		return s.actionErr
	}
	coach, ok := s.coaches[id]
	if !ok {
		return mockstore.ErrNotFound
	}
	coach.Status = status
	return nil
}

func coachesWithStatuses(counts map[models.CoachStatus]int) []models.CoachRecord {
	var coaches []models.CoachRecord
	n := 0
	for _, status := range []models.CoachStatus{models.CoachPending, models.CoachApproved, models.CoachRejected, models.CoachSuspended} {
		for i := 0; i < counts[status]; i++ {
			n++
			coaches = append(coaches, models.CoachRecord{
				ID:        fmt.Sprintf("c-%02d", n),
				FirstName: fmt.Sprintf("Coach%02d", n),
				Email:     fmt.Sprintf("coach%02d@example.com", n),
				Status:    status,
			})
		}
	}
	return coaches
}

func TestListCoachesPendingFilterSecondPageIsEmpty(t *testing.T) {
	source := newStubCoachSource(coachesWithStatuses(map[models.CoachStatus]int{
		models.CoachPending:  10,
		models.CoachApproved: 10,
		models.CoachRejected: 5,
	})...)
	service := NewAdminService(source, 10, zap.NewNop())

	first := service.ListCoaches(context.Background(), CoachListQuery{Status: "pending", Page: 1})
	if len(first.Coaches) != 10 || first.Pagination.TotalPages != 1 || first.Pagination.Total != 10 {
		t.Fatalf("unexpected first page: %d coaches, meta %+v", len(first.Coaches), first.Pagination)
	}
	for _, coach := range first.Coaches {
		if coach.Status != models.CoachPending {
			t.Fatalf("non-pending coach on filtered page: %+v", coach)
		}
	}

	second := service.ListCoaches(context.Background(), CoachListQuery{Status: "pending", Page: 2})
	if second.Coaches == nil || len(second.Coaches) != 0 {
		t.Fatalf("expected empty second page, got %+v", second.Coaches)
	}
	if second.Pagination.TotalPages != 1 {
		t.Fatalf("expected total pages 1, got %d", second.Pagination.TotalPages)
	}

	all := service.ListCoaches(context.Background(), CoachListQuery{Status: "All Status", Page: 3})
	if len(all.Coaches) != 5 || all.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected unfiltered last page: %d coaches, meta %+v", len(all.Coaches), all.Pagination)
	}
}

func TestListCoachesDegradesToNoticeOnSourceError(t *testing.T) {
	source := newStubCoachSource()
	source.listErr = errors.New("connection refused")
	service := NewAdminService(source, 10, zap.NewNop())

	result := service.ListCoaches(context.Background(), CoachListQuery{Page: 0})
	if result.Notice == "" {
		t.Fatalf("expected a notice")
	}
	if result.Coaches == nil || len(result.Coaches) != 0 {
		t.Fatalf("expected empty coach list, got %+v", result.Coaches)
	}
	if result.Pagination.Page != 1 || result.Pagination.Limit != 10 {
		t.Fatalf("unexpected pagination: %+v", result.Pagination)
	}

	if _, err := service.FilteredCoaches(context.Background(), CoachListQuery{}); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for export path, got %v", err)
	}
}

func TestFilterCoachesSearchAndRating(t *testing.T) {
	high, low := 4.6, 3.2
	coaches := []models.CoachRecord{
		{ID: "1", FirstName: "Maya", Domain: "Yoga", Rating: &high},
		{ID: "2", FirstName: "Omar", Domain: "Running", Rating: &low},
		{ID: "3", FirstName: "Lia", Domain: "yoga therapy"},
	}

	got := FilterCoaches(coaches, CoachListQuery{Search: "YOGA"})
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected search result: %+v", got)
	}

	got = FilterCoaches(coaches, CoachListQuery{Rating: "4+ Stars"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected rating result: %+v", got)
	}

	got = FilterCoaches(coaches, CoachListQuery{Search: "yoga", Rating: "3+ Stars"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("coach without rating must not match a rating bucket: %+v", got)
	}
}

func TestRejectCoachRequiresReasonBeforeCallingSource(t *testing.T) {
	source := newStubCoachSource(models.CoachRecord{ID: "c-1", Status: models.CoachPending})
	service := NewAdminService(source, 10, zap.NewNop())

	for _, reason := range []string{"", "   "} {
		if _, err := service.RejectCoach(context.Background(), "c-1", reason); !errors.Is(err, ErrReasonRequired) {
			t.Fatalf("expected ErrReasonRequired, got %v", err)
		}
	}
	if source.rejectHits != 0 {
		t.Fatalf("empty reason reached the source %d times", source.rejectHits)
	}

	coach, err := service.RejectCoach(context.Background(), "c-1", "  missing license ")
	if err != nil {
		t.Fatalf("RejectCoach: %v", err)
	}
	if coach.Status != models.CoachRejected || source.lastReason != "missing license" {
		t.Fatalf("unexpected reject outcome: %+v reason=%q", coach, source.lastReason)
	}
}

func TestModerationEnforcesCoachStateMachine(t *testing.T) {
	source := newStubCoachSource(
		models.CoachRecord{ID: "rejected", Status: models.CoachRejected},
		models.CoachRecord{ID: "approved", Status: models.CoachApproved},
	)
	service := NewAdminService(source, 10, zap.NewNop())
	ctx := context.Background()

	if _, err := service.ApproveCoach(ctx, "rejected"); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if source.approveHits != 0 {
		t.Fatalf("invalid transition reached the source")
	}

	coach, err := service.SuspendCoach(ctx, "approved")
	if err != nil || coach.Status != models.CoachSuspended {
		t.Fatalf("SuspendCoach: %+v, %v", coach, err)
	}
	coach, err = service.ReactivateCoach(ctx, "approved")
	if err != nil || coach.Status != models.CoachApproved {
		t.Fatalf("ReactivateCoach: %+v, %v", coach, err)
	}

	if _, err := service.ApproveCoach(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	notes, err := service.UpdateNotes(ctx, "rejected", "reapply next quarter")
	if err != nil || notes.Notes == nil || *notes.Notes != "reapply next quarter" {
		t.Fatalf("UpdateNotes on rejected coach: %+v, %v", notes, err)
	}
}

func TestModerationFailureLeavesRecordUnchanged(t *testing.T) {
	source := newStubCoachSource(models.CoachRecord{ID: "c-1", Status: models.CoachPending})
	source.actionErr = errors.New("503 service unavailable")
	service := NewAdminService(source, 10, zap.NewNop())

	if _, err := service.ApproveCoach(context.Background(), "c-1"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	coach, _ := source.GetCoach(context.Background(), "c-1")
	if coach.Status != models.CoachPending {
		t.Fatalf("expected coach to stay pending, got %s", coach.Status)
	}
}

func TestConcurrentApprovalsReachSourceOnce(t *testing.T) {
	source := newStubCoachSource(models.CoachRecord{ID: "c-1", Status: models.CoachPending})
	service := NewAdminService(source, 10, zap.NewNop())

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.ApproveCoach(context.Background(), "c-1")
		}(i)
	}
	wg.Wait()

	if source.approveHits != 1 {
		t.Fatalf("expected exactly one upstream approve, got %d", source.approveHits)
	}
	for _, err := range errs {
		if err != nil && !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

type liveContextSource struct {
	*stubCoachSource
}

func (s liveContextSource) GetCoach(ctx context.Context, id string) (*models.CoachRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.stubCoachSource.GetCoach(ctx, id)
}

func (s liveContextSource) ApproveCoach(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.stubCoachSource.ApproveCoach(ctx, id)
}

func TestApprovalIgnoresCallerCancellation(t *testing.T) {
	source := newStubCoachSource(models.CoachRecord{ID: "c-1", Status: models.CoachPending})
	service := NewAdminService(liveContextSource{source}, 10, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coach, err := service.ApproveCoach(ctx, "c-1")
	if err != nil {
		t.Fatalf("expected shared approval to finish, got %v", err)
	}
	if coach.Status != models.CoachApproved || source.approveHits != 1 {
		t.Fatalf("expected one approval, got status %s hits %d", coach.Status, source.approveHits)
	}
}
