// Package uistate persists the per-user dashboard view state: selected tabs,
// the admin coach filter, search term and current page.
package uistate

import (
	"context"
	"errors"
	"strconv"

	"github.com/saeid-a/CoachDashboard/internal/repository"
	"go.uber.org/zap"
)

const (
	KeyAdminActiveTab   = "adminActiveTab"
	KeyAdminFilter      = "adminFilter"
	KeyAdminSearchTerm  = "adminSearchTerm"
	KeyAdminCurrentPage = "adminCurrentPage"
	KeyCoachActiveTab   = "coachActiveTab"
)

const (
	DefaultAdminTab    = "coaches"
	DefaultAdminFilter = "All Status"
	DefaultCoachTab    = "courses"
)

type AppState struct {
	AdminActiveTab   string `json:"admin_active_tab"`
	AdminFilter      string `json:"admin_filter"`
	AdminSearchTerm  string `json:"admin_search_term"`
	AdminCurrentPage int    `json:"admin_current_page"`
	CoachActiveTab   string `json:"coach_active_tab"`
}

func Defaults() AppState {
	return AppState{
		AdminActiveTab:   DefaultAdminTab,
		AdminFilter:      DefaultAdminFilter,
		AdminCurrentPage: 1,
		CoachActiveTab:   DefaultCoachTab,
	}
}

// Patch carries the fields a client wants to change; nil fields are left alone.
type Patch struct {
	AdminActiveTab   *string `json:"admin_active_tab"`
	AdminFilter      *string `json:"admin_filter"`
	AdminSearchTerm  *string `json:"admin_search_term"`
	AdminCurrentPage *int    `json:"admin_current_page"`
	CoachActiveTab   *string `json:"coach_active_tab"`
}

// Apply returns the patched state. A change of filter or search term always
// sends the admin back to page 1, whatever page the patch asked for.
func (p Patch) Apply(state AppState) AppState {
	next := state
	if p.AdminActiveTab != nil {
		next.AdminActiveTab = *p.AdminActiveTab
	}
	if p.CoachActiveTab != nil {
		next.CoachActiveTab = *p.CoachActiveTab
	}
	if p.AdminCurrentPage != nil {
		next.AdminCurrentPage = *p.AdminCurrentPage
	}
	if p.AdminFilter != nil {
		next.AdminFilter = *p.AdminFilter
	}
	if p.AdminSearchTerm != nil {
		next.AdminSearchTerm = *p.AdminSearchTerm
	}

	if next.AdminFilter != state.AdminFilter || next.AdminSearchTerm != state.AdminSearchTerm {
		next.AdminCurrentPage = 1
	}
	if next.AdminCurrentPage < 1 {
		next.AdminCurrentPage = 1
	}
	return next
}

type Store struct {
	kv     repository.KVStore
	logger *zap.Logger
}

func NewStore(kv repository.KVStore, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Load reads the state of one user, falling back to defaults for anything
// missing or unreadable.
func (s *Store) Load(ctx context.Context, userID string) AppState {
	state := Defaults()
	state.AdminActiveTab = s.loadString(ctx, userID, KeyAdminActiveTab, state.AdminActiveTab)
	state.AdminFilter = s.loadString(ctx, userID, KeyAdminFilter, state.AdminFilter)
	state.AdminSearchTerm = s.loadString(ctx, userID, KeyAdminSearchTerm, state.AdminSearchTerm)
	state.CoachActiveTab = s.loadString(ctx, userID, KeyCoachActiveTab, state.CoachActiveTab)

	rawPage := s.loadString(ctx, userID, KeyAdminCurrentPage, "1")
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		s.logger.Warn("Ignoring invalid stored page", zap.String("user_id", userID), zap.String("value", rawPage))
		page = 1
	}
	state.AdminCurrentPage = page
	return state
}

// Update applies the patch and writes back only the keys whose values changed.
func (s *Store) Update(ctx context.Context, userID string, patch Patch) (AppState, error) {
	current := s.Load(ctx, userID)
	next := patch.Apply(current)

	writes := []struct {
		key    string
		before string
		after  string
	}{
		{KeyAdminActiveTab, current.AdminActiveTab, next.AdminActiveTab},
		{KeyAdminFilter, current.AdminFilter, next.AdminFilter},
		{KeyAdminSearchTerm, current.AdminSearchTerm, next.AdminSearchTerm},
		{KeyAdminCurrentPage, strconv.Itoa(current.AdminCurrentPage), strconv.Itoa(next.AdminCurrentPage)},
		{KeyCoachActiveTab, current.CoachActiveTab, next.CoachActiveTab},
	}
	for _, write := range writes {
		if write.before == write.after {
			continue
		}
		if err := s.kv.Save(ctx, namespaced(userID, write.key), write.after); err != nil {
			return current, err
		}
	}
	return next, nil
}

func (s *Store) loadString(ctx context.Context, userID, key, fallback string) string {
	value, err := s.kv.Load(ctx, namespaced(userID, key))
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			s.logger.Error("Failed to load view state", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}
	return value
}

func namespaced(userID, key string) string {
	return "dashboard:" + userID + ":" + key
}
