// Package schedule models a coach's recurring weekly availability and the
// session arithmetic derived from it.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWallClock = errors.New("invalid wall clock time")
	ErrUnknownDay       = errors.New("unknown day")
	ErrSlotNotFound     = errors.New("time slot not found")
)

// Days lists the fixed identities of a weekly schedule in display order.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

const (
	DefaultStartTime       = "09:00"
	DefaultEndTime         = "17:00"
	DefaultSessionDuration = 60
	DefaultBufferTime      = 15
)

// WallClock is an hour and minute with no date and no time zone.
type WallClock struct {
	Hour   int
	Minute int
}

// ParseWallClock accepts H:MM or HH:MM on a 24 hour clock.
func ParseWallClock(raw string) (WallClock, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return WallClock{}, fmt.Errorf("%w: %q", ErrInvalidWallClock, raw)
	}
	return WallClock{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

func (w WallClock) Minutes() int {
	return w.Hour*60 + w.Minute
}

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// SessionCount returns how many sessions of sessionMin minutes, each followed by
// bufferMin minutes, fit between start and end. Empty or inverted windows yield 0.
func SessionCount(start, end WallClock, sessionMin, bufferMin int) int {
	window := end.Minutes() - start.Minutes()
	step := sessionMin + bufferMin
	if window <= 0 || step <= 0 || sessionMin <= 0 {
		return 0
	}
	return window / step
}

type TimeSlot struct {
	ID              string `json:"id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	SessionDuration int    `json:"session_duration"`
	BufferTime      int    `json:"buffer_time"`
}

func DefaultSlot() TimeSlot {
	return TimeSlot{
		StartTime:       DefaultStartTime,
		EndTime:         DefaultEndTime,
		SessionDuration: DefaultSessionDuration,
		BufferTime:      DefaultBufferTime,
	}
}

// Sessions derives the slot's session count. Unparseable times count as zero.
func (s TimeSlot) Sessions() int {
	start, err := ParseWallClock(s.StartTime)
	if err != nil {
		return 0
	}
	end, err := ParseWallClock(s.EndTime)
	if err != nil {
		return 0
	}
	return SessionCount(start, end, s.SessionDuration, s.BufferTime)
}

type DaySchedule struct {
	Day       string     `json:"day"`
	IsActive  bool       `json:"is_active"`
	TimeSlots []TimeSlot `json:"time_slots"`
}

type WeeklySchedule struct {
	Days []DaySchedule `json:"days"`
}

func NewWeeklySchedule() WeeklySchedule {
	days := make([]DaySchedule, 0, len(Days))
	for _, name := range Days {
		days = append(days, DaySchedule{Day: name, TimeSlots: []TimeSlot{}})
	}
	return WeeklySchedule{Days: days}
}

// Normalize rebuilds the schedule into exactly seven days in canonical order.
// Entries with unknown day names are dropped; duplicate days keep the first entry.
func (w *WeeklySchedule) Normalize() {
	normalized := NewWeeklySchedule()
	seen := make(map[string]bool, len(Days))
	for _, day := range w.Days {
		idx := dayIndex(day.Day)
		if idx < 0 || seen[Days[idx]] {
			continue
		}
		seen[Days[idx]] = true
		slots := make([]TimeSlot, 0, len(day.TimeSlots))
		for _, slot := range day.TimeSlots {
			if slot.ID == "" {
				slot.ID = uuid.NewString()
			}
			slots = append(slots, slot)
		}
		normalized.Days[idx] = DaySchedule{Day: Days[idx], IsActive: day.IsActive, TimeSlots: slots}
	}
	w.Days = normalized.Days
}

func (w *WeeklySchedule) Day(name string) (*DaySchedule, error) {
	idx := dayIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDay, name)
	}
	if len(w.Days) != len(Days) {
		w.Normalize()
	}
	return &w.Days[idx], nil
}

// ToggleDay flips a day's active flag. Its time slots are kept so that
// re-activating the day restores them.
func (w *WeeklySchedule) ToggleDay(name string) error {
	day, err := w.Day(name)
	if err != nil {
		return err
	}
	day.IsActive = !day.IsActive
	return nil
}

func (w *WeeklySchedule) AddSlot(name string, slot TimeSlot) (TimeSlot, error) {
	day, err := w.Day(name)
	if err != nil {
		return TimeSlot{}, err
	}
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	day.TimeSlots = append(day.TimeSlots, slot)
	return slot, nil
}

func (w *WeeklySchedule) RemoveSlot(name string, slotID string) error {
	day, err := w.Day(name)
	if err != nil {
		return err
	}
	kept := make([]TimeSlot, 0, len(day.TimeSlots))
	for _, slot := range day.TimeSlots {
		if slot.ID != slotID {
			kept = append(kept, slot)
		}
	}
	if len(kept) == len(day.TimeSlots) {
		return ErrSlotNotFound
	}
	day.TimeSlots = kept
	return nil
}

func (w *WeeklySchedule) UpdateSlot(name string, slot TimeSlot) error {
	day, err := w.Day(name)
	if err != nil {
		return err
	}
	for i := range day.TimeSlots {
		if day.TimeSlots[i].ID == slot.ID {
			day.TimeSlots[i] = slot
			return nil
		}
	}
	return ErrSlotNotFound
}

func (w WeeklySchedule) ActiveDays() []string {
	active := make([]string, 0, len(w.Days))
	for _, day := range w.Days {
		if day.IsActive {
			active = append(active, day.Day)
		}
	}
	return active
}

// TotalWeeklySessions sums derived session counts over active days only.
func (w WeeklySchedule) TotalWeeklySessions() int {
	total := 0
	for _, day := range w.Days {
		if !day.IsActive {
			continue
		}
		for _, slot := range day.TimeSlots {
			total += slot.Sessions()
		}
	}
	return total
}

// Validate reports schedule problems keyed by form field. Inactive days are
// never inspected.
func (w WeeklySchedule) Validate() map[string]string {
	problems := make(map[string]string)
	if len(w.ActiveDays()) == 0 {
		problems["schedule"] = "at least one day must be active"
		return problems
	}
	for _, day := range w.Days {
		if !day.IsActive {
			continue
		}
		key := "schedule." + strings.ToLower(day.Day)
		if len(day.TimeSlots) == 0 {
			problems[key] = day.Day + " needs at least one time slot"
			continue
		}
		for _, slot := range day.TimeSlots {
			if msg := validateSlot(slot); msg != "" {
				problems[key+"."+slot.ID] = msg
			}
		}
	}
	return problems
}

func validateSlot(slot TimeSlot) string {
	start, err := ParseWallClock(slot.StartTime)
	if err != nil {
		return "start_time must be HH:MM"
	}
	end, err := ParseWallClock(slot.EndTime)
	if err != nil {
		return "end_time must be HH:MM"
	}
	if end.Minutes() <= start.Minutes() {
		return "end_time must be after start_time"
	}
	if slot.SessionDuration <= 0 {
		return "session_duration must be greater than 0"
	}
	if slot.BufferTime < 0 {
		return "buffer_time must be 0 or greater"
	}
	return ""
}

func dayIndex(name string) int {
	for i, day := range Days {
		if strings.EqualFold(strings.TrimSpace(name), day) {
			return i
		}
	}
	return -1
}
