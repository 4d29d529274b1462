package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/saeid-a/CoachDashboard/internal/models"
)

// SchemaError reports a response body that does not match the documented
// envelope.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "unexpected upstream response: " + e.Reason
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type coachPayload struct {
	ID              json.RawMessage `json:"id"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Status          string          `json:"status"`
	CreatedAt       *time.Time      `json:"createdAt"`
	Domain          string          `json:"domain"`
	ExperienceYears int             `json:"experience"`
	Languages       []string        `json:"languages"`
	Rating          *float64        `json:"rating"`
	Notes           *string         `json:"notes"`
	ResumeURL       *string         `json:"resumeUrl"`
	LicenseURL      *string         `json:"licenseUrl"`
	IntroVideoURL   *string         `json:"introVideoUrl"`
}

type statsPayload struct {
	TotalCoaches     int `json:"totalCoaches"`
	PendingCoaches   int `json:"pendingCoaches"`
	ApprovedCoaches  int `json:"approvedCoaches"`
	RejectedCoaches  int `json:"rejectedCoaches"`
	SuspendedCoaches int `json:"suspendedCoaches"`
	TotalCourses     int `json:"totalCourses"`
	PendingCourses   int `json:"pendingCourses"`
}

func unwrap(body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &SchemaError{Reason: "body is not a JSON object"}
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, &SchemaError{Reason: "missing data field"}
	}
	return data, nil
}

// decodeCoachList accepts, in priority order, data as an array, data.coaches
// or data.items.
func decodeCoachList(body []byte) ([]models.CoachRecord, error) {
	data, err := unwrap(body)
	if err != nil {
		return nil, err
	}

	var payloads []coachPayload
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &payloads); err != nil {
			return nil, &SchemaError{Reason: "data array: " + err.Error()}
		}
	case '{':
		var nested struct {
			Coaches json.RawMessage `json:"coaches"`
			Items   json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, &SchemaError{Reason: "data object: " + err.Error()}
		}
		list := nested.Coaches
		if !isArray(list) {
			list = nested.Items
		}
		if !isArray(list) {
			return nil, &SchemaError{Reason: "data has neither coaches nor items array"}
		}
		if err := json.Unmarshal(list, &payloads); err != nil {
			return nil, &SchemaError{Reason: "coach list: " + err.Error()}
		}
	default:
		return nil, &SchemaError{Reason: "data is neither an array nor an object"}
	}

	coaches := make([]models.CoachRecord, 0, len(payloads))
	for _, payload := range payloads {
		coach, err := payload.toRecord()
		if err != nil {
			return nil, err
		}
		coaches = append(coaches, coach)
	}
	return coaches, nil
}

func decodeCoach(body []byte) (*models.CoachRecord, error) {
	data, err := unwrap(body)
	if err != nil {
		return nil, err
	}
	var nested struct {
		Coach json.RawMessage `json:"coach"`
	}
	if err := json.Unmarshal(data, &nested); err == nil && len(nested.Coach) > 0 {
		data = nested.Coach
	}

	var payload coachPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &SchemaError{Reason: "coach: " + err.Error()}
	}
	coach, err := payload.toRecord()
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

func decodeStats(body []byte) (*models.DashboardStats, error) {
	data, err := unwrap(body)
	if err != nil {
		return nil, err
	}
	var payload statsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &SchemaError{Reason: "stats: " + err.Error()}
	}
	return &models.DashboardStats{
		TotalCoaches:     payload.TotalCoaches,
		PendingCoaches:   payload.PendingCoaches,
		ApprovedCoaches:  payload.ApprovedCoaches,
		RejectedCoaches:  payload.RejectedCoaches,
		SuspendedCoaches: payload.SuspendedCoaches,
		TotalCourses:     payload.TotalCourses,
		PendingCourses:   payload.PendingCourses,
	}, nil
}

// toRecord normalizes status casing at the boundary; ids may arrive as
// numbers or strings.
func (p coachPayload) toRecord() (models.CoachRecord, error) {
	id, err := decodeID(p.ID)
	if err != nil {
		return models.CoachRecord{}, err
	}
	status, ok := models.ParseCoachStatus(p.Status)
	if !ok {
		return models.CoachRecord{}, &SchemaError{Reason: fmt.Sprintf("coach %s has unknown status %q", id, p.Status)}
	}

	record := models.CoachRecord{
		ID:              id,
		FirstName:       strings.TrimSpace(p.FirstName),
		LastName:        strings.TrimSpace(p.LastName),
		Email:           strings.TrimSpace(p.Email),
		Phone:           p.Phone,
		Status:          status,
		Domain:          p.Domain,
		ExperienceYears: p.ExperienceYears,
		Languages:       p.Languages,
		Rating:          p.Rating,
		Notes:           p.Notes,
		ResumeURL:       p.ResumeURL,
		LicenseURL:      p.LicenseURL,
		IntroVideoURL:   p.IntroVideoURL,
	}
	if p.CreatedAt != nil {
		record.RegisteredAt = p.CreatedAt.UTC()
	}
	if record.Languages == nil {
		record.Languages = []string{}
	}
	return record, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", &SchemaError{Reason: "coach without id"}
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil || id == "" {
			return "", &SchemaError{Reason: "coach id is not a string"}
		}
		return id, nil
	}
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return "", &SchemaError{Reason: "coach id is neither string nor number"}
	}
	return number.String(), nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
