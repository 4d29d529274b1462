package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/mockstore"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/repository"
	"go.uber.org/zap"
)

func newMockRegistrationApp() *fiber.App {
	handler := NewMockRegistrationHandler(mockstore.NewCoachStore(repository.NewMemoryKV(), zap.NewNop()))
	app := fiber.New()
	app.Post("/mock/coaches", handler.Register)
	app.Get("/mock/coaches", handler.Search)
	return app
}

func TestMockRegistrationRejectsDuplicateEmail(t *testing.T) {
	app := newMockRegistrationApp()
	body := `{"first_name":"Maya","last_name":"Stone","email":"maya@yoga.io","domain":"Yoga","experience_years":4}`

	resp := doJSON(t, app, http.MethodPost, "/mock/coaches", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, "/mock/coaches", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestMockRegistrationValidatesFields(t *testing.T) {
	app := newMockRegistrationApp()

	resp := doJSON(t, app, http.MethodPost, "/mock/coaches", `{"first_name":"Maya","email":"not-an-email"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"last_name", "email", "domain"} {
		if body.Fields[field] == "" {
			t.Fatalf("expected error for %s, got %+v", field, body.Fields)
		}
	}
}

func TestMockSearchMatchesNameAndEmail(t *testing.T) {
	app := newMockRegistrationApp()
	for _, body := range []string{
		`{"first_name":"Maya","last_name":"Stone","email":"maya@yoga.io","domain":"Yoga"}`,
		`{"first_name":"Omar","last_name":"Reed","email":"omar@run.io","domain":"Running"}`,
	} {
		resp := doJSON(t, app, http.MethodPost, "/mock/coaches", body)
		resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/mock/coaches?q=RUN", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Coaches []models.CoachRecord `json:"coaches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Coaches) != 1 || body.Coaches[0].FirstName != "Omar" || body.Coaches[0].Status != models.CoachPending {
		t.Fatalf("unexpected search result: %+v", body.Coaches)
	}
}
