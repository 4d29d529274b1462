package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/CoachDashboard/internal/apiclient"
	"github.com/saeid-a/CoachDashboard/internal/mockstore"
	"github.com/saeid-a/CoachDashboard/internal/models"
	"github.com/saeid-a/CoachDashboard/internal/repository"
	"github.com/saeid-a/CoachDashboard/internal/services"
	"go.uber.org/zap"
)

const validCourseBody = `{
	"coach_name": "Maya Stone",
	"coach_email": "maya@yoga.io",
	"title": "Morning Flow",
	"description": "Gentle vinyasa for early risers",
	"category": "Yoga",
	"price": 45,
	"duration": "8 weeks",
	"weekly_schedule": {"days": [
		{"day": "Monday", "is_active": true, "time_slots": [
			{"start_time": "09:00", "end_time": "12:00", "session_duration": 60, "buffer_time": 15}
		]}
	]}
}`

type capturingSubmitter struct {
	thumbnailName string
	thumbnailBody string
	calls         int
}

func (s *capturingSubmitter) CreateCourse(_ context.Context, submission apiclient.CourseSubmission) (string, error) {
	s.calls++
	if submission.Thumbnail != nil {
		s.thumbnailName = submission.Thumbnail.Filename
		body, _ := io.ReadAll(submission.Thumbnail.Content)
		s.thumbnailBody = string(body)
	}
	return "upstream-1", nil
}

func newCourseTestApp(submitter *capturingSubmitter) *fiber.App {
	store := mockstore.NewCourseStore(repository.NewMemoryKV(), zap.NewNop())
	coachHandler := NewCoachCourseHandler(services.NewCoachCourseService(store, submitter, zap.NewNop()))
	reviewHandler := NewCourseReviewHandler(services.NewCourseReviewService(store, 10, zap.NewNop()))

	app := fiber.New()
	coach := app.Group("/coach", asUser("coach-7", "coach"))
	coach.Post("/courses", coachHandler.CreateCourse)
	coach.Get("/courses/:id", coachHandler.GetCourse)
	coach.Post("/courses/:id/submit", coachHandler.SubmitCourse)
	coach.Post("/schedule/preview", coachHandler.PreviewSchedule)

	other := app.Group("/other", asUser("coach-8", "coach"))
	other.Get("/courses/:id", coachHandler.GetCourse)

	admin := app.Group("/admin", asUser("admin-1", "admin"))
	admin.Get("/courses", reviewHandler.ListCourses)
	admin.Post("/courses/:id/approve", reviewHandler.ApproveCourse)
	admin.Post("/courses/:id/reject", reviewHandler.RejectCourse)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func createCourse(t *testing.T, app *fiber.App) models.CourseRecord {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/coach/courses", validCourseBody)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		Course models.CourseRecord `json:"course"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Course
}

func TestCreateCourseReportsEveryInvalidField(t *testing.T) {
	app := newCourseTestApp(&capturingSubmitter{})

	resp := doJSON(t, app, http.MethodPost, "/coach/courses", `{
		"coach_name": "Maya Stone",
		"coach_email": "maya@yoga.io",
		"description": "x",
		"duration": "8 weeks"
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"title", "category", "price", "schedule"} {
		if body.Fields[field] == "" {
			t.Fatalf("expected error for %s, got %+v", field, body.Fields)
		}
	}
	if body.Error != "Please fix the following fields: category, price, schedule and title" {
		t.Fatalf("unexpected summary %q", body.Error)
	}
}

func TestCourseIsOwnedByItsCoach(t *testing.T) {
	app := newCourseTestApp(&capturingSubmitter{})
	course := createCourse(t, app)

	if course.Status != models.CourseDraft || course.OwnerID != "coach-7" {
		t.Fatalf("unexpected course: %+v", course)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/other/courses/"+course.ID, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestSubmitCourseForwardsUploadsAndQueuesReview(t *testing.T) {
	submitter := &capturingSubmitter{}
	app := newCourseTestApp(submitter)
	course := createCourse(t, app)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("thumbnail", "cover.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write([]byte("png-bytes"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/coach/courses/"+course.ID+"/submit", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if submitter.calls != 1 || submitter.thumbnailName != "cover.png" || submitter.thumbnailBody != "png-bytes" {
		t.Fatalf("unexpected upstream call: %+v", submitter)
	}

	resp = doJSON(t, app, http.MethodPost, "/coach/courses/"+course.ID+"/submit", `{}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected resubmission to be refused with 422, got %d", resp.StatusCode)
	}
	if submitter.calls != 1 {
		t.Fatalf("resubmission must not reach upstream, got %d calls", submitter.calls)
	}
}

func TestCourseReviewDecidesOnce(t *testing.T) {
	app := newCourseTestApp(&capturingSubmitter{})
	course := createCourse(t, app)

	resp := doJSON(t, app, http.MethodPost, "/coach/courses/"+course.ID+"/submit", `{}`)
	resp.Body.Close()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/courses?status=pending", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var listed services.CourseListResult
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(listed.Courses) != 1 || listed.Courses[0].ID != course.ID {
		t.Fatalf("expected submitted course in review queue, got %+v", listed.Courses)
	}

	resp = doJSON(t, app, http.MethodPost, "/admin/courses/"+course.ID+"/reject", `{"reason":""}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing reason, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, "/admin/courses/"+course.ID+"/approve", `{}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, "/admin/courses/"+course.ID+"/reject", `{"reason":"duplicate"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for decided course, got %d", resp.StatusCode)
	}
}

func TestPreviewScheduleCountsSessions(t *testing.T) {
	app := newCourseTestApp(&capturingSubmitter{})

	resp := doJSON(t, app, http.MethodPost, "/coach/schedule/preview", `{"days": [
		{"day": "Tuesday", "is_active": true, "time_slots": [
			{"start_time": "09:00", "end_time": "17:00", "session_duration": 30, "buffer_time": 10}
		]},
		{"day": "Friday", "is_active": false, "time_slots": [
			{"start_time": "09:00", "end_time": "17:00", "session_duration": 30, "buffer_time": 10}
		]}
	]}`)
	defer resp.Body.Close()

	var preview services.SchedulePreview
	if err := json.NewDecoder(resp.Body).Decode(&preview); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if preview.TotalWeeklySessions != 12 {
		t.Fatalf("expected 12 weekly sessions, got %d", preview.TotalWeeklySessions)
	}
}
