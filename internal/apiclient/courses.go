package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/saeid-a/CoachDashboard/internal/models"
)

// Attachment is an optional file part of a course submission.
type Attachment struct {
	Filename string
	Content  io.Reader
}

type CourseSubmission struct {
	Course     models.CourseRecord
	Thumbnail  *Attachment
	IntroVideo *Attachment
}

// CreateCourse forwards a course to the marketplace as multipart form data
// and returns the upstream course id when one is reported.
func (c *Client) CreateCourse(ctx context.Context, submission CourseSubmission) (string, error) {
	body, contentType, err := encodeCourseForm(submission)
	if err != nil {
		return "", err
	}

	response, err := c.do(ctx, http.MethodPost, "/courses", body, contentType)
	if err != nil {
		return "", err
	}

	var created struct {
		Data struct {
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(response, &created); err != nil || len(created.Data.ID) == 0 {
		return "", nil
	}
	id, err := decodeID(created.Data.ID)
	if err != nil {
		return "", nil
	}
	return id, nil
}

func encodeCourseForm(submission CourseSubmission) (*bytes.Buffer, string, error) {
	course := submission.Course
	schedule, err := json.Marshal(course.WeeklySchedule)
	if err != nil {
		return nil, "", fmt.Errorf("marshal weekly schedule: %w", err)
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	fields := []struct {
		name  string
		value string
	}{
		{"title", course.Title},
		{"description", course.Description},
		{"benefits", course.Benefits},
		{"category", course.Category},
		{"program", course.Program},
		{"credits", strconv.Itoa(course.Credits)},
		{"price", strconv.FormatFloat(course.Price, 'f', -1, 64)},
		{"timezone", course.Timezone},
		{"courseDuration", course.Duration},
		{"weeklySchedule", string(schedule)},
	}
	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write %s field: %w", field.name, err)
		}
	}

	for name, attachment := range map[string]*Attachment{
		"thumbnail":  submission.Thumbnail,
		"introVideo": submission.IntroVideo,
	} {
		if attachment == nil || attachment.Content == nil {
			continue
		}
		part, err := writer.CreateFormFile(name, attachment.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create %s part: %w", name, err)
		}
		if _, err := io.Copy(part, attachment.Content); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}
