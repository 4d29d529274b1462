package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachDashboard/internal/models"
)

const sessionColumns = `
	id::text, coach_id, student_name, student_email, course_title,
	to_char(session_date, 'YYYY-MM-DD'), start_time, duration_min, status,
	session_type, price::float8, payment_status, notes, created_at, updated_at
`

type CreateSessionInput struct {
	ID            string
	CoachID       string
	StudentName   string
	StudentEmail  string
	CourseTitle   string
	Date          string
	Time          string
	Duration      int
	Type          string
	Price         float64
	PaymentStatus string
	Notes         *string
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(
	ctx context.Context,
	input CreateSessionInput,
) (*models.SessionRecord, error) {
	query := `
		INSERT INTO coach_sessions (
			id, coach_id, student_name, student_email, course_title, session_date,
			start_time, duration_min, status, session_type, price, payment_status, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, 'scheduled', $9, $10, $11, $12)
		RETURNING ` + sessionColumns

	return scanSession(r.db.QueryRow(
		ctx,
		query,
		input.ID,
		input.CoachID,
		input.StudentName,
		input.StudentEmail,
		input.CourseTitle,
		input.Date,
		input.Time,
		input.Duration,
		input.Type,
		input.Price,
		input.PaymentStatus,
		input.Notes,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM coach_sessions WHERE id = $1::uuid`
	return scanSession(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) ListByCoachID(ctx context.Context, coachID string) ([]models.SessionRecord, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM coach_sessions
		WHERE coach_id = $1
		ORDER BY session_date ASC, start_time ASC, created_at ASC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.SessionRecord, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// UpdateStatusIfCurrent only applies when the stored status still matches
// currentStatus, and returns pgx.ErrNoRows otherwise.
func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID string,
	currentStatus models.SessionStatus,
	nextStatus models.SessionStatus,
) (*models.SessionRecord, error) {
	query := `
		UPDATE coach_sessions
		SET status = $3, updated_at = NOW()
		WHERE id = $1::uuid AND status = $2
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, sessionID, string(currentStatus), string(nextStatus)))
}

func (r *SessionRepository) UpdatePaymentStatus(
	ctx context.Context,
	sessionID string,
	paymentStatus string,
) (*models.SessionRecord, error) {
	query := `
		UPDATE coach_sessions
		SET payment_status = $2, updated_at = NOW()
		WHERE id = $1::uuid
		RETURNING ` + sessionColumns
	return scanSession(r.db.QueryRow(ctx, query, sessionID, paymentStatus))
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coach_sessions WHERE id = $1::uuid`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanSession(row pgx.Row) (*models.SessionRecord, error) {
	var session models.SessionRecord
	var status string
	err := row.Scan(
		&session.ID,
		&session.CoachID,
		&session.StudentName,
		&session.StudentEmail,
		&session.CourseTitle,
		&session.Date,
		&session.Time,
		&session.Duration,
		&status,
		&session.Type,
		&session.Price,
		&session.PaymentStatus,
		&session.Notes,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	session.Status = models.SessionStatus(status)
	return &session, nil
}
