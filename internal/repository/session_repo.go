package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"empenglish-backend/internal/models"
)

type PracticeSessionRepo struct {
	pool *pgxpool.Pool
}

func NewPracticeSessionRepo(pool *pgxpool.Pool) *PracticeSessionRepo {
	return &PracticeSessionRepo{pool: pool}
}

func (r *PracticeSessionRepo) Create(ctx context.Context, s *models.PracticeSession) error {
	query := `INSERT INTO practice_sessions
		(id, user_id, mode, pressure_level, university, major, status, question_count, max_questions, start_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.Mode, s.PressureLevel, s.University, s.Major,
		s.Status, s.QuestionCount, s.MaxQuestions, s.StartTime,
	).Scan(&s.CreatedAt)
}

func (r *PracticeSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PracticeSession, error) {
	s := &models.PracticeSession{}
	query := `SELECT id, user_id, mode, pressure_level, university, major, status,
		question_count, max_questions, overall_score, start_time, end_time, created_at
		FROM practice_sessions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Mode, &s.PressureLevel, &s.University, &s.Major, &s.Status,
		&s.QuestionCount, &s.MaxQuestions, &s.OverallScore, &s.StartTime, &s.EndTime, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PracticeSessionRepo) Update(ctx context.Context, s *models.PracticeSession) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE practice_sessions
		 SET status = $1, question_count = $2, overall_score = $3, end_time = $4
		 WHERE id = $5`,
		s.Status, s.QuestionCount, s.OverallScore, s.EndTime, s.ID,
	)
	return err
}

func (r *PracticeSessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.PracticeSession, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM practice_sessions WHERE user_id = $1", userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, mode, pressure_level, university, major, status,
		question_count, max_questions, overall_score, start_time, end_time, created_at
		FROM practice_sessions WHERE user_id = $1
		ORDER BY start_time DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []*models.PracticeSession
	for rows.Next() {
		s := &models.PracticeSession{}
		err := rows.Scan(
			&s.ID, &s.UserID, &s.Mode, &s.PressureLevel, &s.University, &s.Major, &s.Status,
			&s.QuestionCount, &s.MaxQuestions, &s.OverallScore, &s.StartTime, &s.EndTime, &s.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}

	return sessions, total, nil
}
