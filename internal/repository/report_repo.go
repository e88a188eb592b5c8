package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"empenglish-backend/internal/models"
)

type PracticeReportRepo struct {
	pool *pgxpool.Pool
}

func NewPracticeReportRepo(pool *pgxpool.Pool) *PracticeReportRepo {
	return &PracticeReportRepo{pool: pool}
}

func (r *PracticeReportRepo) Create(ctx context.Context, report *models.PracticeReport) error {
	averages, err := json.Marshal(report.DimensionAverages)
	if err != nil {
		return err
	}
	if report.Suggestions == nil {
		report.Suggestions = []string{}
	}

	query := `INSERT INTO practice_reports
		(id, session_id, user_id, overall_score, turn_count, dimension_averages, suggestions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO NOTHING`

	_, err = r.pool.Exec(ctx, query,
		report.ID, report.SessionID, report.UserID,
		report.OverallScore, report.TurnCount, averages, report.Suggestions, report.CreatedAt,
	)
	return err
}

func (r *PracticeReportRepo) GetBySession(ctx context.Context, sessionID uuid.UUID) (*models.PracticeReport, error) {
	return r.getByColumn(ctx, "session_id", sessionID)
}

func (r *PracticeReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PracticeReport, error) {
	return r.getByColumn(ctx, "id", id)
}

func (r *PracticeReportRepo) getByColumn(ctx context.Context, column string, value uuid.UUID) (*models.PracticeReport, error) {
	report := &models.PracticeReport{}
	var averages []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, session_id, user_id, overall_score, turn_count, dimension_averages, suggestions, created_at
		 FROM practice_reports WHERE `+column+` = $1`, value,
	).Scan(
		&report.ID, &report.SessionID, &report.UserID,
		&report.OverallScore, &report.TurnCount, &averages, &report.Suggestions, &report.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(averages, &report.DimensionAverages); err != nil {
		return nil, err
	}
	return report, nil
}

func (r *PracticeReportRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.PracticeReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, user_id, overall_score, turn_count, dimension_averages, suggestions, created_at
		 FROM practice_reports WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.PracticeReport
	for rows.Next() {
		report := &models.PracticeReport{}
		var averages []byte
		err := rows.Scan(
			&report.ID, &report.SessionID, &report.UserID,
			&report.OverallScore, &report.TurnCount, &averages, &report.Suggestions, &report.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(averages, &report.DimensionAverages); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, nil
}
