package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"empenglish-backend/internal/models"
	"empenglish-backend/internal/question"
)

type QuestionRepo struct {
	pool *pgxpool.Pool
}

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

const questionColumns = `id, type, university, college, major, category, difficulty, content,
	reference_answer, tags, keywords, usage_count, avg_score, is_active, is_premium, created_at`

func scanQuestion(row pgx.Row) (*models.Question, error) {
	q := &models.Question{}
	err := row.Scan(
		&q.ID, &q.Type, &q.University, &q.College, &q.Major, &q.Category, &q.Difficulty, &q.Content,
		&q.ReferenceAnswer, &q.Tags, &q.Keywords, &q.UsageCount, &q.AvgScore, &q.IsActive, &q.IsPremium, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuestionRepo) Create(ctx context.Context, q *models.Question) error {
	q.ID = uuid.New()
	if q.Tags == nil {
		q.Tags = []string{}
	}
	if q.Keywords == nil {
		q.Keywords = []string{}
	}

	query := `INSERT INTO questions
		(id, type, university, college, major, category, difficulty, content,
		 reference_answer, tags, keywords, is_active, is_premium)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		q.ID, q.Type, q.University, q.College, q.Major, q.Category, q.Difficulty, q.Content,
		q.ReferenceAnswer, q.Tags, q.Keywords, q.IsActive, q.IsPremium,
	).Scan(&q.CreatedAt)
}

func (r *QuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE id = $1", id))
}

// GetNext picks the next question for a session turn. The category
// follows the fixed rotation for the turn index; when that category has
// no unused candidates left, any remaining category is acceptable. The
// session's university and major rank candidates but never exclude
// general questions, so a thin bank still serves a full session.
func (r *QuestionRepo) GetNext(ctx context.Context, userID uuid.UUID, university, major *string, excluded []uuid.UUID, turnCount int) (*models.Question, error) {
	category := string(question.CategoryByTurn(turnCount))

	q, err := r.pickNext(ctx, university, major, excluded, &category)
	if err != nil {
		return nil, err
	}
	if q == nil {
		q, err = r.pickNext(ctx, university, major, excluded, nil)
	}
	return q, err
}

func (r *QuestionRepo) pickNext(ctx context.Context, university, major *string, excluded []uuid.UUID, category *string) (*models.Question, error) {
	args := []interface{}{}
	argIdx := 1

	where := "WHERE is_active = TRUE"
	if len(excluded) > 0 {
		where += fmt.Sprintf(" AND id != ALL($%d)", argIdx)
		args = append(args, excluded)
		argIdx++
	}
	if category != nil {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, *category)
		argIdx++
	}

	// Targeted questions first, then general ones; within a rank the
	// least-used question wins so the bank rotates evenly.
	rank := "CASE WHEN type = 'general' THEN 1 ELSE 2 END"
	if university != nil || major != nil {
		uniArg, majorArg := argIdx, argIdx+1
		rank = fmt.Sprintf(`CASE
			WHEN university IS NOT DISTINCT FROM $%d AND university IS NOT NULL THEN 0
			WHEN major IS NOT DISTINCT FROM $%d AND major IS NOT NULL THEN 1
			WHEN type = 'general' THEN 2
			ELSE 3 END`, uniArg, majorArg)
		args = append(args, university, major)
		argIdx += 2
	}

	query := fmt.Sprintf(`SELECT %s FROM questions %s
		ORDER BY %s, usage_count ASC, RANDOM() LIMIT 1`,
		questionColumns, where, rank)

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

// IncrementUsage bumps a question's usage counter and folds the turn's
// overall score into its running average.
func (r *QuestionRepo) IncrementUsage(ctx context.Context, id uuid.UUID, score *float64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET usage_count = usage_count + 1,
			 avg_score = CASE
				 WHEN $2::FLOAT8 IS NULL THEN avg_score
				 ELSE (COALESCE(avg_score, 0) * usage_count + $2) / (usage_count + 1)
			 END
		 WHERE id = $1`,
		id, score,
	)
	return err
}

func (r *QuestionRepo) List(ctx context.Context, f models.ListQuestionsFilter) ([]*models.Question, int, error) {
	var args []interface{}
	argIdx := 1

	where := "WHERE is_active = TRUE"
	add := func(clause string, value interface{}) {
		where += fmt.Sprintf(" AND "+clause, argIdx)
		args = append(args, value)
		argIdx++
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.University != "" {
		add("university = $%d", f.University)
	}
	if f.Major != "" {
		add("major = $%d", f.Major)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Difficulty > 0 {
		add("difficulty = $%d", f.Difficulty)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM questions "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageSize := f.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	query := fmt.Sprintf("SELECT %s FROM questions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		questionColumns, where, argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}

	return questions, total, nil
}

// Recommend ranks active questions against the user's target
// university and major. Ranking runs in Go over a bounded candidate
// set; the bank is small enough that this beats pushing the scoring
// rules into SQL.
func (r *QuestionRepo) Recommend(ctx context.Context, university, major *string, limit int) ([]*models.QuestionRecommendation, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE is_active = TRUE ORDER BY usage_count DESC LIMIT 200")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.QuestionRecommendation
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		score := question.MatchScore(q, university, major)
		recs = append(recs, &models.QuestionRecommendation{
			Question:   q,
			MatchScore: score,
			Reason:     question.RecommendationReason(score),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].MatchScore > recs[j].MatchScore })
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}
