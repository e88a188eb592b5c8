package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"empenglish-backend/internal/models"
	"empenglish-backend/internal/practice"
)

type PracticeTurnRepo struct {
	pool *pgxpool.Pool
}

func NewPracticeTurnRepo(pool *pgxpool.Pool) *PracticeTurnRepo {
	return &PracticeTurnRepo{pool: pool}
}

const turnColumns = `id, session_id, turn_number, question_id, question,
	answer_audio_url, answer_text,
	pronunciation_score, fluency_score, vocabulary_score, grammar_score,
	university_match_score, overall_score,
	feedback, feedback_audio_url, follow_up_questions, suggestions,
	scored_at, created_at`

func (r *PracticeTurnRepo) Create(ctx context.Context, t *models.PracticeTurn) error {
	if t.FollowUpQuestions == nil {
		t.FollowUpQuestions = []string{}
	}
	if t.Suggestions == nil {
		t.Suggestions = []string{}
	}

	query := `INSERT INTO practice_turns
		(id, session_id, turn_number, question_id, question, follow_up_questions, suggestions)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		t.ID, t.SessionID, t.TurnNumber, t.QuestionID, t.Question, t.FollowUpQuestions, t.Suggestions,
	).Scan(&t.CreatedAt)
}

func (r *PracticeTurnRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PracticeTurn, error) {
	t := &models.PracticeTurn{}
	err := r.pool.QueryRow(ctx,
		"SELECT "+turnColumns+" FROM practice_turns WHERE id = $1", id,
	).Scan(
		&t.ID, &t.SessionID, &t.TurnNumber, &t.QuestionID, &t.Question,
		&t.AnswerAudioURL, &t.AnswerText,
		&t.PronunciationScore, &t.FluencyScore, &t.VocabularyScore, &t.GrammarScore,
		&t.UniversityMatchScore, &t.OverallScore,
		&t.Feedback, &t.FeedbackAudioURL, &t.FollowUpQuestions, &t.Suggestions,
		&t.ScoredAt, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PracticeTurnRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.PracticeTurn, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+turnColumns+" FROM practice_turns WHERE session_id = $1 ORDER BY turn_number ASC",
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []*models.PracticeTurn
	for rows.Next() {
		t := &models.PracticeTurn{}
		err := rows.Scan(
			&t.ID, &t.SessionID, &t.TurnNumber, &t.QuestionID, &t.Question,
			&t.AnswerAudioURL, &t.AnswerText,
			&t.PronunciationScore, &t.FluencyScore, &t.VocabularyScore, &t.GrammarScore,
			&t.UniversityMatchScore, &t.OverallScore,
			&t.Feedback, &t.FeedbackAudioURL, &t.FollowUpQuestions, &t.Suggestions,
			&t.ScoredAt, &t.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}

	return turns, nil
}

// UpdateScored writes the evaluated fields of a turn. The WHERE clause
// only matches unscored rows, so a concurrent second submission loses
// the race and gets practice.ErrTurnAlreadyScored instead of
// overwriting the first result.
func (r *PracticeTurnRepo) UpdateScored(ctx context.Context, t *models.PracticeTurn) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE practice_turns
		 SET answer_audio_url = $1, answer_text = $2,
			 pronunciation_score = $3, fluency_score = $4, vocabulary_score = $5,
			 grammar_score = $6, university_match_score = $7, overall_score = $8,
			 feedback = $9, feedback_audio_url = $10,
			 follow_up_questions = $11, suggestions = $12, scored_at = $13
		 WHERE id = $14 AND scored_at IS NULL`,
		t.AnswerAudioURL, t.AnswerText,
		t.PronunciationScore, t.FluencyScore, t.VocabularyScore,
		t.GrammarScore, t.UniversityMatchScore, t.OverallScore,
		t.Feedback, t.FeedbackAudioURL,
		t.FollowUpQuestions, t.Suggestions, t.ScoredAt,
		t.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return practice.ErrTurnAlreadyScored
	}
	return nil
}
