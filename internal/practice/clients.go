package practice

import (
	"context"

	"github.com/google/uuid"

	"empenglish-backend/internal/models"
)

// Transcript is the result of a speech-to-text call.
type Transcript struct {
	Text       string
	Confidence float64
}

// AsrClient converts recorded answers to text. Failures are tolerated:
// the orchestrator degrades to an empty transcript rather than failing
// the turn.
type AsrClient interface {
	Transcribe(ctx context.Context, audioURL, language string) (*Transcript, error)
}

// TtsClient synthesizes speech for questions and feedback. The style is
// one of "academic", "friendly" or "high_pressure".
type TtsClient interface {
	Synthesize(ctx context.Context, text, style string) (string, error)
}

// QuestionContext carries the session state an LLM needs to generate a
// question.
type QuestionContext struct {
	University        string
	Major             string
	Category          string
	PreviousQuestions []string
	QuestionCount     int
}

// LlmClient generates feedback, follow-up questions and ad-hoc
// questions. All calls are best-effort; the orchestrator never aborts a
// session over an LLM failure.
type LlmClient interface {
	GenerateFeedback(ctx context.Context, question, answer string, overallScore float64) (string, error)
	GenerateFollowUp(ctx context.Context, question, answer string, pressureLevel int) ([]string, error)
	GenerateQuestion(ctx context.Context, qctx QuestionContext) (string, error)
}

// QuestionSource supplies the next question for a session. GetNext
// returns (nil, nil) when the bank is exhausted for the given
// constraints.
type QuestionSource interface {
	GetNext(ctx context.Context, userID uuid.UUID, university, major *string, excluded []uuid.UUID, turnCount int) (*models.Question, error)
	IncrementUsage(ctx context.Context, id uuid.UUID, score *float64) error
}

type SessionStore interface {
	Create(ctx context.Context, s *models.PracticeSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PracticeSession, error)
	Update(ctx context.Context, s *models.PracticeSession) error
}

type TurnStore interface {
	Create(ctx context.Context, t *models.PracticeTurn) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PracticeTurn, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.PracticeTurn, error)
	// UpdateScored persists the scored fields of a turn. It must fail
	// with ErrTurnAlreadyScored when the turn was scored before, so the
	// write is exactly-once even under concurrent submissions.
	UpdateScored(ctx context.Context, t *models.PracticeTurn) error
}

type ReportStore interface {
	Create(ctx context.Context, r *models.PracticeReport) error
	GetBySession(ctx context.Context, sessionID uuid.UUID) (*models.PracticeReport, error)
}

// Notifier is told when a session has been finalized and its report
// persisted, e.g. to queue report delivery. May be nil.
type Notifier interface {
	ReportFinalized(ctx context.Context, session *models.PracticeSession, report *models.PracticeReport)
}
