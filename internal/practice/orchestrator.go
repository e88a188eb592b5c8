package practice

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"empenglish-backend/internal/models"
	"empenglish-backend/internal/scoring"
)

// Orchestrator sequences one practice session: issue question, await
// answer, score, generate feedback and follow-ups, check completion,
// finalize. Turns within a session are strictly sequential; separate
// sessions run on separate orchestrator calls and share no mutable
// state, so no locks are needed here.
type Orchestrator struct {
	sessions  SessionStore
	turns     TurnStore
	reports   ReportStore
	questions QuestionSource

	asr AsrClient
	tts TtsClient
	llm LlmClient

	scorer   *scoring.Aggregator
	notifier Notifier
	retry    RetryPolicy
	language string
}

func NewOrchestrator(
	sessions SessionStore,
	turns TurnStore,
	reports ReportStore,
	questions QuestionSource,
	asr AsrClient,
	tts TtsClient,
	llm LlmClient,
	scorer *scoring.Aggregator,
	notifier Notifier,
) *Orchestrator {
	return &Orchestrator{
		sessions:  sessions,
		turns:     turns,
		reports:   reports,
		questions: questions,
		asr:       asr,
		tts:       tts,
		llm:       llm,
		scorer:    scorer,
		notifier:  notifier,
		retry:     DefaultRetryPolicy(),
		language:  "en",
	}
}

// SetRetryPolicy overrides the collaborator retry policy (tests use a
// zero-backoff policy).
func (o *Orchestrator) SetRetryPolicy(p RetryPolicy) {
	o.retry = p
}

// IssuedQuestion is the payload of the IssueQuestion stage: a fresh
// turn bound to the selected question, plus best-effort question audio.
type IssuedQuestion struct {
	TurnID     uuid.UUID `json:"turn_id"`
	QuestionID uuid.UUID `json:"question_id"`
	TurnNumber int       `json:"turn_number"`
	Content    string    `json:"content"`
	AudioURL   string    `json:"audio_url,omitempty"`
}

type StartedSession struct {
	Session       *models.PracticeSession `json:"session"`
	FirstQuestion *IssuedQuestion         `json:"first_question"`
}

type FeedbackPayload struct {
	Text     *string `json:"text"`
	AudioURL *string `json:"audio_url"`
}

// TurnResult is the outcome of one scored turn.
type TurnResult struct {
	TurnID            uuid.UUID                `json:"turn_id"`
	Score             *scoring.CompositeResult `json:"score"`
	Feedback          FeedbackPayload          `json:"feedback"`
	FollowUpQuestions []string                 `json:"follow_up_questions"`
	IsFinished        bool                     `json:"is_finished"`
	Report            *models.PracticeReport   `json:"report,omitempty"`
}

// StartSession creates an ongoing session for the user and issues its
// first question. University mode is an entitlement: it is rejected
// before any state is written when the user's plan does not allow it.
func (o *Orchestrator) StartSession(ctx context.Context, user *models.User, req models.CreateSessionRequest) (*StartedSession, error) {
	mode := req.Mode
	if mode == "" {
		mode = models.ModeGeneral
	}
	if mode != models.ModeGeneral && mode != models.ModeUniversity {
		return nil, fmt.Errorf("practice: unknown mode %q", mode)
	}
	if mode == models.ModeUniversity && user.Plan != "premium" {
		return nil, ErrPremiumRequired
	}

	pressure := req.PressureLevel
	if pressure < models.PressureGentle || pressure > models.PressureHigh {
		pressure = models.PressureNormal
	}
	maxQuestions := req.MaxQuestions
	if maxQuestions <= 0 {
		maxQuestions = 10
	}

	session := &models.PracticeSession{
		ID:            uuid.New(),
		UserID:        user.ID,
		Mode:          mode,
		PressureLevel: pressure,
		University:    req.University,
		Major:         req.Major,
		Status:        models.SessionOngoing,
		MaxQuestions:  maxQuestions,
		StartTime:     time.Now().UTC(),
	}
	if err := o.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	first, err := o.issueQuestion(ctx, session, nil)
	if err != nil {
		return nil, err
	}

	return &StartedSession{Session: session, FirstQuestion: first}, nil
}

// NextQuestion runs the IssueQuestion stage for an ongoing session.
func (o *Orchestrator) NextQuestion(ctx context.Context, sessionID uuid.UUID) (*IssuedQuestion, error) {
	session, err := o.loadOngoing(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	turns, err := o.turns.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}

	return o.issueQuestion(ctx, session, turns)
}

func (o *Orchestrator) issueQuestion(ctx context.Context, session *models.PracticeSession, turns []*models.PracticeTurn) (*IssuedQuestion, error) {
	excluded := make([]uuid.UUID, 0, len(turns))
	for _, t := range turns {
		excluded = append(excluded, t.QuestionID)
	}

	q, err := o.questions.GetNext(ctx, session.UserID, session.University, session.Major, excluded, len(turns))
	if err != nil {
		return nil, fmt.Errorf("select question: %w", err)
	}
	if q == nil {
		return nil, ErrNoQuestionsAvailable
	}

	turn := &models.PracticeTurn{
		ID:                uuid.New(),
		SessionID:         session.ID,
		TurnNumber:        len(turns) + 1,
		QuestionID:        q.ID,
		Question:          q.Content,
		FollowUpQuestions: []string{},
		Suggestions:       []string{},
		CreatedAt:         time.Now().UTC(),
	}
	if err := o.turns.Create(ctx, turn); err != nil {
		return nil, fmt.Errorf("create turn: %w", err)
	}

	return &IssuedQuestion{
		TurnID:     turn.ID,
		QuestionID: q.ID,
		TurnNumber: turn.TurnNumber,
		Content:    q.Content,
		AudioURL:   o.synthesize(ctx, q.Content, TTSStyleForPressure(session.PressureLevel)),
	}, nil
}

// SubmitAnswer runs the remaining stages for one turn: transcribe,
// score, feedback, feedback audio, follow-ups, completion check and,
// when the quota is reached, finalization.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, sessionID, turnID uuid.UUID, audioURL, text string) (*TurnResult, error) {
	session, err := o.loadOngoing(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	turn, err := o.turns.GetByID(ctx, turnID)
	if err != nil {
		return nil, ErrTurnNotFound
	}
	if turn.SessionID != session.ID {
		return nil, ErrTurnSessionMismatch
	}
	if turn.IsScored() {
		return nil, ErrTurnAlreadyScored
	}

	// AwaitAnswer: prefer pre-transcribed text; otherwise ASR, tolerating
	// failure as an empty transcript.
	answer := text
	if answer == "" && audioURL != "" {
		answer = o.transcribe(ctx, audioURL)
	}

	// Score: the only stage whose failure is fatal, since a broken weight
	// table or scorer is an internal invariant violation.
	result, err := o.scorer.Evaluate(turn.Question, answer, audioURL, session.University, session.Major)
	if err != nil {
		return nil, fmt.Errorf("score turn %s: %w", turn.ID, err)
	}

	feedback := o.generateFeedback(ctx, turn.Question, answer, result.OverallScore)
	var feedbackAudio *string
	if feedback != nil {
		if url := o.synthesize(ctx, *feedback, TTSStyleForPressure(session.PressureLevel)); url != "" {
			feedbackAudio = &url
		}
	}
	followUps := o.generateFollowUp(ctx, turn.Question, answer, session.PressureLevel)

	now := time.Now().UTC()
	turn.AnswerText = &answer
	if audioURL != "" {
		turn.AnswerAudioURL = &audioURL
	}
	turn.PronunciationScore = &result.Dimensions.Pronunciation.OverallScore
	turn.FluencyScore = &result.Dimensions.Fluency.OverallScore
	turn.VocabularyScore = &result.Dimensions.Vocabulary.OverallScore
	turn.GrammarScore = &result.Dimensions.Grammar.OverallScore
	if result.Dimensions.UniversityMatch != nil {
		turn.UniversityMatchScore = &result.Dimensions.UniversityMatch.OverallScore
	}
	turn.OverallScore = &result.OverallScore
	turn.Feedback = feedback
	turn.FeedbackAudioURL = feedbackAudio
	turn.FollowUpQuestions = followUps
	turn.Suggestions = result.Suggestions
	turn.ScoredAt = &now

	if err := o.turns.UpdateScored(ctx, turn); err != nil {
		return nil, err
	}

	if err := o.questions.IncrementUsage(ctx, turn.QuestionID, turn.OverallScore); err != nil {
		log.Printf("practice: failed to update question usage for %s: %v", turn.QuestionID, err)
	}

	// CheckCompletion: the sole place question_count changes.
	session.QuestionCount++
	finished := session.IsFinished()

	turnResult := &TurnResult{
		TurnID:            turn.ID,
		Score:             result,
		Feedback:          FeedbackPayload{Text: feedback, AudioURL: feedbackAudio},
		FollowUpQuestions: followUps,
		IsFinished:        finished,
	}

	if finished {
		report, err := o.finalize(ctx, session)
		if err != nil {
			return nil, err
		}
		turnResult.Report = report
		return turnResult, nil
	}

	if err := o.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	return turnResult, nil
}

// Abort moves an ongoing session to ABORTED from any point in the turn
// pipeline. The in-flight unscored turn, if any, is simply left
// unscored and excluded from the report.
func (o *Orchestrator) Abort(ctx context.Context, sessionID uuid.UUID) (*models.PracticeReport, error) {
	session, err := o.loadOngoing(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Status = models.SessionAborted
	return o.closeSession(ctx, session)
}

func (o *Orchestrator) finalize(ctx context.Context, session *models.PracticeSession) (*models.PracticeReport, error) {
	session.Status = models.SessionCompleted
	return o.closeSession(ctx, session)
}

func (o *Orchestrator) closeSession(ctx context.Context, session *models.PracticeSession) (*models.PracticeReport, error) {
	turns, err := o.turns.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}

	report := GenerateReport(session, turns)

	now := time.Now().UTC()
	session.EndTime = &now
	if report.TurnCount > 0 {
		session.OverallScore = &report.OverallScore
	}

	if err := o.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	if err := o.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	if o.notifier != nil {
		o.notifier.ReportFinalized(ctx, session, report)
	}

	return report, nil
}

func (o *Orchestrator) loadOngoing(ctx context.Context, sessionID uuid.UUID) (*models.PracticeSession, error) {
	session, err := o.sessions.GetByID(ctx, sessionID)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != models.SessionOngoing {
		return nil, ErrSessionNotOngoing
	}
	return session, nil
}

// transcribe is best-effort: exhausted retries degrade to an empty
// transcript so downstream scoring still runs.
func (o *Orchestrator) transcribe(ctx context.Context, audioURL string) string {
	var tr *Transcript
	err := o.retry.do(ctx, func() error {
		var err error
		tr, err = o.asr.Transcribe(ctx, audioURL, o.language)
		return err
	})
	if err != nil {
		log.Printf("practice: ASR failed for %s: %v", audioURL, err)
		return ""
	}
	return tr.Text
}

func (o *Orchestrator) synthesize(ctx context.Context, text, style string) string {
	var url string
	err := o.retry.do(ctx, func() error {
		var err error
		url, err = o.tts.Synthesize(ctx, text, style)
		return err
	})
	if err != nil {
		log.Printf("practice: TTS failed: %v", err)
		return ""
	}
	return url
}

func (o *Orchestrator) generateFeedback(ctx context.Context, question, answer string, score float64) *string {
	var text string
	err := o.retry.do(ctx, func() error {
		var err error
		text, err = o.llm.GenerateFeedback(ctx, question, answer, score)
		return err
	})
	if err != nil {
		log.Printf("practice: feedback generation failed: %v", err)
		return nil
	}
	return &text
}

func (o *Orchestrator) generateFollowUp(ctx context.Context, question, answer string, pressureLevel int) []string {
	var questions []string
	err := o.retry.do(ctx, func() error {
		var err error
		questions, err = o.llm.GenerateFollowUp(ctx, question, answer, pressureLevel)
		return err
	})
	if err != nil {
		log.Printf("practice: follow-up generation failed: %v", err)
		return []string{}
	}
	return questions
}

// TTSStyleForPressure maps the session pressure level onto a synthesis
// style. Unmapped levels default to academic.
func TTSStyleForPressure(level int) string {
	switch level {
	case models.PressureGentle:
		return "friendly"
	case models.PressureNormal:
		return "academic"
	case models.PressureHigh:
		return "high_pressure"
	default:
		return "academic"
	}
}
