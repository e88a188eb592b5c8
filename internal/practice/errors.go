package practice

import "errors"

var (
	ErrSessionNotFound      = errors.New("practice: session not found")
	ErrTurnNotFound         = errors.New("practice: turn not found")
	ErrSessionNotOngoing    = errors.New("practice: session is not ongoing")
	ErrTurnSessionMismatch  = errors.New("practice: turn does not belong to session")
	ErrNoQuestionsAvailable = errors.New("practice: no questions available")
	ErrPremiumRequired      = errors.New("practice: university mode requires a premium plan")

	// ErrTurnAlreadyScored marks a session-integrity violation: a turn
	// is scored exactly once and a second submission must be rejected,
	// never merged.
	ErrTurnAlreadyScored = errors.New("practice: turn already scored")
)
