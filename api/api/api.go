/* api.go
 * This file contains the public methods for interacting with the quiz pipeline. Frontends (the frame server and the
 * Discord bot) should only call the methods in this file, not the sub packages directly.
 */

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"l2match/api/external"
	"l2match/api/logic"
	"l2match/api/quiz"
	"l2match/api/shared"
	"l2match/api/store"
)

// DefaultCollaboratorTimeout bounds each ledger, messaging and relay call
const DefaultCollaboratorTimeout = 10 * time.Second

const (
	// DefaultSessionTTL is how long an unused session is kept before it can be evicted
	DefaultSessionTTL = 30 * time.Minute
	// DefaultMaxSessions bounds the session registry
	DefaultMaxSessions = 10000
)

// ErrNoMatch is returned by AnswerWith when the input resolves to none of the current question's options
var ErrNoMatch = errors.New("answer matches no option")

// Config holds the settings of the pipeline
type Config struct {
	BaseURL             string
	UserID              string
	CollaboratorTimeout time.Duration
	Questions           []shared.Question
	SessionTTL          time.Duration
	MaxSessions         int
}

// API provides methods for running quizzes and acting on their results. Ledger, Messenger and Relay are optional;
// a nil collaborator makes the operation that needs it fail with logic.ErrUnavailable.
type API struct {
	Store     store.Interface
	Ledger    external.Ledger
	Messenger external.Messenger
	Relay     Publisher

	BaseURL             string
	UserID              string
	CollaboratorTimeout time.Duration
	Questions           []shared.Question
	SessionTTL          time.Duration
	MaxSessions         int

	mu        sync.Mutex
	sessions  map[string]*Session
	lastSweep time.Time
	now       func() time.Time
}

// NewAPI creates a new API instance with the provided store and configuration
// Preconditions: s is not nil
// Postconditions: Returns the API with defaults applied for empty config values
func NewAPI(s store.Interface, cfg Config) (*API, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.UserID == "" {
		cfg.UserID = shared.AnonymousUserID
	}
	if cfg.CollaboratorTimeout <= 0 {
		cfg.CollaboratorTimeout = DefaultCollaboratorTimeout
	}
	if len(cfg.Questions) == 0 {
		cfg.Questions = quiz.DefaultQuestions()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}

	return &API{
		Store:               s,
		BaseURL:             cfg.BaseURL,
		UserID:              cfg.UserID,
		CollaboratorTimeout: cfg.CollaboratorTimeout,
		Questions:           cfg.Questions,
		SessionTTL:          cfg.SessionTTL,
		MaxSessions:         cfg.MaxSessions,
		sessions:            make(map[string]*Session),
		now:                 time.Now,
	}, nil
}

// view builds the QuizView of a locked session
func (a *API) view(s *Session) QuizView {
	v := QuizView{
		Session:  s.ID,
		Progress: s.machine.Progress(),
		Finished: s.machine.Finished(),
		Score:    s.machine.Score(),
		DarkMode: s.dark,
	}
	if q, ok := s.machine.Current(); ok {
		v.Question = &q
	}
	if v.Finished {
		v.Result, _ = s.machine.Result()
		v.Distribution = logic.Distribution(v.Score, s.machine.Total())
	}
	return v
}

// State returns the current view of a session
func (a *API) State(ctx context.Context, sessionID string) (QuizView, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return QuizView{}, err
	}
	defer s.Unlock()

	return a.view(s), nil
}

// Question returns the question waiting for an answer, or false once the quiz is finished
func (a *API) Question(ctx context.Context, sessionID string) (shared.Question, bool, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return shared.Question{}, false, err
	}
	defer s.Unlock()

	q, ok := s.machine.Current()
	return q, ok, nil
}

// Progress returns how far through the quiz a session is
func (a *API) Progress(ctx context.Context, sessionID string) (quiz.Progress, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return quiz.Progress{}, err
	}
	defer s.Unlock()

	return s.machine.Progress(), nil
}

// Answer applies an answer to the current question. When the answer finishes the quiz the result is persisted and
// published to the relay before the session is released. Failures of either are logged and do not fail the answer.
// Preconditions: label is one of the current question's option labels. Any other label is accepted and scores nothing.
// Postconditions: Returns the new view, or quiz.ErrQuizFinished if the quiz was already finished
func (a *API) Answer(ctx context.Context, sessionID string, label string) (QuizView, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return QuizView{}, err
	}
	defer s.Unlock()

	return a.answer(ctx, s, label)
}

// AnswerWith resolves the answer against the current question and applies it under the same session lock, so the
// label is always applied to the question it was resolved against.
// Preconditions: resolve maps the current question to one of its option labels, or returns false
// Postconditions: Returns the new view, ErrNoMatch with the unchanged view when resolve finds nothing, or
// quiz.ErrQuizFinished if the quiz was already finished
func (a *API) AnswerWith(ctx context.Context, sessionID string, resolve func(shared.Question) (string, bool)) (QuizView, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return QuizView{}, err
	}
	defer s.Unlock()

	q, ok := s.machine.Current()
	if !ok {
		return a.view(s), quiz.ErrQuizFinished
	}
	label, ok := resolve(q)
	if !ok {
		return a.view(s), ErrNoMatch
	}
	return a.answer(ctx, s, label)
}

// answer applies label to a locked session, then persists and publishes the result if the quiz is now finished
func (a *API) answer(ctx context.Context, s *Session, label string) (QuizView, error) {
	if err := s.machine.Answer(label); err != nil {
		return a.view(s), err
	}

	if s.machine.Finished() {
		result, _ := s.machine.Result()
		s.result = result
		a.persistResult(ctx, s.ID, result)
		a.publishResult(ctx, s.ID, result, s.machine.Score())
	}

	return a.view(s), nil
}

func (a *API) persistResult(ctx context.Context, sessionID string, result string) {
	if err := a.Store.SaveResult(ctx, a.UserID, result); err != nil {
		log.Printf("Error saving result for session %s: %v", sessionID, err)
		return
	}
	log.Printf("Saved result for session %s: %s", sessionID, result)
}

func (a *API) publishResult(ctx context.Context, sessionID string, result string, score shared.Score) {
	if a.Relay == nil {
		return
	}

	payload, err := json.Marshal(relayMessage{Result: result, Score: score, Session: sessionID})
	if err != nil {
		log.Printf("Error encoding relay message: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.CollaboratorTimeout)
	defer cancel()

	if err := a.Relay.Publish(ctx, payload); err != nil {
		log.Printf("Error publishing result for session %s: %v", sessionID, err)
	}
}

// Reset starts the session's quiz again and clears its result. The value in the store is left untouched.
func (a *API) Reset(ctx context.Context, sessionID string) (QuizView, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return QuizView{}, err
	}
	defer s.Unlock()

	s.machine.Reset()
	s.result = ""
	return a.view(s), nil
}

// Result returns the result of the session's finished run, or else the result loaded from the store when the
// session was created, until the session is reset
// Postconditions: Returns logic.ErrNoResult if neither exists
func (a *API) Result(ctx context.Context, sessionID string) (string, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return "", err
	}
	defer s.Unlock()

	return currentResult(s)
}

func currentResult(s *Session) (string, error) {
	if s.machine.Finished() {
		result, _ := s.machine.Result()
		return result, nil
	}
	if s.result != "" {
		return s.result, nil
	}
	return "", logic.ErrNoResult
}

// Theme returns the session's dark mode flag
func (a *API) Theme(ctx context.Context, sessionID string) (bool, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return false, err
	}
	defer s.Unlock()

	return s.dark, nil
}

// ToggleTheme flips the dark mode flag and persists it. A failed save is logged and the new flag is still returned.
func (a *API) ToggleTheme(ctx context.Context, sessionID string) (bool, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return false, err
	}
	defer s.Unlock()

	s.dark = !s.dark
	if err := a.Store.SaveTheme(ctx, a.UserID, s.dark); err != nil {
		log.Printf("Error saving theme for session %s: %v", s.ID, err)
	}
	return s.dark, nil
}

// Share builds the share link, text and compose url for the session's result
func (a *API) Share(ctx context.Context, sessionID string) (ShareView, error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return ShareView{}, err
	}
	defer s.Unlock()

	result, err := currentResult(s)
	if err != nil {
		return ShareView{}, err
	}

	link, err := logic.ShareLink(a.BaseURL, result)
	if err != nil {
		return ShareView{}, err
	}
	text, err := logic.ShareText(a.BaseURL, result)
	if err != nil {
		return ShareView{}, err
	}

	return ShareView{
		Result:     result,
		Slug:       logic.Slug(result),
		Link:       link,
		Text:       text,
		ComposeURL: logic.ComposeURL(text),
	}, nil
}

// RecordResult writes the session's result to the ledger on behalf of the connected wallet
// Preconditions: address is the connected wallet, empty when none is connected
// Postconditions: Returns the transaction hash, or an error that logic.ClassifyRecordError turns into a user message
func (a *API) RecordResult(ctx context.Context, sessionID string, address string) (hash string, err error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return "", err
	}
	defer s.Unlock()

	result, err := currentResult(s)
	if err != nil {
		return "", err
	}
	if address == "" {
		return "", logic.ErrWalletNotConnected
	}
	if a.Ledger == nil {
		return "", logic.ErrUnavailable
	}

	defer recoverUnexpected(&err)

	ctx, cancel := context.WithTimeout(ctx, a.CollaboratorTimeout)
	defer cancel()

	hash, err = a.Ledger.SaveResult(ctx, result)
	if err != nil {
		log.Printf("Error recording result for %s: %v", address, err)
		return "", err
	}
	log.Printf("Recorded result for %s in transaction %s", address, hash)
	return hash, nil
}

// SendResult messages the session's result from the connected wallet to destination. The destination is validated
// before any collaborator is called.
// Postconditions: Returns nil on success, or an error that logic.ClassifySendError turns into a user message
func (a *API) SendResult(ctx context.Context, sessionID string, address string, destination string) (err error) {
	s, err := a.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer s.Unlock()

	if address == "" {
		return logic.ErrWalletNotConnected
	}
	if err := logic.ValidateDestination(address, destination); err != nil {
		return err
	}
	result, err := currentResult(s)
	if err != nil {
		return err
	}
	if a.Messenger == nil {
		return logic.ErrUnavailable
	}

	defer recoverUnexpected(&err)

	ctx, cancel := context.WithTimeout(ctx, a.CollaboratorTimeout)
	defer cancel()

	if err := a.Messenger.Send(ctx, address, destination, logic.SendText(result)); err != nil {
		log.Printf("Error sending result from %s to %s: %v", address, destination, err)
		return err
	}
	log.Printf("Sent result from %s to %s", address, destination)
	return nil
}

// recoverUnexpected turns a panic in a collaborator call into logic.ErrUnexpected
func recoverUnexpected(err *error) {
	if r := recover(); r != nil {
		log.Printf("Recovered from collaborator panic: %v", r)
		*err = fmt.Errorf("%w: %v", logic.ErrUnexpected, r)
	}
}

// Close releases the store
func (a *API) Close() error {
	return a.Store.Close()
}
