package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/retrieval"
	"github.com/hyperjump/kotae/internal/session"
)

// ErrEmptyQuestion is returned for blank questions. Nothing is recorded.
var ErrEmptyQuestion = errors.New("question must not be empty")

// failedAnswerText is stored when the generation backend fails, so the
// session history shows the attempt.
const failedAnswerText = "The answer backend is currently unavailable. Please try again later."

// Service answers questions: retrieve context, compose a prompt, generate,
// and record the exchange in the session history.
type Service struct {
	retriever *retrieval.Retriever
	generator llm.Generator
	sessions  *session.Store
	config    *config.RetrievalConfig
	logger    *zap.Logger // optional
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets a logger for ask events.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates an answer service with the given dependencies.
func NewService(
	retriever *retrieval.Retriever,
	generator llm.Generator,
	sessions *session.Store,
	cfg *config.RetrievalConfig,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		retriever: retriever,
		generator: generator,
		sessions:  sessions,
		config:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask answers one question in the given session. An empty sessionID starts a
// new session. Once the question is accepted, it is always recorded in the
// history, a failed generation included; the failed entry and the wrapped
// error are both returned so the caller can surface each.
func (s *Service) Ask(ctx context.Context, sessionID, question string) (*models.AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if sessionID == "" {
		sessionID = s.sessions.NewSession()
	}
	history, err := s.sessions.LastN(sessionID, s.config.HistoryEntries)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	chunks, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		return s.recordFailure(sessionID, question, fmt.Errorf("retrieve context: %w", err))
	}

	prompt := BuildPrompt(s.config.SystemPrompt, question, chunks, history, s.config.MaxContextChars)
	answerText, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return s.recordFailure(sessionID, question, fmt.Errorf("generate answer: %w", err))
	}

	entry := models.ChatEntry{
		Question:     question,
		Answer:       answerText,
		AnswerFormat: models.AnswerFormatMarkdown,
		Sources:      chunks,
	}
	if err := s.sessions.Append(sessionID, entry); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("question answered",
			zap.String("session_id", sessionID),
			zap.Int("context_chunks", len(chunks)))
	}
	return &models.AskResult{SessionID: sessionID, ChatEntry: entry}, nil
}

// recordFailure appends a failed entry so the question stays in the history,
// then returns the entry together with the original error.
func (s *Service) recordFailure(sessionID, question string, cause error) (*models.AskResult, error) {
	entry := models.ChatEntry{
		Question:     question,
		Answer:       failedAnswerText,
		AnswerFormat: models.AnswerFormatMarkdown,
		Failed:       true,
	}
	if appendErr := s.sessions.Append(sessionID, entry); appendErr != nil {
		return nil, errors.Join(cause, appendErr)
	}
	if s.logger != nil {
		s.logger.Warn("question failed",
			zap.String("session_id", sessionID),
			zap.Error(cause))
	}
	return &models.AskResult{SessionID: sessionID, ChatEntry: entry}, cause
}

// History returns the full history for a session.
func (s *Service) History(sessionID string) ([]models.ChatEntry, error) {
	return s.sessions.History(sessionID)
}

// NewSessionID starts a new empty session.
func (s *Service) NewSessionID() string {
	return s.sessions.NewSession()
}
