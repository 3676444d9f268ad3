package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bbc.edu.in/college-chatbot/internal/auth"
	"bbc.edu.in/college-chatbot/internal/store"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// fallbackDemoQuestions are the fixed questions of the fallback diagnostic.
var fallbackDemoQuestions = []string{
	"What programs does BBC College offer?",
	"How do I apply for BBA at BBC College?",
	"What are the facilities at BBC College?",
	"Does BBC College have hostel facilities?",
	"How can I contact BBC College?",
	"What is the fee structure for MBA at BBC College?",
}

// Pinger is implemented by completers that support a connectivity check.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
}

type LoginResult struct {
	Token string
	User  *store.User
}

type DemoAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
}

type ChatService struct {
	dbStore   *store.SQLiteStore
	resolver  *Resolver
	completer Completer
	tokens    *auth.TokenIssuer
	logger    *slog.Logger
}

func NewChatService(db *store.SQLiteStore, resolver *Resolver, completer Completer, tokens *auth.TokenIssuer, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{
		dbStore:   db,
		resolver:  resolver,
		completer: completer,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a regular user. Duplicate username or email returns store.ErrConflict.
func (s *ChatService) Register(ctx context.Context, username, email, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.dbStore.CreateUser(ctx, username, email, hash, false)
}

func (s *ChatService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.dbStore.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *ChatService) GetUser(ctx context.Context, userID int64) (*store.User, error) {
	return s.dbStore.GetUserByID(ctx, userID)
}

// SendMessage resolves a reply and persists both sides of the exchange.
// Only storage failures produce an error; resolution itself always succeeds.
func (s *ChatService) SendMessage(ctx context.Context, userID int64, message string) (string, error) {
	reply := s.resolver.Answer(ctx, message, userID)

	if err := s.dbStore.RecordExchange(ctx, userID, message, reply); err != nil {
		return "", fmt.Errorf("failed to store chat exchange: %w", err)
	}
	return reply, nil
}

func (s *ChatService) History(ctx context.Context, userID int64) ([]store.ChatRecord, error) {
	return s.dbStore.ChatHistory(ctx, userID)
}

// FAQ administration

func (s *ChatService) ListFAQs(ctx context.Context) ([]store.FAQ, error) {
	return s.dbStore.ListFAQs(ctx)
}

func (s *ChatService) GetFAQ(ctx context.Context, id int64) (*store.FAQ, error) {
	return s.dbStore.GetFAQ(ctx, id)
}

func (s *ChatService) CreateFAQ(ctx context.Context, question, answer string) (*store.FAQ, error) {
	id, err := s.dbStore.CreateFAQ(ctx, question, answer)
	if err != nil {
		return nil, err
	}
	s.logger.Info("faq created", "faq_id", id)
	return &store.FAQ{ID: id, Question: question, Answer: answer}, nil
}

func (s *ChatService) UpdateFAQ(ctx context.Context, id int64, question, answer string) error {
	if err := s.dbStore.UpdateFAQ(ctx, id, question, answer); err != nil {
		return err
	}
	s.logger.Info("faq updated", "faq_id", id)
	return nil
}

func (s *ChatService) DeleteFAQ(ctx context.Context, id int64) error {
	if err := s.dbStore.DeleteFAQ(ctx, id); err != nil {
		return err
	}
	s.logger.Info("faq deleted", "faq_id", id)
	return nil
}

// Diagnostics

// CheckCompletion reports whether the completion service answers a test prompt.
func (s *ChatService) CheckCompletion(ctx context.Context) string {
	if s.completer == nil {
		return "Completion API key not configured. Using fallback responses."
	}
	pinger, ok := s.completer.(Pinger)
	if !ok {
		return "Completion service configured; connectivity check not supported."
	}
	text, err := pinger.Ping(ctx)
	if err != nil {
		return fmt.Sprintf("Completion error: %v", err)
	}
	return fmt.Sprintf("Completion connection successful: %s", text)
}

// FallbackDemo runs the fixed demo questions through the rule table only.
func (s *ChatService) FallbackDemo() []DemoAnswer {
	table := s.resolver.Fallback()
	answers := make([]DemoAnswer, 0, len(fallbackDemoQuestions))
	for _, q := range fallbackDemoQuestions {
		reply, category := table.Resolve(q)
		answers = append(answers, DemoAnswer{Question: q, Answer: reply, Category: category})
	}
	return answers
}
