package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sermonmate/sermonmate/internal/client/api"
	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/logging"
)

const defaultSessionType = "AI Conversation"

var topics = []models.Topic{
	{ID: 1, Title: "Hope", Description: "Find hope and encouragement in difficult times"},
	{ID: 2, Title: "Peace", Description: "Discover inner peace and tranquility"},
	{ID: 3, Title: "Forgiveness", Description: "Learn about forgiveness and healing"},
	{ID: 4, Title: "Anxiety", Description: "Overcome anxiety and find calm"},
	{ID: 5, Title: "Loneliness", Description: "Find comfort and connection"},
}

// CoachingService covers the bookkeeping around voice coaching sessions. The
// conversation itself runs in the voice provider's SDK.
type CoachingService interface {
	Topics() []models.Topic
	Topic(id int) models.Topic
	AgentID() string
	Conversation(ctx context.Context, conversationID string) (*models.Conversation, error)
	RecordSession(ctx context.Context, c models.Conversation) (int64, error)
}

type coachingService struct {
	backend Backend
	agentID string
	log     logging.Logger
}

// NewCoachingService constructs a CoachingService for the given voice agent.
func NewCoachingService(backend Backend, agentID string, log logging.Logger) CoachingService {
	return &coachingService{backend: backend, agentID: agentID, log: log}
}

func (s *coachingService) Topics() []models.Topic {
	out := make([]models.Topic, len(topics))
	copy(out, topics)
	return out
}

// Topic falls back to the first topic for an unknown id.
func (s *coachingService) Topic(id int) models.Topic {
	for _, t := range topics {
		if t.ID == id {
			return t
		}
	}
	return topics[0]
}

func (s *coachingService) AgentID() string { return s.agentID }

func (s *coachingService) Conversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	resp, err := s.backend.Get(ctx, "/conversations?conversationId="+url.QueryEscape(conversationID))
	if err != nil {
		return nil, api.WithFallback(err, "Failed to load conversation")
	}

	var c models.Conversation
	if err := resp.Decode("@this", &c); err != nil {
		return nil, api.WithFallback(err, "Failed to load conversation")
	}
	return &c, nil
}

type sessionRequest struct {
	SessionType         string                  `json:"session_type,omitempty"`
	ConversationHistory []models.TranscriptLine `json:"conversation_history"`
	DurationSeconds     int                     `json:"duration_seconds"`
}

// RecordSession creates the session record and ends it, which is what
// deducts the credit server-side.
func (s *coachingService) RecordSession(ctx context.Context, c models.Conversation) (int64, error) {
	sessionType := c.Analysis.CallSummaryTitle
	if sessionType == "" {
		sessionType = defaultSessionType
	}
	history := c.Transcript
	if history == nil {
		history = []models.TranscriptLine{}
	}
	duration := c.Metadata.CallDurationSecs

	resp, err := s.backend.Post(ctx, "/sessions", sessionRequest{
		SessionType:         sessionType,
		ConversationHistory: history,
		DurationSeconds:     duration,
	})
	if err != nil {
		return 0, api.WithFallback(err, "Failed to save session")
	}

	id := resp.Get("session.id")
	if !id.Exists() {
		return 0, api.WithFallback(&api.Error{Kind: api.ErrUnexpected, Status: resp.Status}, "Failed to save session")
	}
	sessionID := id.Int()

	endPath := "/sessions/" + strconv.FormatInt(sessionID, 10) + "/end"
	if _, err := s.backend.Post(ctx, endPath, sessionRequest{
		ConversationHistory: history,
		DurationSeconds:     duration,
	}); err != nil {
		return 0, api.WithFallback(fmt.Errorf("end session %d: %w", sessionID, err), "Failed to save session")
	}

	s.log.Info(ctx, "coaching session recorded", "session_id", sessionID, "duration_seconds", duration)
	return sessionID, nil
}
