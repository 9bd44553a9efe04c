package models

// Topic is an entry of the static coaching catalog.
type Topic struct {
	ID          int
	Title       string
	Description string
}

// TranscriptLine is one turn of a voice conversation.
type TranscriptLine struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type ConversationMetadata struct {
	CallDurationSecs  int     `json:"call_duration_secs"`
	Cost              float64 `json:"cost"`
	StartTimeUnixSecs int64   `json:"start_time_unix_secs"`
}

type ConversationAnalysis struct {
	CallSummaryTitle  string `json:"call_summary_title"`
	TranscriptSummary string `json:"transcript_summary"`
}

// Conversation is the summary of a finished voice session.
type Conversation struct {
	ID         string               `json:"conversation_id"`
	Status     string               `json:"status"`
	Transcript []TranscriptLine     `json:"transcript"`
	Metadata   ConversationMetadata `json:"metadata"`
	Analysis   ConversationAnalysis `json:"analysis"`
}

// Done reports whether the voice provider finished processing the call.
func (c Conversation) Done() bool { return c.Status == "done" }

// CoachingSession is the backend record created from a conversation.
type CoachingSession struct {
	ID                  int64            `json:"id"`
	SessionType         string           `json:"session_type"`
	ConversationHistory []TranscriptLine `json:"conversation_history"`
	DurationSeconds     int              `json:"duration_seconds"`
}
