package types

// Session represents one conversation with the assistant.
type Session struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Agent string      `json:"agent"`
	Time  SessionTime `json:"time"`
}

// SessionTime contains timestamps for a session, unix milliseconds.
type SessionTime struct {
	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
}

// TranscriptEntry is one recorded exchange within a session.
type TranscriptEntry struct {
	ID      string `json:"id"`
	Role    string `json:"role"` // "user" | "assistant" | "tool"
	Agent   string `json:"agent,omitempty"`
	Content string `json:"content"`
	Created int64  `json:"created"`
}
