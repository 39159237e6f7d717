package domain

import "time"

// DefaultThreadID is used when a caller does not name a conversation.
const DefaultThreadID = "default"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

func ValidRole(r string) bool {
	switch Role(r) {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Thread is the stored state of one conversation.
type Thread struct {
	ID            string      `json:"id"`
	Messages      []Message   `json:"messages"`
	LastRetrieved []SourceRef `json:"last_retrieved"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NormalizeThreadID maps an absent thread id to DefaultThreadID.
func NormalizeThreadID(id string) string {
	if id == "" {
		return DefaultThreadID
	}
	return id
}
