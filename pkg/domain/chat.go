package domain

import "encoding/json"

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// Turn is a single message of a conversation as it is stored on disk.
// Image holds the stored upload filename and is only meaningful for user turns.
type Turn struct {
	Role    string
	Content string
	Image   string
}

// History is the ordered list of turns of one session.
type History []Turn

func NewUserTurn(content, image string) Turn {
	return Turn{Role: MessageRoleUser, Content: content, Image: image}
}

func NewAssistantTurn(content string) Turn {
	return Turn{Role: MessageRoleAssistant, Content: content}
}

// Clone returns a copy that can be modified without touching h.
func (h History) Clone() History {
	c := make(History, len(h))
	copy(c, h)
	return c
}

type userTurnJSON struct {
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

type assistantTurnJSON struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MarshalJSON writes user turns with an explicit "image" key (null when
// nothing was attached) and assistant turns without one.
func (t Turn) MarshalJSON() ([]byte, error) {
	if t.Role != MessageRoleUser {
		return json.Marshal(assistantTurnJSON{Role: t.Role, Content: t.Content})
	}

	var image *string
	if t.Image != "" {
		image = &t.Image
	}
	return json.Marshal(userTurnJSON{Role: t.Role, Content: t.Content, Image: image})
}

func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw userTurnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Role = raw.Role
	t.Content = raw.Content
	t.Image = ""
	if raw.Image != nil {
		t.Image = *raw.Image
	}
	return nil
}

// ChatReply is what a completed chat turn hands back to the caller.
type ChatReply struct {
	Response string
	Image    string
}
