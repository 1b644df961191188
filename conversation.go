package mentor

// Conversation builds a chat message history in a chainable way.
//
// Example:
//
//	conv := NewConversation().
//	    System(SystemPrompt).
//	    User("What is photosynthesis?")
type Conversation struct {
	Messages []Message
}

// NewConversation creates an empty Conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// System appends a system message and returns the
// Conversation for chaining.
func (c *Conversation) System(content string) *Conversation {
	c.Messages = append(c.Messages, Message{Role: RoleSystem, Content: content})
	return c
}

// User appends a user message and returns the
// Conversation for chaining.
func (c *Conversation) User(content string) *Conversation {
	c.Messages = append(c.Messages, Message{Role: RoleUser, Content: content})
	return c
}
