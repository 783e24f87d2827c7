package chat

// Turn roles. In the normal flow turns strictly alternate starting with a
// user turn; a transcript ending on a user turn is the trigger state for
// generating a reply.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one side of a conversation exchange.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered conversation history for one profile.
type Transcript []Turn

// Last returns the final turn and true, or false for an empty transcript.
func (t Transcript) Last() (Turn, bool) {
	if len(t) == 0 {
		return Turn{}, false
	}
	return t[len(t)-1], true
}

// AwaitingAssistant reports whether the transcript ends on a user turn.
func (t Transcript) AwaitingAssistant() bool {
	last, ok := t.Last()
	return ok && last.Role == RoleUser
}
