package chat

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Entry struct {
	Role Role
	Text string
}

type Phase int

const (
	Idle Phase = iota
	Pending
)

// Session is the in-memory transcript and its single-request latch. It is
// never persisted.
type Session struct {
	entries []Entry
	phase   Phase
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Pending() bool { return s.phase == Pending }

func (s *Session) Transcript() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Submit records the user's message and enters Pending. It refuses blank
// input and any submit while a reply is outstanding; a refused submit leaves
// the transcript untouched.
func (s *Session) Submit(text string) bool {
	if s.phase == Pending || strings.TrimSpace(text) == "" {
		return false
	}
	s.entries = append(s.entries, Entry{Role: RoleUser, Text: text})
	s.phase = Pending
	return true
}

// Settle appends the reply (or the classified failure) and returns to Idle.
func (s *Session) Settle(r Result) {
	if s.phase != Pending {
		return
	}
	s.entries = append(s.entries, Entry{Role: RoleAssistant, Text: r.Text()})
	s.phase = Idle
}
