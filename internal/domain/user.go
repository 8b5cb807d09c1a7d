package domain

import (
	"strings"
	"time"
)

// User represents a bot user
type User struct {
	ID         int64
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	CreatedAt  time.Time
}

// DisplayName returns the best available name to greet the user with
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.LastName)
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle                UserState = "idle"
	StateWaitingAnswer       UserState = "waiting_answer"
	StateWaitingWord         UserState = "waiting_word"
	StateWaitingTranslation  UserState = "waiting_translation"
	StateWaitingDeleteChoice UserState = "waiting_delete_choice"
)

// StateData holds temporary data for user's current state.
// Only the fields belonging to State are meaningful.
type StateData struct {
	State       UserState `json:"state"`
	WordID      int64     `json:"word_id,omitempty"`
	CurrentWord string    `json:"current_word,omitempty"`
	Candidates  []WordRef `json:"candidates,omitempty"`
}

// IdleState returns the state of a user with no active dialog
func IdleState() *StateData {
	return &StateData{State: StateIdle}
}

// WaitingAnswerState returns the state of an outstanding quiz question about wordID
func WaitingAnswerState(wordID int64) *StateData {
	return &StateData{State: StateWaitingAnswer, WordID: wordID}
}

// WaitingWordState returns the first step of the add-word flow
func WaitingWordState() *StateData {
	return &StateData{State: StateWaitingWord}
}

// WaitingTranslationState returns the second step of the add-word flow
func WaitingTranslationState(english string) *StateData {
	return &StateData{State: StateWaitingTranslation, CurrentWord: english}
}

// WaitingDeleteChoiceState returns the state after the delete menu was shown.
// The candidates are copied so later changes to the slice don't leak in.
func WaitingDeleteChoiceState(candidates []WordRef) *StateData {
	c := make([]WordRef, len(candidates))
	copy(c, candidates)
	return &StateData{State: StateWaitingDeleteChoice, Candidates: c}
}

// IsIdle reports whether no dialog is in progress
func (s *StateData) IsIdle() bool {
	return s == nil || s.State == StateIdle || s.State == ""
}

// Clone returns a deep copy of the state
func (s *StateData) Clone() *StateData {
	if s == nil {
		return IdleState()
	}
	c := *s
	if s.Candidates != nil {
		c.Candidates = make([]WordRef, len(s.Candidates))
		copy(c.Candidates, s.Candidates)
	}
	return &c
}

// FindCandidate looks up a delete-menu entry by its English term
func (s *StateData) FindCandidate(english string) (WordRef, bool) {
	for _, c := range s.Candidates {
		if c.English == english {
			return c, true
		}
	}
	return WordRef{}, false
}
