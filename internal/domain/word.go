package domain

import "time"

// Word represents a word-translation pair shared by all users
type Word struct {
	ID        int64
	English   string
	Russian   string
	CreatedAt time.Time
}

// UserWord links a user to a word they study
type UserWord struct {
	UserID      int64
	WordID      int64
	AddedByUser bool
	CreatedAt   time.Time
}

// WordRef is a simplified version for menus
type WordRef struct {
	WordID  int64  `json:"word_id"`
	English string `json:"english"`
}

// AddResult is the outcome of adding a word to a user's list
type AddResult int

const (
	AddResultAdded AddResult = iota + 1
	AddResultAlreadyPresent
)

func (r AddResult) String() string {
	switch r {
	case AddResultAdded:
		return "added"
	case AddResultAlreadyPresent:
		return "already_present"
	default:
		return "unknown"
	}
}

// Question is a multiple-choice quiz question
type Question struct {
	// Prompt is the Russian translation the user has to recognize
	Prompt        string
	Choices       []string
	CorrectWordID int64
}
