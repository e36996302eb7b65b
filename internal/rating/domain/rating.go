package domain

import (
	"errors"
	"time"
)

const (
	MinValue = 1
	MaxValue = 5
)

var ErrOutOfRange = errors.New("rating must be between 1 and 5")

// Rating is the single score one user gave one book.
type Rating struct {
	BookID    string
	UserID    string
	Value     int
	UpdatedAt time.Time
}

func NewRating(bookID, userID string, value int, at time.Time) (Rating, error) {
	if err := Validate(value); err != nil {
		return Rating{}, err
	}
	return Rating{BookID: bookID, UserID: userID, Value: value, UpdatedAt: at}, nil
}

func Validate(value int) error {
	if value < MinValue || value > MaxValue {
		return ErrOutOfRange
	}
	return nil
}

// Summary aggregates every rating currently on record for a book. Average is
// nil when there are no ratings.
type Summary struct {
	BookID  string   `json:"book_id"`
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

func NewSummary(bookID string, avg *float64, count int) Summary {
	if count == 0 {
		avg = nil
	}
	return Summary{BookID: bookID, Average: avg, Count: count}
}
