package domain

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmpty = errors.New("comment text is empty")

// Comment is append-only once stored.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment trims text and stamps the comment with a fresh id. CreatedAt is
// kept at microsecond precision so it survives a round trip through storage.
func NewComment(bookID, userID, text string, at time.Time) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, ErrEmpty
	}
	return Comment{
		ID:        uuid.New(),
		BookID:    bookID,
		UserID:    userID,
		Text:      text,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
	}, nil
}

// SortChronological orders comments oldest first. Equal timestamps keep their
// incoming order.
func SortChronological(cs []Comment) {
	slices.SortStableFunc(cs, func(a, b Comment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
