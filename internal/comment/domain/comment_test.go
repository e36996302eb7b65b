package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommentTrims(t *testing.T) {
	c, err := NewComment("b1", "u1", "  loved it \n", time.Unix(10, 1234567))
	require.NoError(t, err)
	assert.Equal(t, "loved it", c.Text)
	assert.NotEqual(t, [16]byte{}, [16]byte(c.ID))
	assert.Equal(t, time.Unix(10, 1234000).UTC(), c.CreatedAt)

	_, err = NewComment("b1", "u1", " \t\n ", time.Now())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSortChronologicalIsStable(t *testing.T) {
	t1 := time.Unix(1, 0)
	t2 := time.Unix(2, 0)
	cs := []Comment{
		{Text: "late", CreatedAt: t2},
		{Text: "first", CreatedAt: t1},
		{Text: "second", CreatedAt: t1},
	}
	SortChronological(cs)
	assert.Equal(t, []string{"first", "second", "late"}, []string{cs[0].Text, cs[1].Text, cs[2].Text})
}
