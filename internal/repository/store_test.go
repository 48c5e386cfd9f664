package repository

import (
	"context"
	"testing"

	"blogadmin/internal/apperr"
	"blogadmin/internal/db"
	"blogadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentStore(t *testing.T) *Store[models.Comment] {
	t.Helper()
	conn, err := db.OpenMemory()
	require.NoError(t, err)
	return NewStore[models.Comment](conn, "comment")
}

func TestStoreQuery(t *testing.T) {
	ctx := context.Background()
	s := newCommentStore(t)

	parent := models.Comment{Name: "alice", Email: "a@x.com", Content: "hello world", Status: "1"}
	require.NoError(t, s.Create(ctx, &parent))
	for _, c := range []models.Comment{
		{Name: "bob", Email: "b@x.com", Content: "first reply", Status: "1", ParentID: &parent.ID},
		{Name: "carol", Email: "c@x.com", Content: "pending", Status: "0"},
	} {
		c := c
		require.NoError(t, s.Create(ctx, &c))
	}

	top, err := s.Find(ctx, Query{}.IsNull("parent_id").OrderBy("id", false))
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].Name)

	liked, err := s.Find(ctx, Query{}.Like("content", "reply"))
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "bob", liked[0].Name)

	n, err := s.Count(ctx, Query{}.Eq("status", "1").Page(1, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "count ignores the window")

	windowed, err := s.Find(ctx, Query{}.OrderBy("id", true).Page(1, 1))
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, "bob", windowed[0].Name)
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newCommentStore(t)

	_, err := s.FindByID(ctx, 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.First(ctx, Query{}.Eq("name", "nobody"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStoreFindByIDsSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	s := newCommentStore(t)

	c := models.Comment{Name: "dave", Email: "d@x.com", Content: "hi"}
	require.NoError(t, s.Create(ctx, &c))

	found, err := s.FindByIDs(ctx, []uint{c.ID, c.ID + 100})
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, s.DeleteMany(ctx, found))
	_, err = s.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestQueryBuildersCopy(t *testing.T) {
	base := Query{}.Eq("status", "1")
	a := base.Like("name", "a")
	b := base.Like("name", "b")

	assert.Len(t, base.Filters, 1)
	assert.Equal(t, "a", a.Filters[1].Value)
	assert.Equal(t, "b", b.Filters[1].Value)
	assert.Empty(t, a.Page(10, 5).Unpaged().SortKey)
}
