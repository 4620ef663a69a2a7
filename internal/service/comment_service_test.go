package service

import (
	"context"
	"testing"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentWebsiteMustBeHTTPURL(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	a := createArticle(t, svc, u.ID, published("A", model.LocaleJA))

	for _, site := range []string{"ftp://example.com", "javascript:alert(1)", "example"} {
		_, err := svc.Comment.Create(ctx, u.ID, model.LocaleJA, a.ID, &dto.CommentCreateRequest{
			AuthorName: "reader", Content: "hi", Website: site,
		})
		ve, ok := IsValidation(err)
		require.True(t, ok, site)
		assert.Contains(t, ve.Fields, "website")
	}

	c, err := svc.Comment.Create(ctx, u.ID, model.LocaleJA, a.ID, &dto.CommentCreateRequest{
		AuthorName: "reader", Content: "hi", Website: "https://example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", c.Website)

	_, err = svc.Comment.Create(ctx, u.ID, model.LocaleJA, a.ID, &dto.CommentCreateRequest{AuthorName: "reader", Content: "  "})
	_, ok := IsValidation(err)
	assert.True(t, ok)
}

func TestCommentRequiresPublishedArticleInLocale(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	draft := createArticle(t, svc, u.ID, dto.ArticleRequest{Title: "d", Content: "x", Locale: model.LocaleJA})
	a := createArticle(t, svc, u.ID, published("A", model.LocaleJA))
	req := &dto.CommentCreateRequest{AuthorName: "reader", Content: "hi"}

	_, err := svc.Comment.Create(ctx, u.ID, model.LocaleJA, draft.ID, req)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Comment.Create(ctx, u.ID, model.LocaleEN, a.ID, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnerCommentsAreScoped(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	a := createArticle(t, svc, alice.ID, published("A", model.LocaleJA))
	b := createArticle(t, svc, bob.ID, published("B", model.LocaleJA))

	ca, err := svc.Comment.Create(ctx, alice.ID, model.LocaleJA, a.ID, &dto.CommentCreateRequest{AuthorName: "r", Content: "1"})
	require.NoError(t, err)
	cb, err := svc.Comment.Create(ctx, bob.ID, model.LocaleJA, b.ID, &dto.CommentCreateRequest{AuthorName: "r", Content: "2"})
	require.NoError(t, err)

	list, total, _, err := svc.Comment.ListForOwner(ctx, alice.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, ca.ID, list[0].ID)

	assert.ErrorIs(t, svc.Comment.Delete(ctx, alice.ID, cb.ID), ErrNotFound)
	require.NoError(t, svc.Comment.Delete(ctx, alice.ID, ca.ID))

	comments, err := svc.Comment.ListForArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
