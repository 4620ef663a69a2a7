package service

import (
	"context"
	"testing"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryNameUniquePerLocale(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	_, err := svc.Category.Create(ctx, u.ID, &dto.CategoryRequest{Name: "Tech", Locale: model.LocaleJA})
	require.NoError(t, err)
	_, err = svc.Category.Create(ctx, u.ID, &dto.CategoryRequest{Name: "Tech", Locale: model.LocaleEN})
	require.NoError(t, err)

	_, err = svc.Category.Create(ctx, u.ID, &dto.CategoryRequest{Name: "Tech", Locale: model.LocaleJA})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")
}

func TestDeleteCategoryKeepsArticles(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	cat, err := svc.Category.Create(ctx, u.ID, &dto.CategoryRequest{Name: "Tech", Locale: model.LocaleJA})
	require.NoError(t, err)
	req := published("A", model.LocaleJA)
	req.CategoryID = &cat.ID
	a := createArticle(t, svc, u.ID, req)

	list, err := svc.Category.List(ctx, u.ID, model.LocaleJA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].ArticleCount)

	require.NoError(t, svc.Category.Delete(ctx, u.ID, cat.ID))

	got, err := svc.Article.GetOwned(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestCategoryLocaleLockedWithArticles(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	cat, err := svc.Category.Create(ctx, u.ID, &dto.CategoryRequest{Name: "Tech", Locale: model.LocaleJA})
	require.NoError(t, err)
	req := published("A", model.LocaleJA)
	req.CategoryID = &cat.ID
	createArticle(t, svc, u.ID, req)

	_, err = svc.Category.Update(ctx, u.ID, cat.ID, &dto.CategoryRequest{Name: "Tech", Locale: model.LocaleEN})
	_, ok := IsValidation(err)
	assert.True(t, ok)

	updated, err := svc.Category.Update(ctx, u.ID, cat.ID, &dto.CategoryRequest{Name: "Technology", Locale: model.LocaleJA})
	require.NoError(t, err)
	assert.Equal(t, "Technology", updated.Name)
	assert.EqualValues(t, 1, updated.ArticleCount)
}

func TestCategoryOfOtherUserIsNotFound(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	cat, err := svc.Category.Create(ctx, alice.ID, &dto.CategoryRequest{Name: "Tech", Locale: model.LocaleJA})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Category.Delete(ctx, bob.ID, cat.ID), ErrNotFound)
}
