package service

import (
	"context"
	"testing"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationLocaleAndOwnerAreForced(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	original := createArticle(t, svc, u.ID, published("原文", model.LocaleJA))

	translation, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{
		Title:   "Original",
		Content: "body",
		Locale:  model.LocaleJA,
	})
	require.NoError(t, err)
	assert.Equal(t, model.LocaleEN, translation.Locale)
	assert.Equal(t, u.ID, translation.UserID)
	require.NotNil(t, translation.OriginalArticleID)
	assert.Equal(t, original.ID, *translation.OriginalArticleID)

	got, err := svc.Article.GetOwned(ctx, u.ID, original.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Translation)
	assert.Equal(t, translation.ID, got.Translation.ID)
}

func TestSecondTranslationConflicts(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	original := createArticle(t, svc, u.ID, published("原文", model.LocaleJA))

	first, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "First", Content: "a"})
	require.NoError(t, err)

	_, err = svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "Second", Content: "b"})
	assert.ErrorIs(t, err, ErrTranslationExists)

	_, err = svc.Translation.Draft(ctx, u.ID, original.ID)
	assert.ErrorIs(t, err, ErrTranslationExists)

	got, err := svc.Translation.Get(ctx, u.ID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "First", got.Title)

	var count int64
	require.NoError(t, db.Model(&model.Article{}).Where("original_article_id = ?", original.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTranslationOfTranslationIsRejected(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	original := createArticle(t, svc, u.ID, published("原文", model.LocaleJA))
	translation, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "T", Content: "a"})
	require.NoError(t, err)

	_, err = svc.Translation.Create(ctx, u.ID, translation.ID, &dto.TranslationRequest{Title: "TT", Content: "b"})
	_, ok := IsValidation(err)
	assert.True(t, ok)
}

func TestTranslationOfOtherUserIsNotFound(t *testing.T) {
	svc, db := newTestServices(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	original := createArticle(t, svc, alice.ID, published("原文", model.LocaleJA))

	_, err := svc.Translation.Create(context.Background(), bob.ID, original.ID, &dto.TranslationRequest{Title: "T", Content: "a"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslationDraftPrefill(t *testing.T) {
	svc, db := newTestServices(t)
	u := createUser(t, db, "alice")
	req := published("原文", model.LocaleEN)
	req.TagList = "go, web"
	original := createArticle(t, svc, u.ID, req)

	draft, err := svc.Translation.Draft(context.Background(), u.ID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LocaleJA, draft.Locale)
	assert.Equal(t, "原文", draft.Title)
	assert.ElementsMatch(t, []string{"go", "web"}, ParseTagNames(draft.TagList))
}

func TestDeleteTranslationKeepsOriginal(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	original := createArticle(t, svc, u.ID, published("原文", model.LocaleJA))
	_, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "T", Content: "a"})
	require.NoError(t, err)

	require.NoError(t, svc.Translation.Delete(ctx, u.ID, original.ID))

	got, err := svc.Article.GetOwned(ctx, u.ID, original.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Translation)

	// 删除后可以重新翻译
	_, err = svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "T2", Content: "b"})
	assert.NoError(t, err)
}

func TestUpdateTranslationKeepsLocale(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	original := createArticle(t, svc, u.ID, published("原文", model.LocaleJA))
	_, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "T", Content: "a"})
	require.NoError(t, err)

	updated, err := svc.Translation.Update(ctx, u.ID, original.ID, &dto.TranslationRequest{
		Title: "Updated", Content: "b", Locale: model.LocaleJA, Status: model.ArticleStatusPublished,
	})
	require.NoError(t, err)
	assert.Equal(t, model.LocaleEN, updated.Locale)
	assert.Equal(t, "Updated", updated.Title)
	assert.NotNil(t, updated.PublishedAt)
}
