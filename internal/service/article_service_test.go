package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArticleResolvesTags(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	req := published("Hello", model.LocaleEN)
	req.TagList = "Ruby, rails  python"
	a := createArticle(t, svc, u.ID, req)

	got, err := svc.Article.GetOwned(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ruby", "rails", "python"}, got.TagNames())

	// 再次编辑时整体替换
	req.TagList = "go, RUBY"
	_, err = svc.Article.Update(ctx, u.ID, a.ID, &req)
	require.NoError(t, err)
	got, err = svc.Article.GetOwned(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "ruby"}, got.TagNames())

	var count int64
	require.NoError(t, db.Model(&model.Tag{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestBlankTagTextKeepsTags(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	req := published("Hello", model.LocaleEN)
	req.TagList = "go"
	a := createArticle(t, svc, u.ID, req)

	req.TagList = "   "
	_, err := svc.Article.Update(ctx, u.ID, a.ID, &req)
	require.NoError(t, err)
	got, err := svc.Article.GetOwned(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.TagNames())

	req.TagList = ","
	_, err = svc.Article.Update(ctx, u.ID, a.ID, &req)
	require.NoError(t, err)
	got, err = svc.Article.GetOwned(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestTagsAreScopedPerUser(t *testing.T) {
	svc, db := newTestServices(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req := published("A", model.LocaleJA)
	req.TagList = "go"
	createArticle(t, svc, alice.ID, req)
	createArticle(t, svc, bob.ID, req)

	var count int64
	require.NoError(t, db.Model(&model.Tag{}).Where("name = ?", "go").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateArticleValidation(t *testing.T) {
	svc, db := newTestServices(t)
	u := createUser(t, db, "alice")

	_, err := svc.Article.Create(context.Background(), u.ID, &dto.ArticleRequest{Content: "x", Locale: "fr"})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "title")
	assert.Contains(t, ve.Fields, "locale")

	var count int64
	require.NoError(t, db.Model(&model.Article{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateArticleRejectsForeignCategory(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	cat, err := svc.Category.Create(ctx, bob.ID, &dto.CategoryRequest{Name: "Go", Locale: model.LocaleJA})
	require.NoError(t, err)

	req := published("A", model.LocaleJA)
	req.CategoryID = &cat.ID
	_, err = svc.Article.Create(ctx, alice.ID, &req)
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "category_id")

	// 语言不一致
	own, err := svc.Category.Create(ctx, alice.ID, &dto.CategoryRequest{Name: "Go", Locale: model.LocaleEN})
	require.NoError(t, err)
	req.CategoryID = &own.ID
	_, err = svc.Article.Create(ctx, alice.ID, &req)
	_, ok = IsValidation(err)
	assert.True(t, ok)
}

func TestPublishedAtIsSetOnce(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.Article.now = func() time.Time { return first }

	req := dto.ArticleRequest{Title: "Draft", Content: "x", Locale: model.LocaleJA}
	a := createArticle(t, svc, u.ID, req)
	assert.Nil(t, a.PublishedAt)

	req.Status = model.ArticleStatusPublished
	a, err := svc.Article.Update(ctx, u.ID, a.ID, &req)
	require.NoError(t, err)
	require.NotNil(t, a.PublishedAt)
	assert.True(t, first.Equal(*a.PublishedAt))

	svc.Article.now = func() time.Time { return first.Add(48 * time.Hour) }
	req.Status = model.ArticleStatusDraft
	_, err = svc.Article.Update(ctx, u.ID, a.ID, &req)
	require.NoError(t, err)
	req.Status = model.ArticleStatusPublished
	a, err = svc.Article.Update(ctx, u.ID, a.ID, &req)
	require.NoError(t, err)
	assert.True(t, first.Equal(*a.PublishedAt))
}

func TestOtherUsersArticleIsNotFound(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	a := createArticle(t, svc, alice.ID, published("A", model.LocaleJA))

	_, err := svc.Article.GetOwned(ctx, bob.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	req := published("B", model.LocaleJA)
	_, err = svc.Article.Update(ctx, bob.ID, a.ID, &req)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Article.Delete(ctx, bob.ID, a.ID), ErrNotFound)
}

func TestDeleteOriginalCascades(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	req := published("Original", model.LocaleJA)
	req.TagList = "go"
	original := createArticle(t, svc, u.ID, req)
	translation, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{
		Title: "Translated", Content: "x", Status: model.ArticleStatusPublished,
	})
	require.NoError(t, err)
	_, err = svc.Comment.Create(ctx, u.ID, model.LocaleJA, original.ID, &dto.CommentCreateRequest{AuthorName: "r", Content: "nice"})
	require.NoError(t, err)
	_, err = svc.Comment.Create(ctx, u.ID, model.LocaleEN, translation.ID, &dto.CommentCreateRequest{AuthorName: "r", Content: "good"})
	require.NoError(t, err)

	require.NoError(t, svc.Article.Delete(ctx, u.ID, original.ID))

	for _, m := range []interface{}{&model.Article{}, &model.Comment{}, &model.ArticleTag{}} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
	// 标签本身保留
	var tags int64
	require.NoError(t, db.Model(&model.Tag{}).Count(&tags).Error)
	assert.EqualValues(t, 1, tags)
}

func TestLocaleLockedWhenPaired(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	original := createArticle(t, svc, u.ID, published("Original", model.LocaleJA))
	_, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "T", Content: "x"})
	require.NoError(t, err)

	req := published("Original", model.LocaleEN)
	_, err = svc.Article.Update(ctx, u.ID, original.ID, &req)
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "locale")
}

func TestGetPublicRequiresPublishedAndLocale(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	a := createArticle(t, svc, u.ID, published("Hello", model.LocaleEN))
	draft := createArticle(t, svc, u.ID, dto.ArticleRequest{Title: "Draft", Content: "x", Locale: model.LocaleEN})

	got, err := svc.Article.GetPublic(ctx, u.ID, model.LocaleEN, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	_, err = svc.Article.GetPublic(ctx, u.ID, model.LocaleJA, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Article.GetPublic(ctx, u.ID, model.LocaleEN, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPublicHidesDraftTranslation(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	original := createArticle(t, svc, u.ID, published("Original", model.LocaleJA))
	_, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "T", Content: "x"})
	require.NoError(t, err)

	got, err := svc.Article.GetPublic(ctx, u.ID, model.LocaleJA, original.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Translation)
}

func TestExportMarkdown(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	svc.Article.now = func() time.Time { return time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC) }

	req := published("Go & Rails: 入門", model.LocaleJA)
	req.Content = "## 見出し"
	req.TagList = "go"
	a := createArticle(t, svc, u.ID, req)

	filename, body, err := svc.Article.Export(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go_Rails_入門_ja.md", filename)

	text := string(body)
	assert.True(t, strings.HasPrefix(text, "# Go & Rails: 入門\n"))
	assert.Contains(t, text, "**カテゴリ**: 未設定")
	assert.Contains(t, text, "**タグ**: go")
	assert.Contains(t, text, "**投稿日**: 2024年05月06日")
	assert.True(t, strings.HasSuffix(text, "---\n\n## 見出し"))
}

func TestPreviewRendersMarkdown(t *testing.T) {
	svc, _ := newTestServices(t)
	html, err := svc.Article.Preview("**bold**")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>bold</strong>")
}
