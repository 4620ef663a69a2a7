package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(articles []model.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Title)
	}
	return out
}

func TestListShowsPublishedInLocaleNewestFirst(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	other := createUser(t, db, "bob")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.Article.now = func() time.Time { return at }
		createArticle(t, svc, u.ID, published(fmt.Sprintf("ja-%d", i), model.LocaleJA))
	}
	createArticle(t, svc, u.ID, published("en", model.LocaleEN))
	createArticle(t, svc, u.ID, dto.ArticleRequest{Title: "draft", Content: "x", Locale: model.LocaleJA})
	createArticle(t, svc, other.ID, published("bob", model.LocaleJA))

	page, err := svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleJA})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, []string{"ja-2", "ja-1", "ja-0"}, titles(page.Articles))
}

func TestListPagination(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.Article.now = func() time.Time { return at }
		createArticle(t, svc, u.ID, published(fmt.Sprintf("a-%02d", i), model.LocaleEN))
	}

	first, err := svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleEN, Page: 1})
	require.NoError(t, err)
	assert.Len(t, first.Articles, PublicPageSize)
	assert.EqualValues(t, 12, first.Total)
	assert.Equal(t, "a-11", first.Articles[0].Title)

	second, err := svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleEN, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"a-01", "a-00"}, titles(second.Articles))

	beyond, err := svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleEN, Page: 5})
	require.NoError(t, err)
	assert.Empty(t, beyond.Articles)
	assert.EqualValues(t, 12, beyond.Total)
}

func TestListFiltersByCategoryAndTag(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	other := createUser(t, db, "bob")

	cat, err := svc.Category.Create(ctx, u.ID, &dto.CategoryRequest{Name: "Tech", Locale: model.LocaleJA})
	require.NoError(t, err)

	withCat := published("with-cat", model.LocaleJA)
	withCat.CategoryID = &cat.ID
	createArticle(t, svc, u.ID, withCat)

	tagged := published("tagged", model.LocaleJA)
	tagged.TagList = "go"
	createArticle(t, svc, u.ID, tagged)
	createArticle(t, svc, u.ID, published("plain", model.LocaleJA))

	foreign := published("foreign", model.LocaleJA)
	foreign.TagList = "go"
	createArticle(t, svc, other.ID, foreign)

	page, err := svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleJA, CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"with-cat"}, titles(page.Articles))

	var tag model.Tag
	require.NoError(t, db.Where("user_id = ? AND name = ?", u.ID, "go").First(&tag).Error)
	page, err = svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleJA, TagID: &tag.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"tagged"}, titles(page.Articles))

	// 其他用户的标签不匹配任何文章
	var foreignTag model.Tag
	require.NoError(t, db.Where("user_id = ? AND name = ?", other.ID, "go").First(&foreignTag).Error)
	page, err = svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleJA, TagID: &foreignTag.ID})
	require.NoError(t, err)
	assert.Empty(t, page.Articles)

	current, err := svc.Query.CurrentTag(ctx, u.ID, &foreignTag.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
	currentCat, err := svc.Query.CurrentCategory(ctx, u.ID, model.LocaleJA, &cat.ID)
	require.NoError(t, err)
	require.NotNil(t, currentCat)
	assert.Equal(t, "Tech", currentCat.Name)
}

func TestListWithoutUserIsEmpty(t *testing.T) {
	svc, _ := newTestServices(t)
	page, err := svc.Query.List(context.Background(), ArticleFilter{Locale: model.LocaleJA})
	require.NoError(t, err)
	assert.Empty(t, page.Articles)
	assert.Zero(t, page.Total)
}

func TestListAttachesTranslation(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	original := createArticle(t, svc, u.ID, published("原文", model.LocaleJA))
	translation, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{
		Title: "Translated", Content: "x", Status: model.ArticleStatusPublished,
	})
	require.NoError(t, err)

	page, err := svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleJA})
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	require.NotNil(t, page.Articles[0].Translation)
	assert.Equal(t, translation.ID, page.Articles[0].Translation.ID)
}

func TestDashboardListsOriginalsOnly(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")
	original := createArticle(t, svc, u.ID, published("原文", model.LocaleJA))
	createArticle(t, svc, u.ID, dto.ArticleRequest{Title: "draft", Content: "x", Locale: model.LocaleEN})
	_, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{Title: "T", Content: "x"})
	require.NoError(t, err)

	page, err := svc.Article.ListDashboard(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, []string{"原文", "draft"}, titles(page.Articles))
	require.NotNil(t, page.Articles[0].Translation)
}

func TestListHidesDraftTranslation(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	original := createArticle(t, svc, u.ID, published("日本語", model.LocaleJA))
	_, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{
		Title: "draft english", Content: "x",
	})
	require.NoError(t, err)

	page, err := svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleJA})
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	assert.Nil(t, page.Articles[0].Translation)
	assert.Nil(t, dto.ToArticleListItem(&page.Articles[0]).Translation)

	// 后台仍能看到草稿译文
	dash, err := svc.Article.ListDashboard(ctx, u.ID, 1)
	require.NoError(t, err)
	require.Len(t, dash.Articles, 1)
	require.NotNil(t, dash.Articles[0].Translation)
	assert.Equal(t, model.ArticleStatusDraft, dash.Articles[0].Translation.Status)
}

func TestListShowsPublishedTranslation(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	original := createArticle(t, svc, u.ID, published("日本語", model.LocaleJA))
	tr, err := svc.Translation.Create(ctx, u.ID, original.ID, &dto.TranslationRequest{
		Title: "english", Content: "x", Status: model.ArticleStatusPublished,
	})
	require.NoError(t, err)

	page, err := svc.Query.List(ctx, ArticleFilter{UserID: u.ID, Locale: model.LocaleJA})
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	require.NotNil(t, page.Articles[0].Translation)
	assert.Equal(t, tr.ID, page.Articles[0].Translation.ID)
}
