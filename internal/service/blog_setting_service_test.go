package service

import (
	"context"
	"testing"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogSettingCreatedLazilyOnce(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	first, err := svc.BlogSetting.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeSlate, first.ThemeColor)
	assert.Equal(t, model.LayoutLinear, first.LayoutStyle)

	second, err := svc.BlogSetting.GetOrCreate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.BlogSetting{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBlogSettingUpdate(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	u := createUser(t, db, "alice")

	_, err := svc.BlogSetting.Update(ctx, u.ID, &dto.BlogSettingRequest{ThemeColor: "pink", LayoutStyle: model.LayoutLinear})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "theme_color")

	s, err := svc.BlogSetting.Update(ctx, u.ID, &dto.BlogSettingRequest{
		BlogTitleJa: "日記", ThemeColor: model.ThemeForest, LayoutStyle: model.LayoutHeroTiles,
	})
	require.NoError(t, err)
	assert.Equal(t, "日記", s.DisplayTitle(model.LocaleJA))
	assert.Equal(t, "日記", s.DisplayTitle(model.LocaleEN))
	assert.Equal(t, model.ThemeForest, s.ThemeColor)
}
