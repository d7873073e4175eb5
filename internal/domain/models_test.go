package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSetToggleTwiceIsIdentity(t *testing.T) {
	start := NewFilterSet(CategoryRumors, CategoryPhone)
	for _, c := range Categories() {
		assert.Equal(t, start, start.Toggle(c).Toggle(c), "toggling %s twice", c)
	}
}

func TestFilterSetToggle(t *testing.T) {
	var f FilterSet
	require.True(t, f.IsEmpty())

	f = f.Toggle(CategoryDates)
	assert.True(t, f.Has(CategoryDates))
	assert.Equal(t, 1, f.Len())

	f = f.Toggle(CategoryMainStory)
	assert.Equal(t, []Category{CategoryMainStory, CategoryDates}, f.Categories())
	assert.Equal(t, "主线剧情,约会剧情", f.String())

	f = f.Toggle(CategoryDates)
	assert.False(t, f.Has(CategoryDates))
	assert.Equal(t, 1, f.Len())
}

func TestFilterSetIgnoresInvalidCategory(t *testing.T) {
	f := NewFilterSet(CategoryRumors)
	assert.Equal(t, f, f.Toggle(Category(0)))
	assert.Equal(t, f, f.Toggle(Category(42)))
	assert.False(t, f.Has(Category(42)))
}

func TestParseFilterSet(t *testing.T) {
	f, err := ParseFilterSet(" 逆闻 ,,手机剧情")
	require.NoError(t, err)
	assert.Equal(t, NewFilterSet(CategoryRumors, CategoryPhone), f)

	empty, err := ParseFilterSet("")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = ParseFilterSet("逆闻,思念")
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "世界之外", CategoryOtherWorld.String())
	assert.Equal(t, "Category(9)", Category(9).String())

	c, err := ParseCategory("约会剧情")
	require.NoError(t, err)
	assert.Equal(t, CategoryDates, c)
}

func TestResolveCardType(t *testing.T) {
	typ, err := ResolveCardType("  ")
	require.NoError(t, err)
	assert.Equal(t, DefaultCardType, typ)

	typ, err = ResolveCardType("逆闻")
	require.NoError(t, err)
	assert.Equal(t, "逆闻", typ)

	_, err = ResolveCardType("随笔")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
