package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCategories(t *testing.T) {
	cats := GetCategories()
	assert.Len(t, cats, 17)

	// 各科目は2〜9件のサブ科目を持つ
	for _, c := range cats {
		assert.GreaterOrEqual(t, len(c.Subcategories), 2, c.Name)
		assert.LessOrEqual(t, len(c.Subcategories), 9, c.Name)
	}
}

func TestSubcategoriesOf(t *testing.T) {
	// 旅費は固定の5択
	subs, ok := SubcategoriesOf("旅費")
	require.True(t, ok)
	assert.Equal(t, []string{"電車", "バス", "タクシー", "航空券", "宿泊費"}, subs)

	// 存在しない科目
	_, ok = SubcategoriesOf("存在しない科目")
	assert.False(t, ok)
}

func TestIsValidSubcategory(t *testing.T) {
	assert.True(t, IsValidSubcategory("旅費", "電車"))
	assert.True(t, IsValidSubcategory("消耗品費", "文房具"))

	// 別の科目のサブ科目は無効
	assert.False(t, IsValidSubcategory("消耗品費", "電車"))

	// 空のサブ科目は常に有効
	assert.True(t, IsValidSubcategory("旅費", ""))
	assert.True(t, IsValidSubcategory("", ""))

	// 存在しない科目に対する非空サブ科目は無効
	assert.False(t, IsValidSubcategory("架空", "電車"))
}
