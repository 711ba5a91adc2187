package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectModeTemplateKnownCategories(t *testing.T) {
	t.Parallel()

	cases := []struct {
		theme    string
		category string
	}{
		{"智能流水线", "流水线"},
		{"车间传送带控制", "流水线"},
		{"全自动洗衣机", "洗衣机"},
		{"零件清洗装置", "洗衣机"},
		{"地铁售票机", "售票"},
		{"景区检票闸机", "售票"},
		{"四层电梯控制", "电梯"},
		{"货物升降平台", "电梯"},
		{"智能家居中控", "智能家居"},
		{"智能灌溉", "农业"},
		{"大棚种植监控", "农业"},
		{"智能停车场", "停车"},
		{"车位引导系统", "停车"},
		{"道路照明控制", "照明"},
		{"智慧路灯", "照明"},
	}

	for _, tc := range cases {
		tpl := SelectModeTemplate(tc.theme)
		assert.Equal(t, tc.category, tpl.Category, "theme %q", tc.theme)
		assert.NotEmpty(t, tpl.Modes, "theme %q", tc.theme)
		assert.NotEmpty(t, tpl.WorkControl, "theme %q", tc.theme)
	}
}

func TestSelectModeTemplateKeywordPositionAndCase(t *testing.T) {
	t.Parallel()

	// 关键字出现在任意位置均应命中
	assert.Equal(t, "农业", SelectModeTemplate("基于物联网的智能灌溉监控系统").Category)
	// 英文部分大小写不影响匹配
	assert.Equal(t, "农业", SelectModeTemplate("SMART灌溉Platform").Category)
}

func TestSelectModeTemplateFallback(t *testing.T) {
	t.Parallel()

	tpl := SelectModeTemplate("环境监测站")
	assert.Equal(t, "通用", tpl.Category)
	require.Len(t, tpl.Modes, 2)
	assert.Equal(t, "手动模式", tpl.Modes[0].Name)
	assert.Equal(t, "自动模式", tpl.Modes[1].Name)
}

func TestSelectModeTemplateOrderTieBreak(t *testing.T) {
	t.Parallel()

	// 同时命中流水线与农业时，先列出的流水线类别生效
	tpl := SelectModeTemplate("流水线式灌溉装置")
	assert.Equal(t, "流水线", tpl.Category)
}

func TestSelectModeTemplateDeterministic(t *testing.T) {
	t.Parallel()

	a := SelectModeTemplate("智能灌溉")
	b := SelectModeTemplate("智能灌溉")
	assert.Equal(t, a.Render(), b.Render())
}

func TestModeTemplateRenderUsesOnlyFixedIdentifiers(t *testing.T) {
	t.Parallel()

	themes := []string{"智能流水线", "洗衣机", "售票", "电梯", "智能家居", "灌溉", "停车", "照明", "其他"}
	for _, theme := range themes {
		text := SelectModeTemplate(theme).Render()
		// 模板只允许引用预定义按键与指示灯
		for _, id := range []string{"key2", "key3", "key_down", "LED2", "LED3"} {
			assert.NotContains(t, text, id, "theme %q", theme)
		}
		assert.True(t,
			strings.Contains(text, "key0") || strings.Contains(text, "key1") || strings.Contains(text, "key_up"),
			"theme %q template should reference predefined keys", theme)
	}
}
