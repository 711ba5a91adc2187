package generation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emb-project-gen-api/internal/application/generation"
	"emb-project-gen-api/internal/domain/entity"
	"emb-project-gen-api/internal/domain/service"
	"emb-project-gen-api/internal/workflow/prompt"
	"emb-project-gen-api/pkg/errors"
)

// fakeChatModel 可编程的模型桩
type fakeChatModel struct {
	calls  int
	apiKey string
	conv   service.Conversation

	result *service.GenerationResult
	err    error
}

func (f *fakeChatModel) Generate(_ context.Context, apiKey string, conv service.Conversation) (*service.GenerationResult, error) {
	f.calls++
	f.apiKey = apiKey
	f.conv = conv
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func successFake() *fakeChatModel {
	return &fakeChatModel{
		result: &service.GenerationResult{
			Text:  "# 智能灌溉项目设计方案",
			Usage: map[string]int{"input_tokens": 100, "output_tokens": 300},
			Model: "qwen-plus",
		},
	}
}

func TestGenerateMissingCredential(t *testing.T) {
	t.Parallel()

	fake := successFake()
	svc := generation.NewService(fake, prompt.VariantRich)

	_, err := svc.Generate(context.Background(), generation.Input{
		APIKey: "",
		Params: entity.ProjectParameters{Modules: []string{entity.ModuleDisplay}},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeMissingCredential, errors.AsAppError(err).Code)
	assert.Equal(t, "错误: 请先输入API密钥", generation.UserMessage(err))
	// 校验失败时绝不触达后端
	assert.Zero(t, fake.calls)
}

func TestGenerateNoModuleSelected(t *testing.T) {
	t.Parallel()

	fake := successFake()
	svc := generation.NewService(fake, prompt.VariantRich)

	_, err := svc.Generate(context.Background(), generation.Input{
		APIKey: "sk-test",
		Params: entity.ProjectParameters{Modules: nil, Theme: "任意主题"},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeNoModuleSelected, errors.AsAppError(err).Code)
	assert.Equal(t, "错误: 请至少选择一个项目模块", generation.UserMessage(err))
	assert.Zero(t, fake.calls)
}

func TestGenerateUnknownModule(t *testing.T) {
	t.Parallel()

	fake := successFake()
	svc := generation.NewService(fake, prompt.VariantRich)

	_, err := svc.Generate(context.Background(), generation.Input{
		APIKey: "sk-test",
		Params: entity.ProjectParameters{Modules: []string{"蜂鸣器"}},
	})
	require.Error(t, err)
	appErr := errors.AsAppError(err)
	assert.Equal(t, errors.CodeUnknownModule, appErr.Code)
	assert.Equal(t, "蜂鸣器", appErr.Detail)
	assert.True(t, strings.HasPrefix(generation.UserMessage(err), "错误: "))
	assert.Zero(t, fake.calls)
}

func TestGenerateSuccessRichVariant(t *testing.T) {
	t.Parallel()

	fake := successFake()
	svc := generation.NewService(fake, prompt.VariantRich)

	out, err := svc.Generate(context.Background(), generation.Input{
		APIKey: "sk-test",
		Params: entity.ProjectParameters{
			Modules:    []string{entity.ModuleMotor, entity.ModuleDisplay},
			Theme:      "智能灌溉",
			Complexity: entity.ComplexityMedium,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "# 智能灌溉项目设计方案", out.Content)
	assert.Equal(t, "qwen-plus", out.Model)
	assert.Equal(t, prompt.VariantRich, out.Variant)
	assert.Equal(t, 1, fake.calls, "exactly one backend call per action")
	assert.Equal(t, "sk-test", fake.apiKey)

	// 两条消息：系统设定 + 用户提示词
	require.Len(t, fake.conv, 2)
	assert.Equal(t, service.RoleSystem, fake.conv[0].Role)
	assert.Equal(t, prompt.SystemPersona, fake.conv[0].Content)
	assert.Equal(t, service.RoleUser, fake.conv[1].Role)

	promptText := fake.conv[1].Content
	assert.Contains(t, promptText, "简单转子马达")
	assert.Contains(t, promptText, "不需要分配显示屏的引脚")
	// "灌溉" 命中农业类别，模式模板进入提示词
	assert.Contains(t, promptText, "自动灌溉")
}

func TestGenerateDefaultVariantApplied(t *testing.T) {
	t.Parallel()

	fake := successFake()
	svc := generation.NewService(fake, prompt.VariantBasic)

	out, err := svc.Generate(context.Background(), generation.Input{
		APIKey: "sk-test",
		Params: entity.ProjectParameters{
			Modules: []string{entity.ModuleSensor},
			Theme:   "智能灌溉",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, prompt.VariantBasic, out.Variant)
	// basic 变体不插入工作模式模板
	assert.NotContains(t, fake.conv[1].Content, "##### 工作模式")
}

func TestGenerateBackendStatusError(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{
		err: errors.New(errors.CodeLLMStatusError, "调用模型时发生错误").
			WithDetail("API Error (500): internal error"),
	}
	svc := generation.NewService(fake, prompt.VariantRich)

	_, err := svc.Generate(context.Background(), generation.Input{
		APIKey: "sk-test",
		Params: entity.ProjectParameters{Modules: []string{entity.ModuleSensor}, Theme: "环境监测"},
	})
	require.Error(t, err)

	msg := generation.UserMessage(err)
	assert.True(t, strings.HasPrefix(msg, "生成失败: "), "got %q", msg)
	assert.Contains(t, msg, "API Error (500)")
	assert.Contains(t, msg, "internal error")
}

func TestGenerateBackendShapeErrorDistinct(t *testing.T) {
	t.Parallel()

	statusFake := &fakeChatModel{
		err: errors.New(errors.CodeLLMStatusError, "调用模型时发生错误").
			WithDetail("API Error (500): internal error"),
	}
	shapeFake := &fakeChatModel{
		err: errors.New(errors.CodeLLMShapeError, "调用模型时发生错误").
			WithDetail("无法从 API 响应中提取生成的文本内容"),
	}

	input := generation.Input{
		APIKey: "sk-test",
		Params: entity.ProjectParameters{Modules: []string{entity.ModuleSensor}, Theme: "环境监测"},
	}

	_, statusErr := generation.NewService(statusFake, prompt.VariantRich).Generate(context.Background(), input)
	_, shapeErr := generation.NewService(shapeFake, prompt.VariantRich).Generate(context.Background(), input)
	require.Error(t, statusErr)
	require.Error(t, shapeErr)

	statusMsg := generation.UserMessage(statusErr)
	shapeMsg := generation.UserMessage(shapeErr)
	assert.True(t, strings.HasPrefix(shapeMsg, "生成失败: "))
	assert.NotEqual(t, statusMsg, shapeMsg, "status and shape failures must be distinguishable")
	assert.Contains(t, shapeMsg, "无法从 API 响应中提取生成的文本内容")
}

func TestGenerateNoRetryOnFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{
		err: errors.New(errors.CodeLLMTransportError, "调用模型时发生错误").
			WithDetail("API 调用无响应，请检查网络连接和API密钥"),
	}
	svc := generation.NewService(fake, prompt.VariantRich)

	_, err := svc.Generate(context.Background(), generation.Input{
		APIKey: "sk-test",
		Params: entity.ProjectParameters{Modules: []string{entity.ModuleSensor}, Theme: "环境监测"},
	})
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls, "failed calls are reported, never retried")
}
