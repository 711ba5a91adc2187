// Package generation 提供设计方案生成编排服务
package generation

import (
	"context"
	"strings"
	"time"

	"emb-project-gen-api/internal/domain/entity"
	"emb-project-gen-api/internal/domain/service"
	"emb-project-gen-api/internal/workflow/prompt"
	"emb-project-gen-api/pkg/errors"
	"emb-project-gen-api/pkg/logger"
	"emb-project-gen-api/pkg/metrics"
	"emb-project-gen-api/pkg/tracer"
)

// Input 一次生成请求的输入
type Input struct {
	// APIKey DashScope 凭证，仅在本次调用内持有，不落盘不打日志
	APIKey string
	// Params 用户选择的项目参数
	Params entity.ProjectParameters
	// Variant 提示词变体，空值时使用服务默认变体
	Variant prompt.Variant
}

// Output 一次生成请求的结果
type Output struct {
	// Content 模型生成的设计方案文本（markdown）
	Content string
	// Model 实际调用的模型标识
	Model string
	// Usage token 用量统计
	Usage map[string]int
	// Variant 实际使用的提示词变体
	Variant prompt.Variant
}

// Service 生成编排服务：校验 -> 组装提示词 -> 调用模型 -> 返回结果
// 每次用户动作只发起一次外部调用，失败即报告，不做重试
type Service struct {
	chatModel      service.ChatModel
	defaultVariant prompt.Variant
}

// NewService 创建生成编排服务
func NewService(chatModel service.ChatModel, defaultVariant prompt.Variant) *Service {
	if _, ok := prompt.ParseVariant(string(defaultVariant)); !ok {
		defaultVariant = prompt.VariantRich
	}
	return &Service{
		chatModel:      chatModel,
		defaultVariant: defaultVariant,
	}
}

// Generate 执行一次完整的生成流程
// 校验失败时立即返回，绝不触达模型后端
func (s *Service) Generate(ctx context.Context, in Input) (*Output, error) {
	ctx, span := tracer.Start(ctx, "generation.Generate")
	defer span.End()

	if err := validate(in); err != nil {
		return nil, err
	}

	variant := in.Variant
	if variant == "" {
		variant = s.defaultVariant
	}

	promptText := prompt.Compose(in.Params, prompt.OptionsFor(variant))
	metrics.PromptLength.WithLabelValues(string(variant)).Observe(float64(len([]rune(promptText))))

	logger.Info(ctx, "project generation started",
		"variant", string(variant),
		"modules", len(in.Params.Modules),
		"theme", in.Params.Theme,
	)

	conv := service.Conversation{
		{Role: service.RoleSystem, Content: prompt.SystemPersona},
		{Role: service.RoleUser, Content: promptText},
	}

	start := time.Now()
	result, err := s.chatModel.Generate(ctx, in.APIKey, conv)
	if err != nil {
		span.RecordError(err)
		metrics.ProjectGenerationTotal.WithLabelValues(string(variant), "error").Inc()
		logger.Error(ctx, "project generation failed", err, "variant", string(variant))
		appErr := errors.AsAppError(err)
		if appErr.Code == errors.CodeUnknown {
			appErr = errors.Wrap(err, errors.CodeGenerationFailed, "调用模型时发生错误")
		}
		return nil, appErr
	}

	metrics.ProjectGenerationTotal.WithLabelValues(string(variant), "success").Inc()
	metrics.ProjectGenerationDuration.WithLabelValues(string(variant)).Observe(time.Since(start).Seconds())
	logger.Info(ctx, "project generation finished",
		"variant", string(variant),
		"duration_ms", time.Since(start).Milliseconds(),
		"content_len", len(result.Text),
	)

	return &Output{
		Content: result.Text,
		Model:   result.Model,
		Usage:   result.Usage,
		Variant: variant,
	}, nil
}

// validate 本地前置校验：凭证存在、至少一个模块且模块均在词表内
func validate(in Input) error {
	if strings.TrimSpace(in.APIKey) == "" {
		return errors.New(errors.CodeMissingCredential, "请先输入API密钥")
	}
	if len(in.Params.Modules) == 0 {
		return errors.New(errors.CodeNoModuleSelected, "请至少选择一个项目模块")
	}
	for _, m := range in.Params.Modules {
		if !entity.IsKnownModule(m) {
			return errors.New(errors.CodeUnknownModule, "未知的项目模块").WithDetail(m)
		}
	}
	if in.Params.Complexity != "" && !in.Params.Complexity.Valid() {
		return errors.New(errors.CodeInvalidParam, "无效的复杂度级别").WithDetail(string(in.Params.Complexity))
	}
	return nil
}

// UserMessage 把类型化错误渲染为面向用户的纯文本
// 校验类错误以 "错误: " 开头，后端生成类错误以 "生成失败: " 开头，
// 渲染方仅凭前缀即可区分两类失败
func UserMessage(err error) string {
	appErr := errors.AsAppError(err)
	msg := appErr.Message
	if appErr.Detail != "" {
		msg += ": " + appErr.Detail
	}
	switch appErr.Code {
	case errors.CodeMissingCredential, errors.CodeNoModuleSelected,
		errors.CodeUnknownModule, errors.CodeInvalidParam:
		return "错误: " + msg
	default:
		return "生成失败: " + msg
	}
}
