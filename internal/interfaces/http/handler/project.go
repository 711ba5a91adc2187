package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"emb-project-gen-api/internal/application/generation"
	"emb-project-gen-api/internal/config"
	"emb-project-gen-api/internal/domain/entity"
	"emb-project-gen-api/internal/interfaces/http/dto"
	"emb-project-gen-api/internal/workflow/prompt"
	"emb-project-gen-api/pkg/errors"
)

// APIKeyHeader DashScope 凭证请求头
const APIKeyHeader = "X-Api-Key"

// ProjectHandler 设计方案生成处理器
type ProjectHandler struct {
	cfg *config.Config
	svc *generation.Service
}

// NewProjectHandler 创建设计方案生成处理器
func NewProjectHandler(cfg *config.Config, svc *generation.Service) *ProjectHandler {
	return &ProjectHandler{
		cfg: cfg,
		svc: svc,
	}
}

// Generate 生成设计方案
// @Summary 生成嵌入式项目设计方案
// @Description 按所选模块、主题与复杂度组装提示词并调用模型生成完整设计文档
// @Tags Project
// @Accept json
// @Produce json
// @Param X-Api-Key header string false "DashScope API 密钥"
// @Param body body dto.GenerateProjectRequest true "生成请求"
// @Success 200 {object} dto.Response[dto.GenerateProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/projects/generate [post]
func (h *ProjectHandler) Generate(c *gin.Context) {
	var req dto.GenerateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	// 凭证优先从请求头读取
	apiKey := strings.TrimSpace(c.GetHeader(APIKeyHeader))
	if apiKey == "" {
		apiKey = strings.TrimSpace(req.APIKey)
	}

	// 自由文本长度上限，防止超长输入直接进入提示词
	theme := truncateRunes(strings.TrimSpace(req.Theme), h.cfg.Features.Prompt.MaxThemeRunes)
	funcDesc := truncateRunes(strings.TrimSpace(req.FunctionDesc), h.cfg.Features.Prompt.MaxFunctionDescRunes)

	variant := prompt.Variant("")
	if req.Variant != "" {
		v, ok := prompt.ParseVariant(req.Variant)
		if !ok {
			dto.ErrorWithDetail(c, 400, "错误: 无效的提示词变体", &dto.ErrorDetail{
				ErrorCode: string(errors.CodeInvalidParam),
				Details:   req.Variant,
			})
			return
		}
		variant = v
	}

	out, err := h.svc.Generate(c.Request.Context(), generation.Input{
		APIKey: apiKey,
		Params: entity.ProjectParameters{
			Modules:      req.Modules,
			Theme:        theme,
			Complexity:   entity.Complexity(strings.TrimSpace(req.Complexity)),
			FunctionDesc: funcDesc,
		},
		Variant: variant,
	})
	if err != nil {
		appErr := errors.AsAppError(err)
		dto.ErrorWithDetail(c, appErr.HTTPStatus, generation.UserMessage(err), &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}

	dto.Success(c, dto.GenerateProjectResponse{
		Content: out.Content,
		Model:   out.Model,
		Variant: string(out.Variant),
		Usage:   out.Usage,
	})
}

// Options 返回表单可选项
// @Summary 获取项目表单可选项
// @Tags Project
// @Produce json
// @Success 200 {object} dto.Response[dto.ProjectOptionsResponse]
// @Router /v1/projects/options [get]
func (h *ProjectHandler) Options(c *gin.Context) {
	complexities := make([]string, 0, 3)
	for _, lvl := range entity.Complexities() {
		complexities = append(complexities, string(lvl))
	}
	variants := make([]string, 0, 3)
	for _, v := range prompt.Variants() {
		variants = append(variants, string(v))
	}

	dto.Success(c, dto.ProjectOptionsResponse{
		Modules:        entity.KnownModules(),
		Complexities:   complexities,
		Variants:       variants,
		DefaultVariant: h.cfg.Features.Prompt.DefaultVariant,
	})
}

// truncateRunes 按字符数截断，limit <= 0 时不截断
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
