package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emb-project-gen-api/internal/application/generation"
	"emb-project-gen-api/internal/config"
	"emb-project-gen-api/internal/domain/service"
	"emb-project-gen-api/internal/interfaces/http/dto"
	"emb-project-gen-api/internal/interfaces/http/handler"
	"emb-project-gen-api/internal/workflow/prompt"
	"emb-project-gen-api/pkg/errors"
)

type stubChatModel struct {
	apiKey string
	conv   service.Conversation
	result *service.GenerationResult
	err    error
}

func (s *stubChatModel) Generate(_ context.Context, apiKey string, conv service.Conversation) (*service.GenerationResult, error) {
	s.apiKey = apiKey
	s.conv = conv
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Features.Prompt.DefaultVariant = "rich"
	cfg.Features.Prompt.MaxThemeRunes = 64
	cfg.Features.Prompt.MaxFunctionDescRunes = 2000
	return cfg
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(chatModel service.ChatModel) *gin.Engine {
	cfg := testConfig()
	svc := generation.NewService(chatModel, prompt.VariantRich)
	h := handler.NewProjectHandler(cfg, svc)

	r := gin.New()
	r.POST("/v1/projects/generate", h.Generate)
	r.GET("/v1/projects/options", h.Options)
	return r
}

func doGenerate(t *testing.T, r *gin.Engine, body map[string]any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/projects/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpointSuccess(t *testing.T) {
	t.Parallel()

	stub := &stubChatModel{
		result: &service.GenerationResult{
			Text:  "# 智能灌溉项目设计方案",
			Usage: map[string]int{"input_tokens": 88, "output_tokens": 256},
			Model: "qwen-plus",
		},
	}
	r := newTestRouter(stub)

	w := doGenerate(t, r, map[string]any{
		"api_key":    "sk-body",
		"modules":    []string{"电机", "显示屏"},
		"theme":      "智能灌溉",
		"complexity": "中等",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.GenerateProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, "# 智能灌溉项目设计方案", resp.Data.Content)
	assert.Equal(t, "qwen-plus", resp.Data.Model)
	assert.Equal(t, "rich", resp.Data.Variant)
	assert.Equal(t, 256, resp.Data.Usage["output_tokens"])
	assert.Equal(t, "sk-body", stub.apiKey)
}

func TestGenerateEndpointHeaderKeyPrecedence(t *testing.T) {
	t.Parallel()

	stub := &stubChatModel{
		result: &service.GenerationResult{Text: "ok", Model: "qwen-plus"},
	}
	r := newTestRouter(stub)

	w := doGenerate(t, r, map[string]any{
		"api_key": "sk-body",
		"modules": []string{"传感器"},
		"theme":   "环境监测",
	}, map[string]string{handler.APIKeyHeader: "sk-header"})
	require.Equal(t, http.StatusOK, w.Code)

	// 请求头凭证优先于请求体字段
	assert.Equal(t, "sk-header", stub.apiKey)
}

func TestGenerateEndpointMissingCredential(t *testing.T) {
	t.Parallel()

	stub := &stubChatModel{
		result: &service.GenerationResult{Text: "should not happen", Model: "qwen-plus"},
	}
	r := newTestRouter(stub)

	w := doGenerate(t, r, map[string]any{
		"modules": []string{"显示屏"},
		"theme":   "环境监测",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "错误: 请先输入API密钥", resp.Message)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.CodeMissingCredential), resp.Error.ErrorCode)
	assert.Empty(t, stub.conv, "backend must not be called on validation failure")
}

func TestGenerateEndpointNoModules(t *testing.T) {
	t.Parallel()

	stub := &stubChatModel{}
	r := newTestRouter(stub)

	w := doGenerate(t, r, map[string]any{
		"api_key": "sk-test",
		"modules": []string{},
		"theme":   "环境监测",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "错误: 请至少选择一个项目模块", resp.Message)
}

func TestGenerateEndpointInvalidVariant(t *testing.T) {
	t.Parallel()

	stub := &stubChatModel{}
	r := newTestRouter(stub)

	w := doGenerate(t, r, map[string]any{
		"api_key": "sk-test",
		"modules": []string{"传感器"},
		"variant": "deluxe",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Message, "错误: "))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "deluxe", resp.Error.Details)
}

func TestGenerateEndpointBackendFailure(t *testing.T) {
	t.Parallel()

	stub := &stubChatModel{
		err: errors.New(errors.CodeLLMStatusError, "调用模型时发生错误").
			WithDetail("API Error (401): Invalid API-key provided."),
	}
	r := newTestRouter(stub)

	w := doGenerate(t, r, map[string]any{
		"api_key": "sk-bad",
		"modules": []string{"传感器"},
		"theme":   "环境监测",
	}, nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Message, "生成失败: "), "got %q", resp.Message)
	assert.Contains(t, resp.Message, "API Error (401)")
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(errors.CodeLLMStatusError), resp.Error.ErrorCode)
}

func TestGenerateEndpointThemeTruncated(t *testing.T) {
	t.Parallel()

	stub := &stubChatModel{
		result: &service.GenerationResult{Text: "ok", Model: "qwen-plus"},
	}
	r := newTestRouter(stub)

	longTheme := strings.Repeat("灌", 100)
	w := doGenerate(t, r, map[string]any{
		"api_key": "sk-test",
		"modules": []string{"传感器"},
		"theme":   longTheme,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 超长主题按字符数截断后才进入提示词
	require.Len(t, stub.conv, 2)
	assert.Contains(t, stub.conv[1].Content, strings.Repeat("灌", 64))
	assert.NotContains(t, stub.conv[1].Content, strings.Repeat("灌", 65))
}

func TestGenerateEndpointMalformedBody(t *testing.T) {
	t.Parallel()

	stub := &stubChatModel{}
	r := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/projects/generate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOptionsEndpoint(t *testing.T) {
	t.Parallel()

	r := newTestRouter(&stubChatModel{})

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/options", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.ProjectOptionsResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Modules, "电机")
	assert.Contains(t, resp.Data.Modules, "显示屏")
	assert.Contains(t, resp.Data.Modules, "外部中断")
	assert.Equal(t, []string{"简单", "中等", "复杂"}, resp.Data.Complexities)
	assert.Equal(t, []string{"basic", "standard", "rich"}, resp.Data.Variants)
	assert.Equal(t, "rich", resp.Data.DefaultVariant)
}
