// Package dashscope 提供 DashScope 文本生成服务客户端
package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"emb-project-gen-api/internal/config"
	"emb-project-gen-api/internal/domain/service"
	"emb-project-gen-api/pkg/errors"
	"emb-project-gen-api/pkg/metrics"
	"emb-project-gen-api/pkg/tracer"
)

// 所有调用失败统一包裹在这一错误消息之下，调用方只需识别这一个前缀
const invocationErrMsg = "调用模型时发生错误"

// Client DashScope 文本生成客户端
// 无状态，可在多次顺序请求间复用；每次调用独立构建请求体
type Client struct {
	endpoint    string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewClient 创建 DashScope 客户端
func NewClient(cfg *config.DashScopeConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = "qwen-plus"
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Model 返回使用的模型标识
func (c *Client) Model() string {
	return c.model
}

// chatMessage DashScope 消息格式
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// generationInput 请求的 input 字段
type generationInput struct {
	Messages []chatMessage `json:"messages"`
}

// generationParameters 请求的 parameters 字段
type generationParameters struct {
	Temperature float64 `json:"temperature"`
}

// generationRequest 文本生成请求体
type generationRequest struct {
	Model      string               `json:"model"`
	Input      generationInput      `json:"input"`
	Parameters generationParameters `json:"parameters"`
}

// generationResponse 文本生成响应体
// Output 保持原始字节，由 extractText 按两种已知形态解码
type generationResponse struct {
	RequestID string          `json:"request_id"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Output    json.RawMessage `json:"output"`
	Usage     map[string]int  `json:"usage"`
}

// Generate 把对话发送到 DashScope 并提取生成文本
// 实现 service.ChatModel；每条消息按原始顺序进入请求，绝不丢弃
func (c *Client) Generate(ctx context.Context, apiKey string, conv service.Conversation) (*service.GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "dashscope.Generate")
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.turns", len(conv)),
	)
	defer span.End()

	start := time.Now()
	result, err := c.generate(ctx, apiKey, conv)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
	}
	metrics.LLMCallTotal.WithLabelValues(c.model, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())
	if result != nil {
		if n, ok := result.Usage["input_tokens"]; ok {
			metrics.LLMTokensUsed.WithLabelValues(c.model, "prompt").Add(float64(n))
		}
		if n, ok := result.Usage["output_tokens"]; ok {
			metrics.LLMTokensUsed.WithLabelValues(c.model, "completion").Add(float64(n))
		}
	}
	return result, err
}

func (c *Client) generate(ctx context.Context, apiKey string, conv service.Conversation) (*service.GenerationResult, error) {
	messages := make([]chatMessage, 0, len(conv))
	for _, turn := range conv {
		messages = append(messages, chatMessage{
			Role:    mapRole(turn.Role),
			Content: turn.Content,
		})
	}

	reqBody, err := json.Marshal(&generationRequest{
		Model:      c.model,
		Input:      generationInput{Messages: messages},
		Parameters: generationParameters{Temperature: c.temperature},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, invocationErrMsg).
			WithDetail("请求序列化失败")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternalError, invocationErrMsg).
			WithDetail("请求构建失败")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLLMTransportError, invocationErrMsg).
			WithDetail("API 调用无响应，请检查网络连接和API密钥")
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLLMTransportError, invocationErrMsg).
			WithDetail("读取响应失败，请检查网络连接")
	}

	var resp generationResponse
	// 非 200 时响应体也可能携带 code/message，解码失败不影响错误报告
	_ = json.Unmarshal(body, &resp)

	if httpResp.StatusCode != http.StatusOK {
		detail := "API Error (" + strconv.Itoa(httpResp.StatusCode) + ")"
		if resp.Message != "" {
			detail += ": " + resp.Message
		} else if resp.Code != "" {
			detail += ": " + resp.Code
		}
		return nil, errors.New(errors.CodeLLMStatusError, invocationErrMsg).
			WithDetail(detail).
			WithError(fmt.Errorf("dashscope status %d", httpResp.StatusCode))
	}

	if len(resp.Output) == 0 {
		return nil, errors.New(errors.CodeLLMShapeError, invocationErrMsg).
			WithDetail("API 响应缺少 output 字段")
	}

	text, ok := extractText(resp.Output)
	if !ok {
		return nil, errors.New(errors.CodeLLMShapeError, invocationErrMsg).
			WithDetail("无法从 API 响应中提取生成的文本内容")
	}

	return &service.GenerationResult{
		Text:  text,
		Usage: resp.Usage,
		Model: c.model,
	}, nil
}

// mapRole 把通用角色映射为 DashScope 角色
// 未知角色降级为 user，消息内容保持原样，保证每条消息都进入请求
func mapRole(r service.Role) string {
	switch r {
	case service.RoleSystem:
		return "system"
	case service.RoleUser:
		return "user"
	case service.RoleAssistant:
		return "assistant"
	default:
		return "user"
	}
}
