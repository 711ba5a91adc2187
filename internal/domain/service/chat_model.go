// Package service 定义领域服务接口
package service

import "context"

// Role 对话角色
type Role string

// 支持的对话角色
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn 一条带角色标注的对话消息
type Turn struct {
	Role    Role
	Content string
}

// Conversation 一次请求中发送的有序对话消息列表
type Conversation []Turn

// GenerationResult 模型生成结果
// Text 在成功时必定非空；Usage 为 token 用量统计（input_tokens/output_tokens 等）
type GenerationResult struct {
	Text  string
	Usage map[string]int
	Model string
}

// ChatModel 聊天模型调用接口
// 实现方负责把 Conversation 转换为后端协议格式并提取生成文本；
// 所有后端侧失败统一包装为一个可识别的调用错误
type ChatModel interface {
	Generate(ctx context.Context, apiKey string, conv Conversation) (*GenerationResult, error)
}
