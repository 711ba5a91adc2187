package dto

// GenerateProjectRequest 设计方案生成请求
// API 密钥优先从 X-Api-Key 请求头读取，请求体字段作为兜底
type GenerateProjectRequest struct {
	APIKey       string   `json:"api_key"`
	Modules      []string `json:"modules"`
	Theme        string   `json:"theme"`
	Complexity   string   `json:"complexity"`
	FunctionDesc string   `json:"function_desc"`
	Variant      string   `json:"variant"`
}

// GenerateProjectResponse 设计方案生成结果
type GenerateProjectResponse struct {
	// Content 模型生成的设计方案（markdown 文本）
	Content string `json:"content"`
	// Model 实际调用的模型标识
	Model string `json:"model"`
	// Variant 实际使用的提示词变体
	Variant string `json:"variant"`
	// Usage token 用量统计
	Usage map[string]int `json:"usage,omitempty"`
}

// ProjectOptionsResponse 表单可选项
type ProjectOptionsResponse struct {
	Modules        []string `json:"modules"`
	Complexities   []string `json:"complexities"`
	Variants       []string `json:"variants"`
	DefaultVariant string   `json:"default_variant"`
}
