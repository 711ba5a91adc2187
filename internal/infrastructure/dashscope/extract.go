package dashscope

import (
	"encoding/json"
	"strings"
)

// DashScope 的 output 字段历史上存在两种形态：
// 早期为直接文本 {"text": "..."}，开启 result_format=message 后为
// {"choices":[{"message":{"content":"..."}}]}。两种形态按固定优先级
// 依次尝试解码，先成功者生效，避免逐字段探测

// directTextOutput 直接文本形态
type directTextOutput struct {
	Text string `json:"text"`
}

// choiceListOutput 对话选项列表形态
type choiceListOutput struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// extractText 从 output 原始字节中提取生成文本
// 两种形态都无法得到非空文本时返回 false，调用方据此报告提取失败；
// 成功时返回的文本必定非空
func extractText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	// 形态一：直接文本字段
	var direct directTextOutput
	if err := json.Unmarshal(raw, &direct); err == nil {
		if text := strings.TrimSpace(direct.Text); text != "" {
			return direct.Text, true
		}
	}

	// 形态二：choices[0].message.content
	var choices choiceListOutput
	if err := json.Unmarshal(raw, &choices); err == nil && len(choices.Choices) > 0 {
		if text := strings.TrimSpace(choices.Choices[0].Message.Content); text != "" {
			return choices.Choices[0].Message.Content, true
		}
	}

	return "", false
}
