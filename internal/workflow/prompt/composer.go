// Package prompt 负责把项目参数确定性地组装为完整的提示词文档
package prompt

import (
	"fmt"
	"strings"

	"emb-project-gen-api/internal/domain/entity"
)

// SystemPersona 发送给模型的系统角色设定
const SystemPersona = "你是一名经验丰富的嵌入式系统工程师，擅长设计多模块硬件系统。"

// Variant 提示词变体
type Variant string

// 三种提示词变体，由功能开关组合而成
const (
	// VariantBasic 仅模块与主题
	VariantBasic Variant = "basic"
	// VariantStandard 增加复杂度级别
	VariantStandard Variant = "standard"
	// VariantRich 增加工作模式模板与自由功能描述
	VariantRich Variant = "rich"
)

// ParseVariant 解析变体名，空串返回 false
func ParseVariant(s string) (Variant, bool) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantBasic:
		return VariantBasic, true
	case VariantStandard:
		return VariantStandard, true
	case VariantRich:
		return VariantRich, true
	}
	return "", false
}

// Variants 返回全部变体名（有序）
func Variants() []Variant {
	return []Variant{VariantBasic, VariantStandard, VariantRich}
}

// Options 提示词组装功能开关
type Options struct {
	// WithComplexity 是否按复杂度级别调整功能数与引脚数要求
	WithComplexity bool
	// WithModes 是否插入主题归类得到的工作模式模板
	WithModes bool
	// WithFunctionDesc 是否插入用户自由填写的功能描述
	WithFunctionDesc bool
}

// OptionsFor 返回变体对应的功能开关组合
func OptionsFor(v Variant) Options {
	switch v {
	case VariantBasic:
		return Options{}
	case VariantStandard:
		return Options{WithComplexity: true}
	default:
		return Options{WithComplexity: true, WithModes: true, WithFunctionDesc: true}
	}
}

// Compose 把项目参数组装为完整的提示词文档
// 纯函数：相同输入必定产生字节相同的输出
func Compose(params entity.ProjectParameters, opts Options) string {
	modulesDesc := strings.Join(params.Modules, "、")

	complexity := params.Complexity
	if !opts.WithComplexity || !complexity.Valid() {
		complexity = entity.ComplexityMedium
	}

	// 各模块的补充说明：模块未选中时渲染为空串，绝不缺项
	motorNote := ""
	if params.HasModule(entity.ModuleMotor) {
		motorNote = "特别注意：电机模块使用简单转子马达，无需使能控制，仅需通过正反电压即可控制转向。"
	}
	displayNote := ""
	if params.HasModule(entity.ModuleDisplay) {
		displayNote = "项目中包含一个标准显示屏模块，用于显示系统状态和操作信息，不需要分配显示屏的引脚，只需要编写显示屏显示内容。"
	}
	commNote := ""
	if params.HasModule(entity.ModuleComm) {
		commNote = "通信模块仅作为串口/USB透传通道使用，只需描述数据收发的内容、格式与时机，不需要描述协议栈实现。"
	}
	timerNote := ""
	if params.HasModule(entity.ModuleTimer) {
		timerNote = "定时器模块用于周期性任务调度，各定时任务必须明确给出周期与触发后的动作。"
	}
	interruptNote := ""
	if params.HasModule(entity.ModuleInterrupt) {
		interruptNote = "外部中断模块用于响应异步事件，必须明确中断触发源以及中断服务中执行的动作。"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "你是一名嵌入式系统专家，请设计一个基于%s的%s项目。%s\n\n", modulesDesc, params.Theme, displayNote)

	// 固定约束块：按键与指示灯标识符固定，显示屏与电源相关内容不进入引脚分配表
	b.WriteString("**特别注意：**\n")
	b.WriteString("1. 系统已经预定义了三个按键：key0、key1、key_up，这些按键不需要在引脚分配表中列出，但必须在功能描述中使用\n")
	b.WriteString("2. 系统已经预定义了两个指示灯：LED0、LED1，指示灯不需要在引脚分配表中列出\n")
	b.WriteString("3. 显示屏引脚是固定的，不需要在引脚分配表中列出\n")
	b.WriteString("4. 所有功能描述中必须使用预定义的三个按键\n")
	b.WriteString("5. 电机模块使用简单转子马达，无需使能控制，仅需两个信号线控制电压方向\n")
	b.WriteString("6. 所有模块不需要过载保护以及检测装置，不需要检测模块是否正常运行\n")
	b.WriteString("7. 所有模块不需要考虑电源，工作电压，以及地线基本因素\n")
	b.WriteString("8. 硬件引脚分配不要有任何和显示屏有关的信息\n\n")

	// 一、项目信息
	b.WriteString("##### 一、项目信息\n")
	b.WriteString("1. **项目标题**: \n    [创建简洁明确的标题]\n")
	fmt.Fprintf(&b, "2. **主要模块**: \n    %s\n", modulesDesc)
	if opts.WithComplexity {
		fmt.Fprintf(&b, "3. **复杂度级别**: \n    %s\n", complexity)
	}
	b.WriteString("\n")

	// 二、核心功能概要
	b.WriteString("##### 二、核心功能概要\n")
	b.WriteString("[用100-150字描述项目整体功能，突出多个模块的协同工作，必须使用key0、key1、key_up按键]\n\n")

	// 工作模式模板：按主题归类后逐字插入
	if opts.WithModes {
		tpl := SelectModeTemplate(params.Theme)
		b.WriteString("##### 工作模式\n")
		b.WriteString(tpl.Render())
		b.WriteString("\n\n")
	}

	// 三、硬件引脚分配
	b.WriteString("##### 三、硬件引脚分配\n")
	b.WriteString("| 引脚号 | 功能描述          | 类型    | 关联模块   | 用途说明                  |\n")
	b.WriteString("|--------|-------------------|---------|------------|---------------------------|\n")
	b.WriteString("| P1     | [模块功能接口]     | 输入    | [模块名称] | [详细说明]               |\n")
	b.WriteString("| P2     | [控制信号]         | 输出    | [模块名称] | [详细说明]               |\n")
	b.WriteString("| P3     | [通信接口]         | 双向    | [模块名称] | [详细说明]               |\n")
	b.WriteString("| ...    | ...               | ...     | ...        | ...                       |\n\n")

	// 四、具体控制要求
	b.WriteString("##### 四、具体控制要求\n")
	fmt.Fprintf(&b, "详细描述以下%d个核心功能:\n\n", complexity.FunctionCount())
	b.WriteString("1. **[功能1名称]**\n")
	b.WriteString("    - 描述: [详细说明此功能的操作逻辑，必须使用key0、key1、key_up按键]\n")
	b.WriteString("    - 相关模块: [模块名称]\n")
	b.WriteString("    - 引脚分配: \n      * [引脚号]: [功能]\n      * [引脚号]: [功能]\n")
	b.WriteString("    - 参数: [参数设定]\n\n")
	b.WriteString("2. **[功能2名称]**\n")
	b.WriteString("    - 描述: [详细说明此功能的操作逻辑，必须使用key0、key1、key_up按键]\n")
	b.WriteString("    - 相关模块: [模块名称]\n")
	b.WriteString("    - 引脚分配: \n      * [引脚号]: [功能]\n")
	b.WriteString("    - 参数: [参数设定]\n\n")
	if params.HasModule(entity.ModuleDisplay) {
		b.WriteString("3. **[显示功能]**\n")
		b.WriteString("    - 描述: [显示屏的具体功能和使用方法]\n")
		b.WriteString("    - 相关模块: 显示屏\n")
		b.WriteString("    - 显示内容: [说明显示界面内容和格式]\n\n")
	}
	b.WriteString("... 更多功能（每个功能描述都必须使用key0、key1、key_up按键）\n\n")

	// 五、技术要求
	b.WriteString("##### 五、技术要求\n")
	fmt.Fprintf(&b, "- 引脚总数: %d个以上\n", complexity.MinPinCount())
	fmt.Fprintf(&b, "- 模块协同: %d个模块需要协调工作\n", len(params.Modules))
	if params.HasModule(entity.ModuleDisplay) {
		b.WriteString("- 显示屏要求: 需要优化显示内容和刷新速率\n")
	}
	b.WriteString("- 按键要求: 必须使用预定义的key0、key1、key_up按键\n")
	if opts.WithComplexity {
		b.WriteString(complexityPolicy(complexity))
	}
	for _, note := range []string{motorNote, commNote, timerNote, interruptNote} {
		if note != "" {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}
	b.WriteString("\n")

	// 用户补充的功能描述
	if opts.WithFunctionDesc && strings.TrimSpace(params.FunctionDesc) != "" {
		b.WriteString("##### 用户补充功能要求\n")
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(params.FunctionDesc))
	}

	b.WriteString("请生成专业、完整的项目设计文档，确保：\n")
	b.WriteString("1. 不包含显示屏引脚分配\n")
	b.WriteString("2. 所有功能描述都使用key0、key1、key_up按键\n")

	return b.String()
}

// complexityPolicy 复杂度相关的功能展开策略
func complexityPolicy(c entity.Complexity) string {
	switch c {
	case entity.ComplexitySimple:
		return "- 复杂度策略: 功能数量控制在3个以内，不要求使用定时器与外部中断\n"
	case entity.ComplexityComplex:
		return "- 复杂度策略: 详细展开7个核心功能，应充分使用定时器与外部中断组织任务\n"
	default:
		return "- 复杂度策略: 详细展开5个核心功能，可酌情使用定时器组织周期任务\n"
	}
}
