package prompt

import (
	"fmt"
	"strings"
)

// Mode 单个工作模式的结构化描述
type Mode struct {
	// Name 模式名称
	Name string
	// Behaviors 该模式下的行为要点，均基于预定义按键 key0/key1/key_up
	Behaviors []string
	// Indicator 指示灯表现，仅使用预定义指示灯 LED0/LED1
	Indicator string
}

// ModeTemplate 按主题类别固化的工作模式模板
type ModeTemplate struct {
	// Category 类别名称，仅用于日志与测试
	Category string
	// Modes 有序的工作模式列表
	Modes []Mode
	// WorkControl 工作控制叙述，说明按键如何切换与启停各模式
	WorkControl string
}

// Render 把模式模板渲染为提示词中的工作模式片段
func (t ModeTemplate) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "系统包含以下%d种工作模式：\n", len(t.Modes))
	for i, m := range t.Modes {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, m.Name)
		for _, beh := range m.Behaviors {
			fmt.Fprintf(&b, "    - %s\n", beh)
		}
		fmt.Fprintf(&b, "    - 指示灯：%s\n", m.Indicator)
	}
	fmt.Fprintf(&b, "\n工作控制：%s", t.WorkControl)
	return b.String()
}

// categoryRule 关键字集合到模板的映射，顺序即匹配优先级
type categoryRule struct {
	keywords []string
	template ModeTemplate
}

// 主题类别表。列表顺序即匹配顺序：主题同时命中多个类别时，
// 先列出的类别生效，这是有意的平局裁决而非错误
var categoryRules = []categoryRule{
	{
		keywords: []string{"流水线", "传送带", "输送"},
		template: ModeTemplate{
			Category: "流水线",
			Modes: []Mode{
				{
					Name: "手动模式",
					Behaviors: []string{
						"按下key0启动传送，再次按下key0停止传送",
						"按下key1切换传送方向（电机正反转）",
					},
					Indicator: "LED0常亮表示手动模式",
				},
				{
					Name: "自动模式",
					Behaviors: []string{
						"传感器检测到物料后自动启动传送",
						"物料到达末端后自动停止，等待下一次检测",
						"按下key1可紧急停止当前传送",
					},
					Indicator: "LED1常亮表示自动模式，传送过程中LED1闪烁",
				},
				{
					Name: "检修模式",
					Behaviors: []string{
						"长按key0进入检修，传送带以最低速度点动运行",
						"按下key1退出检修并回到手动模式",
					},
					Indicator: "LED0与LED1交替闪烁",
				},
			},
			WorkControl: "通过key_up在手动模式与自动模式间切换；任意模式下长按key0进入检修模式。模式切换时系统先停止电机再切换，避免传送带带载换向。",
		},
	},
	{
		keywords: []string{"洗衣机", "清洗", "洗涤"},
		template: ModeTemplate{
			Category: "洗衣机",
			Modes: []Mode{
				{
					Name: "标准洗",
					Behaviors: []string{
						"按下key0启动标准洗流程：进水—正反交替搅拌—排水",
						"搅拌阶段电机周期性正反转",
					},
					Indicator: "LED0常亮",
				},
				{
					Name: "快速洗",
					Behaviors: []string{
						"按下key1启动快速洗，搅拌时长缩短为标准洗的一半",
					},
					Indicator: "LED1常亮",
				},
				{
					Name: "脱水",
					Behaviors: []string{
						"洗涤完成后自动进入脱水，电机单向高速运转",
						"按下key1可提前结束脱水",
					},
					Indicator: "LED0与LED1同时闪烁",
				},
			},
			WorkControl: "通过key_up在标准洗与快速洗之间预选程序，key0确认启动；运行中按下key1停止当前阶段并排水。各阶段切换前电机必须先完全停止。",
		},
	},
	{
		keywords: []string{"售票", "检票", "票务"},
		template: ModeTemplate{
			Category: "售票",
			Modes: []Mode{
				{
					Name: "售票模式",
					Behaviors: []string{
						"按下key0确认购票，执行器驱动出票",
						"按下key1取消本次操作",
					},
					Indicator: "LED0常亮表示售票模式，出票过程中LED0闪烁",
				},
				{
					Name: "检票模式",
					Behaviors: []string{
						"传感器检测到票卡后自动校验",
						"校验通过执行器开闸，按下key0可手动开闸",
					},
					Indicator: "LED1常亮表示检票模式，校验失败LED1快速闪烁",
				},
			},
			WorkControl: "通过key_up在售票模式与检票模式间切换。切换时系统复位执行器并清除未完成的交易状态。",
		},
	},
	{
		keywords: []string{"电梯", "升降"},
		template: ModeTemplate{
			Category: "电梯",
			Modes: []Mode{
				{
					Name: "正常运行",
					Behaviors: []string{
						"按下key0登记上行请求，按下key1登记下行请求",
						"电机根据请求队列控制轿厢升降，到达楼层后自动停靠",
					},
					Indicator: "LED0运行时常亮，停靠时熄灭",
				},
				{
					Name: "检修模式",
					Behaviors: []string{
						"长按key_up进入检修，轿厢仅响应点动：key0点动上行，key1点动下行",
						"再次长按key_up退出检修",
					},
					Indicator: "LED1慢速闪烁表示检修中",
				},
			},
			WorkControl: "正常运行为默认模式；长按key_up在正常运行与检修模式间切换。检修模式下屏蔽所有自动请求，仅接受点动操作。",
		},
	},
	{
		keywords: []string{"智能家居", "家居"},
		template: ModeTemplate{
			Category: "智能家居",
			Modes: []Mode{
				{
					Name: "在家模式",
					Behaviors: []string{
						"传感器持续采集室内环境数据",
						"按下key0手动开关主要执行器（如窗帘电机）",
					},
					Indicator: "LED0常亮",
				},
				{
					Name: "离家模式",
					Behaviors: []string{
						"按下key1一键进入离家模式，关闭所有执行器",
						"传感器检测到异常时通过通信模块上报",
					},
					Indicator: "LED1每5秒闪烁一次表示布防中",
				},
				{
					Name: "夜间模式",
					Behaviors: []string{
						"按下key_up进入夜间模式，仅保留必要传感器工作",
					},
					Indicator: "LED0与LED1均熄灭，有事件时LED1闪烁",
				},
			},
			WorkControl: "key_up循环切换在家、离家、夜间三种模式；key1在任意模式下可直接触发离家模式。模式状态通过显示屏展示。",
		},
	},
	{
		keywords: []string{"灌溉", "农业", "种植"},
		template: ModeTemplate{
			Category: "农业",
			Modes: []Mode{
				{
					Name: "手动灌溉",
					Behaviors: []string{
						"按下key0开启水泵电机，再次按下key0关闭",
						"按下key1切换灌溉区域",
					},
					Indicator: "LED0灌溉时常亮",
				},
				{
					Name: "自动灌溉",
					Behaviors: []string{
						"土壤湿度传感器低于阈值时自动开启水泵",
						"湿度恢复后自动关闭，并记录本次灌溉时长",
					},
					Indicator: "LED1常亮表示自动模式，灌溉进行中LED1闪烁",
				},
				{
					Name: "节水模式",
					Behaviors: []string{
						"按下key1进入节水模式，灌溉时长减半且仅在早晚时段执行",
					},
					Indicator: "LED0与LED1交替慢速闪烁",
				},
			},
			WorkControl: "通过key_up在手动灌溉与自动灌溉间切换，自动灌溉下按key1启用或退出节水模式。切换模式时立即停止当前灌溉动作。",
		},
	},
	{
		keywords: []string{"停车", "车位"},
		template: ModeTemplate{
			Category: "停车",
			Modes: []Mode{
				{
					Name: "入场模式",
					Behaviors: []string{
						"传感器检测到车辆后自动抬杆，车辆通过后自动落杆",
						"按下key0可手动抬杆，按下key1手动落杆",
					},
					Indicator: "LED0常亮表示入场通道开放",
				},
				{
					Name: "出场模式",
					Behaviors: []string{
						"确认缴费后执行器抬杆放行",
						"按下key0可强制放行",
					},
					Indicator: "LED1常亮表示出场通道开放",
				},
			},
			WorkControl: "通过key_up在入场模式与出场模式间切换；车位占用情况经显示屏实时展示。闸杆动作期间屏蔽按键输入，防止中途反转。",
		},
	},
	{
		keywords: []string{"照明", "路灯", "灯光"},
		template: ModeTemplate{
			Category: "照明",
			Modes: []Mode{
				{
					Name: "常亮模式",
					Behaviors: []string{
						"按下key0开启全部照明回路，再次按下key0关闭",
					},
					Indicator: "LED0与照明回路同步点亮",
				},
				{
					Name: "感应模式",
					Behaviors: []string{
						"光照传感器低于阈值且检测到人员活动时自动点亮",
						"无活动超过设定时间后自动熄灭",
					},
					Indicator: "LED1常亮表示感应模式已启用",
				},
				{
					Name: "节能模式",
					Behaviors: []string{
						"按下key1进入节能模式，照明亮度降至半功率",
					},
					Indicator: "LED1慢速闪烁",
				},
			},
			WorkControl: "通过key_up在常亮模式与感应模式之间切换，感应模式下按key1启用或退出节能模式。",
		},
	},
}

// genericTemplate 未命中任何类别时的通用模板，固定两种模式
var genericTemplate = ModeTemplate{
	Category: "通用",
	Modes: []Mode{
		{
			Name: "手动模式",
			Behaviors: []string{
				"按下key0启动系统主要功能，再次按下key0停止",
				"按下key1切换当前操作对象",
			},
			Indicator: "LED0常亮表示手动模式",
		},
		{
			Name: "自动模式",
			Behaviors: []string{
				"系统根据传感器输入自动执行主要功能",
				"按下key1可随时中止自动流程",
			},
			Indicator: "LED1常亮表示自动模式",
		},
	},
	WorkControl: "通过key_up在手动模式与自动模式间切换，切换时系统先停止当前动作再进入新模式。",
}

// SelectModeTemplate 按关键字把主题归类到固定模板
// 纯函数：相同主题必定返回相同模板；永不返回空模板
func SelectModeTemplate(theme string) ModeTemplate {
	t := strings.ToLower(theme)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.template
			}
		}
	}
	return genericTemplate
}
