// Package entity 定义核心业务实体
package entity

// Complexity 项目复杂度级别
type Complexity string

// 复杂度级别，按从低到高排序
const (
	ComplexitySimple  Complexity = "简单"
	ComplexityMedium  Complexity = "中等"
	ComplexityComplex Complexity = "复杂"
)

// Complexities 返回全部复杂度级别（有序）
func Complexities() []Complexity {
	return []Complexity{ComplexitySimple, ComplexityMedium, ComplexityComplex}
}

// Valid 检查复杂度级别是否合法
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	}
	return false
}

// FunctionCount 该复杂度下要求详细描述的核心功能数
func (c Complexity) FunctionCount() int {
	switch c {
	case ComplexitySimple:
		return 3
	case ComplexityComplex:
		return 7
	default:
		return 5
	}
}

// MinPinCount 该复杂度下要求的最少引脚总数
func (c Complexity) MinPinCount() int {
	switch c {
	case ComplexitySimple:
		return 5
	case ComplexityComplex:
		return 12
	default:
		return 8
	}
}

// 项目模块词表
const (
	ModuleMotor     = "电机"
	ModuleSensor    = "传感器"
	ModuleControl   = "控制器"
	ModuleComm      = "通信模块"
	ModuleActuator  = "执行器"
	ModuleDisplay   = "显示屏"
	ModuleTimer     = "定时器"
	ModuleInterrupt = "外部中断"
)

// KnownModules 返回模块词表（有序，供表单展示使用）
func KnownModules() []string {
	return []string{
		ModuleMotor,
		ModuleSensor,
		ModuleControl,
		ModuleComm,
		ModuleActuator,
		ModuleDisplay,
		ModuleTimer,
		ModuleInterrupt,
	}
}

// IsKnownModule 检查模块名是否在词表内
func IsKnownModule(name string) bool {
	for _, m := range KnownModules() {
		if m == name {
			return true
		}
	}
	return false
}

// ProjectParameters 用户选择的项目参数，作为提示词组装的只读输入
type ProjectParameters struct {
	// Modules 选中的项目模块，取值限于模块词表
	Modules []string
	// Theme 项目主题，自由文本，例如 "智能灌溉"
	Theme string
	// Complexity 复杂度级别
	Complexity Complexity
	// FunctionDesc 用户补充的功能描述，自由文本，可为空
	FunctionDesc string
}

// HasModule 判断是否选中了指定模块
func (p ProjectParameters) HasModule(name string) bool {
	for _, m := range p.Modules {
		if m == name {
			return true
		}
	}
	return false
}
