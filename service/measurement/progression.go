/*
 * @module service/measurement/progression
 * @description 尺码递进校验器，检查测量点数值沿尺码顺序单调且非平凡递增
 * @architecture 分层架构 - 校验层，结果结构体承载错误与警告
 * @documentReference dev_docs/measurement_engine.md 第4.3节
 * @stateFlow 数值过滤 -> 相邻对比较 -> 违规分类（按模式归入错误或警告）
 * @rules
 *   - 少于两个已定义数值时平凡有效
 *   - 数值 <= 0 恒为错误；递减按模式归类；相等与过小级差恒为警告
 *   - 模式是系统配置开关，不是测量点状态
 * @dependencies techspec-service/service/models
 * @refs service/config
 */

package measurement

import (
	"fmt"

	"techspec-service/service/models"
)

// ProgressionMode 递进校验模式
type ProgressionMode string

const (
	// ModeStrict 严格模式：递进违规作为错误，阻止保存
	ModeStrict ProgressionMode = "strict"
	// ModePermissive 宽容模式：递进违规降级为警告，保存可继续
	ModePermissive ProgressionMode = "permissive"
)

// smallJumpRatio 过小级差阈值：相对前一尺码数值约 1%
const smallJumpRatio = 0.01

// ProgressionResult 递进校验结果
type ProgressionResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateProgression 校验数值表沿尺码顺序的递进性
// 只考察已定义数值的尺码，保持尺码顺序
func ValidateProgression(sizes models.SizeValueMap, sizeOrder []string, mode ProgressionMode) ProgressionResult {
	result := ProgressionResult{IsValid: true, Errors: []string{}, Warnings: []string{}}

	type sized struct {
		label string
		value float64
	}
	var defined []sized
	for _, size := range sizeOrder {
		if v, ok := sizes[size]; ok {
			defined = append(defined, sized{label: size, value: v})
		}
	}

	for _, s := range defined {
		if s.value <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("尺码 %s 的数值必须大于 0", s.label))
		}
	}

	if len(defined) >= 2 {
		for i := 1; i < len(defined); i++ {
			prev, curr := defined[i-1], defined[i]
			switch {
			case curr.value < prev.value:
				msg := fmt.Sprintf("尺码 %s → %s 数值递减（差值 %g）", prev.label, curr.label, prev.value-curr.value)
				if mode == ModeStrict {
					result.Errors = append(result.Errors, msg)
				} else {
					result.Warnings = append(result.Warnings, msg)
				}
			case curr.value == prev.value:
				result.Warnings = append(result.Warnings, fmt.Sprintf("尺码 %s 与 %s 数值相同", prev.label, curr.label))
			case curr.value-prev.value < prev.value*smallJumpRatio:
				result.Warnings = append(result.Warnings, fmt.Sprintf("尺码 %s → %s 级差过小", prev.label, curr.label))
			}
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
