/*
 * @module service/measurement/grading
 * @description 级放计算器：由基准尺码的单一数值和各尺码级差推出整行尺码数值，
 *              以及由现有数值表反推级差的逆运算
 * @architecture 工具函数模式 - 纯函数计算，不持有状态
 * @documentReference dev_docs/measurement_engine.md 第4.2节
 * @stateFlow 数值表 -> 反推级差 -> 修改基准值/级差 -> 重算数值表
 * @rules
 *   - 未定义级差的尺码在结果中省略（缺键表示"尚未级放"），不补零
 *   - 修改基准尺码时保持各尺码表观数值不变，仅级差表示随之变化
 *   - 计算结果统一吸附到 2 位小数分辨率
 * @dependencies techspec-service/service/models
 * @refs service/measurement/unitcodec.go
 */

package measurement

import (
	"fmt"

	"techspec-service/service/models"
)

// GradingCalculator 级放计算器，持有当前规格的测量单位以保证级差文本格式一致
type GradingCalculator struct {
	unit Unit
}

// NewGradingCalculator 创建级放计算器
func NewGradingCalculator(unit Unit) *GradingCalculator {
	return &GradingCalculator{unit: unit}
}

// DeriveJumps 由数值表反推各尺码相对基准尺码的级差，级差以编解码器格式化的文本表示
// 基准尺码无数值时返回空表
func (g *GradingCalculator) DeriveJumps(sizes models.SizeValueMap, baseSize string) map[string]string {
	jumps := make(map[string]string)
	baseValue, ok := sizes[baseSize]
	if !ok {
		return jumps
	}
	for size, value := range sizes {
		if size == baseSize {
			continue
		}
		jumps[size] = FormatValue(value-baseValue, g.unit)
	}
	return jumps
}

// ApplyJumps 由基准值和级差表生成整行数值
// 基准尺码取基准值本身；其余尺码仅在级差可解析时计算，未定义级差的尺码省略
func (g *GradingCalculator) ApplyJumps(baseSize string, baseValue float64, jumps map[string]string, sizeOrder []string) models.SizeValueMap {
	result := models.SizeValueMap{baseSize: RoundValue(baseValue)}
	for _, size := range sizeOrder {
		if size == baseSize {
			continue
		}
		jumpText, ok := jumps[size]
		if !ok {
			continue
		}
		jump, ok := ParseValue(jumpText, g.unit)
		if !ok {
			continue
		}
		result[size] = RoundValue(baseValue + jump)
	}
	return result
}

// RegradeFromBase 修改基准值后重算整行：先由修改前的数值表反推级差，
// 再以新基准值应用级差
func (g *GradingCalculator) RegradeFromBase(point *models.MeasurementPoint, newBaseValue float64, sizeOrder []string) {
	jumps := g.DeriveJumps(point.Sizes, point.BaseSize)
	point.Sizes = g.ApplyJumps(point.BaseSize, newBaseValue, jumps, sizeOrder)
}

// SetJump 修改单个尺码的级差，只重算该尺码
// 级差文本无法解析时删除该尺码的数值（回到"尚未级放"状态）
// 基准尺码尚无数值时级差无锚点可言，返回错误
func (g *GradingCalculator) SetJump(point *models.MeasurementPoint, size, jumpText string) error {
	baseValue, ok := point.Sizes[point.BaseSize]
	if !ok {
		return fmt.Errorf("基准尺码 %s 尚无数值，无法编辑级差", point.BaseSize)
	}
	jump, ok := ParseValue(jumpText, g.unit)
	if !ok {
		delete(point.Sizes, size)
		return nil
	}
	point.Sizes[size] = RoundValue(baseValue + jump)
	return nil
}
