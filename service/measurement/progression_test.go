/*
 * @module service/measurement/progression_test
 * @description 尺码递进校验器单元测试
 * @architecture 单元测试 - 验证单调性检查与模式分级
 * @documentReference dev_docs/measurement_engine.md 第4.3节
 * @stateFlow 测试数据准备 -> 递进校验 -> 结果验证
 * @rules 覆盖单调接受、严格/宽容模式下的递减、相等与过小级差
 * @dependencies testing, github.com/stretchr/testify/assert
 * @refs progression.go
 */

package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"techspec-service/service/models"
)

func TestValidateProgression_MonotonicAccepted(t *testing.T) {
	result := ValidateProgression(
		models.SizeValueMap{"S": 10, "M": 12, "L": 14},
		[]string{"S", "M", "L"}, ModeStrict)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateProgression_DecreaseByMode(t *testing.T) {
	sizes := models.SizeValueMap{"S": 10, "M": 9, "L": 14}
	order := []string{"S", "M", "L"}

	// 严格模式：递减是错误，且错误点名 S → M
	strict := ValidateProgression(sizes, order, ModeStrict)
	assert.False(t, strict.IsValid)
	assert.NotEmpty(t, strict.Errors)
	assert.Contains(t, strict.Errors[0], "S → M")

	// 宽容模式：同样输入零错误，至少一条警告
	permissive := ValidateProgression(sizes, order, ModePermissive)
	assert.True(t, permissive.IsValid)
	assert.Empty(t, permissive.Errors)
	assert.NotEmpty(t, permissive.Warnings)
}

func TestValidateProgression_Rules(t *testing.T) {
	order := []string{"S", "M", "L"}

	tests := []struct {
		name         string
		sizes        models.SizeValueMap
		mode         ProgressionMode
		wantValid    bool
		wantErrors   int
		wantWarnings int
	}{
		{name: "少于两个数值平凡有效", sizes: models.SizeValueMap{"M": 52}, mode: ModeStrict, wantValid: true},
		{name: "空表平凡有效", sizes: models.SizeValueMap{}, mode: ModeStrict, wantValid: true},
		{name: "非正数值恒为错误", sizes: models.SizeValueMap{"S": 0, "M": 12}, mode: ModePermissive, wantValid: false, wantErrors: 1},
		{name: "相等数值为警告", sizes: models.SizeValueMap{"S": 12, "M": 12, "L": 14}, mode: ModeStrict, wantValid: true, wantWarnings: 1},
		{name: "过小级差为警告", sizes: models.SizeValueMap{"S": 100, "M": 100.5, "L": 103}, mode: ModeStrict, wantValid: true, wantWarnings: 1},
		{name: "跳过未定义尺码", sizes: models.SizeValueMap{"S": 10, "L": 14}, mode: ModeStrict, wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateProgression(tt.sizes, order, tt.mode)
			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Len(t, result.Errors, tt.wantErrors)
			assert.Len(t, result.Warnings, tt.wantWarnings)
		})
	}
}
