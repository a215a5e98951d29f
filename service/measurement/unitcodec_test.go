/*
 * @module service/measurement/unitcodec_test
 * @description 测量值编解码器单元测试
 * @architecture 单元测试 - 验证解析与格式化在各单位下的正确性
 * @documentReference dev_docs/measurement_engine.md 第4.1节
 * @stateFlow 测试数据准备 -> 解析/格式化 -> 结果验证
 * @rules 覆盖分数记法、输入未完成状态与往返律
 * @dependencies testing, github.com/stretchr/testify/assert
 * @refs unitcodec.go
 */

package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue_Decimal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		unit     Unit
		expected float64
		ok       bool
	}{
		{name: "厘米整数", input: "52", unit: UnitCentimeter, expected: 52, ok: true},
		{name: "厘米小数", input: "52.5", unit: UnitCentimeter, expected: 52.5, ok: true},
		{name: "毫米负数", input: "-3", unit: UnitMillimeter, expected: -3, ok: true},
		{name: "前后空白", input: "  12.25  ", unit: UnitCentimeter, expected: 12.25, ok: true},
		{name: "空串", input: "", unit: UnitCentimeter, ok: false},
		{name: "非数值", input: "abc", unit: UnitCentimeter, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseValue(tt.input, tt.unit)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, v, 1e-9)
			}
		})
	}
}

func TestParseValue_Fractional(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		unit     Unit
		expected float64
		ok       bool
	}{
		{name: "纯整数", input: "12", unit: UnitInch16, expected: 12, ok: true},
		{name: "纯分数", input: "5/16", unit: UnitInch16, expected: 0.3125, ok: true},
		{name: "整数加分数", input: "12 5/16", unit: UnitInch16, expected: 12.3125, ok: true},
		{name: "负整数加分数", input: "-1 3/16", unit: UnitInch16, expected: -1.1875, ok: true},
		{name: "分母32", input: "3 7/32", unit: UnitInch32, expected: 3.21875, ok: true},
		{name: "非固定分母也化简", input: "1/2", unit: UnitInch16, expected: 0.5, ok: true},
		{name: "输入未完成缺分母", input: "1/", unit: UnitInch16, ok: false},
		{name: "输入未完成只有斜杠", input: "/", unit: UnitInch16, ok: false},
		{name: "输入未完成缺分子", input: "/4", unit: UnitInch16, ok: false},
		{name: "分母为零", input: "1/0", unit: UnitInch16, ok: false},
		{name: "空串", input: "", unit: UnitInch16, ok: false},
		{name: "零散多段", input: "1 2 3/4", unit: UnitInch16, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := ParseValue(tt.input, tt.unit)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, v, 1e-9)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		unit     Unit
		expected string
	}{
		{name: "厘米去尾零", value: 52.50, unit: UnitCentimeter, expected: "52.5"},
		{name: "厘米两位小数", value: 12.345, unit: UnitCentimeter, expected: "12.35"},
		{name: "厘米整数", value: 52, unit: UnitCentimeter, expected: "52"},
		{name: "分数折叠为整数", value: 12, unit: UnitInch16, expected: "12"},
		{name: "分数带整数部分", value: 12.3125, unit: UnitInch16, expected: "12 5/16"},
		{name: "纯分数", value: 0.3125, unit: UnitInch16, expected: "5/16"},
		{name: "分数约分", value: 0.5, unit: UnitInch16, expected: "1/2"},
		{name: "负分数", value: -1.1875, unit: UnitInch16, expected: "-1 3/16"},
		{name: "吸附到最近分数", value: 0.32, unit: UnitInch16, expected: "5/16"},
		{name: "分母10", value: 4.7, unit: UnitInch10, expected: "4 7/10"},
		{name: "分母32", value: 3.21875, unit: UnitInch32, expected: "3 7/32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value, tt.unit))
		})
	}
}

// 往返律：parse(format(v, u), u) 在单位可表示分辨率内还原 v
func TestCodec_RoundTrip(t *testing.T) {
	// 分数单位在分母格点上的值严格还原
	v, ok := ParseValue(FormatValue(12.3125, UnitInch16), UnitInch16)
	assert.True(t, ok)
	assert.Equal(t, 12.3125, v)

	// 十进制单位在 2 位小数分辨率内还原
	for _, value := range []float64{0, 52, 52.5, 12.34, -3.25, 104.05} {
		formatted := FormatValue(value, UnitCentimeter)
		parsed, ok := ParseValue(formatted, UnitCentimeter)
		assert.True(t, ok, "format=%s", formatted)
		assert.InDelta(t, value, parsed, 0.005)
	}

	// 分数单位在 1/32 分辨率内还原任意值
	for _, value := range []float64{1.0, 2.97, 12.3125, 0.015625, 7.77} {
		formatted := FormatValue(value, UnitInch32)
		parsed, ok := ParseValue(formatted, UnitInch32)
		assert.True(t, ok, "format=%s", formatted)
		assert.InDelta(t, value, parsed, 1.0/32/2+1e-9)
	}
}
