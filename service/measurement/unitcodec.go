/*
 * @module service/measurement/unitcodec
 * @description 测量值编解码器，负责各测量单位下数值的解析与格式化，支持英寸分数记法
 * @architecture 工具函数模式，无状态编解码
 * @documentReference dev_docs/measurement_engine.md 第4.1节
 * @stateFlow 无状态转换：文本 -> 解析 -> 数值；数值 -> 吸附 -> 文本
 * @rules
 *   - 解析失败不抛异常，以 ok=false 表示，调用方据此保留用户原始按键
 *   - 语法不完整的输入（如 "1/"）同样返回 ok=false，视为"输入中"
 *   - 十进制单位固定 2 位小数分辨率；分数单位吸附到单位分母（10/16/32）
 * @dependencies github.com/spf13/cast, strconv, strings, math
 * @refs service/measurement/grading.go
 */

package measurement

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"techspec-service/service/models"
)

// Unit 测量单位
type Unit string

const (
	UnitMillimeter Unit = models.UnitMillimeter
	UnitCentimeter Unit = models.UnitCentimeter
	UnitInch10     Unit = models.UnitInch10
	UnitInch16     Unit = models.UnitInch16
	UnitInch32     Unit = models.UnitInch32
)

// DefaultUnit 文档未指定单位时的回退单位
const DefaultUnit = UnitCentimeter

// SupportedUnits 全部受支持的单位，按展示顺序排列
func SupportedUnits() []Unit {
	return []Unit{UnitMillimeter, UnitCentimeter, UnitInch10, UnitInch16, UnitInch32}
}

// IsValidUnit 判断单位是否受支持
func IsValidUnit(u string) bool {
	for _, s := range SupportedUnits() {
		if string(s) == u {
			return true
		}
	}
	return false
}

// Denominator 分数单位的固定分母，十进制单位返回 0
func (u Unit) Denominator() int {
	switch u {
	case UnitInch10:
		return 10
	case UnitInch16:
		return 16
	case UnitInch32:
		return 32
	default:
		return 0
	}
}

// IsFractional 是否采用"整数 + 分数"记法
func (u Unit) IsFractional() bool {
	return u.Denominator() > 0
}

// ParseValue 按单位解析文本为数值
// 十进制单位接受普通小数；分数单位接受 "W"、"N/D"、"W N/D" 三种形式
// 返回 ok=false 表示无法得到数值（含语法不完整的"输入中"状态）
func ParseValue(text string, unit Unit) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	if !unit.IsFractional() {
		v, err := cast.ToFloat64E(s)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(s[1:])
		if s == "" {
			return 0, false
		}
	}

	var whole float64
	var frac float64
	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		if strings.Contains(parts[0], "/") {
			f, ok := parseFraction(parts[0])
			if !ok {
				return 0, false
			}
			frac = f
		} else {
			w, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return 0, false
			}
			whole = w
		}
	case 2:
		w, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		f, ok := parseFraction(parts[1])
		if !ok {
			return 0, false
		}
		whole, frac = w, f
	default:
		return 0, false
	}

	v := whole + frac
	if negative {
		v = -v
	}
	return v, true
}

// parseFraction 解析 "N/D" 片段，"1/" 这类缺分母的片段视为输入未完成
func parseFraction(s string) (float64, bool) {
	idx := strings.Index(s, "/")
	if idx <= 0 || idx == len(s)-1 {
		return 0, false
	}
	num, err := strconv.Atoi(s[:idx])
	if err != nil || num < 0 {
		return 0, false
	}
	den, err := strconv.Atoi(s[idx+1:])
	if err != nil || den <= 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}

// FormatValue 按单位格式化数值
// 十进制单位保留至多 2 位小数；分数单位吸附到最近可表示分数，约分后
// 余数为零时折叠成整数
func FormatValue(v float64, unit Unit) string {
	if !unit.IsFractional() {
		return formatDecimal(v)
	}

	negative := v < 0
	abs := math.Abs(v)

	den := unit.Denominator()
	total := int(math.Round(abs * float64(den)))
	whole := total / den
	num := total % den

	var s string
	switch {
	case num == 0:
		s = strconv.Itoa(whole)
	case whole == 0:
		n, d := reduceFraction(num, den)
		s = fmt.Sprintf("%d/%d", n, d)
	default:
		n, d := reduceFraction(num, den)
		s = fmt.Sprintf("%d %d/%d", whole, n, d)
	}
	if negative && total != 0 {
		s = "-" + s
	}
	return s
}

// formatDecimal 四舍五入到 2 位小数并去除尾随零
func formatDecimal(v float64) string {
	rounded := RoundValue(v)
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// reduceFraction 约分
func reduceFraction(num, den int) (int, int) {
	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// RoundValue 级放运算统一的数值分辨率：2 位小数
func RoundValue(v float64) float64 {
	return math.Round(v*100) / 100
}
