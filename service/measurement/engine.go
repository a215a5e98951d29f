/*
 * @module service/measurement/engine
 * @description 尺寸规格引擎：持有一份规格文档的工作副本，暴露尺码范围、基准尺码、
 *              单位的读取与变更操作，并聚合测量点仓库与样衣轮次引擎
 * @architecture 分层架构 - 领域服务层；显式传递的会话对象，绝不使用全局单例
 * @documentReference dev_docs/measurement_engine.md 第2、4节
 * @stateFlow 规范化入口 -> 编辑操作 -> 校验 -> 提交内存状态
 * @rules
 *   - 尺码标签大小写不敏感地唯一；尺码范围初始化后非空
 *   - 基准尺码恒为当前范围成员，范围重配时按"全局默认优先，否则首个尺码"确定
 *   - 所有变更同步执行，引擎内部无并发写者
 * @dependencies techspec-service/service/models
 * @refs service/measurement/pointrepo.go, service/measurement/rounds.go
 */

package measurement

import (
	"fmt"
	"strings"

	"techspec-service/service/models"
)

// Defaults 文档缺省值配置，规范化入口据此补全遗留文档
type Defaults struct {
	Unit       string              `json:"unit"`
	BaseSize   string              `json:"base_size"`
	SizeRanges map[string][]string `json:"size_ranges"` // 按性别的默认尺码范围
	FixedRange []string            `json:"fixed_range"` // 性别未知时的固定回退范围
}

// StandardDefaults 内置缺省值
func StandardDefaults() Defaults {
	return Defaults{
		Unit:     string(DefaultUnit),
		BaseSize: "M",
		SizeRanges: map[string][]string{
			"female": {"XS", "S", "M", "L", "XL"},
			"male":   {"S", "M", "L", "XL", "XXL"},
			"kids":   {"110", "120", "130", "140", "150", "160"},
		},
		FixedRange: []string{"S", "M", "L", "XL"},
	}
}

// Engine 尺寸规格引擎
type Engine struct {
	spec     *models.GarmentSpec
	mode     ProgressionMode
	defaults Defaults
}

// NewEngine 创建引擎并对文档执行规范化入口处理
func NewEngine(spec *models.GarmentSpec, mode ProgressionMode, defaults Defaults) *Engine {
	NormalizeSpec(spec, defaults)
	return &Engine{spec: spec, mode: mode, defaults: defaults}
}

// Spec 当前工作副本（读取边界）
func (e *Engine) Spec() *models.GarmentSpec {
	return e.spec
}

// Replace 以另一份文档整体替换工作状态（保存成功后采用服务端权威重读）
func (e *Engine) Replace(spec *models.GarmentSpec) {
	NormalizeSpec(spec, e.defaults)
	e.spec = spec
}

// Mode 当前递进校验模式
func (e *Engine) Mode() ProgressionMode {
	return e.mode
}

// SizeOrder 权威尺码顺序
func (e *Engine) SizeOrder() []string {
	return []string(e.spec.SizeRange)
}

// Unit 当前测量单位
func (e *Engine) Unit() Unit {
	return Unit(e.spec.Unit)
}

// calculator 绑定当前单位的级放计算器
func (e *Engine) calculator() *GradingCalculator {
	return NewGradingCalculator(e.Unit())
}

// SetUnit 变更规格测量单位。单位只影响显示与解析，存量数值不做换算
func (e *Engine) SetUnit(unit string) error {
	if !IsValidUnit(unit) {
		return fmt.Errorf("不支持的测量单位: %s", unit)
	}
	e.spec.Unit = unit
	for i := range e.spec.Points {
		e.spec.Points[i].Unit = unit
	}
	return nil
}

// SetSizeRange 重配尺码范围
// 留存尺码的数值原样保留；各测量点的尺码表裁剪到新范围；
// 旧基准尺码被移除时，优先采用全局默认基准尺码，否则取首个尺码
func (e *Engine) SetSizeRange(sizes []string) error {
	cleaned, err := cleanSizeRange(sizes)
	if err != nil {
		return err
	}
	e.spec.SizeRange = models.JSONBStringArray(cleaned)
	e.spec.BaseSize = resolveBaseSize(e.spec.BaseSize, cleaned, e.defaults.BaseSize)
	e.reanchorPoints()
	e.syncRounds()
	return nil
}

// SetBaseSize 变更基准尺码，各尺码的表观数值保持不变
func (e *Engine) SetBaseSize(size string) error {
	if !containsSize(e.SizeOrder(), size) {
		return fmt.Errorf("基准尺码 %s 不在当前尺码范围内", size)
	}
	e.spec.BaseSize = size
	for i := range e.spec.Points {
		e.spec.Points[i].BaseSize = size
	}
	return nil
}

// ValidateSpec 对全部测量点执行递进校验，返回测量点标识 -> 校验结果
func (e *Engine) ValidateSpec() map[string]ProgressionResult {
	results := make(map[string]ProgressionResult, len(e.spec.Points))
	for i := range e.spec.Points {
		p := &e.spec.Points[i]
		results[p.Key] = ValidateProgression(p.Sizes, e.SizeOrder(), e.mode)
	}
	return results
}

// ValidateForSave 保存前校验：必填字段、正数测量值、基准尺码取值、严格模式下的递进错误
// 返回测量点标识 -> 字段级错误消息；全部为空表示可保存
func (e *Engine) ValidateForSave() map[string][]string {
	fieldErrors := make(map[string][]string)
	for i := range e.spec.Points {
		p := &e.spec.Points[i]
		var msgs []string
		if strings.TrimSpace(p.Code) == "" {
			msgs = append(msgs, "测量点编号不能为空")
		}
		if strings.TrimSpace(p.Name) == "" {
			msgs = append(msgs, "测量点名称不能为空")
		}
		if len(p.Sizes) > 0 {
			if _, ok := p.Sizes[p.BaseSize]; !ok {
				msgs = append(msgs, fmt.Sprintf("缺少基准尺码 %s 的数值", p.BaseSize))
			}
		}
		hasPositive := false
		for _, v := range p.Sizes {
			if v > 0 {
				hasPositive = true
				break
			}
		}
		if len(p.Sizes) > 0 && !hasPositive {
			msgs = append(msgs, "至少需要一个大于 0 的测量值")
		}
		progression := ValidateProgression(p.Sizes, e.SizeOrder(), e.mode)
		msgs = append(msgs, progression.Errors...)
		if len(msgs) > 0 {
			fieldErrors[p.Key] = msgs
		}
	}
	return fieldErrors
}

// reanchorPoints 每次形态变更后对所有测量点重新锚定：
// 基准尺码对齐全局基准，尺码表裁剪到当前范围
func (e *Engine) reanchorPoints() {
	order := e.SizeOrder()
	for i := range e.spec.Points {
		p := &e.spec.Points[i]
		p.BaseSize = e.spec.BaseSize
		pruneSizes(p.Sizes, order)
	}
}

// cleanSizeRange 清洗尺码范围：去空白、非空、大小写不敏感唯一
func cleanSizeRange(sizes []string) ([]string, error) {
	var cleaned []string
	seen := make(map[string]bool)
	for _, s := range sizes {
		label := strings.TrimSpace(s)
		if label == "" {
			continue
		}
		lower := strings.ToLower(label)
		if seen[lower] {
			return nil, fmt.Errorf("尺码标签重复: %s", label)
		}
		seen[lower] = true
		cleaned = append(cleaned, label)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("尺码范围不能为空")
	}
	return cleaned, nil
}

// resolveBaseSize 确定性选择基准尺码：现值仍在范围内则保留，
// 否则优先取全局默认，最后取首个尺码
func resolveBaseSize(current string, sizeRange []string, preferred string) string {
	if containsSize(sizeRange, current) {
		return current
	}
	if containsSize(sizeRange, preferred) {
		return preferred
	}
	return sizeRange[0]
}

func containsSize(sizes []string, size string) bool {
	for _, s := range sizes {
		if s == size {
			return true
		}
	}
	return false
}

// pruneSizes 删除不在范围内的尺码键
func pruneSizes(sizes models.SizeValueMap, order []string) {
	for size := range sizes {
		if !containsSize(order, size) {
			delete(sizes, size)
		}
	}
}
