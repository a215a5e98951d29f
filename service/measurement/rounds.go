/*
 * @module service/measurement/rounds
 * @description 样衣轮次引擎：维护有序轮次列表，按来源播种要求值，
 *              在测量点集合变化时同步条目，并把已接受的修订值回灌主规格
 * @architecture 分层架构 - 领域服务层；轮次状态机 Draft -> Locked
 * @documentReference dev_docs/measurement_engine.md 第4.5节
 * @stateFlow 创建轮次（播种要求值）-> 单元格编辑（实测/修订/备注）-> 回灌主规格
 * @rules
 *   - 仅最近创建的轮次可编辑，早先轮次在编辑边界只读
 *   - 条目匹配优先按稳定标识，仅在无标识匹配时回退人读编号
 *   - 删除最后一个轮次不自动重建，轮次列表可以合法为空
 * @dependencies github.com/google/uuid, techspec-service/service/models
 * @refs service/measurement/grading.go, service/measurement/pointrepo.go
 */

package measurement

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"techspec-service/service/models"
)

// 单元格可编辑字段
const (
	CellFieldMeasured = "measured"
	CellFieldRevised  = "revised"
	CellFieldComment  = "comment"
)

// ErrRoundLocked 历史轮次只读，仅最近创建的轮次可编辑
var ErrRoundLocked = errors.New("轮次已锁定，仅最近创建的轮次可编辑")

// CreateRound 创建新轮次并按来源播种全部测量点的要求值
// source 为 previous 时逐尺码取上一轮次的非空修订值，缺失尺码回退主规格
func (e *Engine) CreateRound(name, date, reviewer, source string) (*models.SampleRound, error) {
	if source != models.RequestedSourceOriginal && source != models.RequestedSourcePrevious {
		return nil, fmt.Errorf("不支持的要求值来源: %s", source)
	}
	if source == models.RequestedSourcePrevious && len(e.spec.Rounds) == 0 {
		return nil, fmt.Errorf("没有上一轮次可引用")
	}

	round := models.SampleRound{
		Key:             uuid.New().String(),
		SpecID:          e.spec.ID,
		Name:            name,
		MeasurementDate: date,
		Reviewer:        reviewer,
		RequestedSource: source,
		OrderIndex:      len(e.spec.Rounds),
	}
	e.spec.Rounds = append(e.spec.Rounds, round)
	created := &e.spec.Rounds[len(e.spec.Rounds)-1]

	for i := range e.spec.Points {
		entry := e.seedEntry(&e.spec.Points[i], len(e.spec.Rounds)-1)
		entry.OrderIndex = i
		created.Entries = append(created.Entries, entry)
	}
	return created, nil
}

// DeleteRound 删除轮次并重排顺序号。删除最后一个轮次后列表保持为空
func (e *Engine) DeleteRound(key string) error {
	index := e.roundIndex(key)
	if index < 0 {
		return fmt.Errorf("轮次不存在: %s", key)
	}
	e.spec.Rounds = append(e.spec.Rounds[:index], e.spec.Rounds[index+1:]...)
	for i := range e.spec.Rounds {
		e.spec.Rounds[i].OrderIndex = i
	}
	return nil
}

// UpdateRoundMeta 更新轮次元信息，仅草稿轮次可编辑
func (e *Engine) UpdateRoundMeta(key, name, date, reviewer, comments string) error {
	round, err := e.editableRound(key)
	if err != nil {
		return err
	}
	round.Name = name
	round.MeasurementDate = date
	round.Reviewer = reviewer
	round.Comments = comments
	return nil
}

// EditCell 编辑草稿轮次中某测量点某尺码的单元格
// 条目不存在时按轮次来源惰性创建；编辑实测值时重算差值，清空实测值时清除差值
func (e *Engine) EditCell(roundKey, pointKey, field, size, value string) error {
	round, err := e.editableRound(roundKey)
	if err != nil {
		return err
	}
	if !containsSize(e.SizeOrder(), size) {
		return fmt.Errorf("尺码 %s 不在当前尺码范围内", size)
	}
	pointIndex := e.pointIndex(pointKey)
	if pointIndex < 0 {
		return fmt.Errorf("测量点不存在: %s", pointKey)
	}

	entry := findEntry(round, pointKey, "")
	if entry == nil {
		seeded := e.seedEntry(&e.spec.Points[pointIndex], e.roundIndex(roundKey))
		seeded.OrderIndex = len(round.Entries)
		round.Entries = append(round.Entries, seeded)
		entry = &round.Entries[len(round.Entries)-1]
	}
	ensureEntrySize(entry, size)

	switch field {
	case CellFieldMeasured:
		entry.Measured[size] = value
		e.recomputeDiff(entry, size)
	case CellFieldRevised:
		entry.Revised[size] = value
	case CellFieldComment:
		entry.Comments[size] = value
	default:
		return fmt.Errorf("不支持的单元格字段: %s", field)
	}
	return nil
}

// ApplyRound 轮次保存回灌：对每个条目中非空且可解析为数值的修订值，更新主规格测量点
// 级放一致性要求整行重算：先由修改前的数值表反推级差，再以新基准值应用级差，
// 基准尺码的修订按原级差联动其余尺码，非基准尺码的修订只改动该尺码自身
func (e *Engine) ApplyRound(roundKey string) error {
	index := e.roundIndex(roundKey)
	if index < 0 {
		return fmt.Errorf("轮次不存在: %s", roundKey)
	}
	round := &e.spec.Rounds[index]
	calc := e.calculator()
	order := e.SizeOrder()

	for i := range round.Entries {
		entry := &round.Entries[i]
		p := e.FindPoint(entry.PointKey)
		if p == nil {
			continue
		}

		revised := make(map[string]float64)
		for size, text := range entry.Revised {
			if text == "" || !containsSize(order, size) {
				continue
			}
			if v, ok := ParseValue(text, e.Unit()); ok {
				revised[size] = v
			}
		}
		if len(revised) == 0 {
			continue
		}

		jumps := calc.DeriveJumps(p.Sizes, p.BaseSize)
		baseValue, hasBase := p.Sizes[p.BaseSize]
		if v, ok := revised[p.BaseSize]; ok {
			baseValue = v
			hasBase = true
		}
		if !hasBase {
			// 主规格没有基准值且修订未提供，保底只写入修订的尺码
			if p.Sizes == nil {
				p.Sizes = models.SizeValueMap{}
			}
			for size, v := range revised {
				p.Sizes[size] = RoundValue(v)
			}
			continue
		}

		newSizes := calc.ApplyJumps(p.BaseSize, baseValue, jumps, order)
		for size, v := range revised {
			if size != p.BaseSize {
				newSizes[size] = RoundValue(v)
			}
		}
		p.Sizes = newSizes
	}
	return nil
}

// EditableRoundKey 当前可编辑轮次的标识，列表为空时返回空串
func (e *Engine) EditableRoundKey() string {
	if len(e.spec.Rounds) == 0 {
		return ""
	}
	return e.spec.Rounds[len(e.spec.Rounds)-1].Key
}

// editableRound 取指定轮次并校验其为草稿（最近创建）轮次
func (e *Engine) editableRound(key string) (*models.SampleRound, error) {
	index := e.roundIndex(key)
	if index < 0 {
		return nil, fmt.Errorf("轮次不存在: %s", key)
	}
	if index != len(e.spec.Rounds)-1 {
		return nil, fmt.Errorf("轮次 %s: %w", key, ErrRoundLocked)
	}
	return &e.spec.Rounds[index], nil
}

func (e *Engine) roundIndex(key string) int {
	for i := range e.spec.Rounds {
		if e.spec.Rounds[i].Key == key {
			return i
		}
	}
	return -1
}

// syncRounds 测量点集合变化后的条目同步：
// 清除关联测量点已不存在的条目；为缺少条目的测量点按轮次来源补建条目
func (e *Engine) syncRounds() {
	for r := range e.spec.Rounds {
		round := &e.spec.Rounds[r]

		kept := round.Entries[:0]
		for _, entry := range round.Entries {
			if e.resolveEntryPoint(&entry) != nil {
				kept = append(kept, entry)
			}
		}
		round.Entries = kept

		for i := range e.spec.Points {
			p := &e.spec.Points[i]
			if findEntry(round, p.Key, p.Code) == nil {
				round.Entries = append(round.Entries, e.seedEntry(p, r))
			}
		}
		for i := range round.Entries {
			round.Entries[i].OrderIndex = i
		}
	}
}

// resolveEntryPoint 条目到测量点的匹配：优先稳定标识，无标识匹配时回退人读编号
// 编号匹配命中后把条目纠正为按标识关联
func (e *Engine) resolveEntryPoint(entry *models.SampleEntry) *models.MeasurementPoint {
	if entry.PointKey != "" {
		if p := e.FindPoint(entry.PointKey); p != nil {
			return p
		}
	}
	if entry.PointCode != "" {
		for i := range e.spec.Points {
			p := &e.spec.Points[i]
			if p.Code == entry.PointCode {
				entry.PointKey = p.Key
				return p
			}
		}
	}
	return nil
}

// seedEntry 依轮次来源为测量点播种条目
// original: 取主规格当前数值；previous: 逐尺码取上一轮次非空修订值，缺失回退主规格
func (e *Engine) seedEntry(p *models.MeasurementPoint, roundIndex int) models.SampleEntry {
	entry := models.SampleEntry{
		Key:       uuid.New().String(),
		PointKey:  p.Key,
		PointCode: p.Code,
		Requested: models.StringMap{},
		Measured:  models.StringMap{},
		Diff:      models.StringMap{},
		Revised:   models.StringMap{},
		Comments:  models.StringMap{},
	}
	if roundIndex >= 0 && roundIndex < len(e.spec.Rounds) {
		entry.RoundKey = e.spec.Rounds[roundIndex].Key
	}

	var prior *models.SampleEntry
	if roundIndex > 0 && e.spec.Rounds[roundIndex].RequestedSource == models.RequestedSourcePrevious {
		prior = findEntry(&e.spec.Rounds[roundIndex-1], p.Key, p.Code)
	}

	for _, size := range e.SizeOrder() {
		value, defined := p.Sizes[size]
		requested := ""
		if defined {
			requested = FormatValue(value, e.Unit())
		}
		if prior != nil {
			if revised, ok := prior.Revised[size]; ok && revised != "" {
				requested = revised
			}
		}
		if requested != "" {
			entry.Requested[size] = requested
			ensureEntrySize(&entry, size)
		}
	}
	return entry
}

// recomputeDiff 实测值变化后重算差值：双方均可解析为数值时差值 = 实测 - 要求，
// 实测值被清空时清除该尺码的差值
func (e *Engine) recomputeDiff(entry *models.SampleEntry, size string) {
	measured := entry.Measured[size]
	if measured == "" {
		entry.Diff[size] = ""
		return
	}
	m, okM := ParseValue(measured, e.Unit())
	r, okR := ParseValue(entry.Requested[size], e.Unit())
	if okM && okR {
		entry.Diff[size] = FormatValue(m-r, e.Unit())
	} else {
		entry.Diff[size] = ""
	}
}

// findEntry 在轮次内查找条目：优先稳定标识，回退人读编号
func findEntry(round *models.SampleRound, pointKey, pointCode string) *models.SampleEntry {
	for i := range round.Entries {
		if pointKey != "" && round.Entries[i].PointKey == pointKey {
			return &round.Entries[i]
		}
	}
	if pointCode == "" {
		return nil
	}
	for i := range round.Entries {
		if round.Entries[i].PointKey == "" && round.Entries[i].PointCode == pointCode {
			return &round.Entries[i]
		}
	}
	return nil
}

// ensureEntrySize 规范化保证：任一值表出现的尺码键在五个表中都存在，缺失以空串表示
func ensureEntrySize(entry *models.SampleEntry, size string) {
	for _, m := range []models.StringMap{entry.Requested, entry.Measured, entry.Diff, entry.Revised, entry.Comments} {
		if _, ok := m[size]; !ok {
			m[size] = ""
		}
	}
}
