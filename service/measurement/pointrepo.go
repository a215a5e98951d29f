/*
 * @module service/measurement/pointrepo
 * @description 测量点仓库：规格文档内有序测量点集合的增删改、指定位置插入、
 *              复制换新身份，以及级放参数编辑
 * @architecture 分层架构 - 领域服务层，内存有序集合
 * @documentReference dev_docs/measurement_engine.md 第4.4节
 * @stateFlow 变更测量点 -> 重新锚定基准尺码/裁剪尺码 -> 轮次条目同步
 * @rules
 *   - 每次变更后测量点基准尺码对齐全局基准，尺码表裁剪到当前范围
 *   - 删除测量点级联清除所有轮次（含锁定轮次）中的关联条目
 *   - 复制生成全新稳定标识与去重编号，尺码表和轮次条目独立持有
 * @dependencies github.com/google/uuid, techspec-service/service/models
 * @refs service/measurement/rounds.go
 */

package measurement

import (
	"fmt"

	"github.com/google/uuid"

	"techspec-service/service/models"
)

// AddPoint 追加测量点。标识为空时铸造新的稳定标识
func (e *Engine) AddPoint(p models.MeasurementPoint) *models.MeasurementPoint {
	return e.InsertPointAt(len(e.spec.Points), p)
}

// InsertPointAt 在指定位置插入测量点，越界位置夹到两端
func (e *Engine) InsertPointAt(index int, p models.MeasurementPoint) *models.MeasurementPoint {
	if p.Key == "" {
		p.Key = uuid.New().String()
	}
	p.SpecID = e.spec.ID
	p.BaseSize = e.spec.BaseSize
	p.Unit = e.spec.Unit
	if p.Sizes == nil {
		p.Sizes = models.SizeValueMap{}
	}
	pruneSizes(p.Sizes, e.SizeOrder())

	if index < 0 {
		index = 0
	}
	if index > len(e.spec.Points) {
		index = len(e.spec.Points)
	}
	e.spec.Points = append(e.spec.Points, models.MeasurementPoint{})
	copy(e.spec.Points[index+1:], e.spec.Points[index:])
	e.spec.Points[index] = p

	e.renumberPoints()
	e.syncRounds()
	return &e.spec.Points[index]
}

// UpdatePoint 更新指定测量点的属性字段。稳定标识与级放结果不受覆盖，
// 尺码表仅在请求携带时整体替换
func (e *Engine) UpdatePoint(key string, updated models.MeasurementPoint) (*models.MeasurementPoint, error) {
	p := e.FindPoint(key)
	if p == nil {
		return nil, fmt.Errorf("测量点不存在: %s", key)
	}
	p.Code = updated.Code
	p.Name = updated.Name
	p.ToleranceMinus = updated.ToleranceMinus
	p.TolerancePlus = updated.TolerancePlus
	p.Method = updated.Method
	p.Notes = updated.Notes
	p.Active = updated.Active
	if updated.Sizes != nil {
		p.Sizes = updated.Sizes.Clone()
	}
	p.BaseSize = e.spec.BaseSize
	p.Unit = e.spec.Unit
	pruneSizes(p.Sizes, e.SizeOrder())
	e.syncRounds()
	return p, nil
}

// DeletePoint 删除测量点，并清除所有轮次中关联到它的条目
// 历史轮次不得引用已不存在的测量点
func (e *Engine) DeletePoint(key string) error {
	index := e.pointIndex(key)
	if index < 0 {
		return fmt.Errorf("测量点不存在: %s", key)
	}
	e.spec.Points = append(e.spec.Points[:index], e.spec.Points[index+1:]...)
	e.renumberPoints()
	e.syncRounds()
	return nil
}

// DuplicatePoint 复制测量点：全新稳定标识、带 _COPY 后缀的去重编号、
// 独立持有的尺码表；各轮次中的关联条目一并复制并指向新身份
func (e *Engine) DuplicatePoint(key string) (*models.MeasurementPoint, error) {
	index := e.pointIndex(key)
	if index < 0 {
		return nil, fmt.Errorf("测量点不存在: %s", key)
	}
	source := e.spec.Points[index]

	duplicated := *source.Clone()
	duplicated.Key = uuid.New().String()
	duplicated.Code = e.uniquifyCode(source.Code)

	e.spec.Points = append(e.spec.Points, models.MeasurementPoint{})
	copy(e.spec.Points[index+2:], e.spec.Points[index+1:])
	e.spec.Points[index+1] = duplicated
	e.renumberPoints()

	// 复制源测量点在各轮次中的条目，换新条目标识并指向新测量点
	for r := range e.spec.Rounds {
		round := &e.spec.Rounds[r]
		for _, entry := range round.Entries {
			if entry.PointKey != source.Key {
				continue
			}
			copied := *entry.Clone()
			copied.Key = uuid.New().String()
			copied.PointKey = duplicated.Key
			copied.PointCode = duplicated.Code
			round.Entries = append(round.Entries, copied)
			break
		}
	}

	e.syncRounds()
	return &e.spec.Points[index+1], nil
}

// SetBaseValue 编辑基准尺码的数值：由修改前的数值表反推级差，再以新基准值重算整行
func (e *Engine) SetBaseValue(key string, text string) error {
	p := e.FindPoint(key)
	if p == nil {
		return fmt.Errorf("测量点不存在: %s", key)
	}
	value, ok := ParseValue(text, e.Unit())
	if !ok {
		return fmt.Errorf("无法解析数值: %s", text)
	}
	if len(p.Sizes) == 0 || !hasKey(p.Sizes, p.BaseSize) {
		// 首次录入，尚无级差可应用
		if p.Sizes == nil {
			p.Sizes = models.SizeValueMap{}
		}
		p.Sizes[p.BaseSize] = RoundValue(value)
		return nil
	}
	e.calculator().RegradeFromBase(p, value, e.SizeOrder())
	return nil
}

// SetPointJump 编辑单个尺码的级差，只重算该尺码
func (e *Engine) SetPointJump(key, size, jumpText string) error {
	p := e.FindPoint(key)
	if p == nil {
		return fmt.Errorf("测量点不存在: %s", key)
	}
	if !containsSize(e.SizeOrder(), size) {
		return fmt.Errorf("尺码 %s 不在当前尺码范围内", size)
	}
	if size == p.BaseSize {
		return fmt.Errorf("基准尺码 %s 不接受级差编辑", size)
	}
	return e.calculator().SetJump(p, size, jumpText)
}

// PointJumps 当前级差视图（由数值表按需反推，不落盘）
func (e *Engine) PointJumps(key string) (map[string]string, error) {
	p := e.FindPoint(key)
	if p == nil {
		return nil, fmt.Errorf("测量点不存在: %s", key)
	}
	return e.calculator().DeriveJumps(p.Sizes, p.BaseSize), nil
}

// FindPoint 按稳定标识查找测量点
func (e *Engine) FindPoint(key string) *models.MeasurementPoint {
	index := e.pointIndex(key)
	if index < 0 {
		return nil
	}
	return &e.spec.Points[index]
}

func (e *Engine) pointIndex(key string) int {
	for i := range e.spec.Points {
		if e.spec.Points[i].Key == key {
			return i
		}
	}
	return -1
}

// renumberPoints 重排顺序号
func (e *Engine) renumberPoints() {
	for i := range e.spec.Points {
		e.spec.Points[i].OrderIndex = i
	}
}

// uniquifyCode 编号去重：<code>_COPY，冲突时 <code>_COPY-1、-2 递增
func (e *Engine) uniquifyCode(code string) string {
	existing := make(map[string]bool, len(e.spec.Points))
	for i := range e.spec.Points {
		existing[e.spec.Points[i].Code] = true
	}
	candidate := code + "_COPY"
	for i := 1; existing[candidate]; i++ {
		candidate = fmt.Sprintf("%s_COPY-%d", code, i)
	}
	return candidate
}

func hasKey(m models.SizeValueMap, key string) bool {
	_, ok := m[key]
	return ok
}
