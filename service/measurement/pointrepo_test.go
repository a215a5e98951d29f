/*
 * @module service/measurement/pointrepo_test
 * @description 测量点仓库单元测试
 * @architecture 单元测试 - 验证有序集合操作与身份管理
 * @documentReference dev_docs/measurement_engine.md 第4.4节
 * @stateFlow 测试数据准备 -> 仓库操作 -> 结果验证
 * @rules 覆盖插入、删除级联、复制去重与尺码范围重配
 * @dependencies testing, github.com/stretchr/testify/assert
 * @refs pointrepo.go, engine.go
 */

package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techspec-service/service/models"
)

func newTestEngine() *Engine {
	spec := &models.GarmentSpec{
		ID:        "spec-1",
		StyleNo:   "TEST-001",
		Name:      "测试规格",
		Unit:      models.UnitCentimeter,
		SizeRange: models.JSONBStringArray{"S", "M", "L", "XL"},
		BaseSize:  "M",
	}
	return NewEngine(spec, ModeStrict, StandardDefaults())
}

func addChestPoint(e *Engine) *models.MeasurementPoint {
	return e.AddPoint(models.MeasurementPoint{
		Code:   "B01",
		Name:   "胸围",
		Active: true,
		Sizes:  models.SizeValueMap{"S": 49, "M": 52, "L": 55},
	})
}

func TestEngine_AddAndInsertPoint(t *testing.T) {
	e := newTestEngine()

	first := addChestPoint(e)
	assert.NotEmpty(t, first.Key)
	assert.Equal(t, "M", first.BaseSize)
	assert.Equal(t, 0, first.OrderIndex)

	// 指定位置插入，其余行顺延
	inserted := e.InsertPointAt(0, models.MeasurementPoint{Code: "B00", Name: "领围", Active: true})
	assert.Equal(t, 0, inserted.OrderIndex)
	assert.Equal(t, "B00", e.Spec().Points[0].Code)
	assert.Equal(t, "B01", e.Spec().Points[1].Code)
	assert.Equal(t, 1, e.Spec().Points[1].OrderIndex)

	// 越界位置夹到两端
	tail := e.InsertPointAt(99, models.MeasurementPoint{Code: "B99", Name: "下摆围", Active: true})
	assert.Equal(t, len(e.Spec().Points)-1, tail.OrderIndex)

	// 加入时尺码表裁剪到当前范围
	pruned := e.AddPoint(models.MeasurementPoint{
		Code: "B02", Name: "腰围", Active: true,
		Sizes: models.SizeValueMap{"M": 40, "XXXL": 99},
	})
	assert.Equal(t, models.SizeValueMap{"M": 40}, pruned.Sizes)
}

func TestEngine_PointUnitFollowsSpec(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)

	// 测量点单位继承文档单位，不得各自漂移
	assert.Equal(t, models.UnitCentimeter, p.Unit)

	require.NoError(t, e.SetUnit(models.UnitInch16))
	assert.Equal(t, models.UnitInch16, e.FindPoint(p.Key).Unit)

	// 切换单位后新增的测量点同样继承新单位
	added := e.AddPoint(models.MeasurementPoint{Code: "B02", Name: "腰围", Active: true})
	assert.Equal(t, models.UnitInch16, added.Unit)
}

func TestEngine_UpdatePoint(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)

	updated, err := e.UpdatePoint(p.Key, models.MeasurementPoint{
		Code: "B01A", Name: "胸围（修订）", ToleranceMinus: 1, TolerancePlus: 1.5, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "B01A", updated.Code)
	assert.Equal(t, 1.5, updated.TolerancePlus)
	// 请求未携带尺码表时级放结果保持不变
	assert.Equal(t, models.SizeValueMap{"S": 49, "M": 52, "L": 55}, updated.Sizes)

	_, err = e.UpdatePoint("missing", models.MeasurementPoint{})
	assert.Error(t, err)
}

func TestEngine_DeletePoint_CascadesAllRounds(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)
	other := e.AddPoint(models.MeasurementPoint{Code: "B02", Name: "腰围", Active: true, Sizes: models.SizeValueMap{"M": 40}})

	// 两个轮次，第一个随第二个创建而锁定
	_, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)
	_, err = e.CreateRound("第二轮", "2026-04-01", "李四", models.RequestedSourceOriginal)
	require.NoError(t, err)

	require.NoError(t, e.DeletePoint(p.Key))

	// 删除级联清除所有轮次（含锁定轮次）中的关联条目
	for _, round := range e.Spec().Rounds {
		for _, entry := range round.Entries {
			assert.NotEqual(t, p.Key, entry.PointKey)
		}
		assert.Len(t, round.Entries, 1)
		assert.Equal(t, other.Key, round.Entries[0].PointKey)
	}
}

func TestEngine_DuplicatePoint(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)
	_, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	duplicated, err := e.DuplicatePoint(p.Key)
	require.NoError(t, err)

	// 全新稳定身份与去重编号
	assert.NotEqual(t, p.Key, duplicated.Key)
	assert.Equal(t, "B01_COPY", duplicated.Code)
	// 紧随原行插入
	assert.Equal(t, 1, duplicated.OrderIndex)

	// 尺码表独立持有
	duplicated.Sizes["M"] = 99
	assert.Equal(t, 52.0, e.FindPoint(p.Key).Sizes["M"])

	// 轮次条目一并复制并指向新身份
	round := e.Spec().Rounds[0]
	keys := make(map[string]int)
	for _, entry := range round.Entries {
		keys[entry.PointKey]++
	}
	assert.Equal(t, 1, keys[p.Key])
	assert.Equal(t, 1, keys[duplicated.Key])

	// 再次复制时编号递增去重
	second, err := e.DuplicatePoint(p.Key)
	require.NoError(t, err)
	assert.Equal(t, "B01_COPY-1", second.Code)
}

func TestEngine_SetBaseValueAndJump(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)

	// 编辑基准值按既有级差重算整行
	require.NoError(t, e.SetBaseValue(p.Key, "54"))
	assert.Equal(t, models.SizeValueMap{"S": 51, "M": 54, "L": 57}, e.FindPoint(p.Key).Sizes)

	// 编辑单个尺码级差只重算该尺码
	require.NoError(t, e.SetPointJump(p.Key, "XL", "6"))
	assert.Equal(t, 60.0, e.FindPoint(p.Key).Sizes["XL"])
	assert.Equal(t, 51.0, e.FindPoint(p.Key).Sizes["S"])

	// 基准尺码不接受级差编辑
	assert.Error(t, e.SetPointJump(p.Key, "M", "1"))
	// 范围外尺码被拒绝
	assert.Error(t, e.SetPointJump(p.Key, "XXXL", "1"))
	// 输入未完成不落值
	assert.Error(t, e.SetBaseValue(p.Key, "1/"))

	// 尚无基准值的测量点拒绝级差编辑
	blank := e.AddPoint(models.MeasurementPoint{Code: "B09", Name: "袖口宽", Active: true})
	assert.Error(t, e.SetPointJump(blank.Key, "L", "2"))
}

func TestEngine_SetBaseValue_FirstEntry(t *testing.T) {
	e := newTestEngine()
	p := e.AddPoint(models.MeasurementPoint{Code: "B03", Name: "下摆围", Active: true})

	// 首次录入时无级差可应用，只写基准尺码
	require.NoError(t, e.SetBaseValue(p.Key, "60"))
	assert.Equal(t, models.SizeValueMap{"M": 60}, e.FindPoint(p.Key).Sizes)
}

func TestEngine_SetSizeRange(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)

	// 移除 S、新增 XXL：留存尺码数值原样保留，不强制重算
	require.NoError(t, e.SetSizeRange([]string{"M", "L", "XL", "XXL"}))
	assert.Equal(t, models.SizeValueMap{"M": 52, "L": 55}, e.FindPoint(p.Key).Sizes)
	assert.Equal(t, "M", e.Spec().BaseSize)

	// 旧基准被移除时优先取全局默认，否则取首个
	require.NoError(t, e.SetSizeRange([]string{"L", "XL"}))
	assert.Equal(t, "L", e.Spec().BaseSize)
	assert.Equal(t, "L", e.FindPoint(p.Key).BaseSize)

	// 大小写不敏感重复被拒绝
	assert.Error(t, e.SetSizeRange([]string{"M", "m"}))
	// 空范围被拒绝
	assert.Error(t, e.SetSizeRange([]string{" ", ""}))
}

func TestEngine_SetBaseSize_PreservesValues(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)

	// 变更基准尺码保持表观数值，仅级差表示变化
	require.NoError(t, e.SetBaseSize("S"))
	assert.Equal(t, models.SizeValueMap{"S": 49, "M": 52, "L": 55}, e.FindPoint(p.Key).Sizes)

	jumps, err := e.PointJumps(p.Key)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"M": "3", "L": "6"}, jumps)

	assert.Error(t, e.SetBaseSize("XXXL"))
}

func TestEngine_AddPointFromTemplate(t *testing.T) {
	e := newTestEngine()

	p, err := e.AddPointFromTemplate("B01")
	require.NoError(t, err)
	assert.Equal(t, "B01", p.Code)
	assert.Equal(t, "胸围", p.Name)
	assert.NotEmpty(t, p.Method)

	// 编号冲突时自动去重
	again, err := e.AddPointFromTemplate("B01")
	require.NoError(t, err)
	assert.Equal(t, "B01_COPY", again.Code)

	_, err = e.AddPointFromTemplate("NOPE")
	assert.Error(t, err)
}
