/*
 * @module service/measurement/rounds_test
 * @description 样衣轮次引擎单元测试
 * @architecture 单元测试 - 验证轮次状态机、播种、同步与回灌
 * @documentReference dev_docs/measurement_engine.md 第4.5节
 * @stateFlow 测试数据准备 -> 轮次操作 -> 结果验证
 * @rules 覆盖两种要求值来源、锁定边界、惰性条目创建、差值计算与修订回灌
 * @dependencies testing, github.com/stretchr/testify/assert
 * @refs rounds.go
 */

package measurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techspec-service/service/models"
)

func TestCreateRound_SeedFromOriginal(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)

	round, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)
	assert.Equal(t, 0, round.OrderIndex)
	require.Len(t, round.Entries, 1)

	entry := round.Entries[0]
	assert.Equal(t, p.Key, entry.PointKey)
	assert.Equal(t, "49", entry.Requested["S"])
	assert.Equal(t, "52", entry.Requested["M"])
	assert.Equal(t, "55", entry.Requested["L"])
	// 主规格未定义的尺码不进入条目键集合
	_, hasXL := entry.Requested["XL"]
	assert.False(t, hasXL)
	// 五个值表共享同一键集合，缺失值以空串表示
	assert.Equal(t, "", entry.Measured["S"])
	assert.Equal(t, "", entry.Revised["S"])
}

func TestCreateRound_SeedFromPrevious(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)

	first, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	// 第一轮给出 M 的修订值，L 不修订
	require.NoError(t, e.EditCell(first.Key, p.Key, CellFieldRevised, "M", "52.6"))

	second, err := e.CreateRound("第二轮", "2026-04-01", "李四", models.RequestedSourcePrevious)
	require.NoError(t, err)
	require.Len(t, second.Entries, 1)

	entry := second.Entries[0]
	// 逐尺码合并：有修订的尺码取修订值，其余回退主规格
	assert.Equal(t, "52.6", entry.Requested["M"])
	assert.Equal(t, "55", entry.Requested["L"])
	assert.Equal(t, "49", entry.Requested["S"])

	// 没有上一轮次时 previous 来源被拒绝
	empty := newTestEngine()
	_, err = empty.CreateRound("首轮", "2026-03-01", "", models.RequestedSourcePrevious)
	assert.Error(t, err)

	// 未知来源被拒绝
	_, err = e.CreateRound("再一轮", "2026-05-01", "", "nowhere")
	assert.Error(t, err)
}

func TestEditCell_LockedRound(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)

	first, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)
	second, err := e.CreateRound("第二轮", "2026-04-01", "李四", models.RequestedSourceOriginal)
	require.NoError(t, err)

	// 仅最近创建的轮次可编辑
	assert.Equal(t, second.Key, e.EditableRoundKey())
	err = e.EditCell(first.Key, p.Key, CellFieldMeasured, "M", "53")
	assert.Error(t, err)
	assert.NoError(t, e.EditCell(second.Key, p.Key, CellFieldMeasured, "M", "53"))

	// 元信息同样只允许草稿轮次编辑
	assert.Error(t, e.UpdateRoundMeta(first.Key, "改名", "2026-03-02", "王五", ""))
	assert.NoError(t, e.UpdateRoundMeta(second.Key, "改名", "2026-04-02", "王五", "整体偏大"))
	assert.Equal(t, "改名", e.Spec().Rounds[1].Name)
}

func TestEditCell_DiffComputation(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)
	round, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	// 实测与要求均可解析时差值 = 实测 - 要求
	require.NoError(t, e.EditCell(round.Key, p.Key, CellFieldMeasured, "M", "53.5"))
	entry := &e.Spec().Rounds[0].Entries[0]
	assert.Equal(t, "1.5", entry.Diff["M"])

	// 实测为负偏差
	require.NoError(t, e.EditCell(round.Key, p.Key, CellFieldMeasured, "S", "48"))
	assert.Equal(t, "-1", entry.Diff["S"])

	// 清空实测值清除差值
	require.NoError(t, e.EditCell(round.Key, p.Key, CellFieldMeasured, "M", ""))
	assert.Equal(t, "", entry.Diff["M"])

	// 实测值无法解析时不产生差值
	require.NoError(t, e.EditCell(round.Key, p.Key, CellFieldMeasured, "L", "约56"))
	assert.Equal(t, "", entry.Diff["L"])
}

func TestEditCell_LazyEntryCreation(t *testing.T) {
	e := newTestEngine()
	addChestPoint(e)
	round, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	// 轮次创建后新增的测量点由 syncRounds 补建条目；这里先删掉再测惰性创建
	late := e.AddPoint(models.MeasurementPoint{Code: "B02", Name: "腰围", Active: true, Sizes: models.SizeValueMap{"M": 40}})
	e.Spec().Rounds[0].Entries = e.Spec().Rounds[0].Entries[:1]

	require.NoError(t, e.EditCell(round.Key, late.Key, CellFieldMeasured, "M", "41"))
	require.Len(t, e.Spec().Rounds[0].Entries, 2)
	lazy := e.Spec().Rounds[0].Entries[1]
	assert.Equal(t, late.Key, lazy.PointKey)
	// 惰性创建同样按轮次来源播种要求值
	assert.Equal(t, "40", lazy.Requested["M"])
	assert.Equal(t, "1", lazy.Diff["M"])

	// 范围外尺码与未知字段被拒绝
	assert.Error(t, e.EditCell(round.Key, late.Key, CellFieldMeasured, "XXXL", "1"))
	assert.Error(t, e.EditCell(round.Key, late.Key, "paint", "M", "1"))
}

func TestEntries_OrderIndexStaysContiguous(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)
	_, err := e.CreateRound("第一轮", "2026-03-01", "", models.RequestedSourceOriginal)
	require.NoError(t, err)

	// 条目顺序持久为顺序号，测量点集合变化后保持连续
	e.AddPoint(models.MeasurementPoint{Code: "B02", Name: "腰围", Active: true, Sizes: models.SizeValueMap{"M": 40}})
	e.AddPoint(models.MeasurementPoint{Code: "B03", Name: "臀围", Active: true, Sizes: models.SizeValueMap{"M": 50}})
	require.NoError(t, e.DeletePoint(p.Key))

	entries := e.Spec().Rounds[0].Entries
	require.Len(t, entries, 2)
	for i, entry := range entries {
		assert.Equal(t, i, entry.OrderIndex)
	}
}

func TestApplyRound_RegradesSiblings(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)
	round, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	// 修订基准尺码 M 至 54：既有级差 -3/+3 联动 S 和 L
	require.NoError(t, e.EditCell(round.Key, p.Key, CellFieldRevised, "M", "54"))
	require.NoError(t, e.ApplyRound(round.Key))

	assert.Equal(t, models.SizeValueMap{"S": 51, "M": 54, "L": 57}, e.FindPoint(p.Key).Sizes)
}

func TestApplyRound_NonBaseOnlyTouchesItself(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)
	round, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	// 修订非基准尺码 L：只改动该尺码的级差，不触及基准与同级
	require.NoError(t, e.EditCell(round.Key, p.Key, CellFieldRevised, "L", "56"))
	require.NoError(t, e.ApplyRound(round.Key))

	assert.Equal(t, models.SizeValueMap{"S": 49, "M": 52, "L": 56}, e.FindPoint(p.Key).Sizes)
}

func TestApplyRound_IgnoresEmptyAndNonNumeric(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)
	round, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	require.NoError(t, e.EditCell(round.Key, p.Key, CellFieldRevised, "M", "待定"))
	require.NoError(t, e.ApplyRound(round.Key))

	// 非数值修订不回灌
	assert.Equal(t, models.SizeValueMap{"S": 49, "M": 52, "L": 55}, e.FindPoint(p.Key).Sizes)
}

func TestDeleteRound_NoAutoRecreate(t *testing.T) {
	e := newTestEngine()
	addChestPoint(e)
	round, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	require.NoError(t, e.DeleteRound(round.Key))
	// 删除最后一个轮次后列表合法为空，不自动重建
	assert.Empty(t, e.Spec().Rounds)
	assert.Equal(t, "", e.EditableRoundKey())

	assert.Error(t, e.DeleteRound("missing"))
}

func TestDeleteRound_Reorders(t *testing.T) {
	e := newTestEngine()
	addChestPoint(e)
	first, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)
	_, err = e.CreateRound("第二轮", "2026-04-01", "李四", models.RequestedSourceOriginal)
	require.NoError(t, err)
	third, err := e.CreateRound("第三轮", "2026-05-01", "王五", models.RequestedSourceOriginal)
	require.NoError(t, err)

	require.NoError(t, e.DeleteRound(first.Key))
	assert.Equal(t, 0, e.Spec().Rounds[0].OrderIndex)
	assert.Equal(t, 1, e.Spec().Rounds[1].OrderIndex)
	// 删除后最近创建的轮次仍是唯一可编辑轮次
	assert.Equal(t, third.Key, e.EditableRoundKey())
}

func TestSyncRounds_LegacyCodeFallback(t *testing.T) {
	e := newTestEngine()
	p := addChestPoint(e)
	round, err := e.CreateRound("第一轮", "2026-03-01", "张三", models.RequestedSourceOriginal)
	require.NoError(t, err)

	// 模拟遗留条目：无稳定标识，仅有人读编号
	e.Spec().Rounds[0].Entries[0].PointKey = ""
	e.Spec().Rounds[0].Entries[0].PointCode = "B01"

	// 任一触发同步的变更都会把遗留条目纠正为按标识关联
	_, err = e.UpdatePoint(p.Key, models.MeasurementPoint{Code: "B01", Name: "胸围", Active: true})
	require.NoError(t, err)

	require.Len(t, e.Spec().Rounds[0].Entries, 1)
	assert.Equal(t, p.Key, e.Spec().Rounds[0].Entries[0].PointKey)
	_ = round
}
