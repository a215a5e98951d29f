/*
 * @module service/measurement/normalize
 * @description 入口规范化：对来自持久化协作方的文档做单次补全，
 *              使所有可选字段在引擎逻辑运行前具有显式缺省值
 * @architecture 数据规范化模式 - 单一入口补全，避免算法内散落的缺省判断
 * @documentReference dev_docs/measurement_engine.md 第6、9节
 * @stateFlow 读取文档 -> 单位/尺码范围/基准尺码补全 -> 身份铸造 -> 条目对齐
 * @rules
 *   - 缺单位回退默认单位；缺尺码范围按性别回退，再回退固定范围
 *   - 缺基准尺码取全局默认，否则取范围首个尺码
 *   - 缺稳定标识的行铸造 UUID；条目的编号匹配仅作为一次性遗留导入回退
 * @dependencies github.com/google/uuid, techspec-service/service/models
 * @refs service/measurement/engine.go
 */

package measurement

import (
	"github.com/google/uuid"

	"techspec-service/service/models"
)

// NormalizeSpec 单次规范化入口，对文档的每个可选字段补全显式缺省值
func NormalizeSpec(spec *models.GarmentSpec, defaults Defaults) {
	if !IsValidUnit(spec.Unit) {
		spec.Unit = defaults.Unit
	}

	if len(spec.SizeRange) == 0 {
		if byGender, ok := defaults.SizeRanges[spec.Gender]; ok {
			spec.SizeRange = models.JSONBStringArray(byGender)
		} else {
			spec.SizeRange = models.JSONBStringArray(defaults.FixedRange)
		}
	}

	spec.BaseSize = resolveBaseSize(spec.BaseSize, spec.SizeRange, defaults.BaseSize)

	normalizePoints(spec)
	normalizeRounds(spec)
}

// normalizePoints 测量点补全：铸造缺失标识、锚定基准尺码、裁剪尺码表
func normalizePoints(spec *models.GarmentSpec) {
	for i := range spec.Points {
		p := &spec.Points[i]
		if p.Key == "" {
			p.Key = uuid.New().String()
		}
		p.SpecID = spec.ID
		p.BaseSize = spec.BaseSize
		p.Unit = spec.Unit
		if p.Sizes == nil {
			p.Sizes = models.SizeValueMap{}
		}
		pruneSizes(p.Sizes, spec.SizeRange)
		p.OrderIndex = i
	}
}

// normalizeRounds 轮次与条目补全：铸造缺失标识、一次性遗留编号匹配、
// 清除无法匹配的孤儿条目、对齐五个值表的键集合
func normalizeRounds(spec *models.GarmentSpec) {
	codeIndex := make(map[string]*models.MeasurementPoint, len(spec.Points))
	keyIndex := make(map[string]*models.MeasurementPoint, len(spec.Points))
	for i := range spec.Points {
		p := &spec.Points[i]
		keyIndex[p.Key] = p
		if p.Code != "" {
			codeIndex[p.Code] = p
		}
	}

	for r := range spec.Rounds {
		round := &spec.Rounds[r]
		if round.Key == "" {
			round.Key = uuid.New().String()
		}
		round.SpecID = spec.ID
		if round.RequestedSource == "" {
			round.RequestedSource = models.RequestedSourceOriginal
		}
		round.OrderIndex = r

		kept := round.Entries[:0]
		for _, entry := range round.Entries {
			p, matched := keyIndex[entry.PointKey]
			if !matched && entry.PointKey == "" && entry.PointCode != "" {
				// 遗留数据回退：按人读编号一次性匹配并纠正为稳定标识关联
				p, matched = codeIndex[entry.PointCode]
			}
			if !matched {
				continue
			}
			if entry.Key == "" {
				entry.Key = uuid.New().String()
			}
			entry.RoundKey = round.Key
			entry.PointKey = p.Key
			entry.PointCode = p.Code
			entry.OrderIndex = len(kept)
			normalizeEntryMaps(&entry)
			kept = append(kept, entry)
		}
		round.Entries = kept
	}
}

// normalizeEntryMaps 保证五个值表非 nil 且共享同一键集合，缺失值以空串表示
func normalizeEntryMaps(entry *models.SampleEntry) {
	if entry.Requested == nil {
		entry.Requested = models.StringMap{}
	}
	if entry.Measured == nil {
		entry.Measured = models.StringMap{}
	}
	if entry.Diff == nil {
		entry.Diff = models.StringMap{}
	}
	if entry.Revised == nil {
		entry.Revised = models.StringMap{}
	}
	if entry.Comments == nil {
		entry.Comments = models.StringMap{}
	}

	domain := make(map[string]bool)
	for _, m := range []models.StringMap{entry.Requested, entry.Measured, entry.Diff, entry.Revised, entry.Comments} {
		for size := range m {
			domain[size] = true
		}
	}
	for size := range domain {
		ensureEntrySize(entry, size)
	}
}
