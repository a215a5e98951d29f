/*
 * @module service/models/garment_spec
 * @description 服装尺寸规格相关模型定义，包括规格文档、测量点（POM）、样衣轮次、样衣测量条目等核心实体
 * @architecture DDD领域驱动设计 - 实体模型
 * @documentReference dev_docs/model.md
 * @stateFlow 规格文档生命周期管理：创建 -> 编辑会话 -> 保存 -> 归档
 * @rules 遵循数据库设计规范，确保数据完整性和一致性；所有实体使用客户端生成的稳定标识
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs dev_docs/requirements.md
 */

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 测量单位常量，单位按规格设置，不按测量点设置
const (
	UnitMillimeter = "mm"      // 毫米，十进制显示
	UnitCentimeter = "cm"      // 厘米，十进制显示
	UnitInch10     = "inch-10" // 英寸，分母 10 分数显示
	UnitInch16     = "inch-16" // 英寸，分母 16 分数显示
	UnitInch32     = "inch-32" // 英寸，分母 32 分数显示
)

// 轮次要求值来源常量
const (
	RequestedSourceOriginal = "original" // 取主规格当前值
	RequestedSourcePrevious = "previous" // 取上一轮次的修订值，缺失尺码回退主规格
)

// GarmentSpec 服装尺寸规格文档
type GarmentSpec struct {
	ID        string           `json:"id" gorm:"primaryKey;type:varchar(36)" example:"550e8400-e29b-41d4-a716-446655440000"`
	StyleNo   string           `json:"style_no" gorm:"not null;size:100;index" example:"SS26-JK-001"`
	Name      string           `json:"name" gorm:"not null;size:255" example:"女装春夏夹克"`
	Gender    string           `json:"gender" gorm:"size:20;default:''" example:"female"` // female, male, kids
	Unit      string           `json:"unit" gorm:"size:20;default:''" example:"cm"`
	SizeRange JSONBStringArray `json:"size_range" gorm:"type:jsonb"`
	BaseSize  string           `json:"base_size" gorm:"size:50;default:''" example:"M"`
	Status    string           `json:"status" gorm:"not null;default:'active';size:20" example:"active"`
	CreatedAt time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	CreatedBy string           `json:"created_by" gorm:"not null;default:'system';size:100"`
	UpdatedAt time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedBy string           `json:"updated_by" gorm:"not null;default:'system';size:100"`
	// 关联关系
	Points []MeasurementPoint `json:"points,omitempty" gorm:"foreignKey:SpecID"`
	Rounds []SampleRound      `json:"rounds,omitempty" gorm:"foreignKey:SpecID"`
}

// MeasurementPoint 测量点（POM, Point Of Measure）
// Key 为客户端生成的稳定标识，与服务端主键无关，复制行和未保存行在重渲染间保持身份稳定
type MeasurementPoint struct {
	Key            string       `json:"key" gorm:"primaryKey;type:varchar(36)"`
	SpecID         string       `json:"spec_id" gorm:"not null;type:varchar(36);index"`
	Code           string       `json:"code" gorm:"not null;size:50" example:"B01"`
	Name           string       `json:"name" gorm:"not null;size:255" example:"胸围"`
	ToleranceMinus float64      `json:"toleranceMinus" gorm:"not null;default:0"`
	TolerancePlus  float64      `json:"tolerancePlus" gorm:"not null;default:0"`
	Unit           string       `json:"unit" gorm:"size:20;default:''"` // 只读继承规格文档单位，规范化时统一盖写，不得独立编辑
	Method         string       `json:"method" gorm:"size:500"` // 测量方法说明
	Notes          string       `json:"notes" gorm:"type:text"`
	Active         bool         `json:"active" gorm:"not null;default:true"`
	BaseSize       string       `json:"base_size" gorm:"size:50;default:''"`
	Sizes          SizeValueMap `json:"sizes" gorm:"type:jsonb"` // 尺码 -> 数值，缺键表示"未定义"而非 0
	OrderIndex     int          `json:"order_index" gorm:"not null;default:0"`
}

// SampleRound 样衣测量轮次
// 只有最近创建的轮次可编辑，早先轮次在编辑边界只读
type SampleRound struct {
	Key             string    `json:"key" gorm:"primaryKey;type:varchar(36)"`
	SpecID          string    `json:"spec_id" gorm:"not null;type:varchar(36);index"`
	Name            string    `json:"name" gorm:"not null;size:255" example:"第一轮样衣"`
	MeasurementDate string    `json:"measurementDate" gorm:"size:20;default:''" example:"2026-03-15"`
	Reviewer        string    `json:"reviewer" gorm:"size:100;default:''"` // 允许空串，序列化时必须保留
	RequestedSource string    `json:"requested_source" gorm:"not null;size:20;default:'original'"`
	Comments        string    `json:"comments" gorm:"type:text"`
	OrderIndex      int       `json:"order" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	// 关联关系
	Entries []SampleEntry `json:"entries,omitempty" gorm:"foreignKey:RoundKey"`
}

// SampleEntry 样衣测量条目，按稳定标识关联到唯一测量点
// 四个按尺码索引的字符串值表与评论表共享同一键集合，缺失值以空串表示
type SampleEntry struct {
	Key        string    `json:"key" gorm:"primaryKey;type:varchar(36)"`
	RoundKey   string    `json:"round_key" gorm:"not null;type:varchar(36);index"`
	PointKey   string    `json:"point_key" gorm:"type:varchar(36);index"`
	PointCode  string    `json:"point_code" gorm:"size:50"` // 遗留数据回退匹配用，稳态下只按 PointKey 匹配
	Requested  StringMap `json:"requested" gorm:"type:jsonb"`
	Measured   StringMap `json:"measured" gorm:"type:jsonb"`
	Diff       StringMap `json:"diff" gorm:"type:jsonb"`
	Revised    StringMap `json:"revised" gorm:"type:jsonb"`
	Comments   StringMap `json:"comments" gorm:"type:jsonb"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
}

// SystemConfig 系统配置模型
type SystemConfig struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Key         string    `json:"key" gorm:"not null;uniqueIndex;size:100"`
	Value       string    `json:"value" gorm:"not null;type:text"`
	Description string    `json:"description" gorm:"size:500"`
	Environment string    `json:"environment" gorm:"not null;default:'default';size:50"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate GORM钩子，确保实体具有稳定标识
func (s *GarmentSpec) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// BeforeCreate GORM钩子
func (p *MeasurementPoint) BeforeCreate(tx *gorm.DB) error {
	if p.Key == "" {
		p.Key = uuid.New().String()
	}
	return nil
}

// BeforeCreate GORM钩子
func (r *SampleRound) BeforeCreate(tx *gorm.DB) error {
	if r.Key == "" {
		r.Key = uuid.New().String()
	}
	return nil
}

// BeforeCreate GORM钩子
func (e *SampleEntry) BeforeCreate(tx *gorm.DB) error {
	if e.Key == "" {
		e.Key = uuid.New().String()
	}
	return nil
}

// Clone 深拷贝规格文档，用于保存前快照和工作副本替换
func (s *GarmentSpec) Clone() *GarmentSpec {
	cloned := *s
	cloned.SizeRange = append(JSONBStringArray(nil), s.SizeRange...)
	cloned.Points = make([]MeasurementPoint, len(s.Points))
	for i, p := range s.Points {
		cloned.Points[i] = *p.Clone()
	}
	cloned.Rounds = make([]SampleRound, len(s.Rounds))
	for i, r := range s.Rounds {
		cloned.Rounds[i] = *r.Clone()
	}
	return &cloned
}

// Clone 深拷贝测量点，尺码值表独立持有
func (p *MeasurementPoint) Clone() *MeasurementPoint {
	cloned := *p
	cloned.Sizes = p.Sizes.Clone()
	return &cloned
}

// Clone 深拷贝轮次及其条目
func (r *SampleRound) Clone() *SampleRound {
	cloned := *r
	cloned.Entries = make([]SampleEntry, len(r.Entries))
	for i, e := range r.Entries {
		cloned.Entries[i] = *e.Clone()
	}
	return &cloned
}

// Clone 深拷贝条目，五个值表独立持有
func (e *SampleEntry) Clone() *SampleEntry {
	cloned := *e
	cloned.Requested = e.Requested.Clone()
	cloned.Measured = e.Measured.Clone()
	cloned.Diff = e.Diff.Clone()
	cloned.Revised = e.Revised.Clone()
	cloned.Comments = e.Comments.Clone()
	return &cloned
}

// MarshalJSON 序列化边界约定：requested 始终输出（可为空对象），
// 其余值表省略空串条目；reviewer 空串由 SampleRound 字段自身保留
func (e SampleEntry) MarshalJSON() ([]byte, error) {
	type wire struct {
		Key        string    `json:"key"`
		RoundKey   string    `json:"round_key,omitempty"`
		PointKey   string    `json:"point_key"`
		PointCode  string    `json:"point_code,omitempty"`
		Requested  StringMap `json:"requested"`
		Measured   StringMap `json:"measured,omitempty"`
		Diff       StringMap `json:"diff,omitempty"`
		Revised    StringMap `json:"revised,omitempty"`
		Comments   StringMap `json:"comments,omitempty"`
		OrderIndex int       `json:"order_index"`
	}
	w := wire{
		Key:        e.Key,
		RoundKey:   e.RoundKey,
		PointKey:   e.PointKey,
		PointCode:  e.PointCode,
		Requested:  e.Requested,
		Measured:   e.Measured.Compact(),
		Diff:       e.Diff.Compact(),
		Revised:    e.Revised.Compact(),
		Comments:   e.Comments.Compact(),
		OrderIndex: e.OrderIndex,
	}
	if w.Requested == nil {
		w.Requested = StringMap{}
	}
	return json.Marshal(w)
}
