/*
 * @module service/models/garment_spec_test
 * @description 规格文档数据模型验证测试
 * @architecture 测试层 - 数据模型验证，确保数据完整性和约束
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 模型创建 -> 持久化往返 -> 序列化约定检查 -> 结果断言
 * @rules 确保规格文档、测量点、轮次、条目的完整性和序列化边界约定
 * @dependencies testing, testify, gorm
 * @refs garment_spec.go, jsonb.go
 */

package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// GarmentSpecModelTestSuite 规格文档模型测试套件
type GarmentSpecModelTestSuite struct {
	suite.Suite
	testDB  *ModelTestDB
	factory *ModelTestDataFactory
}

// SetupSuite 设置测试套件
func (suite *GarmentSpecModelTestSuite) SetupSuite() {
	suite.testDB = NewModelTestDB()
	suite.factory = NewModelTestDataFactory(suite.testDB.DB)
}

// TearDownSuite 清理测试套件
func (suite *GarmentSpecModelTestSuite) TearDownSuite() {
	suite.testDB.Close()
}

// SetupTest 设置每个测试
func (suite *GarmentSpecModelTestSuite) SetupTest() {
	suite.testDB.CleanDB()
}

func (suite *GarmentSpecModelTestSuite) TestGarmentSpecCreation() {
	spec := suite.factory.CreateGarmentSpec()

	var found GarmentSpec
	err := suite.testDB.DB.First(&found, "id = ?", spec.ID).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), spec.StyleNo, found.StyleNo)
	assert.Equal(suite.T(), "female", found.Gender)
	assert.Equal(suite.T(), UnitCentimeter, found.Unit)
	assert.Equal(suite.T(), JSONBStringArray{"S", "M", "L", "XL"}, found.SizeRange)
	assert.Equal(suite.T(), "M", found.BaseSize)
	assert.Equal(suite.T(), "active", found.Status)
}

func (suite *GarmentSpecModelTestSuite) TestGarmentSpecIDAutoGeneration() {
	spec := &GarmentSpec{
		StyleNo: "SS26-JK-002",
		Name:    "无ID规格",
	}
	err := suite.testDB.DB.Create(spec).Error
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), spec.ID, "BeforeCreate钩子应生成ID")
}

func (suite *GarmentSpecModelTestSuite) TestPreloadFullDocument() {
	spec := suite.factory.CreateGarmentSpec()
	p0 := suite.factory.CreateMeasurementPoint(spec.ID, 0)
	p1 := suite.factory.CreateMeasurementPoint(spec.ID, 1)
	round := suite.factory.CreateSampleRound(spec.ID, 0)

	entry := &SampleEntry{
		Key:       uuid.New().String(),
		RoundKey:  round.Key,
		PointKey:  p0.Key,
		PointCode: p0.Code,
		Requested: StringMap{"S": "49", "M": "52", "L": "55"},
		Measured:  StringMap{"M": "53"},
		Diff:      StringMap{"M": "1"},
	}
	err := suite.testDB.DB.Create(entry).Error
	assert.NoError(suite.T(), err)

	var found GarmentSpec
	err = suite.testDB.DB.
		Preload("Points", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Rounds", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Rounds.Entries").
		First(&found, "id = ?", spec.ID).Error
	assert.NoError(suite.T(), err)

	assert.Len(suite.T(), found.Points, 2)
	assert.Equal(suite.T(), p0.Key, found.Points[0].Key)
	assert.Equal(suite.T(), p1.Key, found.Points[1].Key)
	assert.Len(suite.T(), found.Rounds, 1)
	assert.Len(suite.T(), found.Rounds[0].Entries, 1)
	assert.Equal(suite.T(), StringMap{"M": "53"}, found.Rounds[0].Entries[0].Measured)
}

func (suite *GarmentSpecModelTestSuite) TestMeasurementPointSizesRoundTrip() {
	spec := suite.factory.CreateGarmentSpec()
	point := suite.factory.CreateMeasurementPoint(spec.ID, 0)

	var found MeasurementPoint
	err := suite.testDB.DB.First(&found, "key = ?", point.Key).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), SizeValueMap{"S": 49, "M": 52, "L": 55}, found.Sizes)
	assert.Equal(suite.T(), 0.5, found.ToleranceMinus)
	assert.Equal(suite.T(), 0.5, found.TolerancePlus)
	assert.True(suite.T(), found.Active)
}

func (suite *GarmentSpecModelTestSuite) TestMeasurementPointUnitOnWire() {
	point := MeasurementPoint{
		Key:            uuid.New().String(),
		Code:           "B01",
		Name:           "胸围",
		ToleranceMinus: 0.5,
		TolerancePlus:  0.5,
		Unit:           UnitCentimeter,
		Sizes:          SizeValueMap{"M": 52},
	}

	data, err := json.Marshal(point)
	assert.NoError(suite.T(), err)

	var raw map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(data, &raw))
	// 测量点序列化携带显式单位，取值继承自规格文档
	assert.Equal(suite.T(), UnitCentimeter, raw["unit"])
	assert.Contains(suite.T(), raw, "toleranceMinus")
	assert.Contains(suite.T(), raw, "tolerancePlus")
}

func (suite *GarmentSpecModelTestSuite) TestSampleRoundReviewerEmptyPreserved() {
	spec := suite.factory.CreateGarmentSpec()
	round := &SampleRound{
		Key:             uuid.New().String(),
		SpecID:          spec.ID,
		Name:            "第一轮样衣",
		RequestedSource: RequestedSourceOriginal,
	}
	err := suite.testDB.DB.Create(round).Error
	assert.NoError(suite.T(), err)

	data, err := json.Marshal(round)
	assert.NoError(suite.T(), err)

	var raw map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(data, &raw))
	reviewer, ok := raw["reviewer"]
	assert.True(suite.T(), ok, "reviewer空串必须保留在序列化输出中")
	assert.Equal(suite.T(), "", reviewer)
	_, ok = raw["order"]
	assert.True(suite.T(), ok, "轮次顺序序列化为order字段")
}

func (suite *GarmentSpecModelTestSuite) TestSampleEntrySerializationContract() {
	entry := SampleEntry{
		Key:      uuid.New().String(),
		PointKey: uuid.New().String(),
		Measured: StringMap{"M": "53", "S": ""},
		Diff:     StringMap{"M": ""},
	}

	data, err := json.Marshal(entry)
	assert.NoError(suite.T(), err)

	var raw map[string]json.RawMessage
	assert.NoError(suite.T(), json.Unmarshal(data, &raw))

	// requested 始终存在，即便为空对象
	assert.Contains(suite.T(), raw, "requested")
	assert.JSONEq(suite.T(), `{}`, string(raw["requested"]))

	// measured 压缩后只保留非空串条目
	assert.Contains(suite.T(), raw, "measured")
	assert.JSONEq(suite.T(), `{"M":"53"}`, string(raw["measured"]))

	// diff 压缩后为空，整个字段省略
	assert.NotContains(suite.T(), raw, "diff")
	assert.NotContains(suite.T(), raw, "revised")
	assert.NotContains(suite.T(), raw, "comments")

	// 条目顺序随文档序列化
	assert.Contains(suite.T(), raw, "order_index")
}

func (suite *GarmentSpecModelTestSuite) TestStringMapCompact() {
	m := StringMap{"S": "", "M": "52", "L": ""}
	compacted := m.Compact()
	assert.Equal(suite.T(), StringMap{"M": "52"}, compacted)
	// 原表不受影响
	assert.Len(suite.T(), m, 3)

	var empty StringMap
	assert.Nil(suite.T(), empty.Compact())
}

func (suite *GarmentSpecModelTestSuite) TestGarmentSpecCloneIndependence() {
	spec := &GarmentSpec{
		ID:        uuid.New().String(),
		StyleNo:   "SS26-JK-003",
		SizeRange: JSONBStringArray{"S", "M", "L"},
		Points: []MeasurementPoint{
			{Key: "p1", Code: "B01", Sizes: SizeValueMap{"M": 52}},
		},
		Rounds: []SampleRound{
			{
				Key:  "r1",
				Name: "第一轮样衣",
				Entries: []SampleEntry{
					{Key: "e1", PointKey: "p1", Requested: StringMap{"M": "52"}, Measured: StringMap{"M": "53"}},
				},
			},
		},
	}

	cloned := spec.Clone()

	cloned.SizeRange[0] = "XS"
	cloned.Points[0].Sizes["M"] = 99
	cloned.Rounds[0].Entries[0].Measured["M"] = "60"
	cloned.Rounds[0].Entries[0].Requested["XL"] = "58"

	assert.Equal(suite.T(), "S", spec.SizeRange[0])
	assert.Equal(suite.T(), float64(52), spec.Points[0].Sizes["M"])
	assert.Equal(suite.T(), "53", spec.Rounds[0].Entries[0].Measured["M"])
	assert.NotContains(suite.T(), spec.Rounds[0].Entries[0].Requested, "XL")
}

func (suite *GarmentSpecModelTestSuite) TestSystemConfigUniqueKey() {
	cfg := &SystemConfig{
		Key:         "measurement.progression_mode",
		Value:       "strict",
		Description: "递进校验模式",
		Environment: "default",
	}
	err := suite.testDB.DB.Create(cfg).Error
	assert.NoError(suite.T(), err)

	dup := &SystemConfig{
		Key:         "measurement.progression_mode",
		Value:       "permissive",
		Environment: "default",
	}
	err = suite.testDB.DB.Create(dup).Error
	assert.Error(suite.T(), err, "同键配置应违反唯一约束")
}

// TestGarmentSpecModelSuite 运行规格文档模型测试套件
func TestGarmentSpecModelSuite(t *testing.T) {
	suite.Run(t, new(GarmentSpecModelTestSuite))
}
