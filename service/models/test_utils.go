/*
 * @module service/models/test_utils
 * @description 模型测试辅助工具
 * @architecture 测试基础设施 - 专门为模型测试提供工具
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 避免循环导入，专门为模型层测试提供工具
 * @dependencies gorm, sqlite, time
 */

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ModelTestDB 模型测试数据库配置
type ModelTestDB struct {
	DB *gorm.DB
}

// NewModelTestDB 创建模型测试数据库
func NewModelTestDB() *ModelTestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&GarmentSpec{},
		&MeasurementPoint{},
		&SampleRound{},
		&SampleEntry{},
		&SystemConfig{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &ModelTestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *ModelTestDB) CleanDB() {
	// 清空所有表的数据
	tables := []string{
		"sample_entries",
		"sample_rounds",
		"measurement_points",
		"garment_specs",
		"system_configs",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *ModelTestDB) Close() {
	sqlDB, err := tdb.DB.DB()
	if err != nil {
		fmt.Printf("Error getting underlying DB: %v\n", err)
		return
	}
	sqlDB.Close()
}

// ModelTestDataFactory 模型测试数据工厂
type ModelTestDataFactory struct {
	DB *gorm.DB
}

// NewModelTestDataFactory 创建新的模型测试数据工厂
func NewModelTestDataFactory(db *gorm.DB) *ModelTestDataFactory {
	return &ModelTestDataFactory{DB: db}
}

// CreateGarmentSpec 创建测试规格文档
func (f *ModelTestDataFactory) CreateGarmentSpec() *GarmentSpec {
	spec := &GarmentSpec{
		ID:        uuid.New().String(),
		StyleNo:   "TEST-" + uuid.New().String()[:8],
		Name:      "测试规格",
		Gender:    "female",
		Unit:      UnitCentimeter,
		SizeRange: JSONBStringArray{"S", "M", "L", "XL"},
		BaseSize:  "M",
		Status:    "active",
		CreatedBy: "test",
		UpdatedBy: "test",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := f.DB.Create(spec).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test garment spec: %v", err))
	}

	return spec
}

// CreateMeasurementPoint 创建测试测量点
func (f *ModelTestDataFactory) CreateMeasurementPoint(specID string, orderIndex int) *MeasurementPoint {
	point := &MeasurementPoint{
		Key:            uuid.New().String(),
		SpecID:         specID,
		Code:           fmt.Sprintf("B%02d", orderIndex+1),
		Name:           "测试测量点",
		ToleranceMinus: 0.5,
		TolerancePlus:  0.5,
		Method:         "平铺测量",
		Active:         true,
		BaseSize:       "M",
		Sizes:          SizeValueMap{"S": 49, "M": 52, "L": 55},
		OrderIndex:     orderIndex,
	}

	err := f.DB.Create(point).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test measurement point: %v", err))
	}

	return point
}

// CreateSampleRound 创建测试样衣轮次
func (f *ModelTestDataFactory) CreateSampleRound(specID string, orderIndex int) *SampleRound {
	round := &SampleRound{
		Key:             uuid.New().String(),
		SpecID:          specID,
		Name:            fmt.Sprintf("第%d轮样衣", orderIndex+1),
		MeasurementDate: "2026-03-15",
		Reviewer:        "测试员",
		RequestedSource: RequestedSourceOriginal,
		OrderIndex:      orderIndex,
		CreatedAt:       time.Now(),
	}

	err := f.DB.Create(round).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test sample round: %v", err))
	}

	return round
}
