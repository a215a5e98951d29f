/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference dev_docs/model.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies techspec-service/service/models, gorm.io/gorm
 * @refs service/models/garment_spec.go
 */

package database

import (
	"log"

	"gorm.io/gorm"

	"techspec-service/service/models"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 规格文档相关表
	err := db.AutoMigrate(
		&models.GarmentSpec{},
		&models.MeasurementPoint{},
		&models.SampleRound{},
		&models.SampleEntry{},
	)
	if err != nil {
		return err
	}

	// 系统配置表
	if err := db.AutoMigrate(&models.SystemConfig{}); err != nil {
		return err
	}

	log.Println("数据库迁移完成")
	return nil
}
