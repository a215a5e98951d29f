/*
 * @module service/specstore/specstore
 * @description 规格持久化协作方：权威文档的加载与保存，整文档替换式写入，
 *              保存提交后发出数据库通知
 * @architecture 分层架构 - 持久化层；仓储模式
 * @documentReference dev_docs/measurement_engine.md 第6节
 * @stateFlow 加载（预加载关联并规范化）-> 保存（事务内整体替换子表）-> 通知
 * @rules
 *   - 引擎不做增量落盘，保存即整文档替换，避免差异合并逻辑
 *   - 加载出口统一经过规范化入口，引擎不处理缺省字段
 *   - 序列化边界遵循 toleranceMinus/tolerancePlus、measurementDate、order 约定
 * @dependencies gorm.io/gorm
 * @refs service/session, service/measurement/normalize.go
 */

package specstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"techspec-service/service/measurement"
	"techspec-service/service/models"
)

// NotifyChannel 保存提交后发出通知的 PostgreSQL 频道
const NotifyChannel = "techspec_events"

// Store 规格仓储
type Store struct {
	db       *gorm.DB
	defaults measurement.Defaults
}

// NewStore 创建规格仓储
func NewStore(db *gorm.DB, defaults measurement.Defaults) *Store {
	return &Store{db: db, defaults: defaults}
}

// Create 新建规格文档，入库前经过规范化入口
func (s *Store) Create(ctx context.Context, spec *models.GarmentSpec) error {
	measurement.NormalizeSpec(spec, s.defaults)
	spec.CreatedAt = time.Now()
	spec.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Create(spec).Error; err != nil {
		return fmt.Errorf("创建规格失败: %w", err)
	}
	s.notify(ctx, spec.ID, "created")
	return nil
}

// List 规格列表（不携带子表）
func (s *Store) List(ctx context.Context) ([]models.GarmentSpec, error) {
	var specs []models.GarmentSpec
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&specs).Error; err != nil {
		return nil, fmt.Errorf("查询规格列表失败: %w", err)
	}
	return specs, nil
}

// Load 加载权威文档：预加载测量点与轮次（含条目），出口统一规范化
func (s *Store) Load(ctx context.Context, specID string) (*models.GarmentSpec, error) {
	var spec models.GarmentSpec
	err := s.db.WithContext(ctx).
		Preload("Points", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Rounds.Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&spec, "id = ?", specID).Error
	if err != nil {
		return nil, fmt.Errorf("加载规格失败: %w", err)
	}
	measurement.NormalizeSpec(&spec, s.defaults)
	return &spec, nil
}

// Save 保存权威文档：事务内整文档替换子表，提交后发出通知
func (s *Store) Save(ctx context.Context, spec *models.GarmentSpec) error {
	spec.UpdatedAt = time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GarmentSpec{}).Where("id = ?", spec.ID).Updates(map[string]interface{}{
			"style_no":   spec.StyleNo,
			"name":       spec.Name,
			"gender":     spec.Gender,
			"unit":       spec.Unit,
			"size_range": spec.SizeRange,
			"base_size":  spec.BaseSize,
			"status":     spec.Status,
			"updated_at": spec.UpdatedAt,
			"updated_by": spec.UpdatedBy,
		}).Error; err != nil {
			return fmt.Errorf("更新规格主表失败: %w", err)
		}

		// 整文档替换：清除旧子表后按当前工作状态重建
		if err := tx.Where("round_key IN (?)",
			tx.Model(&models.SampleRound{}).Select("key").Where("spec_id = ?", spec.ID),
		).Delete(&models.SampleEntry{}).Error; err != nil {
			return fmt.Errorf("清除旧条目失败: %w", err)
		}
		if err := tx.Where("spec_id = ?", spec.ID).Delete(&models.SampleRound{}).Error; err != nil {
			return fmt.Errorf("清除旧轮次失败: %w", err)
		}
		if err := tx.Where("spec_id = ?", spec.ID).Delete(&models.MeasurementPoint{}).Error; err != nil {
			return fmt.Errorf("清除旧测量点失败: %w", err)
		}

		for i := range spec.Points {
			point := spec.Points[i]
			point.SpecID = spec.ID
			if err := tx.Create(&point).Error; err != nil {
				return fmt.Errorf("写入测量点失败: %w", err)
			}
		}
		for i := range spec.Rounds {
			round := spec.Rounds[i]
			round.SpecID = spec.ID
			entries := round.Entries
			round.Entries = nil
			if err := tx.Create(&round).Error; err != nil {
				return fmt.Errorf("写入轮次失败: %w", err)
			}
			for j := range entries {
				entry := entries[j]
				entry.RoundKey = round.Key
				if err := tx.Create(&entry).Error; err != nil {
					return fmt.Errorf("写入条目失败: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, spec.ID, "saved")
	return nil
}

// Delete 删除规格文档及其全部子表
func (s *Store) Delete(ctx context.Context, specID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("round_key IN (?)",
			tx.Model(&models.SampleRound{}).Select("key").Where("spec_id = ?", specID),
		).Delete(&models.SampleEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("spec_id = ?", specID).Delete(&models.SampleRound{}).Error; err != nil {
			return err
		}
		if err := tx.Where("spec_id = ?", specID).Delete(&models.MeasurementPoint{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.GarmentSpec{}, "id = ?", specID).Error
	})
	if err != nil {
		return fmt.Errorf("删除规格失败: %w", err)
	}
	s.notify(ctx, specID, "deleted")
	return nil
}

// notify 保存提交后的数据库通知，仅 PostgreSQL 下生效
func (s *Store) notify(ctx context.Context, specID, action string) {
	if s.db.Dialector.Name() != "postgres" {
		return
	}
	payload := fmt.Sprintf(`{"spec_id":"%s","action":"%s"}`, specID, action)
	if err := s.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", NotifyChannel, payload).Error; err != nil {
		slog.Warn("发送保存通知失败", "spec_id", specID, "error", err)
	}
}
