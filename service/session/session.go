/*
 * @module service/session/session
 * @description 表单编辑会话：持有规格文档的工作副本，变更后防抖写入可恢复草稿，
 *              显式保存时与持久化协作方的权威文档对账
 * @architecture 会话对象模式 - 显式传递的会话实例，绝不使用全局可变单例
 * @documentReference dev_docs/measurement_engine.md 第5、6节
 * @stateFlow 编辑 -> 标脏 -> 防抖草稿快照；保存 -> 持久化 -> 权威重读整体替换
 * @rules
 *   - 草稿写入防抖合并突发编辑，最后写入者胜出，不排队过期写
 *   - 保存期间阻塞其他变更；成功后以服务端权威重读整体替换工作状态，
 *     失败时原工作状态原样保留
 *   - 在途保存没有取消语义，重试即发起一次新的保存
 * @dependencies github.com/prometheus/client_golang, encoding/json, time
 * @refs service/session/manager.go, service/measurement/engine.go
 */

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"techspec-service/service/measurement"
	"techspec-service/service/models"
)

var (
	specSaveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "techspec_spec_save_total",
		Help: "规格保存次数，按结果统计",
	}, []string{"result"})

	draftSnapshotTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "techspec_draft_snapshot_total",
		Help: "草稿快照写入次数",
	})
)

// SpecStore 持久化协作方边界：加载与保存权威文档
type SpecStore interface {
	Load(ctx context.Context, specID string) (*models.GarmentSpec, error)
	Save(ctx context.Context, spec *models.GarmentSpec) error
}

// EventPublisher 规格变更事件边界：向版本协作方提供保存前后的快照
type EventPublisher interface {
	PublishSpecSaved(ctx context.Context, specID string, before, after *models.GarmentSpec)
}

// Session 编辑会话
type Session struct {
	ID     string
	SpecID string

	mu     sync.Mutex
	engine *measurement.Engine
	dirty  bool
	closed bool

	store  SpecStore
	drafts DraftStore
	events EventPublisher

	debounce      *time.Timer
	debounceDelay time.Duration
	draftTTL      time.Duration
}

// Mutate 在会话锁内执行一次引擎变更并标脏
// 保存进行期间互斥锁使其余变更阻塞到保存结束
func (s *Session) Mutate(fn func(e *measurement.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.engine); err != nil {
		return err
	}
	s.markDirtyLocked()
	return nil
}

// View 在会话锁内读取引擎状态
func (s *Session) View(fn func(e *measurement.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// Snapshot 工作副本的深拷贝
func (s *Session) Snapshot() *models.GarmentSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Spec().Clone()
}

// Dirty 工作副本是否有未保存变更
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Save 显式保存：同步写入持久化协作方，成功后以权威重读整体替换工作状态，
// 失败时原工作状态原样保留并返回错误，重试即再次调用
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fieldErrors := s.engine.ValidateForSave()
	if len(fieldErrors) > 0 {
		specSaveTotal.WithLabelValues("rejected").Inc()
		return &ValidationError{FieldErrors: fieldErrors}
	}

	before := s.engine.Spec().Clone()
	if err := s.store.Save(ctx, s.engine.Spec()); err != nil {
		specSaveTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("保存规格失败: %w", err)
	}

	// 不信任客户端乐观副本，以服务端权威重读整体替换，规避任何差异合并逻辑
	canonical, err := s.store.Load(ctx, s.SpecID)
	if err != nil {
		specSaveTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("保存后重读规格失败: %w", err)
	}
	s.engine.Replace(canonical)
	s.dirty = false
	s.stopDebounceLocked()

	if s.drafts != nil {
		if err := s.drafts.DeleteDraft(ctx, s.SpecID); err != nil {
			slog.Warn("保存后删除草稿失败", "spec_id", s.SpecID, "error", err)
		}
	}
	if s.events != nil {
		s.events.PublishSpecSaved(ctx, s.SpecID, before, canonical.Clone())
	}

	specSaveTotal.WithLabelValues("success").Inc()
	return nil
}

// markDirtyLocked 标脏并重置草稿防抖计时器，突发编辑合并为静默期后的一次写入
func (s *Session) markDirtyLocked() {
	s.dirty = true
	if s.drafts == nil {
		return
	}
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.debounceDelay, s.persistDraft)
}

// persistDraft 防抖到期后的草稿快照写入
// 写入全程持锁：关闭会话后到期的计时器不得把被丢弃的草稿写回存储
func (s *Session) persistDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.dirty {
		return
	}
	payload, err := json.Marshal(s.engine.Spec())
	if err != nil {
		slog.Error("序列化草稿失败", "spec_id", s.SpecID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.drafts.SaveDraft(ctx, s.SpecID, payload, s.draftTTL); err != nil {
		slog.Error("写入草稿快照失败", "spec_id", s.SpecID, "error", err)
		return
	}
	draftSnapshotTotal.Inc()
	slog.Debug("草稿快照已写入", "spec_id", s.SpecID)
}

func (s *Session) stopDebounceLocked() {
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
}

// ValidationError 保存前校验失败，携带字段级消息，阻止本次保存
type ValidationError struct {
	FieldErrors map[string][]string `json:"field_errors"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("规格校验未通过，%d 个测量点存在问题", len(e.FieldErrors))
}
