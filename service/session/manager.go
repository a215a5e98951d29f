/*
 * @module service/session/manager
 * @description 会话管理器：按规格维护单一活跃编辑会话，负责会话开启时的
 *              权威加载与草稿恢复、关闭时的草稿清理
 * @architecture 注册表模式 - 内存会话注册表，每规格单活跃编辑者
 * @documentReference dev_docs/measurement_engine.md 第5节
 * @stateFlow 开启（加载权威文档/恢复草稿）-> 编辑 -> 保存/关闭
 * @rules
 *   - 同一规格同时只允许一个活跃会话，重复开启返回冲突错误
 *   - 开启时存在草稿则恢复草稿为工作副本并标脏
 *   - 引擎不做多用户并发合并，冲突处理属于持久化协作方
 * @dependencies github.com/google/uuid
 * @refs service/session/session.go
 */

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"techspec-service/service/measurement"
	"techspec-service/service/models"
)

// ErrSessionExists 同一规格已存在活跃会话
var ErrSessionExists = errors.New("该规格已有活跃编辑会话")

// ErrSessionNotFound 会话不存在
var ErrSessionNotFound = errors.New("编辑会话不存在")

// ManagerOptions 会话管理器配置
type ManagerOptions struct {
	Mode          measurement.ProgressionMode
	Defaults      measurement.Defaults
	DebounceDelay time.Duration
	DraftTTL      time.Duration
}

// Manager 会话管理器
type Manager struct {
	mu     sync.RWMutex
	byID   map[string]*Session
	bySpec map[string]*Session

	store  SpecStore
	drafts DraftStore
	events EventPublisher
	opts   ManagerOptions
}

// NewManager 创建会话管理器。drafts 与 events 允许为 nil（降级运行，不影响引擎语义）
func NewManager(store SpecStore, drafts DraftStore, events EventPublisher, opts ManagerOptions) *Manager {
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = 800 * time.Millisecond
	}
	if opts.DraftTTL <= 0 {
		opts.DraftTTL = 72 * time.Hour
	}
	if opts.Mode == "" {
		opts.Mode = measurement.ModePermissive
	}
	return &Manager{
		byID:   make(map[string]*Session),
		bySpec: make(map[string]*Session),
		store:  store,
		drafts: drafts,
		events: events,
		opts:   opts,
	}
}

// SetMode 运行期切换递进校验模式，只影响此后开启的会话
func (m *Manager) SetMode(mode measurement.ProgressionMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Mode = mode
}

// Open 开启规格的编辑会话
// 权威文档作为工作副本；存在可恢复草稿时采用草稿并标脏
func (m *Manager) Open(ctx context.Context, specID string) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySpec[specID]; exists {
		return nil, false, ErrSessionExists
	}

	working, err := m.store.Load(ctx, specID)
	if err != nil {
		return nil, false, fmt.Errorf("加载规格失败: %w", err)
	}

	recovered := false
	if m.drafts != nil {
		payload, found, err := m.drafts.LoadDraft(ctx, specID)
		if err != nil {
			slog.Warn("读取草稿失败，使用权威文档", "spec_id", specID, "error", err)
		} else if found {
			var draft models.GarmentSpec
			if err := json.Unmarshal(payload, &draft); err != nil {
				slog.Warn("草稿解析失败，使用权威文档", "spec_id", specID, "error", err)
			} else {
				working = &draft
				recovered = true
			}
		}
	}

	s := &Session{
		ID:            uuid.New().String(),
		SpecID:        specID,
		engine:        measurement.NewEngine(working, m.opts.Mode, m.opts.Defaults),
		dirty:         recovered,
		store:         m.store,
		drafts:        m.drafts,
		events:        m.events,
		debounceDelay: m.opts.DebounceDelay,
		draftTTL:      m.opts.DraftTTL,
	}
	m.byID[s.ID] = s
	m.bySpec[specID] = s

	slog.Info("编辑会话已开启", "session_id", s.ID, "spec_id", specID, "draft_recovered", recovered)
	return s, recovered, nil
}

// Get 按会话标识取会话
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// BySpec 按规格标识取活跃会话
func (m *Manager) BySpec(specID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.bySpec[specID]
	return s, ok
}

// Close 关闭会话并丢弃草稿，未保存变更随之丢弃
func (m *Manager) Close(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	s, ok := m.byID[sessionID]
	if ok {
		delete(m.byID, sessionID)
		delete(m.bySpec, s.SpecID)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	s.closed = true
	s.stopDebounceLocked()
	s.mu.Unlock()

	if m.drafts != nil {
		if err := m.drafts.DeleteDraft(ctx, s.SpecID); err != nil {
			slog.Warn("关闭会话时删除草稿失败", "spec_id", s.SpecID, "error", err)
		}
	}
	slog.Info("编辑会话已关闭", "session_id", sessionID, "spec_id", s.SpecID)
	return nil
}

// ActiveSpecIDs 当前有活跃会话的规格标识集合，供清理任务判断孤儿草稿
func (m *Manager) ActiveSpecIDs() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	active := make(map[string]bool, len(m.bySpec))
	for specID := range m.bySpec {
		active[specID] = true
	}
	return active
}
