/*
 * @module service/event/event_service
 * @description 事件管理服务：规格保存快照推送到Kafka，数据库变更监听与SSE分发
 * @architecture 事件驱动架构 - 业务服务层
 * @documentReference dev_docs/measurement_engine.md 第6节
 * @stateFlow 规格保存 -> 前后快照入Kafka / pg_notify -> 监听器 -> SSE客户端推送
 * @rules 事件发布失败不阻断保存主流程，仅记录日志
 * @dependencies github.com/segmentio/kafka-go, github.com/lib/pq
 * @refs service/specstore/specstore.go, service/session/session.go
 */

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/segmentio/kafka-go"

	"techspec-service/service/models"
	"techspec-service/service/specstore"
)

// 事件类型
const (
	EventSpecCreated = "spec.created"
	EventSpecSaved   = "spec.saved"
	EventSpecDeleted = "spec.deleted"
)

// SpecEvent 发往Kafka的规格变更事件，保存时携带前后完整快照
type SpecEvent struct {
	EventID   string              `json:"event_id"`
	Type      string              `json:"type"`
	SpecID    string              `json:"spec_id"`
	Before    *models.GarmentSpec `json:"before,omitempty"`
	After     *models.GarmentSpec `json:"after,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// ChangeNotice 推送给SSE客户端的轻量变更通知
type ChangeNotice struct {
	SpecID    string    `json:"spec_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// SSEClient SSE客户端连接
type SSEClient struct {
	ID      string
	Channel chan *ChangeNotice
	Done    chan bool
}

// EventService 事件管理服务
type EventService struct {
	writer     *kafka.Writer
	topic      string
	dbListener *pq.Listener
	clients    map[string]*SSEClient // connectionID -> client
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// NewEventService 创建事件服务实例。brokers为空时不启用Kafka发布
func NewEventService(brokers []string, topic string) *EventService {
	ctx, cancel := context.WithCancel(context.Background())

	service := &EventService{
		topic:   topic,
		clients: make(map[string]*SSEClient),
		ctx:     ctx,
		cancel:  cancel,
	}

	if len(brokers) > 0 {
		service.writer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		}
	}

	// 启动数据库监听器
	go service.startDBListener()

	return service
}

// === Kafka事件发布 ===

// PublishSpecSaved 发布规格保存事件，携带保存前后的完整快照
// 发布失败只记录日志，不回传给保存主流程
func (s *EventService) PublishSpecSaved(ctx context.Context, specID string, before, after *models.GarmentSpec) {
	err := s.publish(ctx, SpecEvent{
		EventID:   uuid.New().String(),
		Type:      EventSpecSaved,
		SpecID:    specID,
		Before:    before,
		After:     after,
		Timestamp: time.Now(),
	})
	if err != nil {
		slog.Warn("发布规格保存事件失败", "spec_id", specID, "error", err)
	}
}

// PublishSpecCreated 发布规格创建事件
func (s *EventService) PublishSpecCreated(ctx context.Context, spec *models.GarmentSpec) error {
	return s.publish(ctx, SpecEvent{
		EventID:   uuid.New().String(),
		Type:      EventSpecCreated,
		SpecID:    spec.ID,
		After:     spec,
		Timestamp: time.Now(),
	})
}

// PublishSpecDeleted 发布规格删除事件
func (s *EventService) PublishSpecDeleted(ctx context.Context, specID string) error {
	return s.publish(ctx, SpecEvent{
		EventID:   uuid.New().String(),
		Type:      EventSpecDeleted,
		SpecID:    specID,
		Timestamp: time.Now(),
	})
}

func (s *EventService) publish(ctx context.Context, event SpecEvent) error {
	if s.writer == nil {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.SpecID),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.writer.WriteMessages(writeCtx, message); err != nil {
		return fmt.Errorf("发送事件失败: %w", err)
	}

	slog.Info("规格事件已发送", "topic", s.topic, "type", event.Type, "spec_id", event.SpecID)
	return nil
}

// === SSE连接管理 ===

// AddSSEConnection 添加SSE连接
func (s *EventService) AddSSEConnection(connectionID string) *SSEClient {
	s.mu.Lock()
	defer s.mu.Unlock()

	client := &SSEClient{
		ID:      connectionID,
		Channel: make(chan *ChangeNotice, 100), // 缓冲100个事件
		Done:    make(chan bool),
	}
	s.clients[connectionID] = client

	slog.Info("SSE连接已建立", "connection_id", connectionID)
	return client
}

// RemoveSSEConnection 移除SSE连接
func (s *EventService) RemoveSSEConnection(connectionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client, exists := s.clients[connectionID]; exists {
		close(client.Done)
		delete(s.clients, connectionID)
		slog.Info("SSE连接已断开", "connection_id", connectionID)
	}
}

// BroadcastNotice 广播变更通知给所有SSE客户端
func (s *EventService) BroadcastNotice(notice *ChangeNotice) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, client := range s.clients {
		select {
		case client.Channel <- notice:
		default:
			slog.Warn("SSE客户端事件队列已满，跳过推送", "connection_id", client.ID)
		}
	}
}

// === 数据库监听实现 ===

// startDBListener 监听pg_notify变更通道并分发给SSE客户端
func (s *EventService) startDBListener() {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")

		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	s.dbListener = pq.NewListener(connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			slog.Warn("PostgreSQL监听器事件", "event", ev, "error", err)
		}
	})

	if err := s.dbListener.Listen(specstore.NotifyChannel); err != nil {
		slog.Error("监听数据库通知失败", "channel", specstore.NotifyChannel, "error", err)
		return
	}

	slog.Info("数据库监听器已启动", "channel", specstore.NotifyChannel)

	for {
		select {
		case notification := <-s.dbListener.Notify:
			if notification != nil {
				s.handleDBNotification(notification)
			}
		case <-s.ctx.Done():
			slog.Info("数据库监听器已停止")
			return
		}
	}
}

// handleDBNotification 处理数据库通知
func (s *EventService) handleDBNotification(notification *pq.Notification) {
	var payload struct {
		SpecID string `json:"spec_id"`
		Action string `json:"action"`
	}
	if err := json.Unmarshal([]byte(notification.Extra), &payload); err != nil {
		slog.Warn("解析数据库通知失败", "payload", notification.Extra, "error", err)
		return
	}

	s.BroadcastNotice(&ChangeNotice{
		SpecID:    payload.SpecID,
		Action:    payload.Action,
		Timestamp: time.Now(),
	})
}

// Stop 停止事件服务
func (s *EventService) Stop() {
	s.cancel()

	if s.dbListener != nil {
		s.dbListener.Close()
	}
	if s.writer != nil {
		if err := s.writer.Close(); err != nil {
			slog.Warn("关闭Kafka生产者失败", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, client := range s.clients {
		close(client.Done)
		delete(s.clients, id)
	}
}
