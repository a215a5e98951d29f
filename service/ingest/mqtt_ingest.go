/*
 * @module service/ingest/mqtt_ingest
 * @description MQTT实测值接入服务：订阅量体设备上报主题，把实测值写入对应规格的编辑会话
 * @architecture 适配器模式 - 封装MQTT客户端，消息路由到会话层
 * @documentReference dev_docs/measurement_engine.md 第6.2节
 * @stateFlow 连接建立 -> 主题订阅 -> 消息解析 -> 会话写入实测值
 * @rules 仅写入处于编辑状态的轮次；无活跃会话的上报丢弃并记录日志
 * @dependencies github.com/eclipse/paho.mqtt.golang, encoding/json
 * @refs service/session/manager.go, service/measurement/rounds.go
 */

package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"techspec-service/service/measurement"
	"techspec-service/service/session"
)

var measuredIngestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "techspec_measured_ingest_total",
	Help: "MQTT实测值上报处理次数,按结果统计",
}, []string{"result"})

// TopicMeasured 量体设备上报主题，通配一级为规格ID
const TopicMeasured = "techspec/measured/#"

// MeasuredPayload 设备上报的单格实测值
type MeasuredPayload struct {
	SpecID    string `json:"spec_id"`
	RoundKey  string `json:"round_key,omitempty"` // 省略时写入当前可编辑轮次
	PointKey  string `json:"point_key,omitempty"`
	PointCode string `json:"point_code,omitempty"` // point_key缺失时按代号定位
	Size      string `json:"size"`
	Value     string `json:"value"`
}

// MQTTConfig MQTT接入配置
type MQTTConfig struct {
	Broker    string
	ClientID  string
	Username  string
	Password  string
	QoS       byte
	KeepAlive time.Duration
}

// IngestService MQTT实测值接入服务
type IngestService struct {
	config      *MQTTConfig
	client      mqtt.Client
	sessions    *session.Manager
	mutex       sync.RWMutex
	isConnected bool
	received    int64
	applied     int64
	lastError   string
}

// NewIngestService 创建接入服务实例
func NewIngestService(config *MQTTConfig, sessions *session.Manager) *IngestService {
	service := &IngestService{
		config:   config,
		sessions: sessions,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	if config.KeepAlive > 0 {
		opts.SetKeepAlive(config.KeepAlive)
	}
	opts.SetOnConnectHandler(service.onConnected)
	opts.SetConnectionLostHandler(service.onConnectionLost)

	service.client = mqtt.NewClient(opts)
	return service
}

// Start 建立连接并订阅上报主题
func (s *IngestService) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isConnected {
		return nil
	}

	slog.Info("正在连接MQTT broker", "broker", s.config.Broker)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		s.lastError = token.Error().Error()
		return fmt.Errorf("MQTT连接失败: %w", token.Error())
	}
	return nil
}

// Stop 断开连接
func (s *IngestService) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isConnected {
		return
	}
	if token := s.client.Unsubscribe(TopicMeasured); token.Wait() && token.Error() != nil {
		slog.Warn("取消订阅失败", "topic", TopicMeasured, "error", token.Error())
	}
	s.client.Disconnect(250)
	s.isConnected = false
	slog.Info("MQTT接入服务已断开连接")
}

// onConnected 连接建立后订阅上报主题，重连时同样会触发
func (s *IngestService) onConnected(client mqtt.Client) {
	s.mutex.Lock()
	s.isConnected = true
	s.mutex.Unlock()

	if token := client.Subscribe(TopicMeasured, s.config.QoS, s.handleMessage); token.Wait() && token.Error() != nil {
		slog.Error("订阅主题失败", "topic", TopicMeasured, "error", token.Error())
		return
	}
	slog.Info("MQTT接入服务已就绪", "topic", TopicMeasured, "qos", s.config.QoS)
}

// onConnectionLost 连接丢失处理
func (s *IngestService) onConnectionLost(client mqtt.Client, err error) {
	s.mutex.Lock()
	s.isConnected = false
	s.lastError = err.Error()
	s.mutex.Unlock()
	slog.Warn("MQTT连接丢失，等待自动重连", "error", err)
}

// handleMessage 解析上报并写入会话
func (s *IngestService) handleMessage(client mqtt.Client, msg mqtt.Message) {
	s.mutex.Lock()
	s.received++
	s.mutex.Unlock()

	var payload MeasuredPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		slog.Warn("解析上报消息失败", "topic", msg.Topic(), "error", err)
		measuredIngestTotal.WithLabelValues("invalid").Inc()
		return
	}
	if payload.SpecID == "" {
		payload.SpecID = specIDFromTopic(msg.Topic())
	}
	if err := s.Apply(&payload); err != nil {
		slog.Warn("写入实测值失败", "spec_id", payload.SpecID, "size", payload.Size, "error", err)
		measuredIngestTotal.WithLabelValues("rejected").Inc()
		return
	}

	s.mutex.Lock()
	s.applied++
	s.mutex.Unlock()
	measuredIngestTotal.WithLabelValues("applied").Inc()
}

// Apply 把一条实测值写入对应规格的活跃会话
func (s *IngestService) Apply(payload *MeasuredPayload) error {
	if payload.SpecID == "" {
		return fmt.Errorf("上报缺少规格ID")
	}
	if payload.Size == "" {
		return fmt.Errorf("上报缺少尺码")
	}

	sess, ok := s.sessions.BySpec(payload.SpecID)
	if !ok {
		return fmt.Errorf("规格 %s 没有活跃的编辑会话", payload.SpecID)
	}

	return sess.Mutate(func(e *measurement.Engine) error {
		pointKey := payload.PointKey
		if pointKey == "" && payload.PointCode != "" {
			for _, point := range e.Spec().Points {
				if point.Code == payload.PointCode {
					pointKey = point.Key
					break
				}
			}
		}
		if pointKey == "" {
			return fmt.Errorf("无法定位测量点: key=%s code=%s", payload.PointKey, payload.PointCode)
		}

		roundKey := payload.RoundKey
		if roundKey == "" {
			roundKey = e.EditableRoundKey()
		}
		if roundKey == "" {
			return fmt.Errorf("规格 %s 没有可写入的轮次", payload.SpecID)
		}

		return e.EditCell(roundKey, pointKey, measurement.CellFieldMeasured, payload.Size, payload.Value)
	})
}

// Statistics 获取接入统计信息
func (s *IngestService) Statistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return map[string]interface{}{
		"connected":  s.isConnected,
		"broker":     s.config.Broker,
		"topic":      TopicMeasured,
		"received":   s.received,
		"applied":    s.applied,
		"last_error": s.lastError,
	}
}

// specIDFromTopic 从主题中提取规格ID：techspec/measured/<spec_id>
func specIDFromTopic(topic string) string {
	const prefix = "techspec/measured/"
	if len(topic) > len(prefix) && topic[:len(prefix)] == prefix {
		return topic[len(prefix):]
	}
	return ""
}
