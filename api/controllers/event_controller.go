/*
 * @module api/controllers/event_controller
 * @description 事件控制器，提供规格变更通知的SSE订阅与MQTT接入统计查询
 * @architecture RESTful API架构 - 控制器层
 * @documentReference dev_docs/measurement_engine.md 第6节
 * @stateFlow HTTP请求 -> SSE长连接 -> 变更通知推送
 * @rules SSE连接断开时自动清理注册；接入统计为只读
 * @dependencies techspec-service/service, github.com/go-chi/render, github.com/google/uuid
 * @refs service/event/event_service.go, service/ingest
 */

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"techspec-service/service"
)

// EventController 事件控制器
type EventController struct{}

// NewEventController 创建事件控制器实例
func NewEventController() *EventController {
	return &EventController{}
}

// HandleSSE 订阅规格变更通知
// @Summary 建立SSE连接
// @Description 前端通过此接口建立SSE连接，接收规格保存/删除的实时通知
// @Tags 事件管理
// @Success 200 {string} string "SSE事件流"
// @Router /sse [get]
func (c *EventController) HandleSSE(w http.ResponseWriter, r *http.Request) {
	// 设置SSE响应头
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	connectionID := uuid.New().String()
	client := service.GlobalEventService.AddSSEConnection(connectionID)
	defer service.GlobalEventService.RemoveSSEConnection(connectionID)

	// 发送连接成功事件
	fmt.Fprintf(w, "data: {\"type\":\"connected\",\"connection_id\":\"%s\",\"timestamp\":\"%s\"}\n\n",
		connectionID, time.Now().Format(time.RFC3339))
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	for {
		select {
		case notice := <-client.Channel:
			payload, err := json.Marshal(notice)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-client.Done:
			return

		case <-r.Context().Done():
			return
		}
	}
}

// GetIngestStats 获取MQTT接入统计
// @Summary 获取MQTT接入统计
// @Description 返回量体设备上报通道的连接状态与处理计数
// @Tags 事件管理
// @Produce json
// @Success 200 {object} APIResponse
// @Router /events/ingest-stats [get]
func (c *EventController) GetIngestStats(w http.ResponseWriter, r *http.Request) {
	if service.GlobalIngestService == nil {
		render.JSON(w, r, SuccessResponse("MQTT接入未启用", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", service.GlobalIngestService.Statistics()))
}
