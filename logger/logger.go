/*
 * @module logger
 * @description 全局结构化日志初始化，供规格引擎与各协作方统一输出 JSON 日志
 * @architecture 工具包 - 进程启动时一次性初始化 slog 默认记录器
 * @documentReference dev_docs/measurement_engine.md 第7节
 * @stateFlow 进程启动 -> 读取日志级别 -> 设置默认记录器
 * @rules 日志级别由 LOG_LEVEL 环境变量控制，缺省 debug
 * @dependencies log/slog
 * @refs main.go
 */

package logger

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger 初始化全局日志记录器
// 创建 JSON 格式的日志处理器,输出到 stdout,级别由 LOG_LEVEL 控制
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// parseLevel 解析日志级别文本,无法识别时回退 debug
func parseLevel(text string) slog.Level {
	switch strings.ToLower(text) {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
