/*
 * @module service/cleanup/draft_cleanup_service
 * @description 草稿清理服务，定期清理无活跃会话归属的孤立草稿快照
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/measurement_engine.md 第5节
 * @stateFlow 定时触发 -> 扫描草稿键 -> 比对活跃会话 -> 删除孤立草稿
 * @rules 仅删除超过保留时长且无活跃会话的草稿；清理失败不影响系统正常运行
 * @dependencies techspec-service/service/config, github.com/go-redis/redis/v8, github.com/robfig/cron/v3
 * @refs service/session/draft_store.go, service/config
 */

package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"techspec-service/service/config"
	"techspec-service/service/session"
)

// DraftCleanupService 草稿清理服务
type DraftCleanupService struct {
	redisClient   *redis.Client
	sessions      *session.Manager
	configService *config.ConfigService
	cron          *cron.Cron
	ctx           context.Context
	cancel        context.CancelFunc
	started       bool
}

// NewDraftCleanupService 创建草稿清理服务实例
func NewDraftCleanupService(redisClient *redis.Client, sessions *session.Manager, configService *config.ConfigService) *DraftCleanupService {
	ctx, cancel := context.WithCancel(context.Background())

	return &DraftCleanupService{
		redisClient:   redisClient,
		sessions:      sessions,
		configService: configService,
		cron:          cron.New(cron.WithSeconds()),
		ctx:           ctx,
		cancel:        cancel,
		started:       false,
	}
}

// CleanupOrphanDrafts 清理孤立草稿：有TTL兜底，这里处理会话异常退出遗留的长存键
func (s *DraftCleanupService) CleanupOrphanDrafts(ctx context.Context) (int64, error) {
	if s.redisClient == nil {
		return 0, nil
	}

	startTime := time.Now()
	retentionHours := s.configService.GetDraftRetentionHours()
	retention := time.Duration(retentionHours) * time.Hour
	active := s.sessions.ActiveSpecIDs()

	var deleted int64
	var cursor uint64
	prefix := strings.TrimSuffix(session.DraftKeyPattern(), "*")

	for {
		keys, next, err := s.redisClient.Scan(ctx, cursor, session.DraftKeyPattern(), 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("扫描草稿键失败: %w", err)
		}

		for _, key := range keys {
			specID := strings.TrimPrefix(key, prefix)
			if active[specID] {
				continue
			}

			// 剩余TTL低于保留时长减已存活时间，说明草稿已存在超过宽限期
			ttl, err := s.redisClient.TTL(ctx, key).Result()
			if err != nil {
				slog.Warn("读取草稿TTL失败", "key", key, "error", err)
				continue
			}
			if ttl > 0 && retention-ttl < time.Hour {
				// 写入不足一小时的新草稿留给会话恢复
				continue
			}

			if err := s.redisClient.Del(ctx, key).Err(); err != nil {
				slog.Warn("删除孤立草稿失败", "key", key, "error", err)
				continue
			}
			deleted++
			slog.Debug("已删除孤立草稿", "spec_id", specID)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	slog.Info("草稿清理完成",
		"deleted_count", deleted,
		"retention_hours", retentionHours,
		"duration_ms", time.Since(startTime).Milliseconds())
	return deleted, nil
}

// StartScheduledCleanup 启动定时清理任务
func (s *DraftCleanupService) StartScheduledCleanup() error {
	if s.started {
		return fmt.Errorf("草稿清理调度器已经启动")
	}

	slog.Info("启动草稿清理调度器")

	// 每天凌晨3点执行清理任务
	// Cron表达式：秒 分 时 日 月 周
	_, err := s.cron.AddFunc("0 0 3 * * *", func() {
		slog.Info("开始执行定时草稿清理任务")

		if _, err := s.CleanupOrphanDrafts(s.ctx); err != nil {
			slog.Error("定时草稿清理任务失败", "error", err)
		}
	})

	if err != nil {
		return fmt.Errorf("添加定时任务失败: %w", err)
	}

	s.cron.Start()
	s.started = true

	slog.Info("草稿清理调度器启动成功，将于每天凌晨3点执行清理任务")
	return nil
}

// StopScheduledCleanup 停止定时清理任务
func (s *DraftCleanupService) StopScheduledCleanup() {
	if !s.started {
		return
	}

	slog.Info("停止草稿清理调度器")

	s.cancel()

	if s.cron != nil {
		s.cron.Stop()
	}

	s.started = false

	slog.Info("草稿清理调度器已停止")
}
