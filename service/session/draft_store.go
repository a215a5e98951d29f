/*
 * @module service/session/draft_store
 * @description 可恢复草稿存储：把编辑会话的工作副本快照写入 Redis，
 *              供会话意外中断后恢复
 * @architecture 适配器模式 - 封装 Redis 客户端为草稿存取接口
 * @documentReference dev_docs/measurement_engine.md 第5节
 * @stateFlow 快照写入（带保留时长）-> 恢复读取 -> 保存成功后删除
 * @rules 草稿按规格标识寻址，最后写入者胜出；键带 TTL，过期自动失效
 * @dependencies github.com/go-redis/redis/v8
 * @refs service/session/session.go, service/cleanup
 */

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// draftKeyPrefix 草稿键前缀
const draftKeyPrefix = "techspec:draft:"

// DraftStore 草稿存储接口
type DraftStore interface {
	SaveDraft(ctx context.Context, specID string, payload []byte, ttl time.Duration) error
	LoadDraft(ctx context.Context, specID string) ([]byte, bool, error)
	DeleteDraft(ctx context.Context, specID string) error
}

// RedisDraftStore 基于 Redis 的草稿存储
type RedisDraftStore struct {
	client *redis.Client
}

// NewRedisDraftStore 创建 Redis 草稿存储
func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

// DraftKey 规格对应的草稿键
func DraftKey(specID string) string {
	return draftKeyPrefix + specID
}

// DraftKeyPattern 草稿键扫描模式，供清理任务使用
func DraftKeyPattern() string {
	return draftKeyPrefix + "*"
}

// SaveDraft 写入草稿快照，最后写入者胜出
func (s *RedisDraftStore) SaveDraft(ctx context.Context, specID string, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, DraftKey(specID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("写入草稿失败: %w", err)
	}
	return nil
}

// LoadDraft 读取草稿快照，不存在时返回 found=false
func (s *RedisDraftStore) LoadDraft(ctx context.Context, specID string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, DraftKey(specID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取草稿失败: %w", err)
	}
	return payload, true, nil
}

// DeleteDraft 删除草稿
func (s *RedisDraftStore) DeleteDraft(ctx context.Context, specID string) error {
	if err := s.client.Del(ctx, DraftKey(specID)).Err(); err != nil {
		return fmt.Errorf("删除草稿失败: %w", err)
	}
	return nil
}
