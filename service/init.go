/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、配置加载、会话与事件服务装配
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 确保所有依赖服务正常启动后才提供API服务；Redis/Kafka/MQTT不可用时降级运行
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, github.com/go-redis/redis/v8
 * @refs dev_docs/model.md
 */

package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"techspec-service/service/cleanup"
	"techspec-service/service/config"
	"techspec-service/service/database"
	"techspec-service/service/event"
	"techspec-service/service/ingest"
	"techspec-service/service/session"
	"techspec-service/service/specstore"
)

var (
	DB                  *gorm.DB
	RedisClient         *redis.Client
	GlobalConfigService *config.ConfigService
	GlobalSpecStore     *specstore.Store
	GlobalEventService  *event.EventService
	GlobalSessionMgr    *session.Manager
	GlobalIngestService *ingest.IngestService
	GlobalDraftCleanup  *cleanup.DraftCleanupService
)

func init() {
	initDatabase()
	runMigrations()
	initRedis()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	log.Println("开始运行数据库迁移...")

	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	log.Println("所有数据库迁移任务完成")
}

// initRedis 初始化Redis连接，连接失败时降级为无草稿恢复模式
func initRedis() {
	addr := getEnvWithDefault("REDIS_ADDR", "localhost:6379")
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis连接失败，草稿恢复功能不可用: %v", err)
		client.Close()
		return
	}

	RedisClient = client
	log.Printf("Redis连接成功: %s", addr)
}

// initServices 初始化服务
func initServices() {
	GlobalConfigService = config.NewConfigService(DB)
	GlobalSpecStore = specstore.NewStore(DB, GlobalConfigService.GetSpecDefaults())

	// 事件服务：Kafka brokers未配置时仅保留数据库监听与SSE
	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(b); trimmed != "" {
				brokers = append(brokers, trimmed)
			}
		}
	}
	GlobalEventService = event.NewEventService(brokers, getEnvWithDefault("KAFKA_TOPIC", "techspec.spec-events"))

	var drafts session.DraftStore
	if RedisClient != nil {
		drafts = session.NewRedisDraftStore(RedisClient)
	}

	GlobalSessionMgr = session.NewManager(GlobalSpecStore, drafts, GlobalEventService, session.ManagerOptions{
		Mode:          GlobalConfigService.GetProgressionMode(),
		Defaults:      GlobalConfigService.GetSpecDefaults(),
		DebounceDelay: time.Duration(GlobalConfigService.GetDebounceDelayMsec()) * time.Millisecond,
		DraftTTL:      time.Duration(GlobalConfigService.GetDraftRetentionHours()) * time.Hour,
	})

	// MQTT实测值接入：broker未配置时不启用
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		GlobalIngestService = ingest.NewIngestService(&ingest.MQTTConfig{
			Broker:    broker,
			ClientID:  getEnvWithDefault("MQTT_CLIENT_ID", "techspec-service"),
			Username:  os.Getenv("MQTT_USERNAME"),
			Password:  os.Getenv("MQTT_PASSWORD"),
			QoS:       1,
			KeepAlive: 30 * time.Second,
		}, GlobalSessionMgr)
		if err := GlobalIngestService.Start(); err != nil {
			log.Printf("启动MQTT接入服务失败: %v", err)
		}
	}

	GlobalDraftCleanup = cleanup.NewDraftCleanupService(RedisClient, GlobalSessionMgr, GlobalConfigService)
	if err := GlobalDraftCleanup.StartScheduledCleanup(); err != nil {
		log.Printf("启动草稿清理调度器失败: %v", err)
	}

	log.Println("服务初始化完成")
}
