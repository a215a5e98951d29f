/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs dev_docs/model.md
 */

package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"techspec-service/api/controllers"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// SSE事件订阅
	eventController := controllers.NewEventController()
	r.Get("/sse", eventController.HandleSSE)
	r.Get("/events/ingest-stats", eventController.GetIngestStats)

	// 规格文档
	specController := controllers.NewSpecController()
	sessionController := controllers.NewSessionController()
	r.Route("/specs", func(r chi.Router) {
		r.Post("/", specController.CreateSpec)
		r.Get("/", specController.ListSpecs)
		r.Get("/{id}", specController.GetSpec)
		r.Delete("/{id}", specController.DeleteSpec)

		// 开启编辑会话
		r.Post("/{id}/sessions", sessionController.OpenSession)
	})

	// 编辑会话
	r.Route("/sessions/{session_id}", func(r chi.Router) {
		r.Get("/", sessionController.GetSession)
		r.Delete("/", sessionController.CloseSession)
		r.Post("/save", sessionController.SaveSession)

		// 规格形状
		r.Put("/size-range", sessionController.SetSizeRange)
		r.Put("/base-size", sessionController.SetBaseSize)
		r.Put("/unit", sessionController.SetUnit)

		// 递进校验
		r.Get("/validation", sessionController.Validation)

		// 测量点与推级
		pointController := controllers.NewPointController()
		r.Route("/points", func(r chi.Router) {
			r.Post("/", pointController.AddPoint)
			r.Post("/insert", pointController.AddPoint) // index字段指定插入位置
			r.Put("/{key}", pointController.UpdatePoint)
			r.Delete("/{key}", pointController.DeletePoint)
			r.Post("/{key}/duplicate", pointController.DuplicatePoint)
			r.Put("/{key}/base-value", pointController.SetBaseValue)
			r.Put("/{key}/jumps/{size}", pointController.SetJump)
		})

		// 样衣轮次
		roundController := controllers.NewRoundController()
		r.Route("/rounds", func(r chi.Router) {
			r.Post("/", roundController.CreateRound)
			r.Delete("/{key}", roundController.DeleteRound)
			r.Put("/{key}/meta", roundController.UpdateRoundMeta)
			r.Put("/{key}/cells", roundController.EditCell)
			r.Post("/{key}/apply", roundController.ApplyRound)
		})
	})

	// 元数据
	r.Route("/meta", func(r chi.Router) {
		metaController := controllers.NewMetaController()
		r.Get("/units", metaController.GetUnits)
		r.Get("/size-ranges", metaController.GetSizeRanges)
		r.Get("/common-points", metaController.GetCommonPoints)
	})

	// 系统配置
	r.Route("/config/system", func(r chi.Router) {
		configController := controllers.NewConfigController()
		r.Get("/", configController.GetAllConfigs)
		r.Get("/{key}", configController.GetConfig)
		r.Post("/", configController.UpdateConfig)
	})
}
