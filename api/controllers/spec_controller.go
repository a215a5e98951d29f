/*
 * @module api/controllers/spec_controller
 * @description 规格文档控制器，处理尺寸规格的创建、查询与删除
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程，写入即归一化
 * @rules 统一的错误处理和响应格式；存在活跃编辑会话的规格禁止删除
 * @dependencies techspec-service/service, github.com/go-chi/render
 * @refs dev_docs/model.md, service/specstore
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"techspec-service/service"
	"techspec-service/service/models"
)

// SpecController 规格文档控制器
type SpecController struct{}

// NewSpecController 创建规格文档控制器实例
func NewSpecController() *SpecController {
	return &SpecController{}
}

// CreateSpec 创建规格文档
// @Summary 创建规格文档
// @Description 创建尺寸规格文档，缺省字段按配置补齐并归一化
// @Tags 规格文档
// @Accept json
// @Produce json
// @Param spec body models.GarmentSpec true "规格文档"
// @Success 200 {object} APIResponse{data=models.GarmentSpec}
// @Failure 400 {object} APIResponse
// @Router /specs [post]
func (c *SpecController) CreateSpec(w http.ResponseWriter, r *http.Request) {
	var spec models.GarmentSpec
	if err := render.DecodeJSON(r.Body, &spec); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if spec.StyleNo == "" {
		render.JSON(w, r, BadRequestResponse("款号不能为空", nil))
		return
	}

	if err := service.GlobalSpecStore.Create(r.Context(), &spec); err != nil {
		render.JSON(w, r, InternalErrorResponse("创建规格失败", err))
		return
	}

	if service.GlobalEventService != nil {
		// 事件发布失败不回滚创建
		_ = service.GlobalEventService.PublishSpecCreated(r.Context(), &spec)
	}

	render.JSON(w, r, SuccessResponse("创建成功", &spec))
}

// ListSpecs 规格文档列表
// @Summary 规格文档列表
// @Description 按更新时间倒序返回全部规格文档（不含测量点与轮次）
// @Tags 规格文档
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.GarmentSpec}
// @Failure 500 {object} APIResponse
// @Router /specs [get]
func (c *SpecController) ListSpecs(w http.ResponseWriter, r *http.Request) {
	specs, err := service.GlobalSpecStore.List(r.Context())
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("查询规格列表失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("查询成功", specs))
}

// GetSpec 获取规格文档详情
// @Summary 获取规格文档详情
// @Description 返回权威规格文档，含全部测量点与样衣轮次
// @Tags 规格文档
// @Produce json
// @Param id path string true "规格ID"
// @Success 200 {object} APIResponse{data=models.GarmentSpec}
// @Failure 404 {object} APIResponse
// @Router /specs/{id} [get]
func (c *SpecController) GetSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		render.JSON(w, r, BadRequestResponse("ID参数不能为空", nil))
		return
	}

	spec, err := service.GlobalSpecStore.Load(r.Context(), id)
	if err != nil {
		render.JSON(w, r, NotFoundResponse("规格文档不存在", nil))
		return
	}

	render.JSON(w, r, SuccessResponse("查询成功", spec))
}

// DeleteSpec 删除规格文档
// @Summary 删除规格文档
// @Description 删除规格文档及其全部测量点与轮次；存在活跃编辑会话时拒绝
// @Tags 规格文档
// @Produce json
// @Param id path string true "规格ID"
// @Success 200 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /specs/{id} [delete]
func (c *SpecController) DeleteSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		render.JSON(w, r, BadRequestResponse("ID参数不能为空", nil))
		return
	}

	if _, active := service.GlobalSessionMgr.BySpec(id); active {
		render.JSON(w, r, ConflictResponse("该规格存在活跃编辑会话，请先关闭会话", nil))
		return
	}

	if err := service.GlobalSpecStore.Delete(r.Context(), id); err != nil {
		render.JSON(w, r, InternalErrorResponse("删除规格失败", err))
		return
	}

	if service.GlobalEventService != nil {
		_ = service.GlobalEventService.PublishSpecDeleted(r.Context(), id)
	}

	render.JSON(w, r, SuccessResponse("删除成功", nil))
}
