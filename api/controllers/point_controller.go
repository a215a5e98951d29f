/*
 * @module api/controllers/point_controller
 * @description 测量点控制器：测量点的增删改查、复制、级差与基准值编辑
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/measurement_engine.md 第2、3节
 * @stateFlow HTTP请求 -> 会话定位 -> 引擎变更 -> 响应返回
 * @rules 基准值变更会按既有级差重新推级全尺码；级差编辑拒绝基准尺码
 * @dependencies techspec-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/measurement/pointrepo.go, service/measurement/grading.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"techspec-service/service/measurement"
	"techspec-service/service/models"
)

// PointController 测量点控制器
type PointController struct {
	sessions SessionController
}

// NewPointController 创建测量点控制器实例
func NewPointController() *PointController {
	return &PointController{}
}

// AddPointRequest 新增测量点请求
type AddPointRequest struct {
	TemplateCode string                  `json:"template_code,omitempty" example:"B01"` // 指定时从常用测量点模板创建
	Index        *int                    `json:"index,omitempty"`                       // 指定时在该位置插入
	Point        models.MeasurementPoint `json:"point"`
}

// AddPoint 新增测量点
// @Summary 新增测量点
// @Description 追加或在指定位置插入测量点；template_code指定时从常用测量点模板创建
// @Tags 测量点
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param request body AddPointRequest true "测量点"
// @Success 200 {object} APIResponse{data=models.MeasurementPoint}
// @Failure 400 {object} APIResponse
// @Router /sessions/{session_id}/points [post]
func (c *PointController) AddPoint(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}

	var req AddPointRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	var created *models.MeasurementPoint
	err := sess.Mutate(func(e *measurement.Engine) error {
		if req.TemplateCode != "" {
			point, err := e.AddPointFromTemplate(req.TemplateCode)
			if err != nil {
				return err
			}
			created = point
			return nil
		}
		if req.Index != nil {
			created = e.InsertPointAt(*req.Index, req.Point)
			return nil
		}
		created = e.AddPoint(req.Point)
		return nil
	})
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("测量点已创建", created))
}

// UpdatePoint 更新测量点
// @Summary 更新测量点
// @Description 更新测量点的代号、名称、容差、量法等属性；尺码数值仅在提供时替换
// @Tags 测量点
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "测量点Key"
// @Param point body models.MeasurementPoint true "更新内容"
// @Success 200 {object} APIResponse{data=models.MeasurementPoint}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{session_id}/points/{key} [put]
func (c *PointController) UpdatePoint(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	var req models.MeasurementPoint
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	var updated *models.MeasurementPoint
	err := sess.Mutate(func(e *measurement.Engine) error {
		point, err := e.UpdatePoint(key, req)
		updated = point
		return err
	})
	if err != nil {
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("测量点已更新", updated))
}

// DeletePoint 删除测量点
// @Summary 删除测量点
// @Description 删除测量点并级联移除所有轮次中的对应行
// @Tags 测量点
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "测量点Key"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{session_id}/points/{key} [delete]
func (c *PointController) DeletePoint(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	err := sess.Mutate(func(e *measurement.Engine) error {
		return e.DeletePoint(key)
	})
	if err != nil {
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("测量点已删除", nil))
}

// DuplicatePoint 复制测量点
// @Summary 复制测量点
// @Description 深拷贝测量点并插入原位置之后，代号自动唯一化，轮次行随之复制
// @Tags 测量点
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "测量点Key"
// @Success 200 {object} APIResponse{data=models.MeasurementPoint}
// @Failure 404 {object} APIResponse
// @Router /sessions/{session_id}/points/{key}/duplicate [post]
func (c *PointController) DuplicatePoint(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	var copied *models.MeasurementPoint
	err := sess.Mutate(func(e *measurement.Engine) error {
		point, err := e.DuplicatePoint(key)
		copied = point
		return err
	})
	if err != nil {
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("测量点已复制", copied))
}

// CellValueRequest 单值编辑请求
type CellValueRequest struct {
	Value string `json:"value" example:"52.5"`
}

// SetBaseValue 编辑基准尺码数值
// @Summary 编辑基准尺码数值
// @Description 首次录入仅写基准尺码；已有数值时按既有级差对全尺码重新推级
// @Tags 测量点
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "测量点Key"
// @Param request body CellValueRequest true "数值文本"
// @Success 200 {object} APIResponse{data=models.MeasurementPoint}
// @Failure 400 {object} APIResponse
// @Router /sessions/{session_id}/points/{key}/base-value [put]
func (c *PointController) SetBaseValue(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	var req CellValueRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	var point *models.MeasurementPoint
	err := sess.Mutate(func(e *measurement.Engine) error {
		if err := e.SetBaseValue(key, req.Value); err != nil {
			return err
		}
		point = e.FindPoint(key)
		return nil
	})
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("基准值已更新", point))
}

// SetJump 编辑级差
// @Summary 编辑级差
// @Description 更新某尺码相对相邻尺码的级差并重算该尺码数值；基准尺码不可编辑级差
// @Tags 测量点
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "测量点Key"
// @Param size path string true "尺码"
// @Param request body CellValueRequest true "级差文本"
// @Success 200 {object} APIResponse{data=map[string]string}
// @Failure 400 {object} APIResponse
// @Router /sessions/{session_id}/points/{key}/jumps/{size} [put]
func (c *PointController) SetJump(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	size := chi.URLParam(r, "size")

	var req CellValueRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	var jumps map[string]string
	err := sess.Mutate(func(e *measurement.Engine) error {
		if err := e.SetPointJump(key, size, req.Value); err != nil {
			return err
		}
		result, err := e.PointJumps(key)
		jumps = result
		return err
	})
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("级差已更新", jumps))
}
