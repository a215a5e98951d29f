/*
 * @module api/controllers/round_controller
 * @description 样衣轮次控制器：轮次创建/删除、元信息编辑、单元格编辑与修订合入
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/measurement_engine.md 第4节
 * @stateFlow HTTP请求 -> 会话定位 -> 引擎变更 -> 响应返回
 * @rules 仅最后一个轮次可编辑，历史轮次只读；合入修订会按新基准值重新推级
 * @dependencies techspec-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/measurement/rounds.go
 */

package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"techspec-service/service/measurement"
	"techspec-service/service/models"
)

// RoundController 样衣轮次控制器
type RoundController struct {
	sessions SessionController
}

// NewRoundController 创建样衣轮次控制器实例
func NewRoundController() *RoundController {
	return &RoundController{}
}

// CreateRoundRequest 创建轮次请求
type CreateRoundRequest struct {
	Name            string `json:"name" example:"第二轮"`
	MeasurementDate string `json:"measurement_date" example:"2024-03-15"`
	Reviewer        string `json:"reviewer" example:"张工"`
	RequestedSource string `json:"requested_source" example:"previous"` // original / previous
}

// CreateRound 创建样衣轮次
// @Summary 创建样衣轮次
// @Description 追加轮次并为所有测量点播种要求值；previous来源取上一轮修订值
// @Tags 样衣轮次
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param request body CreateRoundRequest true "轮次信息"
// @Success 200 {object} APIResponse{data=models.SampleRound}
// @Failure 400 {object} APIResponse
// @Router /sessions/{session_id}/rounds [post]
func (c *RoundController) CreateRound(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}

	var req CreateRoundRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if req.RequestedSource == "" {
		req.RequestedSource = models.RequestedSourceOriginal
	}

	var round *models.SampleRound
	err := sess.Mutate(func(e *measurement.Engine) error {
		created, err := e.CreateRound(req.Name, req.MeasurementDate, req.Reviewer, req.RequestedSource)
		round = created
		return err
	})
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("轮次已创建", round))
}

// DeleteRound 删除样衣轮次
// @Summary 删除样衣轮次
// @Description 删除轮次并重排序号，不自动补建
// @Tags 样衣轮次
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "轮次Key"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{session_id}/rounds/{key} [delete]
func (c *RoundController) DeleteRound(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	err := sess.Mutate(func(e *measurement.Engine) error {
		return e.DeleteRound(key)
	})
	if err != nil {
		render.JSON(w, r, NotFoundResponse(err.Error(), nil))
		return
	}

	render.JSON(w, r, SuccessResponse("轮次已删除", nil))
}

// RoundMetaRequest 轮次元信息请求
type RoundMetaRequest struct {
	Name            string `json:"name"`
	MeasurementDate string `json:"measurement_date"`
	Reviewer        string `json:"reviewer"`
	Comments        string `json:"comments"`
}

// UpdateRoundMeta 编辑轮次元信息
// @Summary 编辑轮次元信息
// @Description 更新轮次名称、量体日期、审核人与备注；历史轮次拒绝编辑
// @Tags 样衣轮次
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "轮次Key"
// @Param request body RoundMetaRequest true "元信息"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 423 {object} APIResponse
// @Router /sessions/{session_id}/rounds/{key}/meta [put]
func (c *RoundController) UpdateRoundMeta(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	var req RoundMetaRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	err := sess.Mutate(func(e *measurement.Engine) error {
		return e.UpdateRoundMeta(key, req.Name, req.MeasurementDate, req.Reviewer, req.Comments)
	})
	if err != nil {
		c.renderRoundError(w, r, err)
		return
	}

	render.JSON(w, r, SuccessResponse("轮次信息已更新", nil))
}

// CellEditRequest 单元格编辑请求
type CellEditRequest struct {
	PointKey string `json:"point_key" example:"550e8400-e29b-41d4-a716-446655440000"`
	Field    string `json:"field" example:"measured"` // measured / revised / comment
	Size     string `json:"size" example:"M"`
	Value    string `json:"value" example:"52.5"`
}

// EditCell 编辑轮次单元格
// @Summary 编辑轮次单元格
// @Description 写入实测值/修订值/备注；实测值变更即时重算与要求值的差值
// @Tags 样衣轮次
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "轮次Key"
// @Param request body CellEditRequest true "单元格内容"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 423 {object} APIResponse
// @Router /sessions/{session_id}/rounds/{key}/cells [put]
func (c *RoundController) EditCell(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	var req CellEditRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	err := sess.Mutate(func(e *measurement.Engine) error {
		return e.EditCell(key, req.PointKey, req.Field, req.Size, req.Value)
	})
	if err != nil {
		c.renderRoundError(w, r, err)
		return
	}

	render.JSON(w, r, SuccessResponse("单元格已更新", nil))
}

// ApplyRound 合入轮次修订
// @Summary 合入轮次修订
// @Description 把轮次的修订值合入主档：基准尺码修订按既有级差重新推级，
// @Description 非基准尺码修订覆盖对应数值
// @Tags 样衣轮次
// @Produce json
// @Param session_id path string true "会话ID"
// @Param key path string true "轮次Key"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 423 {object} APIResponse
// @Router /sessions/{session_id}/rounds/{key}/apply [post]
func (c *RoundController) ApplyRound(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.sessions.resolve(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")

	err := sess.Mutate(func(e *measurement.Engine) error {
		return e.ApplyRound(key)
	})
	if err != nil {
		c.renderRoundError(w, r, err)
		return
	}

	render.JSON(w, r, SuccessResponse("修订已合入主档", nil))
}

// renderRoundError 轮次操作错误分类：锁定轮次返回423
func (c *RoundController) renderRoundError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, measurement.ErrRoundLocked) {
		render.JSON(w, r, LockedResponse(err.Error(), nil))
		return
	}
	render.JSON(w, r, BadRequestResponse(err.Error(), nil))
}
