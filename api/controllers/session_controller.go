/*
 * @module api/controllers/session_controller
 * @description 编辑会话控制器：会话生命周期、规格形状调整（尺码范围/基准尺码/单位）、
 *              递进校验与显式保存
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/measurement_engine.md 第4、5节
 * @stateFlow 开启会话 -> 编辑 -> 校验/保存 -> 关闭
 * @rules 所有引擎变更必须经由会话；同一规格仅允许一个活跃会话
 * @dependencies techspec-service/service, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/session, service/measurement
 */

package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"techspec-service/service"
	"techspec-service/service/measurement"
	"techspec-service/service/session"
)

// SessionController 编辑会话控制器
type SessionController struct{}

// NewSessionController 创建编辑会话控制器实例
func NewSessionController() *SessionController {
	return &SessionController{}
}

// SessionView 会话视图
type SessionView struct {
	SessionID   string      `json:"session_id"`
	SpecID      string      `json:"spec_id"`
	Dirty       bool        `json:"dirty"`
	Recovered   bool        `json:"recovered,omitempty"`
	EditableKey string      `json:"editable_round_key,omitempty"`
	WorkingCopy interface{} `json:"working_copy"`
}

// OpenSession 开启编辑会话
// @Summary 开启编辑会话
// @Description 加载权威文档为工作副本；存在可恢复草稿时恢复草稿并标脏
// @Tags 编辑会话
// @Produce json
// @Param id path string true "规格ID"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /specs/{id}/sessions [post]
func (c *SessionController) OpenSession(w http.ResponseWriter, r *http.Request) {
	specID := chi.URLParam(r, "id")
	if specID == "" {
		render.JSON(w, r, BadRequestResponse("规格ID不能为空", nil))
		return
	}

	sess, recovered, err := service.GlobalSessionMgr.Open(r.Context(), specID)
	if err != nil {
		if errors.Is(err, session.ErrSessionExists) {
			render.JSON(w, r, ConflictResponse("该规格已有活跃编辑会话", nil))
			return
		}
		render.JSON(w, r, NotFoundResponse("加载规格失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("会话已开启", c.view(sess, recovered)))
}

// GetSession 获取会话工作副本
// @Summary 获取会话工作副本
// @Description 返回当前编辑中的完整规格文档
// @Tags 编辑会话
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 404 {object} APIResponse
// @Router /sessions/{session_id} [get]
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.resolve(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", c.view(sess, false)))
}

// CloseSession 关闭编辑会话
// @Summary 关闭编辑会话
// @Description 关闭会话并丢弃未保存草稿
// @Tags 编辑会话
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /sessions/{session_id} [delete]
func (c *SessionController) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if err := service.GlobalSessionMgr.Close(r.Context(), sessionID); err != nil {
		render.JSON(w, r, NotFoundResponse("编辑会话不存在", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("会话已关闭", nil))
}

// SaveSession 显式保存
// @Summary 显式保存
// @Description 校验通过后写入权威存储，重读归一化结果作为新工作副本
// @Tags 编辑会话
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} APIResponse{data=SessionView}
// @Failure 404 {object} APIResponse
// @Failure 422 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /sessions/{session_id}/save [post]
func (c *SessionController) SaveSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.resolve(w, r)
	if !ok {
		return
	}

	if err := sess.Save(r.Context()); err != nil {
		var validation *session.ValidationError
		if errors.As(err, &validation) {
			render.JSON(w, r, UnprocessableResponse("规格校验不通过", validation.FieldErrors))
			return
		}
		render.JSON(w, r, InternalErrorResponse("保存失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("保存成功", c.view(sess, false)))
}

// SizeRangeRequest 尺码范围调整请求
type SizeRangeRequest struct {
	Sizes []string `json:"sizes" example:"S,M,L,XL"`
}

// SetSizeRange 调整尺码范围
// @Summary 调整尺码范围
// @Description 替换尺码范围，保留仍在范围内的数值，移出范围的数值剪除
// @Tags 编辑会话
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param request body SizeRangeRequest true "尺码范围"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /sessions/{session_id}/size-range [put]
func (c *SessionController) SetSizeRange(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.resolve(w, r)
	if !ok {
		return
	}

	var req SizeRangeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	err := sess.Mutate(func(e *measurement.Engine) error {
		return e.SetSizeRange(req.Sizes)
	})
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}
	render.JSON(w, r, SuccessResponse("尺码范围已更新", nil))
}

// BaseSizeRequest 基准尺码调整请求
type BaseSizeRequest struct {
	Size string `json:"size" example:"M"`
}

// SetBaseSize 调整基准尺码
// @Summary 调整基准尺码
// @Description 切换打版尺码；各测量点数值保持不变，级差相对新基准重新呈现
// @Tags 编辑会话
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param request body BaseSizeRequest true "基准尺码"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /sessions/{session_id}/base-size [put]
func (c *SessionController) SetBaseSize(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.resolve(w, r)
	if !ok {
		return
	}

	var req BaseSizeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	err := sess.Mutate(func(e *measurement.Engine) error {
		return e.SetBaseSize(req.Size)
	})
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}
	render.JSON(w, r, SuccessResponse("基准尺码已更新", nil))
}

// UnitRequest 计量单位调整请求
type UnitRequest struct {
	Unit string `json:"unit" example:"cm"`
}

// SetUnit 调整计量单位
// @Summary 调整计量单位
// @Description 切换计量单位，仅影响数值的呈现精度，不做数值换算
// @Tags 编辑会话
// @Accept json
// @Produce json
// @Param session_id path string true "会话ID"
// @Param request body UnitRequest true "计量单位"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /sessions/{session_id}/unit [put]
func (c *SessionController) SetUnit(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.resolve(w, r)
	if !ok {
		return
	}

	var req UnitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}

	err := sess.Mutate(func(e *measurement.Engine) error {
		return e.SetUnit(req.Unit)
	})
	if err != nil {
		render.JSON(w, r, BadRequestResponse(err.Error(), nil))
		return
	}
	render.JSON(w, r, SuccessResponse("计量单位已更新", nil))
}

// Validation 递进校验报告
// @Summary 递进校验报告
// @Description 按当前模式校验所有测量点的尺码递进，返回逐点错误与警告
// @Tags 编辑会话
// @Produce json
// @Param session_id path string true "会话ID"
// @Success 200 {object} APIResponse{data=map[string]measurement.ProgressionResult}
// @Failure 404 {object} APIResponse
// @Router /sessions/{session_id}/validation [get]
func (c *SessionController) Validation(w http.ResponseWriter, r *http.Request) {
	sess, ok := c.resolve(w, r)
	if !ok {
		return
	}

	var report map[string]measurement.ProgressionResult
	sess.View(func(e *measurement.Engine) {
		report = e.ValidateSpec()
	})
	render.JSON(w, r, SuccessResponse("校验完成", report))
}

// resolve 按路径参数定位会话，未找到时已写入响应
func (c *SessionController) resolve(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		render.JSON(w, r, BadRequestResponse("会话ID不能为空", nil))
		return nil, false
	}
	sess, err := service.GlobalSessionMgr.Get(sessionID)
	if err != nil {
		render.JSON(w, r, NotFoundResponse("编辑会话不存在", nil))
		return nil, false
	}
	return sess, true
}

func (c *SessionController) view(sess *session.Session, recovered bool) *SessionView {
	snapshot := sess.Snapshot()
	var editable string
	sess.View(func(e *measurement.Engine) {
		editable = e.EditableRoundKey()
	})
	return &SessionView{
		SessionID:   sess.ID,
		SpecID:      snapshot.ID,
		Dirty:       sess.Dirty(),
		Recovered:   recovered,
		EditableKey: editable,
		WorkingCopy: snapshot,
	}
}
