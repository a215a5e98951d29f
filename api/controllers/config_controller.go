/*
 * @module api/controllers/config_controller
 * @description 配置管理控制器，提供系统配置的HTTP接口
 * @architecture RESTful API架构
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow HTTP请求 -> 控制器 -> 配置服务 -> 数据库
 * @rules 遵循RESTful API设计规范；递进校验模式变更即时下发给会话管理器
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/config
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"techspec-service/service"
	"techspec-service/service/config"
)

// ConfigController 配置控制器
type ConfigController struct{}

// NewConfigController 创建配置控制器实例
func NewConfigController() *ConfigController {
	return &ConfigController{}
}

// GetAllConfigs 获取所有配置
// @Summary 获取所有系统配置
// @Description 获取系统所有配置项
// @Tags 系统配置
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.SystemConfig}
// @Failure 500 {object} APIResponse
// @Router /config/system [get]
func (c *ConfigController) GetAllConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := service.GlobalConfigService.GetAllSystemConfigs()
	if err != nil {
		render.JSON(w, r, InternalErrorResponse("获取配置失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("获取配置成功", configs))
}

// GetConfig 获取单个配置
// @Summary 获取单个配置
// @Description 根据键名获取配置值
// @Tags 系统配置
// @Produce json
// @Param key path string true "配置键"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /config/system/{key} [get]
func (c *ConfigController) GetConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		render.JSON(w, r, BadRequestResponse("配置键不能为空", nil))
		return
	}

	value, found := service.GlobalConfigService.GetSystemConfig(key)
	if !found {
		render.JSON(w, r, NotFoundResponse("配置项不存在", nil))
		return
	}

	render.JSON(w, r, SuccessResponse("获取配置成功", map[string]interface{}{
		"key":   key,
		"value": value,
	}))
}

// UpdateConfigRequest 更新配置请求
type UpdateConfigRequest struct {
	Key         string `json:"key" example:"measurement.progression_mode"`
	Value       string `json:"value" example:"strict"`
	Description string `json:"description,omitempty"`
}

// UpdateConfig 更新配置
// @Summary 更新系统配置
// @Description 写入配置项；递进校验模式变更即时生效于此后开启的会话
// @Tags 系统配置
// @Accept json
// @Produce json
// @Param request body UpdateConfigRequest true "配置内容"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /config/system [post]
func (c *ConfigController) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数格式错误", err))
		return
	}
	if req.Key == "" {
		render.JSON(w, r, BadRequestResponse("配置键不能为空", nil))
		return
	}

	if err := service.GlobalConfigService.SetSystemConfig(req.Key, req.Value, req.Description); err != nil {
		render.JSON(w, r, InternalErrorResponse("保存配置失败", err))
		return
	}

	if req.Key == config.KeyProgressionMode {
		service.GlobalSessionMgr.SetMode(service.GlobalConfigService.GetProgressionMode())
	}

	render.JSON(w, r, SuccessResponse("配置已保存", nil))
}
