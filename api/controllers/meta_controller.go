/*
 * @module api/controllers/meta_controller
 * @description 元数据控制器，提供计量单位、默认尺码范围与常用测量点模板查询
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 元数据为只读，默认尺码范围随系统配置变化
 * @dependencies techspec-service/service, github.com/go-chi/render
 * @refs service/measurement/unitcodec.go, service/measurement/templates.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"

	"techspec-service/service"
	"techspec-service/service/measurement"
)

// MetaController 元数据控制器
type MetaController struct{}

// NewMetaController 创建元数据控制器实例
func NewMetaController() *MetaController {
	return &MetaController{}
}

// UnitInfo 计量单位信息
type UnitInfo struct {
	Unit        string `json:"unit" example:"inch-16"`
	Fractional  bool   `json:"fractional" example:"true"`
	Denominator int    `json:"denominator,omitempty" example:"16"`
}

// GetUnits 获取支持的计量单位
// @Summary 获取支持的计量单位
// @Description 返回全部计量单位及其分数呈现属性
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]UnitInfo}
// @Router /meta/units [get]
func (c *MetaController) GetUnits(w http.ResponseWriter, r *http.Request) {
	units := measurement.SupportedUnits()
	infos := make([]UnitInfo, 0, len(units))
	for _, unit := range units {
		den := unit.Denominator()
		infos = append(infos, UnitInfo{
			Unit:        string(unit),
			Fractional:  den > 0,
			Denominator: den,
		})
	}

	render.JSON(w, r, SuccessResponse("查询成功", infos))
}

// GetSizeRanges 获取默认尺码范围
// @Summary 获取默认尺码范围
// @Description 返回按性别划分的默认尺码范围与默认基准尺码
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=measurement.Defaults}
// @Router /meta/size-ranges [get]
func (c *MetaController) GetSizeRanges(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("查询成功", service.GlobalConfigService.GetSpecDefaults()))
}

// GetCommonPoints 获取常用测量点模板
// @Summary 获取常用测量点模板
// @Description 返回内置常用测量点库（代号/名称/量法/容差）
// @Tags 元数据
// @Produce json
// @Success 200 {object} APIResponse{data=[]measurement.PointTemplate}
// @Router /meta/common-points [get]
func (c *MetaController) GetCommonPoints(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("查询成功", measurement.CommonTemplates()))
}
