/*
 * @module service/measurement/templates
 * @description 常用测量点模板库：按品类预置的 POM 编号、名称与测量方法，
 *              供"添加常用测量点"操作使用
 * @architecture 静态目录模式 - 内置模板集合
 * @documentReference dev_docs/measurement_engine.md 第4.4节
 * @stateFlow 模板选取 -> 铸造新身份 -> 加入测量点仓库
 * @rules 模板只提供初始字段，加入仓库后与手工创建的测量点无区别
 * @dependencies techspec-service/service/models
 * @refs service/measurement/pointrepo.go
 */

package measurement

import (
	"fmt"

	"techspec-service/service/models"
)

// PointTemplate 常用测量点模板
type PointTemplate struct {
	Code     string `json:"code" example:"B01"`
	Name     string `json:"name" example:"胸围"`
	Method   string `json:"method" example:"腋下两点间平铺横量"`
	Category string `json:"category" example:"tops"` // tops, bottoms, common
}

// commonTemplates 内置常用测量点目录
var commonTemplates = []PointTemplate{
	{Code: "B01", Name: "胸围", Method: "腋下两点间平铺横量", Category: "tops"},
	{Code: "B02", Name: "腰围", Method: "腰节处平铺横量", Category: "common"},
	{Code: "B03", Name: "下摆围", Method: "下摆底边平铺横量", Category: "tops"},
	{Code: "B04", Name: "肩宽", Method: "左右肩点间直量", Category: "tops"},
	{Code: "B05", Name: "袖长", Method: "肩点沿袖中线量至袖口", Category: "tops"},
	{Code: "B06", Name: "袖口围", Method: "袖口平铺横量", Category: "tops"},
	{Code: "B07", Name: "衣长", Method: "后领中点垂直量至下摆", Category: "tops"},
	{Code: "B08", Name: "领围", Method: "领口内沿弧量", Category: "tops"},
	{Code: "P01", Name: "裤长", Method: "腰头上沿量至裤脚口", Category: "bottoms"},
	{Code: "P02", Name: "臀围", Method: "裆上约8cm处平铺横量", Category: "bottoms"},
	{Code: "P03", Name: "大腿围", Method: "裆底下2.5cm处平铺横量", Category: "bottoms"},
	{Code: "P04", Name: "脚口围", Method: "裤脚口平铺横量", Category: "bottoms"},
	{Code: "P05", Name: "前裆长", Method: "腰头上沿沿前中量至裆底", Category: "bottoms"},
	{Code: "P06", Name: "后裆长", Method: "腰头上沿沿后中量至裆底", Category: "bottoms"},
}

// CommonTemplates 全部内置模板
func CommonTemplates() []PointTemplate {
	templates := make([]PointTemplate, len(commonTemplates))
	copy(templates, commonTemplates)
	return templates
}

// FindTemplate 按编号查找模板
func FindTemplate(code string) (PointTemplate, bool) {
	for _, t := range commonTemplates {
		if t.Code == code {
			return t, true
		}
	}
	return PointTemplate{}, false
}

// AddPointFromTemplate 由模板创建测量点并加入仓库，编号冲突时自动去重
func (e *Engine) AddPointFromTemplate(code string) (*models.MeasurementPoint, error) {
	template, ok := FindTemplate(code)
	if !ok {
		return nil, fmt.Errorf("常用测量点模板不存在: %s", code)
	}
	pointCode := template.Code
	for i := range e.spec.Points {
		if e.spec.Points[i].Code == pointCode {
			pointCode = e.uniquifyCode(template.Code)
			break
		}
	}
	return e.AddPoint(models.MeasurementPoint{
		Code:   pointCode,
		Name:   template.Name,
		Method: template.Method,
		Active: true,
	}), nil
}
