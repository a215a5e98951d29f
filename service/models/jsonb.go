package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// 通用 JSON 类型
type JSONB map[string]interface{}

// JSONBStringArray 用于存储字符串数组的 JSONB 类型
type JSONBStringArray []string

// SizeValueMap 尺码 -> 数值表，缺键表示"尚未定义"而非 0
type SizeValueMap map[string]float64

// StringMap 尺码 -> 字符串值表，用于轮次条目的五个值表
type StringMap map[string]string

func scanJSONBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("类型断言失败: 不是 []byte 或 string")
	}
}

// 实现 Scanner 接口
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, j)
}

// 实现 Valuer 接口
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	bytes, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, a)
}

func (a JSONBStringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (m *SizeValueMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, m)
}

func (m SizeValueMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Clone 独立持有的副本
func (m SizeValueMap) Clone() SizeValueMap {
	if m == nil {
		return nil
	}
	cloned := make(SizeValueMap, len(m))
	for k, v := range m {
		cloned[k] = v
	}
	return cloned
}

func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	bytes, err := scanJSONBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, m)
}

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Clone 独立持有的副本
func (m StringMap) Clone() StringMap {
	if m == nil {
		return nil
	}
	cloned := make(StringMap, len(m))
	for k, v := range m {
		cloned[k] = v
	}
	return cloned
}

// Compact 去除空串条目，全空时返回 nil，供序列化边界省略
func (m StringMap) Compact() StringMap {
	if len(m) == 0 {
		return nil
	}
	compact := make(StringMap)
	for k, v := range m {
		if v != "" {
			compact[k] = v
		}
	}
	if len(compact) == 0 {
		return nil
	}
	return compact
}
