/*
 * @module service/ingest/mqtt_ingest_test
 * @description MQTT实测值接入服务单元测试：上报路由、测量点定位、轮次回退
 * @architecture 测试层
 * @documentReference dev_docs/measurement_engine.md 第6.2节
 * @stateFlow 构建内存会话 -> 应用上报 -> 断言引擎状态
 * @rules 不依赖真实MQTT broker，直接驱动Apply
 * @dependencies github.com/stretchr/testify
 * @refs service/ingest/mqtt_ingest.go
 */

package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techspec-service/service/measurement"
	"techspec-service/service/models"
	"techspec-service/service/session"
)

type memorySpecStore struct {
	specs map[string]*models.GarmentSpec
}

func (s *memorySpecStore) Load(ctx context.Context, specID string) (*models.GarmentSpec, error) {
	return s.specs[specID].Clone(), nil
}

func (s *memorySpecStore) Save(ctx context.Context, spec *models.GarmentSpec) error {
	s.specs[spec.ID] = spec.Clone()
	return nil
}

func newTestService(t *testing.T) (*IngestService, *session.Session) {
	t.Helper()

	store := &memorySpecStore{specs: map[string]*models.GarmentSpec{
		"spec-1": {
			ID:        "spec-1",
			StyleNo:   "TS-2024-001",
			Unit:      string(measurement.UnitCentimeter),
			SizeRange: models.JSONBStringArray{"S", "M", "L"},
			BaseSize:  "M",
			Points: []models.MeasurementPoint{
				{
					Key:      "p1",
					Code:     "B01",
					Name:     "胸围",
					BaseSize: "M",
					Sizes:    models.SizeValueMap{"S": 49, "M": 52, "L": 55},
				},
			},
		},
	}}

	manager := session.NewManager(store, nil, nil, session.ManagerOptions{})
	sess, _, err := manager.Open(context.Background(), "spec-1")
	require.NoError(t, err)

	err = sess.Mutate(func(e *measurement.Engine) error {
		_, err := e.CreateRound("第一轮", "2024-03-01", "张工", models.RequestedSourceOriginal)
		return err
	})
	require.NoError(t, err)

	service := NewIngestService(&MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "techspec-test",
	}, manager)
	return service, sess
}

func TestApplyByPointCode(t *testing.T) {
	service, sess := newTestService(t)

	err := service.Apply(&MeasuredPayload{
		SpecID:    "spec-1",
		PointCode: "B01",
		Size:      "M",
		Value:     "53",
	})
	require.NoError(t, err)

	sess.View(func(e *measurement.Engine) {
		round := e.Spec().Rounds[0]
		entry := round.Entries[0]
		assert.Equal(t, "53", entry.Measured["M"])
		assert.Equal(t, "1", entry.Diff["M"], "实测-要求的差值应同步计算")
	})
}

func TestApplyByPointKey(t *testing.T) {
	service, sess := newTestService(t)

	err := service.Apply(&MeasuredPayload{
		SpecID:   "spec-1",
		PointKey: "p1",
		Size:     "S",
		Value:    "49.5",
	})
	require.NoError(t, err)

	sess.View(func(e *measurement.Engine) {
		assert.Equal(t, "49.5", e.Spec().Rounds[0].Entries[0].Measured["S"])
	})
}

func TestApplyWithoutActiveSession(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Apply(&MeasuredPayload{
		SpecID:    "spec-unknown",
		PointCode: "B01",
		Size:      "M",
		Value:     "53",
	})
	assert.Error(t, err)
}

func TestApplyUnknownPoint(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Apply(&MeasuredPayload{
		SpecID:    "spec-1",
		PointCode: "X99",
		Size:      "M",
		Value:     "53",
	})
	assert.Error(t, err)
}

func TestApplyMissingSizeOrSpec(t *testing.T) {
	service, _ := newTestService(t)

	assert.Error(t, service.Apply(&MeasuredPayload{PointCode: "B01", Size: "M", Value: "1"}))
	assert.Error(t, service.Apply(&MeasuredPayload{SpecID: "spec-1", PointCode: "B01", Value: "1"}))
}

func TestSpecIDFromTopic(t *testing.T) {
	assert.Equal(t, "spec-9", specIDFromTopic("techspec/measured/spec-9"))
	assert.Equal(t, "", specIDFromTopic("techspec/other/spec-9"))
}
