package rabbitmq

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	amqp "github.com/streadway/amqp"
)

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func sampleEvent() models.ProductEvent {
	return models.ProductEvent{
		Type:       models.EventProductCreated,
		ProductID:  "64b7f0c2a1b2c3d4e5f60718",
		CategoryID: "64b7f0c2a1b2c3d4e5f60719",
		Name:       "Pixel 8",
		Price:      699,
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewPublishing(t *testing.T) {
	msg, err := newPublishing(sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, models.EventProductCreated, msg.Type)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)

	var decoded models.ProductEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, sampleEvent(), decoded)
}

func TestDispatch(t *testing.T) {
	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)

	t.Run("AcksOnSuccess", func(t *testing.T) {
		var got models.ProductEvent
		ack := &fakeAck{}
		dispatch(ack, body, "m1", func(e models.ProductEvent) error {
			got = e
			return nil
		})
		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
		assert.Equal(t, "Pixel 8", got.Name)
	})

	t.Run("NacksWithoutRequeueOnHandlerError", func(t *testing.T) {
		ack := &fakeAck{}
		dispatch(ack, body, "m2", func(models.ProductEvent) error { return errors.New("boom") })
		assert.False(t, ack.acked)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})

	t.Run("NacksUndecodableBody", func(t *testing.T) {
		ack := &fakeAck{}
		called := false
		dispatch(ack, []byte("{"), "m3", func(models.ProductEvent) error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.True(t, ack.nacked)
	})
}

func TestAuditProductEvent(t *testing.T) {
	assert.NoError(t, AuditProductEvent(sampleEvent()))
	assert.Error(t, AuditProductEvent(models.ProductEvent{}))
}

func TestPublishAndConsume(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}
	client, err := NewClient(Config{URL: url, Exchange: "catalog_test"})
	require.NoError(t, err)
	defer client.Close()

	received := make(chan models.ProductEvent, 1)
	require.NoError(t, client.ConsumeProductEvents("catalog_test.audit", func(e models.ProductEvent) error {
		received <- e
		return nil
	}))
	require.NoError(t, client.PublishProductEvent(sampleEvent()))

	select {
	case e := <-received:
		assert.Equal(t, sampleEvent().ProductID, e.ProductID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for product event")
	}
}
