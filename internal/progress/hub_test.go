package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal/model"
)

func TestHub_PublishReachesOnlyThatRecord(t *testing.T) {
	h := NewHub()
	seven, stopSeven := h.Subscribe(7)
	defer stopSeven()
	eight, stopEight := h.Subscribe(8)
	defer stopEight()

	h.Publish(&model.Analysis{ID: 7, Status: model.StatusAnalyzingFull})

	require.Len(t, seven, 1)
	ev := <-seven
	assert.Equal(t, EventProgress, ev.Type)
	assert.Equal(t, model.StatusAnalyzingFull, ev.Analysis.Status)
	assert.Len(t, eight, 0)
}

func TestHub_UnsubscribeClosesAndCleansUp(t *testing.T) {
	h := NewHub()
	ch, stop := h.Subscribe(3)
	assert.Equal(t, 1, h.Subscribers(3))

	stop()
	stop()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.Subscribers(3))

	h.Publish(&model.Analysis{ID: 3})
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	ch, stop := h.Subscribe(1)
	defer stop()

	for i := 0; i < h.buffer+5; i++ {
		h.Publish(&model.Analysis{ID: 1})
	}
	assert.Len(t, ch, h.buffer)
}

func TestHub_Deleted(t *testing.T) {
	h := NewHub()
	ch, stop := h.Subscribe(9)
	defer stop()

	h.PublishDeleted(9)
	ev := <-ch
	assert.Equal(t, EventDeleted, ev.Type)
	assert.Equal(t, uint(9), ev.Analysis.ID)
}

func TestHub_NilIsNoop(t *testing.T) {
	var h *Hub
	h.Publish(&model.Analysis{ID: 1})
}
