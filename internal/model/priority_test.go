package model_test

import (
	"encoding/json"
	"testing"

	"todoapi/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPriority_StableIntegerEncoding(t *testing.T) {
	// The 0-3 mapping is wire format and must never change.
	assert.Equal(t, 0, int(model.PriorityLow))
	assert.Equal(t, 1, int(model.PriorityNormal))
	assert.Equal(t, 2, int(model.PriorityHigh))
	assert.Equal(t, 3, int(model.PriorityUrgent))
}

func TestPriority_Valid(t *testing.T) {
	assert.True(t, model.PriorityLow.Valid())
	assert.True(t, model.PriorityUrgent.Valid())
	assert.False(t, model.Priority(-1).Valid())
	assert.False(t, model.Priority(4).Valid())
}

func TestPriority_String(t *testing.T) {
	assert.Equal(t, "Low", model.PriorityLow.String())
	assert.Equal(t, "Normal", model.PriorityNormal.String())
	assert.Equal(t, "High", model.PriorityHigh.String())
	assert.Equal(t, "Urgent", model.PriorityUrgent.String())
	assert.Equal(t, "Unknown", model.Priority(42).String())
}

func TestTodoItem_PrioritySerializesAsInteger(t *testing.T) {
	todo := model.TodoItem{Title: "Wire check", Priority: model.PriorityUrgent}

	data, err := json.Marshal(todo)
	assert.NoError(t, err)

	var raw map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "3", string(raw["priority"]))
	// the version column never travels over the wire
	assert.NotContains(t, raw, "version")
}
