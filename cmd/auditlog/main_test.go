package main

import (
	"context"
	"testing"

	"github.com/gartstein/jingjai/internal/jingjai/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := auditHandler(zap.New(core))

	id := uuid.New()
	event := events.New(events.ClientCreated, id, "judy", map[string]interface{}{"clientId": "CL-100001"})
	require.NoError(t, handler(context.Background(), event))

	entries := logs.FilterMessage("change").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, string(events.ClientCreated), fields["event_type"])
	assert.Equal(t, id.String(), fields["entity_id"])
	assert.Equal(t, "judy", fields["actor"])
}
