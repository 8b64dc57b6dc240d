package postgres

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuditService(t *testing.T) *AuditService {
	t.Helper()
	svc, err := NewAuditService(&TxManager{})
	require.NoError(t, err)
	return svc
}

func TestAuditCompress_SmallPayloadStaysPlain(t *testing.T) {
	svc := newTestAuditService(t)

	entry := AuditEntry{Changes: json.RawMessage(`{"product_name":"Widget"}`)}
	svc.compress(&entry)

	assert.Equal(t, CompressionNone, entry.CompressionAlgo)
	assert.NotNil(t, entry.Changes)
	assert.Nil(t, entry.ChangesCompressed)
}

func TestAuditCompress_LargePayloadRoundTrips(t *testing.T) {
	svc := newTestAuditService(t)

	payload, err := json.Marshal(map[string]any{
		"product_name": "Widget",
		"history":      bytes.Repeat([]byte("x"), 20*1024),
	})
	require.NoError(t, err)

	entry := AuditEntry{Changes: payload}
	svc.compress(&entry)

	assert.Equal(t, CompressionZstd, entry.CompressionAlgo)
	assert.Nil(t, entry.Changes)
	assert.Less(t, len(entry.ChangesCompressed), len(payload))

	decoded, err := svc.DecodeChanges(&entry)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(payload), decoded)
}
