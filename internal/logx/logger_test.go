package logx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-btc-visual/internal/logx"
)

func TestNewTo(t *testing.T) {
	var buf bytes.Buffer
	l := logx.NewTo(&buf, slog.LevelInfo)

	l.Debug("hidden")
	l.Info("block_mined", "nonce", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "block_mined", rec["msg"])
	assert.Equal(t, float64(7), rec["nonce"])
}

func TestNewAndDiscard(t *testing.T) {
	assert.NotNil(t, logx.New(slog.LevelInfo))
	assert.NotNil(t, logx.Discard())
}
