package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/safetylens-cli/internal/logging"
)

func TestJSONHandlerAtDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New("json", true, &buf)
	require.NoError(t, err)
	l.Debug("session.load", "rows", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "session.load", rec["msg"])
	assert.EqualValues(t, 3, rec["rows"])
}

func TestDefaultLevelHidesInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New("text", false, &buf)
	require.NoError(t, err)
	l.Info("session.load")
	assert.Empty(t, buf.String())
	l.Warn("watch.reload", "err", "boom")
	assert.Contains(t, buf.String(), "watch.reload")
}

func TestUnknownFormat(t *testing.T) {
	_, err := logging.New("xml", false, nil)
	require.Error(t, err)
}
