package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "info", "json")
	require.NoError(t, err)

	logger.Info().Str("city", "szeged").Msg("hello")
	logger.Debug().Msg("dropped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "szeged", line["city"])
	assert.Equal(t, "weather-coordinates", line["service"])
}

func TestNewLoggerRejectsUnknown(t *testing.T) {
	_, err := NewLogger(nil, "loud", "json")
	require.Error(t, err)

	_, err = NewLogger(nil, "info", "xml")
	require.Error(t, err)
}

func TestTimeLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", "json")
	require.NoError(t, err)

	ctx := logger.WithContext(context.Background())

	opErr := errors.New("boom")
	Time(ctx, "test.op")(&opErr)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "test.op", line["op"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "warn", line["level"])
}
