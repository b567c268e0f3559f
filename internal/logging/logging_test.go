package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json format writes structured entries", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("info", "json", &buf)
		require.NoError(t, err)

		logger.WithField("scheme_code", 101).Info("created")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "created", entry["msg"])
		assert.EqualValues(t, 101, entry["scheme_code"])
	})

	t.Run("level filters lower entries", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New("warn", "text", &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		assert.Zero(t, buf.Len())
	})

	t.Run("rejects unknown level and format", func(t *testing.T) {
		_, err := New("loud", "text", nil)
		assert.Error(t, err)

		_, err = New("info", "xml", nil)
		assert.Error(t, err)
	})
}

func TestFromContext(t *testing.T) {
	fallback := Discard()

	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	entry := logrus.NewEntry(Discard()).WithField("request_id", "abc")
	ctx := WithLogger(context.Background(), entry)
	assert.Same(t, entry, FromContext(ctx, fallback))
}
