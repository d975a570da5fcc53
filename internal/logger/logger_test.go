package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Release(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, true, "")

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.WithField("component", "payment").Info("settled")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "settled", entry["message"])
	assert.Equal(t, "payment", entry["component"])
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		release bool
		level   string
		want    logrus.Level
	}{
		{name: "development default", want: logrus.DebugLevel},
		{name: "override in release", release: true, level: "warn", want: logrus.WarnLevel},
		{name: "unknown level keeps default", release: true, level: "loud", want: logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.want, newLogger(&buf, tt.release, tt.level).GetLevel())
		})
	}
}
