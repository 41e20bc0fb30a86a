package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelGate(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	defer SetLevel(LevelInfo)

	SetLevel(LevelWarn)
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	Debugf("hidden too")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "Warning: shown 2")

	SetLevel(LevelDebug)
	Debugf("now visible")
	assert.Contains(t, buf.String(), "[debug] now visible")
}

func TestSetup_File(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	defer SetLevel(LevelInfo)

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	closer, err := Setup("info", "file", path)
	require.NoError(t, err)

	Infof("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, err := Setup("loud", "stdout", "")
	assert.Error(t, err)
}
