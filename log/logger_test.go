package log_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/0x-tools/ordersim/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		withFile    bool
		expectError bool
	}{
		{name: "default level", level: ""},
		{name: "debug level", level: "debug"},
		{name: "with file", level: "info", withFile: true},
		{name: "invalid level", level: "loud", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileName := ""
			if tt.withFile {
				fileName = filepath.Join(t.TempDir(), "ordersim.log")
			}

			logger, err := log.NewLogger(true, fileName, tt.level)
			if tt.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Info("test message", zap.String("key", "value"))
		})
	}
}
