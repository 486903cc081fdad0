package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestPrintVersion(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Run("history disabled", func(t *testing.T) {
		viper.Reset()
		viper.Set("api-url", "https://ghe.example.com/api")
		viper.Set("cache-backend", "sqlite")

		var buf bytes.Buffer
		printVersion(&buf)
		out := buf.String()
		assert.Contains(t, out, "gitstreak dev (none, built unknown")
		assert.Contains(t, out, "User agent: gitstreak/dev")
		assert.Contains(t, out, "API root:   https://ghe.example.com/api")
		assert.Contains(t, out, "Token:      missing")
		assert.Contains(t, out, "Log store:  sqlite")
		assert.Contains(t, out, "History:    disabled")
	})

	t.Run("token and history set", func(t *testing.T) {
		viper.Reset()
		viper.Set("token", "ghp_secret")
		viper.Set("history-backend", "postgresql")

		var buf bytes.Buffer
		printVersion(&buf)
		out := buf.String()
		assert.Contains(t, out, "Token:      set")
		assert.NotContains(t, out, "ghp_secret")
		assert.Contains(t, out, "History:    postgresql")
	})
}
