package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.DailyWindow)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Nil(t, cfg.AdminUserIDs)
}

func TestAdminUserIDsParsing(t *testing.T) {
	t.Setenv("ADMIN_USER_IDS", "123, 456,,bogus,789")
	cfg := Load()
	assert.Equal(t, []int64{123, 456, 789}, cfg.AdminUserIDs)
}

func TestDurationOverrides(t *testing.T) {
	t.Setenv("DAILY_WINDOW", "12h")
	t.Setenv("SESSION_TIMEOUT", "not-a-duration")
	cfg := Load()
	assert.Equal(t, 12*time.Hour, cfg.DailyWindow)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
}

func TestDailyChatID(t *testing.T) {
	t.Setenv("DAILY_CHAT_ID", "-1001234567890")
	cfg := Load()
	assert.Equal(t, int64(-1001234567890), cfg.DailyChatID)
}
