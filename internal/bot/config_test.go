package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_ID", "100")
	t.Setenv("TELEGRAM_GROUP_ID", "-1003460839712")
	t.Setenv("TELEGRAM_TOPIC_ID", "71")
	t.Setenv("TELEGRAM_MAIN_TESTER_ID", "200")
	t.Setenv("TELEGRAM_MAIN_TESTER_ID_2", "201")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Token)
	assert.Equal(t, int64(100), cfg.AdminID)
	assert.Equal(t, int64(-1003460839712), cfg.GroupID)
	assert.Equal(t, int64(71), cfg.TopicID)
	assert.Equal(t, []int64{200, 201}, cfg.MainTesterIDs)

	assert.True(t, cfg.IsAdmin(100))
	assert.False(t, cfg.IsAdmin(200))
	assert.True(t, cfg.IsMainTester(201))
	assert.False(t, cfg.IsMainTester(100))
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_ADMIN_ID", "100")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRequiresAdminID(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_ID", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsMalformedGroupID(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_ID", "100")
	t.Setenv("TELEGRAM_GROUP_ID", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}
