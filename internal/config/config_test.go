package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "trueflow.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Hour, cfg.FieldCacheTTL)
}

func TestProviderConfigDegradesWhenUnset(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Resend.Enabled(), "missing RESEND_API_KEY must disable email delivery")
	assert.False(t, cfg.GHL.Enabled(), "missing GHL credentials must disable CRM sync")
}

func TestResendPlaceholderKeyStaysDisabled(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_placeholder_key")
	t.Setenv("LEAD_NOTIFY_TO", "sales@trueflow.ai")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Resend.Enabled())
}

func TestResendEnabledWithKeyAndRecipients(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_live_abc123")
	t.Setenv("LEAD_NOTIFY_TO", "sales@trueflow.ai, founders@trueflow.ai")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Resend.Enabled())
	assert.Equal(t, []string{"sales@trueflow.ai", "founders@trueflow.ai"}, cfg.Resend.To)
}

func TestGHLOpportunitiesNeedPipelineConfig(t *testing.T) {
	t.Setenv("GHL_API_TOKEN", "token")
	t.Setenv("GHL_LOCATION_ID", "loc-1")
	t.Setenv("GHL_CREATE_OPPORTUNITIES", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.GHL.Enabled())
	assert.False(t, cfg.GHL.OpportunitiesEnabled(), "opportunities need pipeline and stage IDs")

	t.Setenv("GHL_PIPELINE_ID", "pipe-1")
	t.Setenv("GHL_PIPELINE_STAGE_ID", "stage-1")

	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.GHL.OpportunitiesEnabled())
}

func TestProdRequiresRealSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "super-secret-value")
	t.Setenv("ADMIN_EMAIL", "ops@trueflow.ai")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")

	_, err = Load()
	assert.NoError(t, err)
}

func TestInvalidDurationRejected(t *testing.T) {
	t.Setenv("FIELD_CACHE_TTL", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}

func TestSplitListTrimsAndDropsEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b ,"))
	assert.Nil(t, splitList(""))
}
