package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/preferences"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenPreferences_DisabledNeverDials(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageDriverMemory
	cfg.Database.Redis.Address = "127.0.0.1:1" // nothing listens here

	start := time.Now()
	prefs, closePrefs, err := openPreferences(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closePrefs()

	assert.Nil(t, prefs)
	assert.Less(t, time.Since(start), time.Second)
}

func TestOpenPreferences_Enabled(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{}
	cfg.Preferences.Enabled = true
	cfg.Database.Redis.Address = mr.Addr()

	prefs, closePrefs, err := openPreferences(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closePrefs()
	require.NotNil(t, prefs)

	saved := preferences.Default()
	saved.Theme = preferences.ThemeDark
	require.NoError(t, prefs.Save(context.Background(), "s1", saved))

	loaded, err := prefs.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, preferences.ThemeDark, loaded.Theme)
}

func TestRetryWithBackoff(t *testing.T) {
	calls := 0
	err := retryWithBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, zap.NewNop(), "test op")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	err = retryWithBackoff(func() error { return errors.New("down") }, 2, time.Millisecond, zap.NewNop(), "test op")
	assert.ErrorContains(t, err, "test op failed after 2 attempts")
}
