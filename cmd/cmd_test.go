package cmd

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"event-sync/core/config"
	"event-sync/core/propagation"
	"event-sync/core/remote"
	"event-sync/core/source"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Sync: propagation.Config{
			Retry: propagation.RetryConfig{InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, BackoffFactor: 2},
		},
		Remote: remote.Config{MaxDelay: 2 * time.Millisecond, FailureRate: 0.3, Backend: remote.BackendMemory},
		Source: source.Config{
			Names:        []string{"A", "B"},
			Events:       200,
			MaxInterval:  100 * time.Microsecond,
			Grace:        10 * time.Second,
			PollInterval: 10 * time.Millisecond,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	a, err := newApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestSimulate_Converges(t *testing.T) {
	a := newTestApp(t, testConfig())

	report, err := simulate(context.Background(), a)
	require.NoError(t, err)

	assert.True(t, report.Converged)
	for _, res := range report.Results {
		assert.Equal(t, int64(200), res.Emitted, res.Name)
		assert.Equal(t, int64(200), res.Local, res.Name)
		assert.Equal(t, int64(200), res.Remote, res.Name)
	}
}

func TestSimulate_DatabaseBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Remote.Backend = remote.BackendDatabase
	cfg.Database.Driver = "sqlite"
	cfg.Database.Name = ":memory:"
	cfg.Source.Events = 50

	a := newTestApp(t, cfg)
	require.NotNil(t, a.db)

	report, err := simulate(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, report.Converged)

	stats, err := remote.NewGormBackend(a.db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(50), stats[0].Total)
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Remote.Backend = "redis"

	_, err := newApp(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported remote backend")
}

// resetFlag restores a flag shared with simulateCmd.
func resetFlag(f *pflag.Flag) {
	_ = f.Value.Set(f.DefValue)
	f.Changed = false
}

func TestApplySimulateFlags(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		c := &cobra.Command{}
		c.Flags().AddFlagSet(simulateCmd.Flags())
		require.NoError(t, c.Flags().Parse(args))
		return c
	}

	t.Run("Overrides", func(t *testing.T) {
		cfg := testConfig()
		c := newCmd("--events", "7", "--failure-rate", "0.5", "--max-delay", "1s")
		t.Cleanup(func() { c.Flags().VisitAll(resetFlag) })
		require.NoError(t, applySimulateFlags(c, cfg))

		assert.Equal(t, 7, cfg.Source.Events)
		assert.Equal(t, 0.5, cfg.Remote.FailureRate)
		assert.Equal(t, time.Second, cfg.Remote.MaxDelay)
		assert.Equal(t, 10*time.Second, cfg.Source.Grace)
	})

	t.Run("InvalidFailureRate", func(t *testing.T) {
		cfg := testConfig()
		c := newCmd("--failure-rate", "1")
		t.Cleanup(func() { c.Flags().VisitAll(resetFlag) })
		assert.ErrorContains(t, applySimulateFlags(c, cfg), "failure rate")
	})
}

func TestNewServer_Auth(t *testing.T) {
	cfg := testConfig()
	cfg.Server.ApiKey = "secret"
	a := newTestApp(t, cfg)

	srv, err := newServer(a)
	require.NoError(t, err)

	resp, err := srv.Test(httptest.NewRequest("GET", "/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req := httptest.NewRequest("POST", "/events/A?count=2", nil)
	req.Header.Set("X-API-Key", "secret")
	resp, err = srv.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
}
