package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pg-sharding/pgbatch/pkg/config"
	"github.com/stretchr/testify/assert"
)

func writeCfg(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBatchCfgToml(t *testing.T) {
	assert := assert.New(t)

	path := writeCfg(t, "batch.toml", `
log_level = "error"
default_error_barrier = true
auto_prepare_min_uses = 7
max_auto_prepared = 64
`)

	assert.NoError(config.LoadBatchCfg(path))
	cfg := config.BatchConfig()
	assert.True(cfg.DefaultErrorBarrier)
	assert.Equal(7, cfg.AutoPrepareMinUses)
	assert.Equal(64, cfg.MaxAutoPrepared)
}

func TestLoadBatchCfgYaml(t *testing.T) {
	assert := assert.New(t)

	path := writeCfg(t, "batch.yaml", `
log_level: info
auto_prepare_min_uses: 3
`)

	assert.NoError(config.LoadBatchCfg(path))
	assert.Equal(3, config.BatchConfig().AutoPrepareMinUses)
}

func TestLoadBatchCfgDefaults(t *testing.T) {
	assert := assert.New(t)

	path := writeCfg(t, "batch.yaml", `
auto_prepare_min_uses: 0
max_auto_prepared: -1
`)

	assert.NoError(config.LoadBatchCfg(path))
	assert.Equal(5, config.BatchConfig().AutoPrepareMinUses)
	assert.Equal(256, config.BatchConfig().MaxAutoPrepared)
}

func TestLoadBatchCfgUnknownSuffix(t *testing.T) {
	assert := assert.New(t)

	path := writeCfg(t, "batch.conf", "whatever")
	assert.Error(config.LoadBatchCfg(path))
}
