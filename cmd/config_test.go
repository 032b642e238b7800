package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibexico/vmemsim/vmem"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, *vmem.DefaultConfig(), *cfg)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vmemsim.yaml")
	content := `ram_size: 1024
tlb_size: 8
replacement_policy: lru
log_compression: lz4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.RAMSize)
	assert.Equal(t, 8, cfg.TLBSize)
	assert.Equal(t, vmem.PolicyLRU, cfg.ReplacementPolicy)
	assert.Equal(t, vmem.CompressionLZ4, cfg.LogCompression)
	assert.Equal(t, 256, cfg.PageSize, "unset keys keep their defaults")
}

func TestLoadConfigSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "vmemsim.json"), []byte(`{"swap_size": 1024}`), 0644))
	t.Chdir(dir)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.SwapSize)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VMEM_TLB_SIZE", "16")
	t.Setenv("VMEM_REPLACEMENT_POLICY", "lru")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.TLBSize)
	assert.Equal(t, vmem.PolicyLRU, cfg.ReplacementPolicy)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("page_size: 0\n"), 0644))
	_, err = LoadConfig(invalid)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := vmem.DefaultConfig()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	var buf bytes.Buffer
	logger := newLogger(cfg, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "pid", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"pid":3`)
}

func TestConfigCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	savePath := filepath.Join(t.TempDir(), "saved.json")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"config", "--save", savePath})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configSavePath = ""
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "replacement_policy")
	assert.Contains(t, out.String(), "2048 KB (8 frames)")

	saved, err := vmem.LoadConfigFromFile(savePath)
	require.NoError(t, err)
	assert.Equal(t, *vmem.DefaultConfig(), *saved)
}
