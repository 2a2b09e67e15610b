package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Default_HasDocumentedValues(t *testing.T) {
	cfg := Default()

	require.Equal(t, uint32(2400), cfg.Serial.Baud)
	require.Equal(t, ":8888", cfg.Listen.Address)
	require.Equal(t, "eBUS bridge", cfg.DNSSD.Name)
	require.Equal(t, "info", cfg.LogLevel)
}

func Test_Load_FillsInMissingFieldsWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("serial:\n  device: /dev/ttyUSB0\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "/dev/ttyUSB0", cfg.Serial.Device)
	require.Equal(t, uint32(2400), cfg.Serial.Baud)
	require.Equal(t, ":8888", cfg.Listen.Address)
}

func Test_Load_FullyPopulatedFileOverridesNothingExtra(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	contents := "" +
		"serial:\n  device: /dev/ttyAMA0\n  baud: 9600\n" +
		"listen:\n  address: 127.0.0.1:9999\n" +
		"dns_sd:\n  enabled: true\n  name: Kitchen eBUS\n" +
		"log_level: debug\n"

	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "/dev/ttyAMA0", cfg.Serial.Device)
	require.Equal(t, uint32(9600), cfg.Serial.Baud)
	require.Equal(t, "127.0.0.1:9999", cfg.Listen.Address)
	require.True(t, cfg.DNSSD.Enabled)
	require.Equal(t, "Kitchen eBUS", cfg.DNSSD.Name)
	require.Equal(t, "debug", cfg.LogLevel)
}

func Test_Load_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
