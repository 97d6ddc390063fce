package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/mpupoll/mpu"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpupoll.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, Address(0x68), cfg.Address)
	assert.Equal(t, time.Duration(0), cfg.Poll.Interval)
	assert.Equal(t, mpu.DefaultSettings(), cfg.Registers)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
adapter: nanopi
bus: 2
address: "0x69"
output: yaml
poll:
  interval: 5ms
  overflow_warn: 400
registers:
  sample_rate_divider: 4
  fifo_enable: 0b11111000
`))
	require.NoError(t, err)
	assert.Equal(t, AdapterNanoPi, cfg.Adapter)
	assert.Equal(t, 2, cfg.Bus)
	assert.Equal(t, Address(0x69), cfg.Address)
	assert.Equal(t, OutputYAML, cfg.Output)
	assert.Equal(t, 5*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, 400, cfg.Poll.OverflowWarn)
	assert.Equal(t, byte(4), cfg.Registers.SampleRateDivider)
	assert.Equal(t, byte(0b11111000), cfg.Registers.FIFOEnable)
	// untouched fields keep their defaults
	assert.Equal(t, "/dev/i2c-0", cfg.Device)
	assert.Equal(t, mpu.DefaultSettings().Config, cfg.Registers.Config)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "speed: 100\n"},
		{"unknown adapter", "adapter: serial\n"},
		{"unknown output", "output: csv\n"},
		{"bad address", "address: 0x80\n"},
		{"negative interval", "poll:\n  interval: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		given    string
		expected byte
		fails    bool
	}{
		{"0x68", 0x68, false},
		{"104", 0x68, false},
		{"0b1101001", 0x69, false},
		{"0x80", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.given, func(t *testing.T) {
			addr, err := ParseAddress(tt.given)
			if tt.fails {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr)
		})
	}
}

func TestAddress_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Address Address `yaml:"address"`
	}{Address(0x68)})
	require.NoError(t, err)
	assert.Equal(t, "address: \"0x68\"\n", string(out))
}
