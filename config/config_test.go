package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"mfpkg/array"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	text := "[server]\naddr = :9100\n[log]\nlevel = debug\n[array]\nvalues_per_line = 6\n" +
		"[model]\nnrow = 4\nncol = 5\nnlay = 3\nnper = 2\ntransient = true\nlaycbd = 1,0,1\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, 1024, cfg.Server.ReadBuffer)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []int{1, 0, 1}, cfg.Model.Laycbd)

	m, err := cfg.Model.Host()
	require.NoError(t, err)
	nrow, ncol, nlay, nper := m.Shape()
	assert.Equal(t, []int{4, 5, 3, 2}, []int{nrow, ncol, nlay, nper})
	assert.True(t, m.Transient())
	assert.True(t, m.ConfiningBed(2))
	assert.False(t, m.ConfiningBed(1))
	assert.Equal(t, "MODFLOW-2005", m.Version())

	oldLevel, oldPerLine := log.GetLevel(), array.ValuesPerLine
	defer func() {
		log.SetLevel(oldLevel)
		array.ValuesPerLine = oldPerLine
	}()
	require.NoError(t, cfg.Apply())
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Equal(t, 6, array.ValuesPerLine)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.ini"))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Array.ValuesPerLine)
	assert.Empty(t, cfg.Model.Laycbd)
}

func TestApplyBadLevel(t *testing.T) {
	cfg := loadCfg(ini.Empty())
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Apply())
}
