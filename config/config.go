// Package config loads conf/config.ini.
package config

import (
	"errors"
	"io/fs"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"mfpkg/array"
	"mfpkg/model"
)

const DefaultPath = "conf/config.ini"

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Array  ArrayConfig
	Model  ModelConfig
}

type ServerConfig struct {
	Addr        string
	ReadBuffer  int
	WriteBuffer int
}

type LogConfig struct {
	Level string
}

type ArrayConfig struct {
	ValuesPerLine int
}

// ModelConfig describes the host model used by the convert command.
type ModelConfig struct {
	Nrow, Ncol, Nlay, Nper int
	Transient              bool
	Laycbd                 []int
	Version                string
}

// Load reads path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.WithField("path", path).Warn("config file not found, using defaults")
		file = ini.Empty()
	}
	return loadCfg(file), nil
}

func loadCfg(file *ini.File) *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        file.Section("server").Key("addr").MustString(":9000"),
			ReadBuffer:  file.Section("server").Key("read_buffer").MustInt(1024),
			WriteBuffer: file.Section("server").Key("write_buffer").MustInt(1024),
		},
		Log: LogConfig{
			Level: file.Section("log").Key("level").MustString("info"),
		},
		Array: ArrayConfig{
			ValuesPerLine: file.Section("array").Key("values_per_line").MustInt(10),
		},
		Model: ModelConfig{
			Nrow:      file.Section("model").Key("nrow").MustInt(1),
			Ncol:      file.Section("model").Key("ncol").MustInt(1),
			Nlay:      file.Section("model").Key("nlay").MustInt(1),
			Nper:      file.Section("model").Key("nper").MustInt(1),
			Transient: file.Section("model").Key("transient").MustBool(false),
			Laycbd:    file.Section("model").Key("laycbd").Ints(","),
			Version:   file.Section("model").Key("version").MustString(model.DefaultVersion),
		},
	}
}

// Apply sets the process wide log level and array layout.
func (c *Config) Apply() error {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if c.Array.ValuesPerLine > 0 {
		array.ValuesPerLine = c.Array.ValuesPerLine
	}
	return nil
}

// Host builds the model described by the [model] section.
func (c ModelConfig) Host() (*model.Modflow, error) {
	m, err := model.NewModflow(c.Version, c.Nrow, c.Ncol, c.Nlay, c.Nper)
	if err != nil {
		return nil, err
	}
	m.SetTransient(c.Transient)
	copy(m.Laycbd, c.Laycbd)
	return m, nil
}
