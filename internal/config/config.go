// Package config loads the daemon's settings from flags, UNIPAD_*
// environment variables and an optional YAML file, in that order of
// precedence.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/unipad/internal/control"
	"github.com/soar/unipad/internal/device"
	"github.com/soar/unipad/internal/profile"
	"github.com/soar/unipad/internal/uinput"
)

type ControlConfig struct {
	Path     string `mapstructure:"path"`
	Response string `mapstructure:"response"`
}

type Config struct {
	File         string        `mapstructure:"config"`
	IPC          bool          `mapstructure:"ipc"`
	Control      ControlConfig `mapstructure:"control"`
	Uinput       string        `mapstructure:"uinput"`
	ScanInterval time.Duration `mapstructure:"scan_interval"`
	Hotplug      bool          `mapstructure:"hotplug"`
	InputDir     string        `mapstructure:"input_dir"`
	Listen       string        `mapstructure:"listen"`
	Tray         bool          `mapstructure:"tray"`
	LogLevel     string        `mapstructure:"log_level"`

	GlobalRemap []profile.Pair `mapstructure:"global_remap"`
	DMIDevices  []profile.DMI  `mapstructure:"dmi_device"`
	DTDevices   []profile.DT   `mapstructure:"dt_device"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"config":           "config",
	"ipc":              "ipc",
	"control-path":     "control.path",
	"control-response": "control.response",
	"uinput":           "uinput",
	"scan-interval":    "scan_interval",
	"hotplug":          "hotplug",
	"input-dir":        "input_dir",
	"listen":           "listen",
	"tray":             "tray",
	"log-level":        "log_level",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("unipad", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "YAML file with remap profiles and settings")
	fs.BoolP("ipc", "i", false, "accept commands on the control FIFO")
	fs.String("control-path", control.DefaultPath, "control FIFO")
	fs.String("control-response", control.DefaultResponsePath, "FIFO that print replies are written to")
	fs.String("uinput", uinput.DefaultPath, "uinput node")
	fs.Duration("scan-interval", device.DefaultScanInterval, "how often to look for new devices")
	fs.Bool("hotplug", true, "scan as soon as a new input node appears")
	fs.String("input-dir", device.DefaultInputDir, "directory holding the event nodes")
	fs.String("listen", "", "address of the monitor HTTP server, empty to disable")
	fs.Bool("tray", false, "show a system tray icon")
	fs.String("log-level", "info", "debug, info, warn or error")
	return fs
}

// Load parses args (without the program name) and merges in the
// environment and the config file named by --config.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errors.Wrapf(err, "bind flag %s", name)
		}
	}
	v.SetEnvPrefix("UNIPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return &cfg, nil
}

// Profiles returns the remap profiles to match against the host.
func (c *Config) Profiles() profile.Set {
	return profile.Set{
		Global: c.GlobalRemap,
		DMI:    c.DMIDevices,
		DT:     c.DTDevices,
	}
}

// SetupLogging applies the configured level to the standard logger.
func SetupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "log level %q", level)
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}
