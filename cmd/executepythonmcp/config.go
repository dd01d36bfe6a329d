package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	mcptools "github.com/shaharia-lab/executepython-mcp"
)

const envPrefix = "EXECUTEPYTHON"

// Config is the effective server configuration after defaults, config file,
// environment and flags have been merged (in that order of precedence, lowest first).
type Config struct {
	Interpreter    string        `mapstructure:"interpreter"`
	Mode           string        `mapstructure:"mode"`
	Timeout        time.Duration `mapstructure:"timeout"`
	OutputEncoding string        `mapstructure:"output_encoding"`
	Log            LogConfig     `mapstructure:"log"`
}

// LogConfig configures the stderr logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"interpreter":     "interpreter",
	"mode":            "mode",
	"timeout":         "timeout",
	"output-encoding": "output_encoding",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interpreter", mcptools.DefaultInterpreterPath())
	v.SetDefault("mode", string(mcptools.CaptureInline))
	v.SetDefault("timeout", "0s")
	v.SetDefault("output_encoding", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func registerConfigFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("interpreter", mcptools.DefaultInterpreterPath(), "default Python interpreter used when a call does not name one")
	fs.String("mode", string(mcptools.CaptureInline), "output capture mode: inline or file")
	fs.Duration("timeout", 0, "wall-clock limit per script (0 = none in inline mode, 30s in file mode)")
	fs.String("output-encoding", "", "charset of interpreter output, e.g. windows-1252 (empty = pass through)")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("log-format", "text", "log format: text or json")
}

// loadConfig merges defaults, the optional config file, EXECUTEPYTHON_* environment
// variables and explicitly set flags.
func loadConfig(v *viper.Viper, fs *pflag.FlagSet) (Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", f.Value.String(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// PythonConfig converts the server configuration into the tool configuration.
func (c Config) PythonConfig() mcptools.PythonConfig {
	return mcptools.PythonConfig{
		DefaultInterpreter: c.Interpreter,
		Mode:               mcptools.CaptureMode(c.Mode),
		Timeout:            c.Timeout,
		OutputEncoding:     c.OutputEncoding,
	}
}

// LoggerConfig converts the log section into the logger configuration.
func (c Config) LoggerConfig() mcptools.LoggerConfig {
	return mcptools.LoggerConfig{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}

// MarshalYAML renders the effective configuration with the python settings resolved
// the same way the tool resolves them.
func (c Config) MarshalYAML() (interface{}, error) {
	py, err := c.PythonConfig().Validate()
	if err != nil {
		return nil, err
	}
	return struct {
		Interpreter    string `yaml:"interpreter"`
		Mode           string `yaml:"mode"`
		Timeout        string `yaml:"timeout"`
		OutputEncoding string `yaml:"output_encoding"`
		Log            struct {
			Level  string `yaml:"level"`
			Format string `yaml:"format"`
		} `yaml:"log"`
	}{
		Interpreter:    py.DefaultInterpreter,
		Mode:           string(py.Mode),
		Timeout:        py.Timeout.String(),
		OutputEncoding: py.OutputEncoding,
		Log: struct {
			Level  string `yaml:"level"`
			Format string `yaml:"format"`
		}{Level: c.Log.Level, Format: c.Log.Format},
	}, nil
}

func encodeYAML(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}
