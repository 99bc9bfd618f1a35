package config

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// Option customizes how NewViper resolves configuration sources.
type Option func(*options)

type options struct {
	envFiles    []string
	envBindings map[string][]string
	defaults    map[string]any
}

// WithEnvFile loads the given dotenv files into the process environment before
// reading configuration. Missing files are skipped; existing variables win.
func WithEnvFile(paths ...string) Option {
	return func(o *options) {
		o.envFiles = append(o.envFiles, paths...)
	}
}

// WithEnvBinding makes key readable from additional environment variable names.
// The upper snake case form of key (mail.host -> MAIL_HOST) is always checked first.
func WithEnvBinding(key string, envs ...string) Option {
	return func(o *options) {
		o.envBindings[key] = append(o.envBindings[key], envs...)
	}
}

// WithDefault registers the value returned for key when no source sets it.
func WithDefault(key string, value any) Option {
	return func(o *options) {
		o.defaults[key] = value
	}
}

// NewViper loads configuration from the given file path and returns a Viper-backed Config.
//
// The config file type is inferred by Viper from the filename extension. A missing
// file is not an error: values then come from the environment and the registered
// defaults only. Environment variables always override the file.
func NewViper(pathFile string, opts ...Option) (*Viper, error) {
	o := &options{
		envBindings: make(map[string][]string),
		defaults:    make(map[string]any),
	}
	for _, opt := range opts {
		opt(o)
	}

	for _, f := range o.envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := newEnvViper(o)

	if pathFile == "" {
		return &Viper{v: v}, nil
	}

	filename := path.Base(pathFile)
	filePath := path.Dir(pathFile)

	configName := path.Base(filename[:len(filename)-len(path.Ext(filename))])

	v.AddConfigPath(filePath)
	v.SetConfigName(configName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		slog.Warn("config file not found, using environment and defaults", "path", pathFile)
		return &Viper{v: v}, nil
	}

	// values are snapshotted by the modules at startup, so a change on disk
	// only takes effect after a restart.
	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Warn("config file changed, restart required to apply", "path", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory and returns a Viper-backed Config.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte, opts ...Option) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config type is required")
	}

	o := &options{
		envBindings: make(map[string][]string),
		defaults:    make(map[string]any),
	}
	for _, opt := range opts {
		opt(o)
	}

	v := newEnvViper(o)
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newEnvViper(o *options) *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range o.defaults {
		v.SetDefault(key, value)
	}

	for key, envs := range o.envBindings {
		names := append([]string{key, envName(key)}, envs...)
		//nolint:errcheck,gosec // only fails when no key is given
		v.BindEnv(names...)
	}

	return v
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// GetInt returns the value for key as int.
func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetFloat64 returns the value for key as float64.
func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetArray returns the value for key split by commas, or the list as is.
func (vc *Viper) GetArray(key string) []string {
	if s := vc.v.GetString(key); s != "" {
		return strings.Split(s, ",")
	}

	return vc.v.GetStringSlice(key)
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	// No resources to close for ViperConfig; this is just for interface completeness.
	return nil
}
