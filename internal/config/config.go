// Package config loads the golem command-line configuration from defaults,
// an optional config file, GOLEM_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wmvanvliet/golem/pkg/errors"
)

// EnvPrefix is prepended to environment variable names, e.g. GOLEM_SPLIT_FOLDS.
const EnvPrefix = "GOLEM"

type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Split SplitConfig `mapstructure:"split"`
	Gen   GenConfig   `mapstructure:"gen"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// SplitConfig drives the split and cv commands.
type SplitConfig struct {
	Folds     int     `mapstructure:"folds" validate:"gte=1"`
	Strategy  string  `mapstructure:"strategy" validate:"oneof=stratified sequential"`
	OutputDir string  `mapstructure:"output_dir" validate:"required"`
	Shuffle   bool    `mapstructure:"shuffle"`
	Seed      uint64  `mapstructure:"seed"`
	Ridge     float64 `mapstructure:"ridge" validate:"gte=0"`
}

// GenConfig drives the gen command.
type GenConfig struct {
	ClassCounts []int  `mapstructure:"class_counts" validate:"required,min=1,dive,gte=0"`
	Seed        uint64 `mapstructure:"seed"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Split: SplitConfig{
			Folds:     10,
			Strategy:  "stratified",
			OutputDir: ".",
			Seed:      1,
			Ridge:     0,
		},
		Gen: GenConfig{
			ClassCounts: []int{30, 20, 10},
			Seed:        1,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("split.folds", d.Split.Folds)
	v.SetDefault("split.strategy", d.Split.Strategy)
	v.SetDefault("split.output_dir", d.Split.OutputDir)
	v.SetDefault("split.shuffle", d.Split.Shuffle)
	v.SetDefault("split.seed", d.Split.Seed)
	v.SetDefault("split.ridge", d.Split.Ridge)
	v.SetDefault("gen.class_counts", d.Gen.ClassCounts)
	v.SetDefault("gen.seed", d.Gen.Seed)
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"log-level":    "log.level",
	"folds":        "split.folds",
	"strategy":     "split.strategy",
	"output-dir":   "split.output_dir",
	"shuffle":      "split.shuffle",
	"seed":         "split.seed",
	"ridge":        "split.ridge",
	"class-counts": "gen.class_counts",
	"gen-seed":     "gen.seed",
}

// Load reads the configuration. path may be empty, in which case no config
// file is read. Flags present in flags and listed in FlagKeys override every
// other source when they were set on the command line.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewIOError("load config", path, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "binding flag %s", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its validate tag. The first failing
// field is reported as a ValidationError.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(fe.Namespace(), "failed "+fe.Tag()+" "+fe.Param(), fe.Value())
	}
	return errors.Wrap(err, "validating config")
}
