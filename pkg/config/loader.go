package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by binstrings.
const EnvPrefix = "BINSTRINGS"

// NoConfigEnv disables the config file search when set to a true value.
const NoConfigEnv = EnvPrefix + "_NO_CONFIG"

// Config represents the complete configuration structure for binstrings.
type Config struct {
	Scan ScanConfig `mapstructure:"scan"`
}

// ScanConfig mirrors the scan flags of the root command.
type ScanConfig struct {
	Bytes                int    `mapstructure:"bytes"`
	Encoding             string `mapstructure:"encoding"`
	Unicode              string `mapstructure:"unicode"`
	Radix                string `mapstructure:"radix"`
	Octal                bool   `mapstructure:"octal"`
	PrintFileName        bool   `mapstructure:"print_file_name"`
	IncludeAllWhitespace bool   `mapstructure:"include_all_whitespace"`
	OutputSeparator      string `mapstructure:"output_separator"`
	Data                 bool   `mapstructure:"data"`
	All                  bool   `mapstructure:"all"`
}

var globalViper *viper.Viper

// InitializeViper initializes the global Viper instance with config file and defaults.
// This should be called once during application initialization.
func InitializeViper(configFile string) error {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	switch {
	case configFile != "":
		v.SetConfigFile(configFile)
		log.Debug().Str("path", configFile).Msg("Using specified config file")
	case v.GetBool("no_config"):
		log.Debug().Str("env", NoConfigEnv).Msg("Config file lookup disabled")
		globalViper = v
		return nil
	default:
		v.SetConfigName("binstrings")
		v.SetConfigType("yaml")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "binstrings"))
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")

		log.Debug().Msg("Searching for config file in standard locations")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("No config file found, using defaults and command-line flags")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Loaded config file")
	}

	globalViper = v
	return nil
}

// GetViper returns the global Viper instance
func GetViper() *viper.Viper {
	if globalViper == nil {
		if err := InitializeViper(""); err != nil {
			log.Fatal().Err(err).Msg("Failed to auto-initialize Viper configuration")
		}
	}
	return globalViper
}

// ResetViper drops the global instance so that the next access initializes
// a fresh one.
func ResetViper() {
	globalViper = nil
}

// BindFlags binds command flags to Viper configuration keys.
// This enables automatic priority handling: CLI flags > env > config file > defaults.
func BindFlags(cmd *cobra.Command, flagMappings map[string]string) error {
	v := GetViper()
	for flagName, viperKey := range flagMappings {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			flag = cmd.InheritedFlags().Lookup(flagName)
		}
		if flag != nil {
			if err := v.BindPFlag(viperKey, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s to key %s: %w", flagName, viperKey, err)
			}
		}
	}
	return nil
}

// BindCommandFlags binds every local flag of cmd to "<prefix>.<snake_case name>".
// overrides maps flag names, local or inherited, to keys outside the prefix.
func BindCommandFlags(cmd *cobra.Command, prefix string, overrides map[string]string) error {
	mappings := map[string]string{}
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		mappings[f.Name] = Key(prefix, f.Name)
	})
	for flagName, key := range overrides {
		mappings[flagName] = key
	}
	return BindFlags(cmd, mappings)
}

// UnmarshalConfig unmarshals the configuration into a Config struct
func UnmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := GetViper().Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return config, nil
}

// setDefaults sets default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.bytes", 4)
	v.SetDefault("scan.encoding", "s")
	v.SetDefault("scan.unicode", "default")
	v.SetDefault("scan.radix", "")
	v.SetDefault("scan.octal", false)
	v.SetDefault("scan.output_separator", "\n")
	v.SetDefault("scan.print_file_name", false)
	v.SetDefault("scan.include_all_whitespace", false)
	v.SetDefault("scan.data", false)
	v.SetDefault("scan.all", false)
}
