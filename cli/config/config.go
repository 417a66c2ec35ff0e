// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/hoffsec/adkit/logger"
)

/*
	Configuration is loaded in this order:
	flags -> ENV (ADKIT_*) -> adkit.yml -> defaults
*/

var (
	// Path is the currently loaded config location, or default if no config exists
	Path string
	// Source tracks where the config path came from
	Source string
	// UserProvidedPath is set by the --config flag
	UserProvidedPath string
	// LoadedConfig is true once a config file was read successfully
	LoadedConfig bool
	// DefaultConfigFile is the file name probed in the default locations
	DefaultConfigFile = "adkit.yml"
	// AppFs is the filesystem used to probe config locations
	AppFs = afero.NewOsFs()
)

// Init registers the config flag and hooks config loading into cobra
func Init(rootCmd *cobra.Command) {
	cobra.OnInitialize(InitViperConfig)
	rootCmd.PersistentFlags().StringVar(&UserProvidedPath, "config", "", "set config file path (default $HOME/.config/adkit/adkit.yml)")
}

func InitViperConfig() {
	viper.SetConfigType("yaml")

	Path = strings.TrimSpace(UserProvidedPath)
	if len(Path) == 0 && len(os.Getenv("ADKIT_CONFIG_PATH")) > 0 {
		// fallback to env variable if provided, but only if --config is not used
		Source = "$ADKIT_CONFIG_PATH"
		Path = os.Getenv("ADKIT_CONFIG_PATH")
	} else if len(Path) != 0 {
		Source = "--config"
	} else {
		Source = "default"
	}

	// check if the default config file is available
	if Path == "" {
		Path = autodetectConfig()
	}

	// we set this here, so that sub commands that rely on writing config can use the default config
	viper.SetConfigFile(Path)

	// if the file exists, load it
	_, err := AppFs.Stat(Path)
	if err == nil {
		log.Debug().Str("configfile", viper.ConfigFileUsed()).Msg("try to load local config file")
		if err := viper.ReadInConfig(); err == nil {
			LoadedConfig = true
		} else {
			LoadedConfig = false
			log.Error().Err(err).Str("path", Path).Msg("could not read config file")
		}
	}

	// by default it uses console output, for production we may want to set it to json output
	if viper.GetString("log.format") == "json" {
		logger.UseJSONLogging()
	}

	// override values with env variables
	viper.SetEnvPrefix("adkit")
	// to parse env variables properly we need to replace some chars
	// all hyphens need to be underscores
	// all dots need to be underscores
	replacer := strings.NewReplacer("-", "_", ".", "_")
	viper.SetEnvKeyReplacer(replacer)

	// read in environment variables that match
	viper.AutomaticEnv()
}

func autodetectConfig() string {
	// check the current working directory first
	if _, err := AppFs.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFile
	}
	return filepath.Join(home, ".config", "adkit", DefaultConfigFile)
}

func DisplayUsedConfig() {
	if !LoadedConfig && len(UserProvidedPath) > 0 {
		log.Warn().Msg("could not load configuration file " + UserProvidedPath)
	} else if LoadedConfig {
		log.Info().Msg("loaded configuration from " + viper.ConfigFileUsed() + " using source " + Source)
	} else {
		log.Debug().Msg("no adkit configuration file provided, using defaults")
	}
}

// Read loads the viper config into a struct
func Read() (*Config, error) {
	var opts Config
	err := viper.Unmarshal(&opts)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode into config struct")
	}

	return &opts, nil
}

type Config struct {
	Azure AzureOpts `json:"azure,omitempty" mapstructure:"azure"`
	LDAP  LDAPOpts  `json:"ldap,omitempty" mapstructure:"ldap"`
}

// AzureOpts carries the Microsoft Graph credentials. Exactly one of
// client_secret or certificate_path is expected when client_id is set;
// without either, the default credential chain is used.
type AzureOpts struct {
	TenantID            string `json:"tenant_id,omitempty" mapstructure:"tenant_id"`
	ClientID            string `json:"client_id,omitempty" mapstructure:"client_id"`
	ClientSecret        string `json:"client_secret,omitempty" mapstructure:"client_secret"`
	CertificatePath     string `json:"certificate_path,omitempty" mapstructure:"certificate_path"`
	CertificatePassword string `json:"certificate_password,omitempty" mapstructure:"certificate_password"`
}

// LDAPOpts carries the on-prem directory connection settings.
type LDAPOpts struct {
	URL          string `json:"url,omitempty" mapstructure:"url"`
	BindDN       string `json:"bind_dn,omitempty" mapstructure:"bind_dn"`
	BindPassword string `json:"bind_password,omitempty" mapstructure:"bind_password"`
	BaseDN       string `json:"base_dn,omitempty" mapstructure:"base_dn"`
	StartTLS     bool   `json:"start_tls,omitempty" mapstructure:"start_tls"`
	Insecure     bool   `json:"insecure,omitempty" mapstructure:"insecure"`
}
