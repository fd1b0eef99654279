package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	appcfg "github.com/josephgoksu/TaskPulse/internal/config"
	"github.com/josephgoksu/TaskPulse/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = ".taskpulse"
	envPrefix  = "TASKPULSE"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validateConfig is a single validator instance; it caches struct info.
var validateConfig *validator.Validate

func init() {
	validateConfig = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validateConfig.Struct(config)
}

// setConfigDefaults registers every default with viper so a bare
// environment still yields a working config.
func setConfigDefaults() {
	viper.SetDefault("actor", appcfg.DefaultActor)
	viper.SetDefault("project.rootDir", appcfg.DefaultRootDir)
	viper.SetDefault("data.file", appcfg.DefaultDataFile)
	viper.SetDefault("data.format", appcfg.DefaultDataFormat)
	viper.SetDefault("notifications.enabled", true)
	viper.SetDefault("notifications.taskReminders", true)
	viper.SetDefault("notifications.habitReminders", true)
	viper.SetDefault("notifications.remindDaysBefore", appcfg.DefaultRemindDaysBefore)
	viper.SetDefault("notifications.intervalSeconds", int(appcfg.DefaultTickInterval.Seconds()))
	viper.SetDefault("notifications.snoozeMinutes", int(appcfg.DefaultSnoozeOffset.Minutes()))
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setConfigDefaults()

	cfgFileFlag := viper.GetString("config")

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		// Project-local config dir takes priority over home/cwd.
		if _, err := os.Stat(appcfg.DefaultRootDir); !os.IsNotExist(err) {
			viper.AddConfigPath(appcfg.DefaultRootDir)
			viper.SetConfigName(configName)
		} else {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigName(configName)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Error unmarshaling config:", err)
		os.Exit(1)
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}
}

// GetConfig returns the unmarshaled application configuration.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
