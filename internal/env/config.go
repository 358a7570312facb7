package env

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var Config struct {
	Provider   string
	Profile    string
	Region     string
	ConfigFile string
	LogLevel   string

	Workers       int
	RetryAttempts int
	RetryDelay    time.Duration

	EbsWaitAttempts int
	EbsWaitDelay    time.Duration
	S3BatchSize     int

	ListenAddr string
}

const EnvPrefix = "WIPEIT"

func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", "aws")
	v.SetDefault("log_level", "")
	v.SetDefault("workers", 1)
	v.SetDefault("retry_attempts", 4)
	v.SetDefault("retry_delay", "500ms")
	v.SetDefault("ebs_wait_attempts", 40)
	v.SetDefault("ebs_wait_delay", "15s")
	v.SetDefault("s3_batch_size", 1000)
	v.SetDefault("listen_addr", "127.0.0.1:8080")
}

func defaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".wipeit.yaml")
}

// LoadConfig fills Config from the config file and WIPEIT_* environment
// variables. Values already set from command line flags are kept.
func LoadConfig(v *viper.Viper) error {
	SetDefaults(v)

	configFile := Config.ConfigFile
	explicit := configFile != ""
	if !explicit {
		configFile = defaultConfigFile()
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok || explicit {
				return errors.Wrapf(err, "reading config file %s", configFile)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setString(&Config.Provider, v.GetString("provider"))
	setString(&Config.Profile, v.GetString("profile"))
	setString(&Config.Region, v.GetString("region"))
	setString(&Config.LogLevel, v.GetString("log_level"))
	setString(&Config.ListenAddr, v.GetString("listen_addr"))
	setInt(&Config.Workers, v.GetInt("workers"))
	setInt(&Config.RetryAttempts, v.GetInt("retry_attempts"))
	setInt(&Config.EbsWaitAttempts, v.GetInt("ebs_wait_attempts"))
	setInt(&Config.S3BatchSize, v.GetInt("s3_batch_size"))
	setDuration(&Config.RetryDelay, v.GetDuration("retry_delay"))
	setDuration(&Config.EbsWaitDelay, v.GetDuration("ebs_wait_delay"))
	return nil
}

func setString(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

func setInt(target *int, value int) {
	if *target == 0 {
		*target = value
	}
}

func setDuration(target *time.Duration, value time.Duration) {
	if *target == 0 {
		*target = value
	}
}
