package configuration

import (
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/markusressel/jointdrive/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	// TickRate is the interval of the joint update cycle
	TickRate time.Duration `json:"tickRate"`
	// Gravity is the gravitational acceleration in world space
	Gravity        mgl64.Vec3 `json:"gravity"`
	AngularDamping float64    `json:"angularDamping"`

	// StrengthMultiplier scales every torque the controller applies
	StrengthMultiplier float64 `json:"strengthMultiplier"`
	// Parallelism is the maximum number of goroutines used per tick
	Parallelism int `json:"parallelism"`

	TorqueWindowSize int     `json:"torqueWindowSize"`
	SettleThreshold  float64 `json:"settleThreshold"`

	Rig       RigConfig         `json:"rig"`
	Joints    []JointConfig     `json:"joints"`
	Animation []AnimationConfig `json:"animation"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
	Profiling  ProfilingConfig  `json:"profiling"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("jointdrive")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/jointdrive/")
	}

	viper.SetEnvPrefix("jointdrive")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/jointdrive/jointdrive.db")
	viper.SetDefault("tickRate", 16*time.Millisecond)
	viper.SetDefault("gravity", []float64{0, 0, -9.8})
	viper.SetDefault("angularDamping", 0.05)
	viper.SetDefault("strengthMultiplier", 1.0)
	viper.SetDefault("parallelism", 1)
	viper.SetDefault("torqueWindowSize", 60)
	viper.SetDefault("settleThreshold", 0.01)

	viper.SetDefault("rig.id", "default")
	viper.SetDefault("joints", []JointConfig{})
	viper.SetDefault("animation", []AnimationConfig{})

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 8080)

	viper.SetDefault("profiling.enabled", false)
	viper.SetDefault("profiling.host", "localhost")
	viper.SetDefault("profiling.port", 6060)
}

// DetectAndReadConfigFile reads the config file and returns its path.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	// load default configuration values
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHook()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		Vec3HookFunc(),
	)
}
