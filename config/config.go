package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Gthulhu/smoothtask/domain"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Enable bool   `mapstructure:"enable"`
	Host   string `mapstructure:"host"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	FilePath string `mapstructure:"file_path"`
}

type DaemonConfig struct {
	PollingIntervalMs int  `mapstructure:"polling_interval_ms"`
	InitialWaitMs     int  `mapstructure:"initial_wait_ms"`
	DryRun            bool `mapstructure:"dry_run"`
	SkipUnchanged     bool `mapstructure:"skip_unchanged"`
}

// PolicyMode selects whether the policy engine consults a ranker.
type PolicyMode string

const (
	PolicyModeRulesOnly PolicyMode = "rules-only"
	PolicyModeHybrid    PolicyMode = "hybrid"
)

type PolicyConfig struct {
	Mode      PolicyMode `mapstructure:"mode"`
	ModelPath string     `mapstructure:"model_path"`
}

type ThresholdsConfig struct {
	PSICPUSomeHigh            float64 `mapstructure:"psi_cpu_some_high"`
	PSIIOSomeHigh             float64 `mapstructure:"psi_io_some_high"`
	UserIdleTimeoutSec        int     `mapstructure:"user_idle_timeout_sec"`
	NoisyNeighbourCPUShare    float64 `mapstructure:"noisy_neighbour_cpu_share"`
	CritInteractivePercentile float64 `mapstructure:"crit_interactive_percentile"`
	InteractivePercentile     float64 `mapstructure:"interactive_percentile"`
	NormalPercentile          float64 `mapstructure:"normal_percentile"`
	BackgroundPercentile      float64 `mapstructure:"background_percentile"`
}

type DynamicConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	NumCPUs    int     `mapstructure:"num_cpus"`
	NormalLoad float64 `mapstructure:"normal_load"`
	MediumLoad float64 `mapstructure:"medium_load"`
	HighLoad   float64 `mapstructure:"high_load"`
}

type HysteresisConfig struct {
	MinIntervalSec      int `mapstructure:"min_interval_sec"`
	MaxChangesPerWindow int `mapstructure:"max_changes_per_window"`
	WindowSec           int `mapstructure:"window_sec"`
}

type ActuatorConfig struct {
	CgroupRoot        string `mapstructure:"cgroup_root"`
	CgroupParent      string `mapstructure:"cgroup_parent"`
	EnableCgroups     bool   `mapstructure:"enable_cgroups"`
	EnableLatencyNice bool   `mapstructure:"enable_latency_nice"`
	ReadCurrent       bool   `mapstructure:"read_current"`
}

type CollectorConfig struct {
	ProcRoot         string              `mapstructure:"proc_root"`
	AssumeUserActive bool                `mapstructure:"assume_user_active"`
	TagPatterns      map[string][]string `mapstructure:"tag_patterns"`
}

type SmoothTaskConfig struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Daemon     DaemonConfig     `mapstructure:"daemon"`
	Policy     PolicyConfig     `mapstructure:"policy"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Dynamic    DynamicConfig    `mapstructure:"dynamic"`
	Hysteresis HysteresisConfig `mapstructure:"hysteresis"`
	Actuator   ActuatorConfig   `mapstructure:"actuator"`
	Collector  CollectorConfig  `mapstructure:"collector"`
}

var (
	smoothTaskCfg *SmoothTaskConfig
)

func GetConfig() *SmoothTaskConfig {
	return smoothTaskCfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.enable", true)
	v.SetDefault("server.host", ":8090")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("daemon.polling_interval_ms", 500)
	v.SetDefault("daemon.initial_wait_ms", 0)
	v.SetDefault("policy.mode", string(PolicyModeRulesOnly))
	v.SetDefault("thresholds.psi_cpu_some_high", 0.6)
	v.SetDefault("thresholds.psi_io_some_high", 0.4)
	v.SetDefault("thresholds.user_idle_timeout_sec", 120)
	v.SetDefault("thresholds.noisy_neighbour_cpu_share", 0.7)
	v.SetDefault("thresholds.crit_interactive_percentile", 0.9)
	v.SetDefault("thresholds.interactive_percentile", 0.6)
	v.SetDefault("thresholds.normal_percentile", 0.3)
	v.SetDefault("thresholds.background_percentile", 0.1)
	v.SetDefault("dynamic.enabled", true)
	v.SetDefault("dynamic.normal_load", 0.4)
	v.SetDefault("dynamic.medium_load", 0.6)
	v.SetDefault("dynamic.high_load", 0.8)
	v.SetDefault("hysteresis.min_interval_sec", 5)
	v.SetDefault("hysteresis.max_changes_per_window", 3)
	v.SetDefault("hysteresis.window_sec", 60)
	v.SetDefault("actuator.cgroup_root", "/sys/fs/cgroup")
	v.SetDefault("actuator.cgroup_parent", "smoothtask")
	v.SetDefault("actuator.enable_cgroups", true)
	v.SetDefault("actuator.enable_latency_nice", true)
	v.SetDefault("actuator.read_current", true)
	v.SetDefault("collector.proc_root", "/proc")
	v.SetDefault("collector.assume_user_active", true)
}

// DefaultConfig returns the configuration used when no file overrides anything.
func DefaultConfig() SmoothTaskConfig {
	v := viper.New()
	setDefaults(v)
	var cfg SmoothTaskConfig
	// defaults only hold plain scalars, decoding them cannot fail
	_ = v.Unmarshal(&cfg)
	return cfg
}

func InitConfig(configName string, configPath string) (SmoothTaskConfig, error) {
	var cfg SmoothTaskConfig
	if configPath != "" {
		viper.AddConfigPath(configPath)
	}
	if configName == "" {
		configName = "smoothtask_config"
	}
	viper.AddConfigPath(GetAbsPath("config"))
	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("SMOOTHTASK")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(viper.GetViper())
	err := viper.ReadInConfig()
	if err != nil {
		return cfg, err
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	smoothTaskCfg = &cfg
	return cfg, nil
}

// Validate checks value ranges and the ordering of percentile and load thresholds.
func (cfg SmoothTaskConfig) Validate() error {
	if cfg.Daemon.PollingIntervalMs <= 0 || cfg.Daemon.PollingIntervalMs > 60000 {
		return fmt.Errorf("%w: daemon.polling_interval_ms must be in (0, 60000], got %d", domain.ErrInvalidConfig, cfg.Daemon.PollingIntervalMs)
	}
	switch cfg.Policy.Mode {
	case PolicyModeRulesOnly, PolicyModeHybrid:
	default:
		return fmt.Errorf("%w: policy.mode must be %q or %q, got %q", domain.ErrInvalidConfig, PolicyModeRulesOnly, PolicyModeHybrid, cfg.Policy.Mode)
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return err
	}
	d := cfg.Dynamic
	if !(0 <= d.NormalLoad && d.NormalLoad <= d.MediumLoad && d.MediumLoad <= d.HighLoad && d.HighLoad <= 1) {
		return fmt.Errorf("%w: dynamic load thresholds must satisfy 0 <= normal <= medium <= high <= 1", domain.ErrInvalidConfig)
	}
	if d.NumCPUs < 0 {
		return fmt.Errorf("%w: dynamic.num_cpus must not be negative", domain.ErrInvalidConfig)
	}
	h := cfg.Hysteresis
	if h.MinIntervalSec < 0 || h.MaxChangesPerWindow <= 0 || h.WindowSec <= 0 {
		return fmt.Errorf("%w: hysteresis needs min_interval_sec >= 0 and positive max_changes_per_window and window_sec", domain.ErrInvalidConfig)
	}
	return nil
}

func (t ThresholdsConfig) Validate() error {
	percentiles := []struct {
		name  string
		value float64
	}{
		{"crit_interactive_percentile", t.CritInteractivePercentile},
		{"interactive_percentile", t.InteractivePercentile},
		{"normal_percentile", t.NormalPercentile},
		{"background_percentile", t.BackgroundPercentile},
		{"noisy_neighbour_cpu_share", t.NoisyNeighbourCPUShare},
		{"psi_cpu_some_high", t.PSICPUSomeHigh},
		{"psi_io_some_high", t.PSIIOSomeHigh},
	}
	for _, p := range percentiles {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%w: thresholds.%s must be in [0, 1], got %v", domain.ErrInvalidConfig, p.name, p.value)
		}
	}
	if !(t.BackgroundPercentile <= t.NormalPercentile &&
		t.NormalPercentile <= t.InteractivePercentile &&
		t.InteractivePercentile <= t.CritInteractivePercentile) {
		return fmt.Errorf("%w: priority percentiles must be non-decreasing from background to critical", domain.ErrInvalidConfig)
	}
	if t.UserIdleTimeoutSec < 0 {
		return fmt.Errorf("%w: thresholds.user_idle_timeout_sec must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}

func (d DaemonConfig) PollingInterval() time.Duration {
	return time.Duration(d.PollingIntervalMs) * time.Millisecond
}

func (d DaemonConfig) InitialWait() time.Duration {
	return time.Duration(d.InitialWaitMs) * time.Millisecond
}

func (h HysteresisConfig) MinInterval() time.Duration {
	return time.Duration(h.MinIntervalSec) * time.Second
}

func (h HysteresisConfig) Window() time.Duration {
	return time.Duration(h.WindowSec) * time.Second
}

// GetAbsPath returns the absolute path by joining the given paths with the project root directory
func GetAbsPath(paths ...string) string {
	_, filePath, _, _ := runtime.Caller(1)
	basePath := filepath.Dir(filePath)
	rootPath := filepath.Join(basePath, "..")
	return filepath.Join(rootPath, filepath.Join(paths...))
}
