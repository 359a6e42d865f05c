package qsim

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

/*
Config gathers the tunables of the simulator, the sampler, the hardware seed
unit and logging. NewConfig gives working defaults; LoadConfig layers a config
file and QSIM_ environment variables on top of them.
*/
type Config struct {
	Register RegisterConfig `mapstructure:"register"`
	Sampler  SamplerConfig  `mapstructure:"sampler"`
	Entropy  EntropyConfig  `mapstructure:"entropy"`
	Log      LogConfig      `mapstructure:"log"`
}

type RegisterConfig struct {
	MaxQubits           int     `mapstructure:"max_qubits"`
	DenseOperatorQubits int     `mapstructure:"dense_operator_qubits"`
	Tolerance           float64 `mapstructure:"tolerance"`
	Weighting           string  `mapstructure:"weighting"`
}

type SamplerConfig struct {
	// Workers below 1 means one per GOMAXPROCS.
	Workers int `mapstructure:"workers"`
}

type EntropyConfig struct {
	DeviceDir       string        `mapstructure:"device_dir"`
	DevicePrefixes  []string      `mapstructure:"device_prefixes"`
	DeviceMatch     string        `mapstructure:"device_match"`
	BaudRate        int           `mapstructure:"baud_rate"`
	ReadInterval    time.Duration `mapstructure:"read_interval"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func NewConfig() *Config {
	return &Config{
		Register: RegisterConfig{
			MaxQubits:           DefaultMaxQubits,
			DenseOperatorQubits: DefaultDenseOperatorQubits,
			Tolerance:           DefaultTolerance,
			Weighting:           MagnitudeWeighting.String(),
		},
		Entropy: EntropyConfig{
			DeviceDir:       "/dev",
			DevicePrefixes:  []string{"tty.", "cu."},
			DeviceMatch:     "/dev/cu.usbmodem14",
			BaudRate:        9600,
			ReadInterval:    time.Second,
			RefreshInterval: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

/*
LoadConfig reads path (YAML, TOML or JSON, picked by extension) over the
defaults. An empty path skips the file. Every key can also be set from the
environment, e.g. QSIM_REGISTER_MAX_QUBITS or QSIM_ENTROPY_DEVICE_MATCH.
*/
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewConfig())

	v.SetEnvPrefix("QSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if _, err := ParseWeighting(config.Register.Weighting); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("register.max_qubits", c.Register.MaxQubits)
	v.SetDefault("register.dense_operator_qubits", c.Register.DenseOperatorQubits)
	v.SetDefault("register.tolerance", c.Register.Tolerance)
	v.SetDefault("register.weighting", c.Register.Weighting)
	v.SetDefault("sampler.workers", c.Sampler.Workers)
	v.SetDefault("entropy.device_dir", c.Entropy.DeviceDir)
	v.SetDefault("entropy.device_prefixes", c.Entropy.DevicePrefixes)
	v.SetDefault("entropy.device_match", c.Entropy.DeviceMatch)
	v.SetDefault("entropy.baud_rate", c.Entropy.BaudRate)
	v.SetDefault("entropy.read_interval", c.Entropy.ReadInterval)
	v.SetDefault("entropy.refresh_interval", c.Entropy.RefreshInterval)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.file", c.Log.File)
}

// RegisterOptions turns the register section into options for NewRegister.
// An unparsable weighting falls back to magnitude weighting.
func (c *Config) RegisterOptions() []RegisterOption {
	weighting, _ := ParseWeighting(c.Register.Weighting)

	return []RegisterOption{
		WithMaxQubits(c.Register.MaxQubits),
		WithDenseOperatorQubits(c.Register.DenseOperatorQubits),
		WithTolerance(c.Register.Tolerance),
		WithWeighting(weighting),
	}
}
