// Package config loads the figma-markup settings from flags, environment
// variables and an optional config file.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kataras/figma-markup/pkg/llm"
	"github.com/kataras/figma-markup/pkg/markup"
	"github.com/kataras/figma-markup/pkg/prompt"
)

// EnvPrefix prefixes every environment variable, e.g. FIGMA_MARKUP_FIGMA_TOKEN.
const EnvPrefix = "FIGMA_MARKUP"

// Config is the complete figma-markup configuration.
type Config struct {
	Figma struct {
		Token string `mapstructure:"token"`
	} `mapstructure:"figma"`
	GenAI struct {
		APIKey      string   `mapstructure:"api_key"`
		Model       string   `mapstructure:"model"`
		Temperature *float32 `mapstructure:"temperature"`
		BaseURL     string   `mapstructure:"base_url"`
	} `mapstructure:"genai"`
	Convert struct {
		Prompt        string `mapstructure:"prompt"`
		PromptFile    string `mapstructure:"prompt_file"`
		Threshold     int    `mapstructure:"threshold"`
		MaxConcurrent int    `mapstructure:"max_concurrent"`
	} `mapstructure:"convert"`
	Output struct {
		Dir         string  `mapstructure:"dir"`
		Render      bool    `mapstructure:"render"`
		ImageFormat string  `mapstructure:"image_format"`
		ImageScale  float64 `mapstructure:"image_scale"`
	} `mapstructure:"output"`
	Logging struct {
		JSON    bool `mapstructure:"json"`
		Verbose bool `mapstructure:"verbose"`
	} `mapstructure:"logging"`
}

// FlagKeys maps command line flag names to config keys.
var FlagKeys = map[string]string{
	"token":          "figma.token",
	"api-key":        "genai.api_key",
	"model":          "genai.model",
	"prompt":         "convert.prompt",
	"prompt-file":    "convert.prompt_file",
	"threshold":      "convert.threshold",
	"max-concurrent": "convert.max_concurrent",
	"out":            "output.dir",
	"render":         "output.render",
	"image-format":   "output.image_format",
	"image-scale":    "output.image_scale",
	"log-json":       "logging.json",
	"verbose":        "logging.verbose",
}

// Load reads the configuration. configPath may be empty. Flags present in
// flags and listed in FlagKeys override environment and file values when set.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range FlagKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env %q", key)
		}
	}
	for _, key := range []string{"genai.temperature", "genai.base_url"} {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env %q", key)
		}
	}
	v.SetDefault("genai.model", llm.DefaultModel)
	v.SetDefault("convert.prompt", prompt.DefaultName)
	v.SetDefault("convert.threshold", markup.DefaultThreshold)
	v.SetDefault("convert.max_concurrent", 0)
	v.SetDefault("output.dir", "figma-markup")
	v.SetDefault("output.image_format", "png")
	v.SetDefault("output.image_scale", 1)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %q", configPath)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag %q", name)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if cfg.Convert.Threshold <= 0 {
		cfg.Convert.Threshold = markup.DefaultThreshold
	}
	if cfg.Convert.MaxConcurrent < 0 {
		cfg.Convert.MaxConcurrent = 0
	}

	return &cfg, nil
}

// Validate reports the settings a conversion cannot run without.
func (c *Config) Validate() error {
	if c.Figma.Token == "" {
		return errors.WithHint(errors.New("Figma access token is not set"),
			"pass --token or set "+EnvPrefix+"_FIGMA_TOKEN")
	}
	if c.GenAI.APIKey == "" {
		return errors.WithHint(errors.New("model API key is not set"),
			"pass --api-key or set "+EnvPrefix+"_GENAI_API_KEY")
	}
	return nil
}
