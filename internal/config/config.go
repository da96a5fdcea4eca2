package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/smarteda-cli/internal/eda"
	"github.com/KaramelBytes/smarteda-cli/internal/utils"
)

// EnvPrefix prefixes environment overrides, e.g. SMARTEDA_TOP_N.
const EnvPrefix = "SMARTEDA"

// Global configuration structure.
type Global struct {
	Strategy   string  `mapstructure:"strategy" yaml:"strategy"`
	TopN       int     `mapstructure:"top_n" yaml:"top_n"`
	ZThreshold float64 `mapstructure:"z_threshold" yaml:"z_threshold"`
	VizDir     string  `mapstructure:"viz_dir" yaml:"viz_dir"`
	OutputPath string  `mapstructure:"output_path" yaml:"output_path"`
	HistoryDB  string  `mapstructure:"history_db" yaml:"history_db"`
	LogLevel   string  `mapstructure:"log_level" yaml:"log_level"`
	// Delimiter for CSV input; "auto" sniffs it from the file extension.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Keys lists the settable keys in display order.
var Keys = []string{"strategy", "top_n", "z_threshold", "viz_dir", "output_path", "history_db", "log_level", "delimiter"}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		Strategy:   string(eda.StrategyMean),
		TopN:       eda.DefaultTopN,
		ZThreshold: eda.DefaultZThreshold,
		VizDir:     "visualizations",
		OutputPath: "cleaned_output.csv",
		HistoryDB:  "~/.smarteda/history.db",
		LogLevel:   "warn",
		Delimiter:  "auto",
	}
}

// Dir returns ~/.smarteda.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".smarteda"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.smarteda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from defaults, the config file, a .env file in
// the working directory, and SMARTEDA_* environment variables.
// Precedence: env (.env included) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("z_threshold", d.ZThreshold)
	v.SetDefault("viz_dir", d.VizDir)
	v.SetDefault("output_path", d.OutputPath)
	v.SetDefault("history_db", d.HistoryDB)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("delimiter", d.Delimiter)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	if _, err := eda.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("config strategy: %w", err)
	}
	if c.TopN < 0 {
		return fmt.Errorf("config top_n must be >= 0, got %d", c.TopN)
	}
	if c.ZThreshold < 0 {
		return fmt.Errorf("config z_threshold must be >= 0, got %g", c.ZThreshold)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return fmt.Errorf("config delimiter: %w", err)
	}
	return nil
}

// Get returns the value of key rendered as text.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "strategy":
		return c.Strategy, nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "z_threshold":
		return strconv.FormatFloat(c.ZThreshold, 'f', -1, 64), nil
	case "viz_dir":
		return c.VizDir, nil
	case "output_path":
		return c.OutputPath, nil
	case "history_db":
		return c.HistoryDB, nil
	case "log_level":
		return c.LogLevel, nil
	case "delimiter":
		return c.Delimiter, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// Set parses val and assigns it to key.
func (c *Global) Set(key, val string) error {
	switch key {
	case "strategy":
		s, err := eda.ParseStrategy(val)
		if err != nil {
			return err
		}
		c.Strategy = string(s)
	case "top_n":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for top_n: %v", val)
		}
		c.TopN = i
	case "z_threshold":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid float for z_threshold: %v", val)
		}
		c.ZThreshold = f
	case "viz_dir":
		c.VizDir = val
	case "output_path":
		c.OutputPath = val
	case "history_db":
		c.HistoryDB = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	case "delimiter":
		if _, err := ParseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// ParseDelimiter maps a configured delimiter to a rune. "auto" and "" yield
// 0 (sniff from the file name); "tab" and "\t" yield a tab.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q (use a single character, tab or auto)", s)
	}
	return r[0], nil
}
