// Package config loads run settings from a file, the environment and an
// optional .env file.
//
// Precedence, highest first: QAEMBED_* environment variables, the settings
// file, built-in defaults. Command line flags are applied on top by the
// caller. Nested keys map to environment variables with dots replaced by
// underscores, e.g. embedding.host becomes QAEMBED_EMBEDDING_HOST.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/qaembed/ai"
	"github.com/poiesic/qaembed/embed"
	"github.com/poiesic/qaembed/pipeline"
	"github.com/poiesic/qaembed/storage/qdrant"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "QAEMBED"

type EmbeddingSettings struct {
	Backend     string        `mapstructure:"backend"`
	Host        string        `mapstructure:"host"`
	Model       string        `mapstructure:"model"`
	NumCtx      int           `mapstructure:"num_ctx"`
	ExpectedDim int           `mapstructure:"expected_dim"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type SearchSettings struct {
	MinInputChars int     `mapstructure:"min_input_chars"`
	MinChars      int     `mapstructure:"min_chars"`
	MaxTries      int     `mapstructure:"max_tries"`
	MaxChars      int     `mapstructure:"max_chars"`
	ShrinkRatio   float64 `mapstructure:"shrink_ratio"`
	Tolerance     int     `mapstructure:"tolerance"`
	ConfirmFinal  bool    `mapstructure:"confirm_final"`
}

type OutputSettings struct {
	Path      string `mapstructure:"path"`
	BadgerDir string `mapstructure:"badger_dir"`
}

type QdrantSettings struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
}

// Settings holds everything a run needs.
type Settings struct {
	Input          string            `mapstructure:"input"`
	Embedding      EmbeddingSettings `mapstructure:"embedding"`
	Search         SearchSettings    `mapstructure:"search"`
	Output         OutputSettings    `mapstructure:"output"`
	Qdrant         QdrantSettings    `mapstructure:"qdrant"`
	MetricsFile    string            `mapstructure:"metrics_file"`
	LogLevel       string            `mapstructure:"log_level"`
	ReportInterval int               `mapstructure:"report_interval"`
}

// Load reads settings. path may be empty, in which case only defaults and
// the environment are used. A .env file in the working directory is loaded
// into the environment first if present.
func Load(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &settings, nil
}

func setDefaults(v *viper.Viper) {
	aiDefaults := ai.DefaultConfig()
	embedDefaults := embed.DefaultConfig()

	v.SetDefault("input", "")
	v.SetDefault("embedding.backend", aiDefaults.Backend)
	v.SetDefault("embedding.host", aiDefaults.EmbeddingHost)
	v.SetDefault("embedding.model", aiDefaults.EmbeddingModel)
	v.SetDefault("embedding.num_ctx", aiDefaults.NumCtx)
	v.SetDefault("embedding.expected_dim", aiDefaults.ExpectedDim)
	v.SetDefault("embedding.timeout", aiDefaults.RequestTimeout)

	v.SetDefault("search.min_input_chars", embedDefaults.MinInputChars)
	v.SetDefault("search.min_chars", embedDefaults.MinChars)
	v.SetDefault("search.max_tries", embedDefaults.MaxTries)
	v.SetDefault("search.max_chars", embedDefaults.MaxChars)
	v.SetDefault("search.shrink_ratio", embedDefaults.ShrinkRatio)
	v.SetDefault("search.tolerance", embedDefaults.Tolerance)
	v.SetDefault("search.confirm_final", embedDefaults.ConfirmFinal)

	v.SetDefault("output.path", "embedded_examples.json")
	v.SetDefault("output.badger_dir", "")

	v.SetDefault("qdrant.host", "")
	v.SetDefault("qdrant.port", qdrant.DefaultPort)
	v.SetDefault("qdrant.api_key", "")
	v.SetDefault("qdrant.collection", qdrant.DefaultCollection)

	v.SetDefault("metrics_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("report_interval", pipeline.DefaultConfig().ReportInterval)
}

// AIConfig returns the endpoint configuration.
func (s *Settings) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithBackend(s.Embedding.Backend),
		ai.WithEmbeddingHost(s.Embedding.Host),
		ai.WithEmbeddingModel(s.Embedding.Model),
		ai.WithNumCtx(s.Embedding.NumCtx),
		ai.WithExpectedDim(s.Embedding.ExpectedDim),
		ai.WithRequestTimeout(s.Embedding.Timeout),
	)
}

// EmbedConfig returns the length negotiation configuration.
func (s *Settings) EmbedConfig() *embed.Config {
	return &embed.Config{
		MinInputChars:  s.Search.MinInputChars,
		MinChars:       s.Search.MinChars,
		MaxTries:       s.Search.MaxTries,
		MaxChars:       s.Search.MaxChars,
		ShrinkRatio:    s.Search.ShrinkRatio,
		Tolerance:      s.Search.Tolerance,
		ExpectedDim:    s.Embedding.ExpectedDim,
		RequestTimeout: s.Embedding.Timeout,
		ConfirmFinal:   s.Search.ConfirmFinal,
	}
}

// QdrantConfig returns the Qdrant writer configuration. ok is false when no
// Qdrant host is configured.
func (s *Settings) QdrantConfig() (cfg qdrant.Config, ok bool) {
	if s.Qdrant.Host == "" {
		return qdrant.Config{}, false
	}
	return qdrant.Config{
		Host:       s.Qdrant.Host,
		Port:       s.Qdrant.Port,
		APIKey:     s.Qdrant.APIKey,
		Collection: s.Qdrant.Collection,
		Dimension:  s.Embedding.ExpectedDim,
	}, true
}
