package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "assessment-finder"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	Search *SearchConfig `mapstructure:"search"`
	Fetch  *FetchConfig  `mapstructure:"fetch"`
	UI     *UIConfig     `mapstructure:"ui"`
	AI     *AIConfig     `mapstructure:"ai"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	RatePerMinute   int           `mapstructure:"rate-per-minute"`
	AllowedOrigins  []string      `mapstructure:"allowed-origins"`
	TrustProxy      bool          `mapstructure:"trust-proxy"`
}

type SearchConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	TokenFile string        `mapstructure:"token-file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user-agent"`
	MaxBodyBytes int64         `mapstructure:"max-body-bytes"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	TopK         int    `mapstructure:"top-k"`
	Rerank       bool   `mapstructure:"rerank"`
	Fallback     bool   `mapstructure:"fallback"`
	Explanations bool   `mapstructure:"explanations"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "assessment-finder recommends talent assessments for a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults()

	envs := map[string]string{
		"search.endpoint":        "FINDER_SEARCH_ENDPOINT",
		"search.token-file":      "FINDER_SEARCH_TOKEN_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is assessment-finder.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8501)
	viper.SetDefault("server.read-timeout", 30*time.Second)
	viper.SetDefault("server.write-timeout", time.Duration(0))
	viper.SetDefault("server.shutdown-timeout", 10*time.Second)
	viper.SetDefault("server.rate-per-minute", 60)
	viper.SetDefault("server.allowed-origins", []string{"*"})
	viper.SetDefault("server.trust-proxy", false)

	viper.SetDefault("search.endpoint", "http://localhost:8000")
	viper.SetDefault("search.token-file", "")
	viper.SetDefault("search.timeout", time.Duration(0))

	viper.SetDefault("fetch.timeout", 5*time.Second)
	viper.SetDefault("fetch.user-agent", "spigell/assessment-finder")
	viper.SetDefault("fetch.max-body-bytes", 5<<20)

	viper.SetDefault("ui.theme", "light")
	viper.SetDefault("ui.top-k", 10)
	viper.SetDefault("ui.rerank", true)
	viper.SetDefault("ui.fallback", true)
	viper.SetDefault("ui.explanations", false)

	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without an explicit --config every key has a default.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
