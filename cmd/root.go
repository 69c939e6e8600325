package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/logger"
)

const (
	app       = "varsitylink"
	envPrefix = "VARSITYLINK"
)

type Config struct {
	Server   ServerConfig      `mapstructure:"server"`
	Database DatabaseConfig    `mapstructure:"database"`
	AI       *AIConfig         `mapstructure:"ai"`
	Drafts   []DraftKindConfig `mapstructure:"drafts"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	// AutoMigrate applies pending migrations before serving.
	AutoMigrate bool `mapstructure:"auto-migrate"`
}

type DatabaseConfig struct {
	Backend string `mapstructure:"backend"`
	DSN     string `mapstructure:"dsn"`
	DSNFile string `mapstructure:"dsn-file"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey                string `mapstructure:"api-key"`
	APIKeyFile            string `mapstructure:"api-key-file"`
	Model                 string `mapstructure:"model"`
	MaxRetries            int    `mapstructure:"max-retries"`
	MaxLogLength          int    `mapstructure:"max-log-length"`
	SystemInstructionFile string `mapstructure:"system-instruction-file"`
}

// DraftKindConfig declares an extra draft kind next to campaign-strategy.
type DraftKindConfig struct {
	Kind   string             `mapstructure:"kind"`
	Fields []DraftFieldConfig `mapstructure:"fields"`
}

type DraftFieldConfig struct {
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "varsitylink connects businesses with student athletes for marketing campaigns",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("ai.gemini.api-key-file", envPrefix+"_AI_GEMINI_API_KEY_FILE", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("database.dsn", envPrefix+"_DATABASE_DSN", "DATABASE_URL"); err != nil {
		log.Fatalf("binding DATABASE_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is varsitylink.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("db-backend", "", "database backend: sqlite, postgres or mysql")
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("database.backend", rootCmd.PersistentFlags().Lookup("db-backend"))
	viper.BindPFlag("database.dsn", rootCmd.PersistentFlags().Lookup("dsn"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read-timeout", 15*time.Second)
	// Draft generation waits on the model, retries included.
	v.SetDefault("server.write-timeout", 2*time.Minute)
	v.SetDefault("server.shutdown-timeout", 10*time.Second)
	v.SetDefault("server.auto-migrate", true)

	v.SetDefault("database.backend", "sqlite")
	v.SetDefault("database.dsn", app+".db")
	v.SetDefault("database.dsn-file", "")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
	v.SetDefault("ai.gemini.system-instruction-file", "")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
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

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}
