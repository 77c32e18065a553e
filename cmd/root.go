package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobmatch"
)

type Config struct {
	Jobs         JobsConfig   `mapstructure:"jobs"`
	ExcludeFile  string       `mapstructure:"exclude-file"`
	ShowExcluded bool         `mapstructure:"show-excluded"`
	Skills       SkillsConfig `mapstructure:"skills"`
	Engine       EngineConfig `mapstructure:"engine"`
	Recommend    TopNConfig   `mapstructure:"recommend"`
	Similar      TopNConfig   `mapstructure:"similar"`
	Scan         ScanConfig   `mapstructure:"scan"`
	Server       ServerConfig `mapstructure:"server"`
	Log          LogConfig    `mapstructure:"log"`
}

type JobsConfig struct {
	Source    string       `mapstructure:"source"`
	File      string       `mapstructure:"file"`
	StripHTML bool         `mapstructure:"strip-html"`
	SQLite    SQLiteConfig `mapstructure:"sqlite"`
	Feed      FeedConfig   `mapstructure:"feed"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type FeedConfig struct {
	URL        string `mapstructure:"url"`
	TokenFile  string `mapstructure:"token-file"`
	UserAgent  string `mapstructure:"user-agent"`
	PerPage    int    `mapstructure:"per-page"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type SkillsConfig struct {
	File string `mapstructure:"file"`
}

type EngineConfig struct {
	MaxFeatures int `mapstructure:"max-features"`
}

type TopNConfig struct {
	TopN int `mapstructure:"top-n"`
}

type ScanConfig struct {
	TopN    int `mapstructure:"top-n"`
	Workers int `mapstructure:"workers"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	MaxConcurrent  int           `mapstructure:"max-concurrent"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
}

type LogConfig struct {
	MaxLength int `mapstructure:"max-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobmatch ranks job postings against resumes and tags skills in free text",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("jobs.feed.token-file", "JOBMATCH_FEED_TOKEN_FILE"); err != nil {
		log.Fatalf("binding JOBMATCH_FEED_TOKEN_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("exclude-file", "e", "", "file with job ids hidden from results")
	rootCmd.PersistentFlags().Bool("show-excluded", false, "do not hide jobs listed in the exclude file")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("exclude-file", rootCmd.PersistentFlags().Lookup("exclude-file"))
	viper.BindPFlag("show-excluded", rootCmd.PersistentFlags().Lookup("show-excluded"))
}

func setDefaults() {
	viper.SetDefault("jobs.source", sourceFile)
	viper.SetDefault("jobs.feed.per-page", 100)
	viper.SetDefault("jobs.feed.max-retries", 3)
	viper.SetDefault("engine.max-features", 3000)
	viper.SetDefault("recommend.top-n", 5)
	viper.SetDefault("similar.top-n", 3)
	viper.SetDefault("scan.top-n", 5)
	viper.SetDefault("scan.workers", 4)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.max-concurrent", 8)
	viper.SetDefault("server.request-timeout", 30*time.Second)
	viper.SetDefault("log.max-length", 200)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine: skills and version work without one.
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
