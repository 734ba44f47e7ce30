package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port    string `mapstructure:"port"`
			Enabled bool   `mapstructure:"enabled"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
		// RateLimit is requests per minute per client IP on the model-backed routes.
		RateLimit int `mapstructure:"rateLimit"`
	} `mapstructure:"server"`
	Detector Detector `mapstructure:"detector"`
	Nutrition struct {
		TablePath string `mapstructure:"tablePath"`
	} `mapstructure:"nutrition"`
	Meals struct {
		Driver  string `mapstructure:"driver"`
		CSVPath string `mapstructure:"csvPath"`
	} `mapstructure:"meals"`
	Chat Chat `mapstructure:"chat"`
	LLM  LLM  `mapstructure:"llm"`
}

// Detector selects and tunes the food detection backend.
type Detector struct {
	Backend             string        `mapstructure:"backend"`
	ConfidenceThreshold float64       `mapstructure:"confidenceThreshold"`
	ClassNames          []string      `mapstructure:"classNames"`
	MaxUploadBytes      int64         `mapstructure:"maxUploadBytes"`
	RemoteURL           string        `mapstructure:"remoteURL"`
	Timeout             time.Duration `mapstructure:"timeout"`
	AWSRegion           string        `mapstructure:"awsRegion"`
	MaxLabels           int32         `mapstructure:"maxLabels"`
}

type Chat struct {
	DocumentsPath string        `mapstructure:"documentsPath"`
	IndexPath     string        `mapstructure:"indexPath"`
	ChunkSize     int           `mapstructure:"chunkSize"`
	ChunkOverlap  int           `mapstructure:"chunkOverlap"`
	TopK          int           `mapstructure:"topK"`
	EmbedBatch    int           `mapstructure:"embedBatch"`
	SessionTTL    time.Duration `mapstructure:"sessionTTL"`
	TokenSecret   string        `mapstructure:"tokenSecret"`
}

type LLM struct {
	APIKey         string  `mapstructure:"apiKey"`
	Model          string  `mapstructure:"model"`
	VisionModel    string  `mapstructure:"visionModel"`
	EmbeddingModel string  `mapstructure:"embeddingModel"`
	Temperature    float32 `mapstructure:"temperature"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.apiKey", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("chat.tokenSecret", "CHAT_TOKEN_SECRET")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	applyDefaults(&config)
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func applyDefaults(c *Config) {
	if c.Server.HTTPPort == "" {
		c.Server.HTTPPort = "8000"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 60 * time.Second
	}
	if c.Detector.Backend == "" {
		c.Detector.Backend = "remote"
	}
	if c.Detector.ConfidenceThreshold == 0 {
		c.Detector.ConfidenceThreshold = 0.25
	}
	if c.Detector.MaxUploadBytes == 0 {
		c.Detector.MaxUploadBytes = 10 << 20
	}
	if c.Detector.Timeout == 0 {
		c.Detector.Timeout = 30 * time.Second
	}
	if c.Meals.Driver == "" {
		c.Meals.Driver = "csv"
	}
	if c.Meals.CSVPath == "" {
		c.Meals.CSVPath = "meal_data.csv"
	}
	if c.Chat.ChunkSize == 0 {
		c.Chat.ChunkSize = 1000
	}
	if c.Chat.ChunkOverlap == 0 {
		c.Chat.ChunkOverlap = 100
	}
	if c.Chat.TopK == 0 {
		c.Chat.TopK = 5
	}
	if c.Chat.EmbedBatch == 0 {
		c.Chat.EmbedBatch = 50
	}
	if c.Chat.SessionTTL == 0 {
		c.Chat.SessionTTL = 2 * time.Hour
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.0-flash"
	}
	if c.LLM.VisionModel == "" {
		c.LLM.VisionModel = c.LLM.Model
	}
	if c.LLM.EmbeddingModel == "" {
		c.LLM.EmbeddingModel = "text-embedding-004"
	}
}
