// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Relevance oracle
	OpenRouterAPIKey string `yaml:"openrouter_api_key" env:"OPENROUTER_API_KEY"`
	OracleModel      string `yaml:"oracle_model"`
	//Collection run
	PromotionTarget string `yaml:"promotion_target"`
	MaxPages        int    `yaml:"max_pages"`
	OutputDir       string `yaml:"output_dir"`
	//Browser session
	Headless    bool   `yaml:"headless"`
	CookiesPath string `yaml:"cookies_path"`
	XHSEmail    string `env:"XHS_AD_EMAIL"`
	XHSPassword string `env:"XHS_AD_PASSWORD"`
	//Optional run reporting
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		cfg.OpenRouterAPIKey = key
	}

	if email := os.Getenv("XHS_AD_EMAIL"); email != "" {
		cfg.XHSEmail = email
	}

	if password := os.Getenv("XHS_AD_PASSWORD"); password != "" {
		cfg.XHSPassword = password
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 10
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}

	if cfg.CookiesPath == "" {
		cfg.CookiesPath = "configs/xiaohongshu_auth.json"
	}

	//Validate required fields
	if cfg.OpenRouterAPIKey == "" {
		log.Fatal("OPENROUTER_API_KEY is required")
	}

	if cfg.PromotionTarget == "" {
		log.Fatal("promotion_target is required")
	}

	return cfg
}
