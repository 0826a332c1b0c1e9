package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port           int              `json:"port"`
	JWTSecret      string           `json:"jwt_secret"`
	JWTTTLMinutes  int              `json:"jwt_ttl_minutes"`
	LogConfig      logger.LogConfig `json:"log_config"`
	Database       DatabaseConfig   `json:"database"`
	FileStore      FileStoreConfig  `json:"file_store"`
	Upload         UploadConfig     `json:"upload"`
	CollectionName string           `json:"collection_name"`
	AI             AIConfig         `json:"ai"`
	Chunk          ChunkConfig      `json:"chunk"`
	Retrieval      RetrievalConfig  `json:"retrieval"`
	CORSOrigins    []string         `json:"cors_origins"`
	WebDir         string           `json:"web_dir"`
	CleanupCron    string           `json:"cleanup_cron"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type UploadConfig struct {
	MaxFileSize int64 `json:"max_file_size"`
}

// AIEndpointConfig binds one provider to one model. Lists are ordered
// fallback chains: the first entry is primary.
type AIEndpointConfig struct {
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type AIConfig struct {
	Generate        []AIEndpointConfig `json:"generate"`
	Embed           []AIEndpointConfig `json:"embed"`
	EmbedDimension  int                `json:"embed_dimension"`
	TimeoutSeconds  int                `json:"timeout_seconds"`
	CacheSize       int                `json:"cache_size"`
	CacheTTLMinutes int                `json:"cache_ttl_minutes"`
}

type ChunkConfig struct {
	Size    int `json:"size"`
	Overlap int `json:"overlap"`
}

type RetrievalConfig struct {
	TopK int `json:"top_k"`
}

// EmbeddingDimension must match the vector column width in the
// migrations; changing it requires a schema change.
const EmbeddingDimension = 768

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.DBName == "" {
		return nil, fmt.Errorf("database.dsn or database.dbname is required")
	}
	if cfg.JWTTTLMinutes == 0 {
		cfg.JWTTTLMinutes = 30
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Upload.MaxFileSize == 0 {
		cfg.Upload.MaxFileSize = 10 * 1024 * 1024
	}
	if cfg.CollectionName == "" {
		cfg.CollectionName = "hr_documents"
	}
	if cfg.Chunk.Size == 0 {
		cfg.Chunk.Size = 1000
	}
	if cfg.Chunk.Overlap == 0 {
		cfg.Chunk.Overlap = 200
	}
	if cfg.Chunk.Overlap >= cfg.Chunk.Size {
		return nil, fmt.Errorf("chunk.overlap must be smaller than chunk.size")
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if len(cfg.AI.Embed) == 0 {
		return nil, fmt.Errorf("ai.embed requires at least one provider")
	}
	if cfg.AI.EmbedDimension == 0 {
		cfg.AI.EmbedDimension = EmbeddingDimension
	}
	if cfg.AI.EmbedDimension != EmbeddingDimension {
		return nil, fmt.Errorf("ai.embed_dimension must be %d to match the chunk table schema", EmbeddingDimension)
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 30
	}
	if cfg.AI.CacheSize == 0 {
		cfg.AI.CacheSize = 4096
	}
	if cfg.AI.CacheTTLMinutes == 0 {
		cfg.AI.CacheTTLMinutes = 120
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		if cfg.FileStore.Data == nil {
			cfg.FileStore.Data = map[string]interface{}{"dir": "./uploads"}
		}
	}
	if cfg.CleanupCron == "" {
		cfg.CleanupCron = "30 3 * * *"
	}
	return &cfg, nil
}
