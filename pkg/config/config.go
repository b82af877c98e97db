package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LLMConfig configures the generation model.
type LLMConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// EmbedderConfig configures the embedding model. The same model serves
// index builds and queries.
type EmbedderConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	VectorDim int    `yaml:"vector_dim"`
}

// IndexConfig configures the persistent vector index.
type IndexConfig struct {
	Backend   string `yaml:"backend"` // sqlite or pgvector
	Dir       string `yaml:"dir"`
	URL       string `yaml:"url"` // pgvector connection string
	TableName string `yaml:"table_name"`
	BatchSize int    `yaml:"batch_size"`
}

// RetrievalConfig configures query-time retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// CorpusConfig locates the scraped corpus file.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// ScraperConfig configures the corpus scraper.
type ScraperConfig struct {
	URLs         []string `yaml:"urls"`
	RateLimit    float64  `yaml:"rate_limit"`
	MaxRetries   int      `yaml:"max_retries"`
	TimeoutSecs  int      `yaml:"timeout_secs"`
	ChunkSize    int      `yaml:"chunk_size"`
	ChunkOverlap int      `yaml:"chunk_overlap"`
}

// EvalConfig configures the offline evaluation harness.
type EvalConfig struct {
	QuestionsFile string `yaml:"questions_file"`
	OutputFile    string `yaml:"output_file"`
	MaxRetries    int    `yaml:"max_retries"`
}

// UIConfig configures the chat front ends.
type UIConfig struct {
	ShowSources bool `yaml:"show_sources"`
}

// ServerConfig configures the WebSocket chat server.
type ServerConfig struct {
	Port string `yaml:"port"`
}

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Eval      EvalConfig      `yaml:"eval"`
	UI        UIConfig        `yaml:"ui"`
	Server    ServerConfig    `yaml:"server"`
}

// LoadConfig reads the config at path, falling back to default locations
// and then to built-in defaults when no file exists. Environment
// variables override file values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/diabot/config.yaml"),
			"/etc/diabot/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "llama3.2"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Embedder.Model == "" {
		config.Embedder.Model = "nomic-embed-text:latest"
	}
	if config.Embedder.VectorDim == 0 {
		config.Embedder.VectorDim = 768
	}
	if config.Embedder.BaseURL == "" {
		config.Embedder.BaseURL = config.LLM.BaseURL
	}

	if config.Index.Backend == "" {
		config.Index.Backend = "sqlite"
	}
	if config.Index.Dir == "" {
		config.Index.Dir = "db_storage_local"
	}
	if config.Index.TableName == "" {
		config.Index.TableName = "documents"
	}
	if config.Index.BatchSize == 0 {
		config.Index.BatchSize = 32
	}

	if config.Retrieval.TopK == 0 {
		config.Retrieval.TopK = 4
	}

	if config.Corpus.Path == "" {
		config.Corpus.Path = filepath.Join("data", "scraped_data.json")
	}

	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 0.5
	}
	if config.Scraper.MaxRetries == 0 {
		config.Scraper.MaxRetries = 3
	}
	if config.Scraper.TimeoutSecs == 0 {
		config.Scraper.TimeoutSecs = 30
	}
	if config.Scraper.ChunkSize == 0 {
		config.Scraper.ChunkSize = 1024
	}
	if config.Scraper.ChunkOverlap == 0 {
		config.Scraper.ChunkOverlap = 200
	}

	if config.Eval.OutputFile == "" {
		config.Eval.OutputFile = "resultats_evaluation.csv"
	}
	if config.Eval.MaxRetries == 0 {
		config.Eval.MaxRetries = 1
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
		config.Embedder.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Index.URL = dbURL
	}
}
