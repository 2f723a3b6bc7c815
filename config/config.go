// Copyright 2026 BharatRAG Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads and persists the application configuration in
// YAML, falling back to sensible defaults when no file exists.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StorageConfig configures the BadgerDB store.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// OpenAIConfig holds connection details for an OpenAI-compatible server.
type OpenAIConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	EmbeddingModel string `yaml:"embedding_model"`
	GeneratorModel string `yaml:"generator_model"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"` // "hash" or "openai"
	Dim    int           `yaml:"dim"`
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// GeneratorConfig selects and configures the answer generator.
type GeneratorConfig struct {
	Type   string        `yaml:"type"` // "extractive" or "openai"
	OpenAI *OpenAIConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type    string `yaml:"type"` // "fixed" or "sentence"
	Size    int    `yaml:"size"`
	Overlap int    `yaml:"overlap"`
}

// IngestConfig configures the ingestion pipeline.
type IngestConfig struct {
	PoolSize int `yaml:"pool_size"`
}

// RetrieveConfig configures retrieval and answer composition.
type RetrieveConfig struct {
	TopK          int `yaml:"top_k"`
	ContextTokens int `yaml:"context_tokens"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Storage   StorageConfig   `yaml:"storage"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./bharatrag.yaml first, then
// ~/.config/bharatrag/config.yaml. If neither exists, it writes defaults
// to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "bharatrag.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "bharatrag", "config.yaml"), nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bharatrag-data"
	}
	return filepath.Join(home, ".local", "share", "bharatrag")
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Storage:   StorageConfig{Path: defaultDataPath()},
		Embedder:  EmbedderConfig{Type: "hash", Dim: 384},
		Generator: GeneratorConfig{Type: "extractive"},
		Chunker:   ChunkerConfig{Type: "fixed", Size: 800, Overlap: 120},
		Ingest:    IngestConfig{PoolSize: 0}, // 0 means runtime default
		Retrieve:  RetrieveConfig{TopK: 5, ContextTokens: 3000},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultDataPath()
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "hash"
	}
	if cfg.Embedder.Dim == 0 {
		cfg.Embedder.Dim = 384
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		applyOpenAIDefaults(cfg.Embedder.OpenAI)
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "extractive"
	}
	if cfg.Generator.Type == "openai" && cfg.Generator.OpenAI != nil {
		applyOpenAIDefaults(cfg.Generator.OpenAI)
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "fixed"
	}
	if cfg.Chunker.Size == 0 {
		cfg.Chunker.Size = 800
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 120
	}
	if cfg.Retrieve.TopK == 0 {
		cfg.Retrieve.TopK = 5
	}
	if cfg.Retrieve.ContextTokens == 0 {
		cfg.Retrieve.ContextTokens = 3000
	}
}

func applyOpenAIDefaults(c *OpenAIConfig) {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434/v1/"
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "embeddinggemma"
	}
	if c.GeneratorModel == "" {
		c.GeneratorModel = "qwen2.5:3b"
	}
}
