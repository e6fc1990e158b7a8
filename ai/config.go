// Copyright 2025 The Jiggasa Authors
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


package ai

import (
	"errors"
	"strings"
)

// Config describes where text embeddings come from: any OpenAI-compatible
// API endpoint plus a model name. Ollama, LocalAI, vLLM and the hosted
// OpenAI API all work.
type Config struct {
	// EmbeddingHost is the base URL of the embedding API,
	// e.g. "http://localhost:11434/v1".
	EmbeddingHost string

	// EmbeddingModel names the embedding model, e.g. "embeddinggemma" or
	// "paraphrase-multilingual-minilm" for Bengali-heavy corpora.
	EmbeddingModel string
}

// ConfigOption mutates a Config during NewConfig.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding API base URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model name.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// DefaultConfig targets a local Ollama instance.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
	}
}

// NewConfig builds a Config from the defaults plus the given options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize puts the host into canonical form, appending the /v1 path
// segment OpenAI-compatible servers expect when it is missing.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
}

// Validate normalizes the config and reports whether it is complete.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
