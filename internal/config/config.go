package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Owner struct {
		ID string `yaml:"id" json:"id"`
	} `yaml:"owner" json:"owner"`

	Providers struct {
		Scraper struct {
			BaseURL string `yaml:"base_url" json:"base_url"`
		} `yaml:"scraper" json:"scraper"`
		Contacts struct {
			BaseURL string `yaml:"base_url" json:"base_url"`
			Limit   int    `yaml:"limit" json:"limit"`
		} `yaml:"contacts" json:"contacts"`
		AllowSynthetic bool `yaml:"allow_synthetic" json:"allow_synthetic"`
	} `yaml:"providers" json:"providers"`

	Search struct {
		Location      string `yaml:"location" json:"location"`
		RecencyWindow string `yaml:"recency_window" json:"recency_window"`
	} `yaml:"search" json:"search"`

	Extraction struct {
		Departments []string `yaml:"departments" json:"departments"`
		MaxParallel int      `yaml:"max_parallel" json:"max_parallel"`
	} `yaml:"extraction" json:"extraction"`

	Domains struct {
		LiveLookup bool `yaml:"live_lookup" json:"live_lookup"`
	} `yaml:"domains" json:"domains"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
