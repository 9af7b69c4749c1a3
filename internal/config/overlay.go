package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type DomainsFile struct {
	KnownDomains map[string]string `yaml:"known_domains"`
}

// LoadDomainOverrides reads the optional domains.yml next to the user
// config. A missing file is not an error; startup proceeds without
// extra company-to-domain overrides.
func LoadDomainOverrides(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}

	var df DomainsFile
	if err := yaml.Unmarshal(b, &df); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(df.KnownDomains))
	for company, dom := range df.KnownDomains {
		company = strings.ToLower(strings.TrimSpace(company))
		dom = strings.ToLower(strings.TrimSpace(dom))
		if company == "" || dom == "" {
			continue
		}
		out[company] = dom
	}
	return out, nil
}
