package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus any problems found.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, strings.ToLower(x))
		}
		return ys
	}

	out.Owner.ID = strings.TrimSpace(out.Owner.ID)
	out.Search.Location = strings.TrimSpace(out.Search.Location)
	out.Search.RecencyWindow = strings.TrimSpace(out.Search.RecencyWindow)
	out.Extraction.Departments = trimList(out.Extraction.Departments)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if out.Owner.ID == "" {
		res.addErr("owner.id is required")
	}

	checkURL := func(name, raw string) {
		if strings.TrimSpace(raw) == "" {
			return
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			res.addErr("%s must be an http(s) URL", name)
		}
	}
	checkURL("providers.scraper.base_url", out.Providers.Scraper.BaseURL)
	checkURL("providers.contacts.base_url", out.Providers.Contacts.BaseURL)

	if out.Providers.Scraper.BaseURL == "" && !out.Providers.AllowSynthetic {
		res.addWarn("providers.scraper.base_url is empty and allow_synthetic is off; discovery will only ever hit the cache.")
	}
	if out.Providers.Contacts.Limit < 0 {
		res.addErr("providers.contacts.limit must be >= 0")
	}
	if out.Providers.Contacts.Limit > 25 {
		res.addWarn("providers.contacts.limit is high (%d); sub-queries already fan out per seniority and department.", out.Providers.Contacts.Limit)
	}

	if len(out.Extraction.Departments) == 0 {
		res.addWarn("extraction.departments is empty; defaulting to it and management at runtime.")
	}
	if out.Extraction.MaxParallel < 0 {
		res.addErr("extraction.max_parallel must be >= 0")
	}

	return out, res
}
