package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-refdocs/corpus"
)

// DataValidator checks a decoded data document against its JSON Schema.
// Implementations return one issue per violation; nil means the document is
// valid.
type DataValidator interface {
	Validate(name string, doc any) []corpus.ValidationIssue
}

// DataFiles enumerates the JSON data files validation expects under the data
// directory.
var DataFiles = []string{"builtins.json", "stdlib.json"}

// ValidateConfig locates the repository artifacts that structure validation
// inspects alongside the docs tree.
type ValidateConfig struct {
	SiteConfigPath string
	DataDir        string
}

type siteConfigDoc struct {
	SiteName string         `yaml:"site_name"`
	Theme    map[string]any `yaml:"theme"`
}

// ValidateStructure checks the loaded corpus against the required layout:
// every required page present, the site config parseable with a site name
// and theme section, and each data file a non-empty JSON object that passes
// its schema. The returned slice is empty when the corpus is valid.
func ValidateStructure(pages []*corpus.Page, cfg ValidateConfig, validator DataValidator) []corpus.ValidationIssue {
	var issues []corpus.ValidationIssue

	present := make(map[string]struct{}, len(pages))
	for _, page := range pages {
		present[page.Path] = struct{}{}
	}

	for _, required := range corpus.RequiredPages {
		if _, ok := present[required]; !ok {
			issues = append(issues, corpus.ValidationIssue{
				Code:   corpus.IssueMissingPage,
				Path:   required,
				Detail: "required page missing",
			})
		}
	}

	issues = append(issues, validateSiteConfig(cfg.SiteConfigPath)...)
	issues = append(issues, validateDataFiles(cfg.DataDir, validator)...)

	return issues
}

func validateSiteConfig(path string) []corpus.ValidationIssue {
	if strings.TrimSpace(path) == "" {
		return []corpus.ValidationIssue{{
			Code:   corpus.IssueSiteConfigMissing,
			Path:   path,
			Detail: "site config path not configured",
		}}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []corpus.ValidationIssue{{
			Code:   corpus.IssueSiteConfigMissing,
			Path:   path,
			Detail: fmt.Sprintf("read site config: %v", err),
		}}
	}

	var doc siteConfigDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []corpus.ValidationIssue{{
			Code:   corpus.IssueSiteConfigInvalid,
			Path:   path,
			Detail: fmt.Sprintf("parse site config: %v", err),
		}}
	}

	var issues []corpus.ValidationIssue
	if strings.TrimSpace(doc.SiteName) == "" {
		issues = append(issues, corpus.ValidationIssue{
			Code:   corpus.IssueSiteConfigInvalid,
			Path:   path,
			Detail: "site_name is required",
		})
	}
	if len(doc.Theme) == 0 {
		issues = append(issues, corpus.ValidationIssue{
			Code:   corpus.IssueSiteConfigInvalid,
			Path:   path,
			Detail: "theme section is required",
		})
	}
	return issues
}

func validateDataFiles(dataDir string, validator DataValidator) []corpus.ValidationIssue {
	var issues []corpus.ValidationIssue

	for _, name := range DataFiles {
		path := filepath.Join(dataDir, name)

		data, err := os.ReadFile(path)
		if err != nil {
			issues = append(issues, corpus.ValidationIssue{
				Code:   corpus.IssueDataFileMissing,
				Path:   name,
				Detail: fmt.Sprintf("read data file: %v", err),
			})
			continue
		}

		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			issues = append(issues, corpus.ValidationIssue{
				Code:   corpus.IssueDataFileInvalid,
				Path:   name,
				Detail: fmt.Sprintf("parse data file: %v", err),
			})
			continue
		}
		if len(doc) == 0 {
			issues = append(issues, corpus.ValidationIssue{
				Code:   corpus.IssueDataFileInvalid,
				Path:   name,
				Detail: "data file is an empty object",
			})
			continue
		}

		if validator != nil {
			issues = append(issues, validator.Validate(name, doc)...)
		}
	}

	return issues
}
