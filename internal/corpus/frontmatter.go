package corpus

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-refdocs/corpus"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. Pages without a frontmatter block are valid; the
// body then equals the raw source and the metadata is zero.
func ParseFrontMatter(source []byte) (corpus.PageMeta, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return corpus.PageMeta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToMeta(meta), body, nil
}

// BuildPage assembles a corpus.Page from the supplied relative path, raw
// content, and modification time. The checksum is left for the loader so
// callers constructing pages in memory do not pay for hashing.
func BuildPage(relPath string, source []byte, modified time.Time) (*corpus.Page, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("corpus page %s: %w", relPath, err)
	}

	return &corpus.Page{
		Path:    relPath,
		Section: corpus.SectionForPath(relPath),
		Slug:    pageSlug(relPath),
		Meta:    meta,
		Body:    body,
		Raw:     source,
		Size:    int64(len(source)),
		ModTime: modified,
	}, nil
}

func pageSlug(relPath string) string {
	base := path.Base(relPath)
	return strings.TrimSuffix(base, path.Ext(base))
}

type frontMatterEnvelope struct {
	Title    string         `yaml:"title"`
	Module   string         `yaml:"module"`
	Category string         `yaml:"category"`
	Summary  string         `yaml:"summary"`
	Reviewed bool           `yaml:"reviewed"`
	Tags     []string       `yaml:"tags"`
	Custom   map[string]any `yaml:",inline"`
}

func envelopeToMeta(env frontMatterEnvelope) corpus.PageMeta {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+6)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Module != "" {
		raw["module"] = env.Module
	}
	if env.Category != "" {
		raw["category"] = env.Category
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	raw["reviewed"] = env.Reviewed

	return corpus.PageMeta{
		Title:    env.Title,
		Module:   env.Module,
		Category: env.Category,
		Summary:  env.Summary,
		Reviewed: env.Reviewed,
		Tags:     append([]string(nil), env.Tags...),
		Custom:   cloneMap(env.Custom),
		Raw:      raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
