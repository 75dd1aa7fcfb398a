package generator

import (
	"path"
	"strings"

	"github.com/goliatone/go-refdocs/corpus"
)

// outputPathFor maps a docs-relative Markdown path onto its rendered
// location: index.md files collapse onto their directory index while every
// other page gets a pretty-URL directory of its own.
//
//	index.md            => index.html
//	builtins/index.md   => builtins/index.html
//	about.md            => about/index.html
//	builtins/list.md    => builtins/list/index.html
func outputPathFor(page *corpus.Page) string {
	if page == nil {
		return ""
	}
	clean := strings.Trim(path.Clean(strings.TrimSpace(page.Path)), "/")
	if clean == "" || clean == "." {
		return "index.html"
	}
	dir, file := path.Split(clean)
	dir = strings.Trim(dir, "/")
	if file == "index.md" {
		return path.Join(dir, "index.html")
	}
	stem := strings.TrimSuffix(file, ".md")
	return path.Join(dir, stem, "index.html")
}

// routeFor derives the site-relative URL for a page. Routes always carry a
// trailing slash; the root index maps to "/".
func routeFor(page *corpus.Page) string {
	output := outputPathFor(page)
	if output == "" {
		return ""
	}
	dir := path.Dir(output)
	if dir == "." || dir == "" {
		return "/"
	}
	return "/" + dir + "/"
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}
