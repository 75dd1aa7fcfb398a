package generator

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-refdocs/corpus"
	urlkit "github.com/goliatone/go-urlkit"
)

const routeGroupSite = "site"

// Route names registered under the site group.
const (
	routeHome     = "home"
	routeSection  = "section"
	routePage     = "page"
	routeRootPage = "root_page"
)

// RoutesConfig overrides how page URLs resolve. Table replaces the built-in
// route table entirely; hosts that provide one must register the named
// routes under Group. Zero values keep the default pretty-URL layout.
type RoutesConfig struct {
	Table   *urlkit.Config
	Group   string
	Home    string
	Section string
	Page    string
}

type routeNames struct {
	group   string
	home    string
	section string
	page    string
}

func (r RoutesConfig) names() routeNames {
	names := routeNames{
		group:   routeGroupSite,
		home:    routeHome,
		section: routeSection,
		page:    routePage,
	}
	if v := strings.TrimSpace(r.Group); v != "" {
		names.group = v
	}
	if v := strings.TrimSpace(r.Home); v != "" {
		names.home = v
	}
	if v := strings.TrimSpace(r.Section); v != "" {
		names.section = v
	}
	if v := strings.TrimSpace(r.Page); v != "" {
		names.page = v
	}
	return names
}

// newRouteManager builds the go-urlkit manager the generator resolves
// absolute URLs through. A configured table wins; otherwise the default
// pretty-URL layout is registered. BaseURL may be empty for relative-only
// sites.
func newRouteManager(baseURL string, routes RoutesConfig) *urlkit.RouteManager {
	if routes.Table != nil {
		return urlkit.NewRouteManager(routes.Table)
	}
	names := routes.names()
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    names.group,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					names.home:    "/",
					names.section: "/:section",
					names.page:    "/:section/:slug",
					routeRootPage: "/:slug",
				},
			},
		},
	})
}

// siteURLs resolves page and section URLs against the route manager.
type siteURLs struct {
	group *urlkit.Group
	names routeNames
}

func newSiteURLs(manager *urlkit.RouteManager, routes RoutesConfig) (*siteURLs, error) {
	if manager == nil {
		return nil, fmt.Errorf("generator: route manager required")
	}
	names := routes.names()
	group, err := lookupRouteGroup(manager, names.group)
	if err != nil {
		return nil, err
	}
	return &siteURLs{group: group, names: names}, nil
}

// Home returns the absolute URL of the site root.
func (u *siteURLs) Home() (string, error) {
	return u.build(u.names.home, nil)
}

// Section returns the absolute URL of a section index.
func (u *siteURLs) Section(section string) (string, error) {
	return u.build(u.names.section, map[string]any{"section": section})
}

// Page returns the absolute URL for a corpus page.
func (u *siteURLs) Page(page *corpus.Page) (string, error) {
	if page == nil {
		return "", fmt.Errorf("generator: page required")
	}
	switch {
	case page.IsIndex() && page.Section == corpus.SectionRoot:
		return u.Home()
	case page.IsIndex():
		return u.Section(string(page.Section))
	case page.Section == corpus.SectionRoot:
		return u.rootPage(page.Slug)
	default:
		return u.build(u.names.page, map[string]any{
			"section": string(page.Section),
			"slug":    page.Slug,
		})
	}
}

// rootPage resolves section-less pages. Custom route tables rarely register
// a dedicated root route, so missing ones nest the slug under the home URL.
func (u *siteURLs) rootPage(slug string) (string, error) {
	url, err := u.build(routeRootPage, map[string]any{"slug": slug})
	if err == nil {
		return url, nil
	}
	home, homeErr := u.Home()
	if homeErr != nil {
		return "", err
	}
	return home + slug + "/", nil
}

// build resolves a route and normalises it to the generator's canonical
// trailing-slash form, matching the pretty-URL output layout.
func (u *siteURLs) build(route string, params map[string]any) (string, error) {
	builder, err := safeRouteBuilder(u.group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("generator: build %s url: %w", route, err)
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url, nil
}

func lookupRouteGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeRouteBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("generator: route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("generator: route %q not registered", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

// NavLink is one entry of the rendered site header.
type NavLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// buildNav maps the site config nav sections onto links. Unknown sections
// are kept; the config decides what the header shows.
func buildNav(urls *siteURLs, sections []string) ([]NavLink, error) {
	if urls == nil {
		return nil, nil
	}
	links := make([]NavLink, 0, len(sections))
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		url, err := urls.Section(section)
		if err != nil {
			return nil, err
		}
		links = append(links, NavLink{Title: navTitle(section), URL: url})
	}
	return links, nil
}

// navTitle upper-cases the first rune of a section name.
func navTitle(section string) string {
	if section == "" {
		return ""
	}
	return strings.ToUpper(section[:1]) + section[1:]
}
