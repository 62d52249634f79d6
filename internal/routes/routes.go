// Package routes extracts HTTP route declarations of the form
// app.<method>("<path>", ...) from the files in a directory and renders
// them as a Markdown report.
package routes

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// Route is one declaration found in a source file.
type Route struct {
	Method string
	Path   string
	File   string
	Line   int
}

// callRe matches app.get('/x', app.post("/x", and app.put(`/x`.
var callRe = regexp.MustCompile("app\\.([A-Za-z]+)\\(\\s*(?:'([^']*)'|\"([^\"]*)\"|`([^`]*)`)")

// Scan reads every regular file directly inside dir and returns the routes
// declared in them. Hidden files and subdirectories are skipped.
func Scan(dir string) ([]Route, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var routes []Route
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Clean(filepath.Join(dir, name))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		routes = append(routes, Extract(name, string(data))...)
	}
	return routes, nil
}

// Extract returns the routes declared in src, attributing them to file.
func Extract(file, src string) []Route {
	var routes []Route
	for i, line := range strings.Split(src, "\n") {
		for _, m := range callRe.FindAllStringSubmatch(line, -1) {
			routes = append(routes, Route{
				Method: strings.ToUpper(m[1]),
				Path:   m[2] + m[3] + m[4], // only one alternative matched
				File:   file,
				Line:   i + 1,
			})
		}
	}
	return routes
}

// Group is the set of routes whose path starts with the same letter.
type Group struct {
	Key    string
	Routes []Route
}

// Groups buckets routes by the first letter of their path after the
// leading slash. Paths that do not start with a letter go under "#".
// Groups are sorted by key and routes by path, then method.
func Groups(routes []Route) []Group {
	byKey := make(map[string][]Route)
	for _, r := range routes {
		k := groupKey(r.Path)
		byKey[k] = append(byKey[k], r)
	}

	groups := make([]Group, 0, len(byKey))
	for k, rs := range byKey {
		slices.SortStableFunc(rs, func(a, b Route) int {
			return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Method, b.Method))
		})
		groups = append(groups, Group{Key: k, Routes: rs})
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}

func groupKey(path string) string {
	p := strings.TrimLeft(path, "/")
	if p == "" {
		return "#"
	}
	r := []rune(p)[0]
	if !unicode.IsLetter(r) {
		return "#"
	}
	return string(unicode.ToUpper(r))
}

// Render writes the Markdown report for routes.
func Render(w io.Writer, routes []Route) error {
	if _, err := fmt.Fprintf(w, "# Routes\n\n%d route(s) found.\n", len(routes)); err != nil {
		return err
	}
	for _, g := range Groups(routes) {
		if _, err := fmt.Fprintf(w, "\n## %s\n\n", g.Key); err != nil {
			return err
		}
		for _, r := range g.Routes {
			if _, err := fmt.Fprintf(w, "- `%s` `%s` (%s:%d)\n", r.Method, r.Path, r.File, r.Line); err != nil {
				return err
			}
		}
	}
	return nil
}
