package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// routeFile is the mapping form of an included route file.
type routeFile struct {
	APIs []Route `yaml:"apis"`
}

// loadIncludes appends the routes of every file matched by c.Include, in
// pattern order and sorted path order within a pattern. A file is only read
// once even when several patterns match it.
func (c *ServerConfig) loadIncludes() error {
	seen := make(map[string]bool)
	for _, pattern := range c.Include {
		matches, err := expandGlob(c.ResolvePath(pattern))
		if err != nil {
			return fmt.Errorf("expanding include %q: %w", pattern, err)
		}
		slices.Sort(matches)

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			routes, err := loadRouteFile(path)
			if err != nil {
				return err
			}
			for i := range routes {
				c.anchorFile(&routes[i].Response, filepath.Dir(path))
			}
			c.APIs = append(c.APIs, routes...)
		}
	}
	return nil
}

// anchorFile rewrites the relative payload path of a route read from an
// included file in dir, so that ResolvePath finds the same file.
func (c *ServerConfig) anchorFile(resp *ResponseTemplate, dir string) {
	if !resp.FileBacked() || resp.Data == "" || filepath.IsAbs(resp.Data) {
		return
	}
	p := filepath.Join(dir, resp.Data)
	if c.BaseDir != "" {
		if rel, err := filepath.Rel(c.BaseDir, p); err == nil {
			p = rel
		}
	}
	resp.Data = p
}

// expandGlob returns the regular files matching pattern. ** matches any
// number of directories.
func expandGlob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// loadRouteFile reads one included file. It may hold a bare list of routes or
// a mapping with an apis key; JSON files are parsed by the YAML decoder.
func loadRouteFile(path string) ([]Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading include %s: %w", path, err)
	}

	var list []Route
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc routeFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w in include %s: %v", ErrInvalidYAML, filepath.Base(path), err)
	}
	return doc.APIs, nil
}
