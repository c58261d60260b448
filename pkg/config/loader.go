package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("configuration file is empty")
	ErrNestedRouteFiles = errors.New("route_files cannot be nested")
	ErrNoGlobMatch      = errors.New("route file pattern matched nothing")
)

// Load reads the configuration document at path and expands any
// route_files references. The format is detected by extension: .yaml and
// .yml parse as YAML, anything else as JSON. Any failure is fatal to the
// caller; mocklet never serves a partially loaded rule set.
func Load(path string) (*Document, error) {
	doc, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if len(doc.RouteFiles) > 0 {
		extra, err := expandRouteFiles(doc.RouteFiles, filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		doc.Routes = append(doc.Routes, extra...)
		doc.RouteFiles = nil
	}

	return doc, nil
}

// loadFile reads and parses a single configuration file.
func loadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return ParseYAML(data)
	}
	return ParseJSON(data)
}

// ParseYAML parses a configuration document from YAML bytes.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &doc, nil
}

// ParseJSON parses a configuration document from JSON bytes.
func ParseJSON(data []byte) (*Document, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return &doc, nil
}

// expandRouteFiles resolves route_files patterns against baseDir and
// returns the routes of all matched files. Patterns use doublestar glob
// syntax; plain paths work unchanged. Matches within a pattern load in
// lexical order so route ordering stays reproducible.
func expandRouteFiles(patterns []string, baseDir string) ([]RouteConfig, error) {
	var routes []RouteConfig

	for _, pattern := range patterns {
		resolved := pattern
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(baseDir, resolved)
		}

		matches, err := doublestar.FilepathGlob(resolved)
		if err != nil {
			return nil, fmt.Errorf("route_files pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoGlobMatch, pattern)
		}
		sort.Strings(matches)

		for _, match := range matches {
			doc, err := loadFile(match)
			if err != nil {
				return nil, fmt.Errorf("route file %s: %w", match, err)
			}
			if len(doc.RouteFiles) > 0 {
				return nil, fmt.Errorf("%w: %s", ErrNestedRouteFiles, match)
			}
			routes = append(routes, doc.Routes...)
		}
	}

	return routes, nil
}
