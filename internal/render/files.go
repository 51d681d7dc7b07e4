/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

package render

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// getFiles implements the `get_files` template helper: it reads
// every file under <templatesRoot>/<subpath>, optionally skipping names
// listed in ctx[excludeKey], runs each file's contents back through the
// template engine against the current render context, and emits one
// `<name>: |-` YAML block-literal entry per surviving file. The content
// block is indented two columns deeper than the key line.
func (r *Renderer) getFiles(ctx map[string]any) func(subpath string, indent int, excludeKey ...string) (string, error) {
	return func(subpath string, indent int, excludeKey ...string) (string, error) {
		if indent < 0 {
			return "", fmt.Errorf("get_files: indent must be a non-negative integer, got %d", indent)
		}
		dir := filepath.Join(r.templatesRoot, subpath)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("get_files: directory %q: %w", dir, err)
		}

		excluded := map[string]bool{}
		if len(excludeKey) > 0 && excludeKey[0] != "" {
			if raw, ok := ctx[excludeKey[0]]; ok {
				for _, name := range toStringSlice(raw) {
					excluded[name] = true
				}
			}
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || excluded[e.Name()] {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		var buf bytes.Buffer
		keyPad := strings.Repeat(" ", indent)
		contentPad := strings.Repeat(" ", indent+2)
		for _, name := range names {
			raw, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return "", fmt.Errorf("get_files: reading %q: %w", name, err)
			}
			expanded, err := r.expandIncluded(name, string(raw), ctx)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, "%s%s: |-\n", keyPad, name)
			sc := bufio.NewScanner(strings.NewReader(expanded))
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				fmt.Fprintf(&buf, "%s%s\n", contentPad, sc.Text())
			}
		}
		return buf.String(), nil
	}
}

// expandIncluded runs a file-inclusion candidate's raw contents back
// through strict-mode template expansion against the current render
// context, so included files can reference the same variables the parent
// template sees.
func (r *Renderer) expandIncluded(name, raw string, ctx map[string]any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Funcs(sprig.TxtFuncMap()).Parse(raw)
	if err != nil {
		return "", fmt.Errorf("get_files: parsing %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("get_files: expanding %q: %w", name, err)
	}
	return buf.String(), nil
}

func toStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
