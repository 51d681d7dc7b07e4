/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

// Package render implements the manifest renderer: a compiled
// template registry keyed by logical name, rendered in strict mode against a
// context assembled by deep-merging an operator-level base configuration
// with per-kind additions.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
)

// ServiceVariant selects which of the four Service manifests render_service
// produces.
type ServiceVariant int

const (
	ServiceApp ServiceVariant = iota
	ServiceAppHeadless
	ServiceZk
	ServiceZkHeadless
)

func (v ServiceVariant) templateName() string {
	switch v {
	case ServiceApp:
		return "app-service"
	case ServiceAppHeadless:
		return "app-headless-service"
	case ServiceZk:
		return "zk-service"
	case ServiceZkHeadless:
		return "zk-headless-service"
	default:
		return ""
	}
}

// Renderer holds the compiled template registry and the base configuration
// tree.
type Renderer struct {
	templatesRoot string
	tmpl          *template.Template
	base          map[string]any
}

// NewRenderer parses every `*.yaml` template under root into a single
// registry (logical name = file name without the `.yaml` suffix), in strict
// mode (Option("missingkey=error")), with sprig's helper namespace layered
// on top of stdlib text/template.
func NewRenderer(root string, base map[string]any) (*Renderer, error) {
	r := &Renderer{templatesRoot: root, base: base}
	if r.base == nil {
		r.base = map[string]any{}
	}

	root0 := template.New("root").Option("missingkey=error").Funcs(sprig.TxtFuncMap())
	// get_files is bound per-render in render() against that call's context;
	// this placeholder only satisfies the parser's "is this a known
	// function name" check so templates invoking get_files parse here.
	root0 = root0.Funcs(template.FuncMap{
		"get_files": func(string, int, ...string) (string, error) { return "", nil },
	})
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("render: reading templates root %q: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".yaml")
		raw, err := os.ReadFile(filepath.Join(root, e.Name()))
		if err != nil {
			return nil, newTemplateError(name, err)
		}
		if _, err := root0.New(name).Parse(string(raw)); err != nil {
			return nil, newTemplateError(name, err)
		}
	}
	r.tmpl = root0
	return r, nil
}

// render looks up name in the registry and executes it against ctx, with
// get_files bound for this call's context. A template whose body evaluates
// to the empty string (a top-level conditional resolving false) is reported
// as disabled: the caller receives nil instead of YAML.
func (r *Renderer) render(name string, ctx map[string]any) (*string, error) {
	t := r.tmpl.Lookup(name)
	if t == nil {
		return nil, newTemplateError(name, fmt.Errorf("no such template"))
	}
	clone, err := t.Clone()
	if err != nil {
		return nil, newTemplateError(name, err)
	}
	clone = clone.Funcs(template.FuncMap{
		"get_files": r.getFiles(ctx),
	})

	var buf strings.Builder
	if err := clone.ExecuteTemplate(&buf, name, ctx); err != nil {
		return nil, newTemplateError(name, err)
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return nil, nil
	}
	return &out, nil
}

// RenderAppSet renders the app (NiFi) StatefulSet for cr_name.
func (r *Renderer) RenderAppSet(crName string, spec appsv1.AppDeploymentSpec) (*string, error) {
	add := map[string]any{
		"name":              crName,
		"image":             derefOr(spec.Image, nil),
		"logging-configmap": loggingConfigMapName(crName, spec.LoggingConfigMap),
		"replicas":          strconv.Itoa(int(spec.AppReplicas)),
	}
	if spec.StorageClass != nil {
		add["storageClass"] = *spec.StorageClass
	}
	if spec.Resources != nil {
		add["nifiResources"] = resourcesContext(spec.Resources)
	}
	ctx := r.layer(add)
	return r.render("app-statefulset", ctx)
}

// RenderZkSet renders the ZooKeeper StatefulSet for cr_name.
func (r *Renderer) RenderZkSet(crName string, replicas uint8, zkImage, storageClass *string) (*string, error) {
	add := map[string]any{
		"name":     crName,
		"image":    derefOr(zkImage, nil),
		"replicas": strconv.Itoa(int(replicas)),
	}
	if storageClass != nil {
		add["storageClass"] = *storageClass
	}
	ctx := r.layer(add)
	return r.render("zk-statefulset", ctx)
}

// RenderAppConfig renders the app ConfigMap for cr_name.
func (r *Renderer) RenderAppConfig(crName, namespace string, spec appsv1.AppDeploymentSpec) (*string, error) {
	add := map[string]any{
		"name": crName,
		"ns":   namespace,
	}
	n := int(spec.AppReplicas)
	ids := make([]int, n)
	for i := 0; i < n; i++ {
		ids[i] = i
	}
	add["nifiReplicas"] = ids

	if spec.Ldap != nil {
		add["auth"] = map[string]any{
			"ldap": map[string]any{
				"host":    spec.Ldap.Host,
				"enabled": true,
			},
		}
	}
	if spec.Ingress != nil {
		add["ingress"] = ingressContext(spec.Ingress)
	}

	ctx := r.layer(add)
	return r.render("app-configmap", ctx)
}

// RenderZkConfig renders the ZooKeeper ConfigMap for cr_name.
func (r *Renderer) RenderZkConfig(crName string) (*string, error) {
	ctx := r.layer(map[string]any{"name": crName})
	return r.render("zk-configmap", ctx)
}

// RenderService renders one of the four Service manifests for cr_name.
func (r *Renderer) RenderService(crName string, variant ServiceVariant) (*string, error) {
	ctx := r.layer(map[string]any{"name": crName})
	return r.render(variant.templateName(), ctx)
}

// RenderIngress renders the Ingress rule for cr_name. A nil ingressCfg
// leaves the `ingress` subtree unset, so the template's top-level
// conditional resolves false and render reports the manifest as disabled.
func (r *Renderer) RenderIngress(crName string, ingressCfg *appsv1.IngressSpec) (*string, error) {
	add := map[string]any{"name": crName}
	if ingressCfg != nil {
		add["ingress"] = ingressContext(ingressCfg)
	}
	ctx := r.layer(add)
	return r.render("ingress", ctx)
}

func ingressContext(cfg *appsv1.IngressSpec) map[string]any {
	return map[string]any{
		"enabled":      true,
		"host":         cfg.Host,
		"ingressClass": cfg.IngressClass,
	}
}

func loggingConfigMapName(crName string, configured *string) string {
	if configured != nil && *configured != "" {
		return *configured
	}
	return crName + "-config"
}

func resourcesContext(r *appsv1.Resources) map[string]any {
	out := map[string]any{}
	if r.JvmHeapSize != nil {
		out["jvmHeapSize"] = *r.JvmHeapSize
	}
	if r.Requests != nil {
		out["requests"] = podResourcesContext(r.Requests)
	}
	if r.Limits != nil {
		out["limits"] = podResourcesContext(r.Limits)
	}
	return out
}

func podResourcesContext(p *appsv1.PodResources) map[string]any {
	out := map[string]any{}
	if p.CPU != nil {
		out["cpu"] = *p.CPU
	}
	if p.Memory != nil {
		out["memory"] = *p.Memory
	}
	return out
}

func derefOr(s *string, fallback any) any {
	if s == nil {
		return fallback
	}
	return *s
}
