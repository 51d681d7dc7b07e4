/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

package reconcile

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/novakov-alexey-zz/kubefi/internal/kube"
	"github.com/novakov-alexey-zz/kubefi/internal/render"
)

// Reconciler holds the shared, read-only collaborators every per-kind
// reconciler calls: the kube client adapter and the manifest renderer.
type Reconciler struct {
	Kube   *kube.Client
	Render *render.Renderer
	Tracer trace.Tracer
}

func New(k *kube.Client, r *render.Renderer, tracer trace.Tracer) *Reconciler {
	return &Reconciler{Kube: k, Render: r, Tracer: tracer}
}
