/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

package dispatch

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	"github.com/novakov-alexey-zz/kubefi/internal/kube"
	"github.com/novakov-alexey-zz/kubefi/internal/orchestrator"
)

// Dispatcher reads one event at a time from an EventSource and drives the
// Orchestrator.
type Dispatcher struct {
	Source       EventSource
	Orchestrator *orchestrator.Orchestrator
	Kube         *kube.Client
	Log          logr.Logger
}

func New(src EventSource, o *orchestrator.Orchestrator, k *kube.Client, log logr.Logger) *Dispatcher {
	return &Dispatcher{Source: src, Orchestrator: o, Kube: k, Log: log}
}

// Run processes events until the source returns an error. A closing
// watcher stream is unrecoverable; the caller is expected to exit.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		event, err := d.Source.Next(ctx)
		if err != nil {
			return fmt.Errorf("event stream closed: %w", err)
		}
		d.handle(ctx, event)
	}
}

func (d *Dispatcher) handle(ctx context.Context, event Event) {
	switch event.Kind {
	case Applied:
		if event.CR == nil {
			d.Log.Error(nil, "applied event missing custom resource")
			return
		}
		if event.CR.Name == "" || event.CR.Namespace == "" {
			prop := "name"
			if event.CR.Name != "" {
				prop = "namespace"
			}
			d.Log.Error(&MissingPropertyError{Property: prop, Kind: "AppDeployment"}, "skipping applied event")
			return
		}
		status := d.Orchestrator.Applied(ctx, event.CR.Name, event.CR.Namespace, event.CR.Spec)
		d.writeStatus(ctx, status)

	case Restarted:
		for _, status := range d.Orchestrator.Restarted(ctx, event.ResyncSet) {
			d.writeStatus(ctx, status)
		}

	case Deleted:
		if err := d.Orchestrator.Deleted(ctx, event.Name, event.Namespace); err != nil {
			d.Log.Error(err, "delete reconcile failed", "name", event.Name, "namespace", event.Namespace)
		}
	}
}

// writeStatus is best-effort: a failure is logged, never returned, so the
// dispatch loop keeps running and the next resync retries convergence.
func (d *Dispatcher) writeStatus(ctx context.Context, status orchestrator.Status) {
	cr, err := kube.Get[appsv1.AppDeployment](ctx, d.Kube, status.Namespace, status.Name)
	if err != nil {
		d.Log.Error(err, "status write-back: fetching current object failed", "name", status.Name, "namespace", status.Namespace)
		return
	}
	cr.Status = appsv1.AppDeploymentStatus{
		AppReplicas: status.AppReplicas,
		ErrorMsg:    status.ErrorMsg,
	}
	if err := kube.ReplaceStatus[appsv1.AppDeployment](ctx, d.Kube, cr); err != nil {
		d.Log.Error(err, "status write-back failed", "name", status.Name, "namespace", status.Namespace)
	}
}
