/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

// Package orchestrator sequences the per-kind reconcilers for one
// AppDeployment event and builds the resulting status record.
package orchestrator

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	"github.com/novakov-alexey-zz/kubefi/internal/kube"
	"github.com/novakov-alexey-zz/kubefi/internal/reconcile"
)

// Status is the record returned to Event Dispatch for write-back.
type Status struct {
	Name        string
	Namespace   string
	AppReplicas uint8
	ErrorMsg    string
}

type Orchestrator struct {
	Reconcile *reconcile.Reconciler
	Kube      *kube.Client
	Tracer    trace.Tracer
}

func New(r *reconcile.Reconciler, k *kube.Client, tracer trace.Tracer) *Orchestrator {
	return &Orchestrator{Reconcile: r, Kube: k, Tracer: tracer}
}

// Applied runs the fixed ConfigMap -> Service/Ingress -> StatefulSet
// pipeline for one CR. The step order is fixed: ConfigMaps must
// be diff-settled before StatefulSets because the StatefulSet step's
// pod-eviction decision depends on whether the app ConfigMap changed.
func (o *Orchestrator) Applied(ctx context.Context, crName, ns string, spec appsv1.AppDeploymentSpec) Status {
	ctx, span := o.Tracer.Start(ctx, "Applied")
	defer span.End()

	status := Status{Name: crName, Namespace: ns, AppReplicas: spec.AppReplicas}

	cmChanged, err := o.Reconcile.ConfigMaps(ctx, crName, ns, spec)
	if err != nil {
		status.ErrorMsg = err.Error()
		return status
	}

	if _, err := o.Reconcile.Services(ctx, crName, ns, spec.Ingress); err != nil {
		status.ErrorMsg = err.Error()
		return status
	}

	cmState := reconcile.AppConfigMapState{Updated: cmChanged, LoggingConfigMap: spec.LoggingConfigMap}
	if _, err := o.Reconcile.StatefulSets(ctx, crName, ns, spec, cmState); err != nil {
		status.ErrorMsg = err.Error()
		return status
	}

	return status
}

// Deleted bulk-deletes every managed object kind in ns for the given CR
// name. All four deletes are issued concurrently and their
// outcomes folded with AND.
func (o *Orchestrator) Deleted(ctx context.Context, crName, ns string) error {
	ctx, span := o.Tracer.Start(ctx, "Deleted")
	defer span.End()

	selector := reconcile.Selector(crName)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return deleteStatefulSets(ctx, o.Kube, ns, selector) })
	g.Go(func() error { return deleteServices(ctx, o.Kube, ns, selector) })
	g.Go(func() error { return deleteConfigMaps(ctx, o.Kube, ns, selector) })
	g.Go(func() error { return deleteIngresses(ctx, o.Kube, ns, selector) })
	return g.Wait()
}

// Restarted runs the Applied pipeline over every CR in the resync set and
// concatenates the resulting status records.
func (o *Orchestrator) Restarted(ctx context.Context, crs []appsv1.AppDeployment) []Status {
	statuses := make([]Status, 0, len(crs))
	for _, cr := range crs {
		statuses = append(statuses, o.Applied(ctx, cr.Name, cr.Namespace, cr.Spec))
	}
	return statuses
}
