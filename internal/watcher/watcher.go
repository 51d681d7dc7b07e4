/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

// Package watcher adapts controller-runtime's watch machinery to the
// dispatch.EventSource boundary.
package watcher

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	"github.com/novakov-alexey-zz/kubefi/internal/dispatch"
)

// Watcher implements controller-runtime's Reconciler interface, translating
// every Reconcile call into a dispatch.Event pushed onto a channel that
// Watcher itself exposes as a dispatch.EventSource.
type Watcher struct {
	client.Client
	Log logr.Logger

	events chan dispatch.Event
	errs   chan error
}

func New(c client.Client, log logr.Logger) *Watcher {
	return &Watcher{
		Client: c,
		Log:    log,
		events: make(chan dispatch.Event),
		errs:   make(chan error, 1),
	}
}

// Reconcile satisfies controller-runtime's reconcile.Reconciler. It fetches
// the current object, classifies the event as Applied or Deleted, and
// blocks handing it to Next until the dispatch loop consumes it, which is
// what keeps event processing single-threaded.
func (w *Watcher) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	var cr appsv1.AppDeployment
	err := w.Client.Get(ctx, req.NamespacedName, &cr)
	switch {
	case err == nil:
		return ctrl.Result{}, w.emit(ctx, dispatch.Event{Kind: dispatch.Applied, CR: &cr})
	case apierrors.IsNotFound(err):
		return ctrl.Result{}, w.emit(ctx, dispatch.Event{Kind: dispatch.Deleted, Name: req.Name, Namespace: req.Namespace})
	default:
		return ctrl.Result{}, err
	}
}

func (w *Watcher) emit(ctx context.Context, event dispatch.Event) error {
	select {
	case w.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next implements dispatch.EventSource.
func (w *Watcher) Next(ctx context.Context) (dispatch.Event, error) {
	select {
	case e := <-w.events:
		return e, nil
	case err := <-w.errs:
		return dispatch.Event{}, err
	case <-ctx.Done():
		return dispatch.Event{}, fmt.Errorf("watcher: %w", ctx.Err())
	}
}

func (w *Watcher) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&appsv1.AppDeployment{}).
		Complete(w)
}
