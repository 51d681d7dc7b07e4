/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

// Package kube implements the typed Kube Client Adapter: a thin,
// generic wrapper over controller-runtime's client.Client giving reconcilers
// a get/list/create/replace/delete/delete_by_label/replace_status surface,
// namespaced by request.
package kube

import (
	"context"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Object is the constraint every managed Kind satisfies: a pointer to a
// struct implementing client.Object, with the struct itself nameable as the
// generic's first type parameter so callers can write kube.Get[corev1.ConfigMap].
type Object[T any] interface {
	*T
	client.Object
}

// Client is the adapter. It holds the single controller-runtime client
// shared read-only across per-kind reconcilers and the renderer.
type Client struct {
	c client.Client
}

func New(c client.Client) *Client {
	return &Client{c: c}
}

// Get fetches a single object by namespace/name. A NotFound error is
// returned unchanged; the caller distinguishes it with IsNotFound rather
// than treating it as a KubeApiError.
func Get[T any, PT Object[T]](ctx context.Context, k *Client, ns, name string) (PT, error) {
	var obj T
	pt := PT(&obj)
	if err := k.c.Get(ctx, client.ObjectKey{Namespace: ns, Name: name}, pt); err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, wrapErr("get", kindOf(pt), name, err)
	}
	return pt, nil
}

// List returns every object of kind T in ns matching selector.
func List[T any, PT interface {
	*T
	client.ObjectList
}](ctx context.Context, k *Client, ns string, selector client.MatchingLabels) (PT, error) {
	var list T
	pt := PT(&list)
	opts := []client.ListOption{client.InNamespace(ns)}
	if len(selector) > 0 {
		opts = append(opts, selector)
	}
	if err := k.c.List(ctx, pt, opts...); err != nil {
		return nil, wrapErr("list", kindOf(pt), ns, err)
	}
	return pt, nil
}

// Create persists a new object as rendered by the caller.
func Create[T any, PT Object[T]](ctx context.Context, k *Client, obj PT) (PT, error) {
	if err := k.c.Create(ctx, obj); err != nil {
		return nil, wrapErr("create", kindOf(obj), obj.GetName(), err)
	}
	return obj, nil
}

// Replace issues an in-place PUT of the fully-rendered object.
func Replace[T any, PT Object[T]](ctx context.Context, k *Client, obj PT) (PT, error) {
	if err := k.c.Update(ctx, obj); err != nil {
		return nil, wrapErr("replace", kindOf(obj), obj.GetName(), err)
	}
	return obj, nil
}

// Delete removes a single object by namespace/name.
func Delete[T any, PT Object[T]](ctx context.Context, k *Client, ns, name string) error {
	var obj T
	pt := PT(&obj)
	pt.SetNamespace(ns)
	pt.SetName(name)
	if err := k.c.Delete(ctx, pt); err != nil {
		return wrapErr("delete", kindOf(pt), name, err)
	}
	return nil
}

// DeleteByLabel bulk-deletes every object of kind T in ns matching selector,
// used for the four CR-deletion sweeps and for pod eviction.
func DeleteByLabel[T any, PT Object[T]](ctx context.Context, k *Client, ns string, selector client.MatchingLabels) error {
	var zero T
	pt := PT(&zero)
	if err := k.c.DeleteAllOf(ctx, pt, client.InNamespace(ns), selector); err != nil {
		return wrapErr("delete_by_label", kindOf(pt), ns, err)
	}
	return nil
}

// ReplaceStatus writes the status subresource.
func ReplaceStatus[T any, PT Object[T]](ctx context.Context, k *Client, obj PT) error {
	if err := k.c.Status().Update(ctx, obj); err != nil {
		return wrapErr("replace_status", kindOf(obj), obj.GetName(), err)
	}
	return nil
}

func kindOf(obj runtime.Object) string {
	t := obj.GetObjectKind().GroupVersionKind().Kind
	if t != "" {
		return t
	}
	return "unknown"
}
