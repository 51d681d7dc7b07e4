/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

package kube

import "context"

// ProbeState distinguishes the three outcomes of Probe: the object already
// existed, it was just created from a rendered manifest, or the renderer
// declined to produce one (a disabled template).
type ProbeState int

const (
	Existed ProbeState = iota
	Created
	NotConfigured
)

// ProbeResult is the outcome of the probe-then-act pattern shared by every
// per-kind reconciler: get(name); on NotFound, render and
// create; on success, hand the observed object to the caller's diff step.
type ProbeResult[T any] struct {
	State ProbeState
	Value T
}

// Probe runs get(ns, name); on NotFound it calls render to obtain the
// desired-state YAML (nil meaning the template is conditionally disabled)
// and, if present, parses and creates it. Callers type-switch on the
// returned ProbeResult.State to decide whether the diff-and-mutate path
// applies.
func Probe[T any, PT Object[T]](
	ctx context.Context,
	k *Client,
	ns, name string,
	render func() (*string, error),
	parse func(yaml string) (PT, error),
) (ProbeResult[PT], error) {
	existing, err := Get[T, PT](ctx, k, ns, name)
	if err == nil {
		return ProbeResult[PT]{State: Existed, Value: existing}, nil
	}
	if !IsNotFound(err) {
		return ProbeResult[PT]{}, err
	}

	desired, err := render()
	if err != nil {
		return ProbeResult[PT]{}, err
	}
	if desired == nil {
		return ProbeResult[PT]{State: NotConfigured}, nil
	}

	obj, err := parse(*desired)
	if err != nil {
		return ProbeResult[PT]{}, err
	}
	obj.SetNamespace(ns)
	obj.SetName(name)

	created, err := Create[T, PT](ctx, k, obj)
	if err != nil {
		return ProbeResult[PT]{}, err
	}
	return ProbeResult[PT]{State: Created, Value: created}, nil
}
