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
	"context"
	"reflect"

	corev1 "k8s.io/api/core/v1"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	"github.com/novakov-alexey-zz/kubefi/internal/kube"
)

// ConfigMaps reconciles both the zk and app ConfigMaps for one CR.
// It returns whether the app ConfigMap was changed (delete+create
// on a content diff); the zk ConfigMap has no mutating inputs and is never
// diffed.
func (r *Reconciler) ConfigMaps(ctx context.Context, crName, ns string, spec appsv1.AppDeploymentSpec) (appChanged bool, err error) {
	ctx, span := r.Tracer.Start(ctx, "reconcileConfigMaps")
	defer span.End()

	if _, err := r.probeConfigMap(ctx, ns, ZkConfigName(crName), crName, ZkComponent, func() (*string, error) {
		return r.Render.RenderZkConfig(crName)
	}); err != nil {
		return false, err
	}

	appChanged, err = r.reconcileAppConfigMap(ctx, crName, ns, spec)
	if err != nil {
		return false, err
	}
	return appChanged, nil
}

func (r *Reconciler) probeConfigMap(ctx context.Context, ns, name, crName, component string, render func() (*string, error)) (kube.ProbeResult[*corev1.ConfigMap], error) {
	return kube.Probe[corev1.ConfigMap](ctx, r.Kube, ns, name, render, func(doc string) (*corev1.ConfigMap, error) {
		cm, err := kube.Parse[corev1.ConfigMap](doc)
		if err != nil {
			return nil, err
		}
		cm.Labels = mergeLabels(cm.Labels, Labels(crName, component))
		return cm, nil
	})
}

// reconcileAppConfigMap probes the app ConfigMap and, if it already exists,
// performs a content diff: render desired YAML, parse it, compare `data` to
// the observed `data`. A mismatch triggers delete-and-recreate.
func (r *Reconciler) reconcileAppConfigMap(ctx context.Context, crName, ns string, spec appsv1.AppDeploymentSpec) (bool, error) {
	name := AppConfigName(crName)
	render := func() (*string, error) {
		return r.Render.RenderAppConfig(crName, ns, spec)
	}

	result, err := r.probeConfigMap(ctx, ns, name, crName, AppComponent, render)
	if err != nil {
		return false, err
	}
	if result.State != kube.Existed {
		return false, nil
	}

	desiredYAML, err := render()
	if err != nil {
		return false, err
	}
	if desiredYAML == nil {
		return false, nil
	}
	desired, err := kube.Parse[corev1.ConfigMap](*desiredYAML)
	if err != nil {
		return false, err
	}

	if reflect.DeepEqual(desired.Data, result.Value.Data) {
		return false, nil
	}

	if err := kube.Delete[corev1.ConfigMap](ctx, r.Kube, ns, name); err != nil {
		return false, err
	}
	desired.Name = name
	desired.Namespace = ns
	desired.Labels = mergeLabels(desired.Labels, Labels(crName, AppComponent))
	if _, err := kube.Create[corev1.ConfigMap](ctx, r.Kube, desired); err != nil {
		return false, err
	}
	return true, nil
}

func mergeLabels(existing, add map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range add {
		out[k] = v
	}
	return out
}
