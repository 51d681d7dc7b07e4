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

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	"github.com/novakov-alexey-zz/kubefi/internal/kube"
	"github.com/novakov-alexey-zz/kubefi/internal/render"
)

// Services reconciles the four Services plus the Ingress in parallel,
// folding results with AND semantics. The aggregate `changed` flag
// is true when the Ingress changed or any Service was newly created.
func (r *Reconciler) Services(ctx context.Context, crName, ns string, ingressCfg *appsv1.IngressSpec) (bool, error) {
	ctx, span := r.Tracer.Start(ctx, "reconcileServices")
	defer span.End()

	variants := []struct {
		name      string
		component string
		variant   render.ServiceVariant
	}{
		{AppSvcName(crName), AppComponent, render.ServiceApp},
		{AppHeadlessName(crName), AppComponent, render.ServiceAppHeadless},
		{ZkSvcName(crName), ZkComponent, render.ServiceZk},
		{ZkHeadlessName(crName), ZkComponent, render.ServiceZkHeadless},
	}

	created := make([]bool, len(variants))
	var ingressChanged bool

	g, ctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		i, v := i, v
		g.Go(func() error {
			state, err := r.probeService(ctx, ns, crName, v.name, v.component, v.variant)
			if err != nil {
				return err
			}
			created[i] = state == kube.Created
			return nil
		})
	}
	g.Go(func() error {
		var err error
		ingressChanged, err = r.reconcileIngress(ctx, crName, ns, ingressCfg)
		return err
	})

	if err := g.Wait(); err != nil {
		return false, err
	}

	anyCreated := ingressChanged
	for _, c := range created {
		anyCreated = anyCreated || c
	}
	return anyCreated, nil
}

func (r *Reconciler) probeService(ctx context.Context, ns, crName, name, component string, variant render.ServiceVariant) (kube.ProbeState, error) {
	result, err := kube.Probe[corev1.Service](ctx, r.Kube, ns, name, func() (*string, error) {
		return r.Render.RenderService(crName, variant)
	}, func(doc string) (*corev1.Service, error) {
		svc, err := kube.Parse[corev1.Service](doc)
		if err != nil {
			return nil, err
		}
		svc.Labels = mergeLabels(svc.Labels, Labels(crName, component))
		return svc, nil
	})
	if err != nil {
		return 0, err
	}
	return result.State, nil
}

// reconcileIngress content-diffs the observed Ingress: render desired YAML,
// parse, check whether any rule's host equals the configured host; if not,
// delete-and-recreate.
func (r *Reconciler) reconcileIngress(ctx context.Context, crName, ns string, ingressCfg *appsv1.IngressSpec) (bool, error) {
	name := IngressName(crName)
	render := func() (*string, error) {
		return r.Render.RenderIngress(crName, ingressCfg)
	}

	result, err := kube.Probe[networkingv1.Ingress](ctx, r.Kube, ns, name, render, func(doc string) (*networkingv1.Ingress, error) {
		ing, err := kube.Parse[networkingv1.Ingress](doc)
		if err != nil {
			return nil, err
		}
		ing.Labels = mergeLabels(ing.Labels, Labels(crName, AppComponent))
		return ing, nil
	})
	if err != nil {
		return false, err
	}
	if result.State == kube.Created {
		return true, nil
	}
	if result.State == kube.NotConfigured {
		return false, nil
	}

	if ingressCfg == nil {
		return false, nil
	}

	desiredYAML, err := render()
	if err != nil {
		return false, err
	}
	if desiredYAML == nil {
		return false, nil
	}
	desired, err := kube.Parse[networkingv1.Ingress](*desiredYAML)
	if err != nil {
		return false, err
	}

	if hasHost(desired.Spec.Rules, ingressCfg.Host) && hasHost(result.Value.Spec.Rules, ingressCfg.Host) {
		return false, nil
	}

	if err := kube.Delete[networkingv1.Ingress](ctx, r.Kube, ns, name); err != nil {
		return false, err
	}
	desired.Name = name
	desired.Namespace = ns
	desired.Labels = mergeLabels(desired.Labels, Labels(crName, AppComponent))
	if _, err := kube.Create[networkingv1.Ingress](ctx, r.Kube, desired); err != nil {
		return false, err
	}
	return true, nil
}

func hasHost(rules []networkingv1.IngressRule, host string) bool {
	for _, rule := range rules {
		if rule.Host == host {
			return true
		}
	}
	return false
}
