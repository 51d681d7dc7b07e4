/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

package orchestrator

import (
	"context"

	appsv1k "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/novakov-alexey-zz/kubefi/internal/kube"
)

func deleteStatefulSets(ctx context.Context, k *kube.Client, ns string, selector map[string]string) error {
	return kube.DeleteByLabel[appsv1k.StatefulSet](ctx, k, ns, client.MatchingLabels(selector))
}

func deleteServices(ctx context.Context, k *kube.Client, ns string, selector map[string]string) error {
	return kube.DeleteByLabel[corev1.Service](ctx, k, ns, client.MatchingLabels(selector))
}

func deleteConfigMaps(ctx context.Context, k *kube.Client, ns string, selector map[string]string) error {
	return kube.DeleteByLabel[corev1.ConfigMap](ctx, k, ns, client.MatchingLabels(selector))
}

func deleteIngresses(ctx context.Context, k *kube.Client, ns string, selector map[string]string) error {
	return kube.DeleteByLabel[networkingv1.Ingress](ctx, k, ns, client.MatchingLabels(selector))
}
