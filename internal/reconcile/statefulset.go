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
	appsv1k "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	"github.com/novakov-alexey-zz/kubefi/internal/kube"
)

const loggingVolumeName = "logback-xml"

// AppConfigMapState carries the app-ConfigMap's diff outcome and configured
// logging ConfigMap name into the StatefulSet reconciler, which uses it to
// decide whether app pods need eviction.
type AppConfigMapState struct {
	Updated          bool
	LoggingConfigMap *string
}

// StatefulSets reconciles the app-set and zk-set in parallel,
// folding their results with AND semantics: the first error wins but both
// probes complete. Returns whether either set was changed.
func (r *Reconciler) StatefulSets(ctx context.Context, crName, ns string, spec appsv1.AppDeploymentSpec, cmState AppConfigMapState) (bool, error) {
	ctx, span := r.Tracer.Start(ctx, "reconcileStatefulSets")
	defer span.End()

	var appChanged, zkChanged bool

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appChanged, err = r.reconcileAppSet(ctx, crName, ns, spec, cmState)
		return err
	})
	g.Go(func() error {
		var err error
		zkChanged, err = r.reconcileZkSet(ctx, crName, ns, spec)
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}
	return appChanged || zkChanged, nil
}

func (r *Reconciler) reconcileAppSet(ctx context.Context, crName, ns string, spec appsv1.AppDeploymentSpec, cmState AppConfigMapState) (bool, error) {
	name := AppSetName(crName)
	result, err := kube.Probe[appsv1k.StatefulSet](ctx, r.Kube, ns, name, func() (*string, error) {
		return r.Render.RenderAppSet(crName, spec)
	}, func(doc string) (*appsv1k.StatefulSet, error) {
		sts, err := kube.Parse[appsv1k.StatefulSet](doc)
		if err != nil {
			return nil, err
		}
		sts.Labels = mergeLabels(sts.Labels, Labels(crName, AppComponent))
		return sts, nil
	})
	if err != nil {
		return false, err
	}
	if result.State != kube.Existed {
		return false, nil
	}
	observed := result.Value

	imageChanged := containerImageChanged(observed.Spec.Template.Spec.Containers, "server", spec.Image)
	replicasChanged := observed.Spec.Replicas == nil || uint8(*observed.Spec.Replicas) != spec.AppReplicas
	storageClassChanged := storageClassDrifted(observed.Spec.VolumeClaimTemplates, spec.StorageClass)
	loggingCmChanged := loggingConfigMapDrifted(observed.Spec.Template.Spec.Volumes, spec.LoggingConfigMap)

	changed, err := r.applyTransition(ctx, ns, name, crName, AppComponent, spec.Image, func() (*string, error) {
		return r.Render.RenderAppSet(crName, spec)
	}, storageClassChanged, imageChanged || replicasChanged || loggingCmChanged)
	if err != nil {
		return false, err
	}

	if imageChanged || cmState.Updated {
		if err := kube.DeleteByLabel[corev1.Pod](ctx, r.Kube, ns, PodSelector(crName)); err != nil {
			return false, err
		}
	}
	return changed, nil
}

func (r *Reconciler) reconcileZkSet(ctx context.Context, crName, ns string, spec appsv1.AppDeploymentSpec) (bool, error) {
	name := ZkSetName(crName)
	result, err := kube.Probe[appsv1k.StatefulSet](ctx, r.Kube, ns, name, func() (*string, error) {
		return r.Render.RenderZkSet(crName, spec.ZkReplicas, spec.ZkImage, spec.StorageClass)
	}, func(doc string) (*appsv1k.StatefulSet, error) {
		sts, err := kube.Parse[appsv1k.StatefulSet](doc)
		if err != nil {
			return nil, err
		}
		sts.Labels = mergeLabels(sts.Labels, Labels(crName, ZkComponent))
		return sts, nil
	})
	if err != nil {
		return false, err
	}
	if result.State != kube.Existed {
		return false, nil
	}
	observed := result.Value

	imageChanged := containerImageChanged(observed.Spec.Template.Spec.Containers, "zookeeper", spec.ZkImage)
	replicasChanged := observed.Spec.Replicas == nil || uint8(*observed.Spec.Replicas) != spec.ZkReplicas

	changed, err := r.applyTransition(ctx, ns, name, crName, ZkComponent, spec.ZkImage, func() (*string, error) {
		return r.Render.RenderZkSet(crName, spec.ZkReplicas, spec.ZkImage, spec.StorageClass)
	}, false, imageChanged || replicasChanged)
	if err != nil {
		return false, err
	}

	if imageChanged {
		if err := kube.DeleteByLabel[corev1.Pod](ctx, r.Kube, ns, map[string]string{
			LabelApp:       ZkComponent,
			LabelManagedBy: OperatorName,
			LabelRelease:   crName,
		}); err != nil {
			return false, err
		}
	}
	return changed, nil
}

// applyTransition applies the mutation precedence: storage-class drift
// forces delete-and-recreate; any other flagged signal issues an in-place
// replace.
func (r *Reconciler) applyTransition(
	ctx context.Context, ns, name, crName, component string, image *string,
	render func() (*string, error),
	storageClassChanged, replaceNeeded bool,
) (bool, error) {
	if storageClassChanged {
		if err := kube.Delete[appsv1k.StatefulSet](ctx, r.Kube, ns, name); err != nil {
			return false, err
		}
		doc, err := render()
		if err != nil {
			return false, err
		}
		if doc == nil {
			return true, nil
		}
		sts, err := kube.Parse[appsv1k.StatefulSet](*doc)
		if err != nil {
			return false, err
		}
		sts.Name = name
		sts.Namespace = ns
		sts.Labels = mergeLabels(sts.Labels, Labels(crName, component))
		if _, err := kube.Create[appsv1k.StatefulSet](ctx, r.Kube, sts); err != nil {
			return false, err
		}
		return true, nil
	}

	if !replaceNeeded {
		return false, nil
	}

	doc, err := render()
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}
	sts, err := kube.Parse[appsv1k.StatefulSet](*doc)
	if err != nil {
		return false, err
	}
	sts.Name = name
	sts.Namespace = ns
	sts.Labels = mergeLabels(sts.Labels, Labels(crName, component))
	if _, err := kube.Replace[appsv1k.StatefulSet](ctx, r.Kube, sts); err != nil {
		return false, err
	}
	return true, nil
}

func containerImageChanged(containers []corev1.Container, name string, requested *string) bool {
	if requested == nil {
		return false
	}
	for _, c := range containers {
		if c.Name == name && c.Image != *requested {
			return true
		}
	}
	return false
}

func storageClassDrifted(templates []corev1.PersistentVolumeClaim, requested *string) bool {
	if requested == nil {
		return false
	}
	for _, pvc := range templates {
		if pvc.Spec.StorageClassName == nil || *pvc.Spec.StorageClassName != *requested {
			return true
		}
	}
	return false
}

func loggingConfigMapDrifted(volumes []corev1.Volume, requested *string) bool {
	if requested == nil {
		return false
	}
	for _, v := range volumes {
		if v.Name != loggingVolumeName {
			continue
		}
		if v.ConfigMap == nil || v.ConfigMap.Name != *requested {
			return true
		}
		return false
	}
	return true
}
