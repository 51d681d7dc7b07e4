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

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1k "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	"github.com/novakov-alexey-zz/kubefi/internal/kube"
)

func pod(name, ns string, labels map[string]string) *corev1.Pod {
	return &corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: ns, Labels: labels}}
}

func podCount(r *Reconciler, ns string, selector map[string]string) int {
	list, err := kube.List[corev1.PodList](context.Background(), r.Kube, ns, client.MatchingLabels(selector))
	Expect(err).NotTo(HaveOccurred())
	return len(list.Items)
}

var _ = ginkgo.Describe("StatefulSets", func() {
	const crName, ns = "nifi-a", "default"
	noCMChange := AppConfigMapState{}

	ginkgo.It("creates both sets on first reconcile with no change reported", func() {
		r := newReconciler()
		spec := appsv1.AppDeploymentSpec{AppReplicas: 3, ZkReplicas: 3}

		changed, err := r.StatefulSets(context.Background(), crName, ns, spec, noCMChange)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse())

		app, err := kube.Get[appsv1k.StatefulSet](context.Background(), r.Kube, ns, AppSetName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(*app.Spec.Replicas).To(Equal(int32(3)))

		zk, err := kube.Get[appsv1k.StatefulSet](context.Background(), r.Kube, ns, ZkSetName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(*zk.Spec.Replicas).To(Equal(int32(3)))
	})

	ginkgo.It("replaces in place on a replica scale-up without evicting pods", func() {
		r := newReconciler()
		spec := appsv1.AppDeploymentSpec{AppReplicas: 3, ZkReplicas: 3}
		_, err := r.StatefulSets(context.Background(), crName, ns, spec, noCMChange)
		Expect(err).NotTo(HaveOccurred())

		_, err = kube.Create[corev1.Pod](context.Background(), r.Kube, pod("nifi-a-0", ns, PodSelector(crName)))
		Expect(err).NotTo(HaveOccurred())

		spec.AppReplicas = 5
		changed, err := r.StatefulSets(context.Background(), crName, ns, spec, noCMChange)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		app, err := kube.Get[appsv1k.StatefulSet](context.Background(), r.Kube, ns, AppSetName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(*app.Spec.Replicas).To(Equal(int32(5)))
		Expect(podCount(r, ns, PodSelector(crName))).To(Equal(1), "a replica-only change must not evict pods")
	})

	ginkgo.It("replaces in place and bulk-evicts app pods on an image roll", func() {
		r := newReconciler()
		spec := appsv1.AppDeploymentSpec{AppReplicas: 2, ZkReplicas: 2, Image: strPtr("nifi:1.13")}
		_, err := r.StatefulSets(context.Background(), crName, ns, spec, noCMChange)
		Expect(err).NotTo(HaveOccurred())
		_, err = kube.Create[corev1.Pod](context.Background(), r.Kube, pod("nifi-a-0", ns, PodSelector(crName)))
		Expect(err).NotTo(HaveOccurred())

		spec.Image = strPtr("nifi:1.14")
		changed, err := r.StatefulSets(context.Background(), crName, ns, spec, noCMChange)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		app, err := kube.Get[appsv1k.StatefulSet](context.Background(), r.Kube, ns, AppSetName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(app.Spec.Template.Spec.Containers[0].Image).To(Equal("nifi:1.14"))
		Expect(podCount(r, ns, PodSelector(crName))).To(Equal(0), "an image roll must evict existing app pods")
	})

	ginkgo.It("deletes and recreates the app-set, without touching zk-set, on a storage-class change", func() {
		r := newReconciler()
		spec := appsv1.AppDeploymentSpec{AppReplicas: 2, ZkReplicas: 2, StorageClass: strPtr("ssd")}
		_, err := r.StatefulSets(context.Background(), crName, ns, spec, noCMChange)
		Expect(err).NotTo(HaveOccurred())

		before, err := kube.Get[appsv1k.StatefulSet](context.Background(), r.Kube, ns, AppSetName(crName))
		Expect(err).NotTo(HaveOccurred())
		beforeUID := before.UID

		spec.StorageClass = strPtr("hdd")
		changed, err := r.StatefulSets(context.Background(), crName, ns, spec, noCMChange)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		after, err := kube.Get[appsv1k.StatefulSet](context.Background(), r.Kube, ns, AppSetName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(after.UID).NotTo(Equal(beforeUID))
		Expect(*after.Spec.VolumeClaimTemplates[0].Spec.StorageClassName).To(Equal("hdd"))

		zk, err := kube.Get[appsv1k.StatefulSet](context.Background(), r.Kube, ns, ZkSetName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(*zk.Spec.VolumeClaimTemplates[0].Spec.StorageClassName).To(Equal("ssd"))
	})

	ginkgo.It("evicts app pods when the upstream app-ConfigMap changed, even with no image or replica change", func() {
		r := newReconciler()
		spec := appsv1.AppDeploymentSpec{AppReplicas: 2, ZkReplicas: 2}
		_, err := r.StatefulSets(context.Background(), crName, ns, spec, noCMChange)
		Expect(err).NotTo(HaveOccurred())
		_, err = kube.Create[corev1.Pod](context.Background(), r.Kube, pod("nifi-a-0", ns, PodSelector(crName)))
		Expect(err).NotTo(HaveOccurred())

		changed, err := r.StatefulSets(context.Background(), crName, ns, spec, AppConfigMapState{Updated: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse(), "ConfigMap-driven eviction alone does not replace the StatefulSet")
		Expect(podCount(r, ns, PodSelector(crName))).To(Equal(0))
	})
})
