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
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
	"github.com/novakov-alexey-zz/kubefi/internal/kube"
)

var _ = ginkgo.Describe("Services", func() {
	const crName, ns = "nifi-a", "default"

	ginkgo.It("creates all four services on first reconcile and reports changed", func() {
		r := newReconciler()

		changed, err := r.Services(context.Background(), crName, ns, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		for _, name := range []string{AppSvcName(crName), AppHeadlessName(crName), ZkSvcName(crName), ZkHeadlessName(crName)} {
			svc, err := kube.Get[corev1.Service](context.Background(), r.Kube, ns, name)
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.Labels).To(HaveKeyWithValue(LabelRelease, crName))
		}
	})

	ginkgo.It("never mutates an existing service on a later reconcile", func() {
		r := newReconciler()
		_, err := r.Services(context.Background(), crName, ns, nil)
		Expect(err).NotTo(HaveOccurred())

		before, err := kube.Get[corev1.Service](context.Background(), r.Kube, ns, AppSvcName(crName))
		Expect(err).NotTo(HaveOccurred())
		beforeUID := before.UID

		changed, err := r.Services(context.Background(), crName, ns, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse(), "no ingress and nothing new to create")

		after, err := kube.Get[corev1.Service](context.Background(), r.Kube, ns, AppSvcName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(after.UID).To(Equal(beforeUID))
	})

	ginkgo.It("reports NotConfigured with no object created when no ingress is set", func() {
		r := newReconciler()
		_, err := r.Services(context.Background(), crName, ns, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = kube.Get[networkingv1.Ingress](context.Background(), r.Kube, ns, IngressName(crName))
		Expect(kube.IsNotFound(err)).To(BeTrue())
	})

	ginkgo.It("creates the ingress when configured and reports changed", func() {
		r := newReconciler()
		cfg := &appsv1.IngressSpec{Host: "nifi.example.com", IngressClass: "nginx"}

		changed, err := r.Services(context.Background(), crName, ns, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		ing, err := kube.Get[networkingv1.Ingress](context.Background(), r.Kube, ns, IngressName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(ing.Spec.Rules[0].Host).To(Equal("nifi.example.com"))
	})

	ginkgo.It("delete-and-recreates the ingress when the configured host drifts", func() {
		r := newReconciler()
		cfg := &appsv1.IngressSpec{Host: "old.example.com", IngressClass: "nginx"}
		_, err := r.Services(context.Background(), crName, ns, cfg)
		Expect(err).NotTo(HaveOccurred())

		before, err := kube.Get[networkingv1.Ingress](context.Background(), r.Kube, ns, IngressName(crName))
		Expect(err).NotTo(HaveOccurred())
		beforeUID := before.UID

		cfg.Host = "new.example.com"
		changed, err := r.Services(context.Background(), crName, ns, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeTrue())

		after, err := kube.Get[networkingv1.Ingress](context.Background(), r.Kube, ns, IngressName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(after.UID).NotTo(Equal(beforeUID))
		Expect(after.Spec.Rules[0].Host).To(Equal("new.example.com"))
	})

	ginkgo.It("leaves the ingress alone and reports no change when the host is unchanged", func() {
		r := newReconciler()
		cfg := &appsv1.IngressSpec{Host: "stable.example.com", IngressClass: "nginx"}
		_, err := r.Services(context.Background(), crName, ns, cfg)
		Expect(err).NotTo(HaveOccurred())

		before, err := kube.Get[networkingv1.Ingress](context.Background(), r.Kube, ns, IngressName(crName))
		Expect(err).NotTo(HaveOccurred())
		beforeUID := before.UID

		changed, err := r.Services(context.Background(), crName, ns, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(changed).To(BeFalse())

		after, err := kube.Get[networkingv1.Ingress](context.Background(), r.Kube, ns, IngressName(crName))
		Expect(err).NotTo(HaveOccurred())
		Expect(after.UID).To(Equal(beforeUID))
	})
})
