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

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

var errBoom = errors.New("boom")

var _ = Describe("Client", func() {
	const ns = "default"

	It("returns a NotFound Get failure unwrapped rather than as a KubeApiError", func() {
		k := New(fakeClient())

		_, err := Get[corev1.ConfigMap](context.Background(), k, ns, "missing")
		Expect(IsNotFound(err)).To(BeTrue())

		var apiErr *KubeApiError
		Expect(errors.As(err, &apiErr)).To(BeFalse(), "NotFound must surface unwrapped")
	})

	It("lists only objects matching the selector within the namespace", func() {
		a := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "a", Namespace: ns, Labels: map[string]string{"release": "nifi-a"}}}
		b := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "b", Namespace: ns, Labels: map[string]string{"release": "nifi-b"}}}
		k := New(fakeClient(a, b))

		list, err := List[corev1.ConfigMapList](context.Background(), k, ns, client.MatchingLabels{"release": "nifi-a"})
		Expect(err).NotTo(HaveOccurred())
		Expect(list.Items).To(HaveLen(1))
		Expect(list.Items[0].Name).To(Equal("a"))
	})

	It("replaces an existing object in place", func() {
		existing := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "a", Namespace: ns}, Data: map[string]string{"k": "old"}}
		k := New(fakeClient(existing))

		existing.Data["k"] = "new"
		_, err := Replace[corev1.ConfigMap](context.Background(), k, existing)
		Expect(err).NotTo(HaveOccurred())

		fetched, err := Get[corev1.ConfigMap](context.Background(), k, ns, "a")
		Expect(err).NotTo(HaveOccurred())
		Expect(fetched.Data).To(HaveKeyWithValue("k", "new"))
	})

	It("deletes a single object by name", func() {
		existing := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "a", Namespace: ns}}
		k := New(fakeClient(existing))

		Expect(Delete[corev1.ConfigMap](context.Background(), k, ns, "a")).To(Succeed())

		_, err := Get[corev1.ConfigMap](context.Background(), k, ns, "a")
		Expect(IsNotFound(err)).To(BeTrue())
	})

	It("bulk-deletes every object matching the label selector", func() {
		a := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "a", Namespace: ns, Labels: map[string]string{"managed-by": "op"}}}
		b := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "b", Namespace: ns, Labels: map[string]string{"managed-by": "op"}}}
		other := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "c", Namespace: ns}}
		k := New(fakeClient(a, b, other))

		Expect(DeleteByLabel[corev1.ConfigMap](context.Background(), k, ns, client.MatchingLabels{"managed-by": "op"})).To(Succeed())

		list, err := List[corev1.ConfigMapList](context.Background(), k, ns, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(list.Items).To(HaveLen(1))
		Expect(list.Items[0].Name).To(Equal("c"))
	})
})
