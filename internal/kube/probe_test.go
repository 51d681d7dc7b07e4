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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var _ = Describe("Probe", func() {
	const ns, name = "default", "nifi-a-config"

	parse := func(doc string) (*corev1.ConfigMap, error) {
		return &corev1.ConfigMap{Data: map[string]string{"k": doc}}, nil
	}

	It("creates the object from the rendered manifest when it does not exist", func() {
		k := New(fakeClient())
		calls := 0
		render := func() (*string, error) {
			calls++
			doc := "v1"
			return &doc, nil
		}

		result, err := Probe[corev1.ConfigMap](context.Background(), k, ns, name, render, parse)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.State).To(Equal(Created))
		Expect(result.Value.Data).To(HaveKeyWithValue("k", "v1"))
		Expect(calls).To(Equal(1))

		fetched, err := Get[corev1.ConfigMap](context.Background(), k, ns, name)
		Expect(err).NotTo(HaveOccurred())
		Expect(fetched.Name).To(Equal(name))
	})

	It("reports Existed and never renders when the object is already present", func() {
		existing := &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: ns}}
		k := New(fakeClient(existing))
		render := func() (*string, error) {
			Fail("render must not be called when the object already exists")
			return nil, nil
		}

		result, err := Probe[corev1.ConfigMap](context.Background(), k, ns, name, render, parse)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.State).To(Equal(Existed))
		Expect(result.Value.Name).To(Equal(name))
	})

	It("reports NotConfigured and creates nothing when the renderer declines the template", func() {
		k := New(fakeClient())
		render := func() (*string, error) { return nil, nil }

		result, err := Probe[corev1.ConfigMap](context.Background(), k, ns, name, render, parse)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.State).To(Equal(NotConfigured))

		_, err = Get[corev1.ConfigMap](context.Background(), k, ns, name)
		Expect(IsNotFound(err)).To(BeTrue())
	})

	It("propagates a render error without calling create", func() {
		k := New(fakeClient())
		render := func() (*string, error) { return nil, errBoom }

		_, err := Probe[corev1.ConfigMap](context.Background(), k, ns, name, render, parse)
		Expect(err).To(MatchError(errBoom))
	})
})
