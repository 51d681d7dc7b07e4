/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

package render

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("merge", func() {
	It("recurses into object-valued keys", func() {
		dst := map[string]any{"a": map[string]any{"x": 1, "y": 2}}
		src := map[string]any{"a": map[string]any{"y": 3, "z": 4}}

		out := merge(dst, src)

		Expect(out["a"]).To(Equal(map[string]any{"x": 1, "y": 3, "z": 4}))
	})

	It("erases a key when the right-hand value is nil", func() {
		dst := map[string]any{"a": "keep", "b": "erase-me"}
		src := map[string]any{"b": nil}

		out := merge(dst, src)

		Expect(out).To(HaveKeyWithValue("a", "keep"))
		Expect(out).NotTo(HaveKey("b"))
	})

	It("replaces scalars outright rather than merging them", func() {
		dst := map[string]any{"a": "old"}
		src := map[string]any{"a": "new"}

		Expect(merge(dst, src)["a"]).To(Equal("new"))
	})

	It("treats a nil erasure of a missing key as a no-op", func() {
		dst := map[string]any{"a": "keep"}
		src := map[string]any{"never-there": nil}

		out := merge(dst, src)

		Expect(out).To(HaveLen(1))
		Expect(out).To(HaveKeyWithValue("a", "keep"))
	})
})

var _ = Describe("Renderer.layer", func() {
	It("applies layers left to right on top of a cloned base", func() {
		r := &Renderer{base: map[string]any{"name": "base", "keep": "k"}}

		ctx := r.layer(map[string]any{"name": "first"}, map[string]any{"name": "second"})

		Expect(ctx["name"]).To(Equal("second"))
		Expect(ctx["keep"]).To(Equal("k"))
		Expect(r.base["name"]).To(Equal("base"), "layering must not mutate the renderer's base config")
	})
})
