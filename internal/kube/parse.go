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
	"fmt"

	"github.com/ghodss/yaml"
)

// ParseError wraps a failure to parse rendered YAML into a typed object.
// Treated as a template-producer bug, not a transport failure.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse rendered manifest: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse decodes rendered YAML into a typed Kubernetes object using
// ghodss/yaml, which round-trips through JSON so the apimachinery struct
// tags apply. Used both to materialize the object to create and, for
// content-diffed kinds, to normalize the desired state before comparison
//.
func Parse[T any](doc string) (*T, error) {
	var out T
	if err := yaml.Unmarshal([]byte(doc), &out); err != nil {
		return nil, &ParseError{Cause: err}
	}
	return &out, nil
}
