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

	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// KubeApiError wraps any non-NotFound failure from the API server.
// NotFound on get is handled by the caller, not reported as an error.
type KubeApiError struct {
	Op    string
	Kind  string
	Name  string
	Cause error
}

func (e *KubeApiError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Op, e.Kind, e.Name, e.Cause)
}

func (e *KubeApiError) Unwrap() error {
	return e.Cause
}

func wrapErr(op, kind, name string, err error) error {
	if err == nil {
		return nil
	}
	return &KubeApiError{Op: op, Kind: kind, Name: name, Cause: errors.WithStack(err)}
}

// IsNotFound reports whether err is the API-server's NotFound status, per
// the adapter's get<T> contract.
func IsNotFound(err error) bool {
	return apierrors.IsNotFound(err)
}
