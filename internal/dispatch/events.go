/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

// Package dispatch translates external event-stream items into reconcile
// calls and performs status write-back. The event watch
// transport itself is out of scope; this package only defines the
// boundary interface an external watcher implementation satisfies.
package dispatch

import (
	"context"
	"fmt"

	appsv1 "github.com/novakov-alexey-zz/kubefi/api/v1"
)

// EventKind is the external watcher's classification of one stream item.
type EventKind int

const (
	Applied EventKind = iota
	Restarted
	Deleted
)

// Event is one item read off the external watcher stream.
type Event struct {
	Kind EventKind

	// CR is populated for Applied; Name/Namespace for Deleted.
	CR        *appsv1.AppDeployment
	Name      string
	Namespace string

	// ResyncSet is populated for Restarted.
	ResyncSet []appsv1.AppDeployment
}

// MissingPropertyError reports a custom resource that arrived without a
// metadata field the pipeline needs to address it.
type MissingPropertyError struct {
	Property string
	Kind     string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("property %q for %s resource is missing", e.Property, e.Kind)
}

// EventSource is the boundary interface the external watcher transport
// satisfies. Next blocks until an event is available or the stream ends; a
// closed stream is reported by a non-nil error.
type EventSource interface {
	Next(ctx context.Context) (Event, error)
}
