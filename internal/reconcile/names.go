/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

// Package reconcile implements the per-kind object reconcilers:
// ConfigMap, StatefulSet, Service and Ingress state machines that
// diff desired vs. observed cluster state and apply the correct mutation
// discipline (noop / replace / delete-and-recreate / pod eviction).
package reconcile

import "fmt"

// OperatorName is the "managed-by" label value stamped on every object this
// operator owns.
const OperatorName = "nifi-deployment-operator"

// LabelManagedBy, LabelRelease and LabelApp are the three label keys every
// managed object carries.
const (
	LabelManagedBy = "managed-by"
	LabelRelease   = "release"
	LabelApp       = "app"
)

const (
	AppComponent = "app"
	ZkComponent  = "zookeeper"
)

// Labels builds the operator label set for a managed object of the given
// component ("app" or "zookeeper").
func Labels(crName, component string) map[string]string {
	return map[string]string{
		LabelManagedBy: OperatorName,
		LabelRelease:   crName,
		LabelApp:       component,
	}
}

// Selector builds the bulk-discovery selector shared by every CR-scoped
// bulk operation.
func Selector(crName string) map[string]string {
	return map[string]string{
		LabelManagedBy: OperatorName,
		LabelRelease:   crName,
	}
}

// PodSelector is the narrower selector used to bulk-evict only app pods on
// an image or ConfigMap change.
func PodSelector(crName string) map[string]string {
	return map[string]string{
		LabelApp:       AppComponent,
		LabelManagedBy: OperatorName,
		LabelRelease:   crName,
	}
}

// Naming conventions for the managed object set.
func AppSetName(crName string) string    { return crName }
func ZkSetName(crName string) string     { return fmt.Sprintf("%s-zookeeper", crName) }
func AppConfigName(crName string) string { return fmt.Sprintf("%s-config", crName) }
func ZkConfigName(crName string) string  { return fmt.Sprintf("%s-zookeeper", crName) }
func AppSvcName(crName string) string    { return crName }
func AppHeadlessName(crName string) string {
	return fmt.Sprintf("%s-headless", crName)
}
func ZkSvcName(crName string) string { return fmt.Sprintf("%s-zookeeper", crName) }
func ZkHeadlessName(crName string) string {
	return fmt.Sprintf("%s-zookeeper-headless", crName)
}
func IngressName(crName string) string { return fmt.Sprintf("%s-ingress", crName) }
