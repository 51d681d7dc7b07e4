/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// AuthLdap configures the LDAP auth provider templated into the app
// ConfigMap's nifi.properties.
type AuthLdap struct {
	Host string `json:"host"`
}

// PodResources is a cpu/memory pair, used for both requests and limits.
type PodResources struct {
	CPU    *string `json:"cpu,omitempty"`
	Memory *string `json:"memory,omitempty"`
}

// Resources configures the JVM heap and container resources of the app
// StatefulSet's server container.
type Resources struct {
	JvmHeapSize *string       `json:"jvmHeapSize,omitempty"`
	Requests    *PodResources `json:"requests,omitempty"`
	Limits      *PodResources `json:"limits,omitempty"`
}

// IngressSpec configures the rendered Ingress rule.
type IngressSpec struct {
	Host         string `json:"host"`
	IngressClass string `json:"ingressClass"`
}

// AppDeploymentSpec is the desired state of a NiFi deployment and its
// ZooKeeper coordination-service dependency.
// +kubebuilder:validation:Required
type AppDeploymentSpec struct {
	// +kubebuilder:validation:Minimum=0
	AppReplicas uint8 `json:"appReplicas"`
	// +kubebuilder:validation:Minimum=0
	ZkReplicas uint8 `json:"zkReplicas"`

	Image            *string      `json:"image,omitempty"`
	ZkImage          *string      `json:"zkImage,omitempty"`
	StorageClass     *string      `json:"storageClass,omitempty"`
	Ldap             *AuthLdap    `json:"ldap,omitempty"`
	LoggingConfigMap *string      `json:"loggingConfigMap,omitempty"`
	Resources        *Resources   `json:"resources,omitempty"`
	Ingress          *IngressSpec `json:"ingress,omitempty"`
}

// AppDeploymentStatus is the last-observed reconcile outcome.
type AppDeploymentStatus struct {
	AppReplicas uint8  `json:"appReplicas"`
	ErrorMsg    string `json:"errorMsg"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=nidp,categories=status
// +kubebuilder:printcolumn:name="Replicas",type="integer",JSONPath=".spec.appReplicas"
// +kubebuilder:printcolumn:name="Error",type="string",JSONPath=".status.errorMsg"

// AppDeployment is the Schema for the appdeployments API.
type AppDeployment struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   AppDeploymentSpec   `json:"spec,omitempty"`
	Status AppDeploymentStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// AppDeploymentList contains a list of AppDeployment.
type AppDeploymentList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []AppDeployment `json:"items"`
}

func init() {
	SchemeBuilder.Register(&AppDeployment{}, &AppDeploymentList{})
}
