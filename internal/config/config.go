/**
 * Copyright (c) 2018 Dell Inc., or its subsidiaries. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (&the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 */

// Package config loads the operator's external configuration: the
// NAMESPACE environment variable and the operator-level config file that
// seeds every render's base context.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

const namespaceAll = "all"

// Namespace resolves the watch scope from the NAMESPACE environment
// variable: "all" watches cluster-wide, any other value watches a single
// namespace, and an unset variable defaults to "default".
func Namespace() (watchAll bool, namespace string) {
	ns, ok := os.LookupEnv("NAMESPACE")
	if !ok || ns == "" {
		return false, "default"
	}
	if ns == namespaceAll {
		return true, ""
	}
	return false, ns
}

// BaseContext loads the operator config file at path into a generic value
// tree via viper, used as the manifest renderer's base context.
func BaseContext(path string) (map[string]any, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}
	return v.AllSettings(), nil
}
