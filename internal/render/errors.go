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

import "fmt"

// TemplateError is returned for every render-time failure this package can
// produce: a missing template, a strict-mode unresolved variable, or a
// file-inclusion I/O failure. All three surface as one error variant
// carrying the template's logical name.
type TemplateError struct {
	Name  string
	Cause error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("render template %q: %v", e.Name, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

func newTemplateError(name string, cause error) error {
	return &TemplateError{Name: name, Cause: cause}
}
