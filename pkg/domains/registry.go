// Copyright 2026 © The Typhon Authors
// SPDX-License-Identifier: Apache-2.0

// Package domains provides the demo tool sets the chaos layer wraps.
//
// Each domain is a fixed, compile-time set of mock tools backed by
// embedded YAML datasets. There is no dynamic loading: the registry is
// a plain map and adding a domain means adding a Go file.
package domains

import (
	"fmt"
	"sort"

	"github.com/typhonlabs/typhon/pkg/core"
	typherr "github.com/typhonlabs/typhon/pkg/errors"
)

// Domain groups the tools for one demo vertical.
type Domain struct {
	Name        string
	Description string
	Tools       []core.Tool
}

var builders = map[string]func() *Domain{
	"finance":    financeDomain,
	"healthcare": healthcareDomain,
	"ecommerce":  ecommerceDomain,
}

// Names returns the registered domain names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named domain with its tools constructed.
func Get(name string) (*Domain, error) {
	if err := loadDatasets(); err != nil {
		return nil, typherr.New(typherr.CodeInternal, "domain datasets failed to load", err)
	}
	build, ok := builders[name]
	if !ok {
		return nil, typherr.New(typherr.CodeNotFound,
			fmt.Sprintf("unknown domain %q, available: %v", name, Names()), nil).
			WithContext("domain", name)
	}
	return build(), nil
}

// ToolsFor collects the tools of every named domain, in order.
func ToolsFor(names []string) ([]core.Tool, error) {
	var tools []core.Tool
	for _, name := range names {
		d, err := Get(name)
		if err != nil {
			return nil, err
		}
		tools = append(tools, d.Tools...)
	}
	return tools, nil
}
