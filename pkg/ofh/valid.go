// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ofh

// Valid is an interface with the CheckValid function. This function should
// return an error for incorrect data. It is implemented by the parameter
// bundles of the message builders and by configuration types. Compound types
// check their members and aggregate all errors by the multierror package.
//
// The builders themselves never call CheckValid; their inputs are a
// precondition. Callers processing external input should check it first.
type Valid interface {
	// CheckValid returns an error for incorrect data.
	CheckValid() error
}
