// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ofh

import "errors"

var (
	// ErrIncomplete is returned when a buffer ends before a field. This is
	// expected under packet loss and not treated as an exceptional state.
	ErrIncomplete = errors.New("ofh: incomplete message")

	// ErrMalformed is wrapped by errors describing an invalid field value.
	ErrMalformed = errors.New("ofh: malformed message")
)
