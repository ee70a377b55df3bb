// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"fmt"
	"io"

	"github.com/bytemare/ecc"
)

// randomSeedMargin oversamples the source beyond the scalar length, so the reduction
// into the field stays uniform.
const randomSeedMargin = 16

// RandomScalar returns a new random non-zero scalar. If random is nil, the operating
// system's secure source is used. Otherwise, the scalar is deterministically derived
// from bytes read off random, and a read failure is returned as is, never silently
// replaced by another source.
func (c Core) RandomScalar(random io.Reader) (*ecc.Scalar, error) {
	if random == nil {
		return c.Group.NewScalar().Random(), nil
	}

	seed := make([]byte, c.Group.ScalarLength()+randomSeedMargin)

	var s *ecc.Scalar

	for counter := 0; s == nil || s.IsZero(); counter++ {
		if counter > 255 {
			return nil, fmt.Errorf("%w: source only yields the zero scalar", ErrRandomSource)
		}

		if _, err := io.ReadFull(random, seed); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRandomSource, err)
		}

		s = c.HashToScalar(seed)
	}

	return s, nil
}
