// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package oprf

import (
	"errors"
	"fmt"

	"github.com/bytemare/oprf/internal"
)

// The taxonomy roots live in the internal package, so the voprf package can surface the very same values.
var (
	// ErrInvalidInput indicates that an input deterministically maps to the group identity element, or that a
	// provided element is nil or the identity element.
	ErrInvalidInput = internal.ErrInvalidInput

	// ErrInvalidProof indicates that a proof failed verification.
	ErrInvalidProof = internal.ErrInvalidProof

	// ErrInvertibility indicates that POPRF private key tweaking yields the zero, non-invertible, scalar.
	ErrInvertibility = internal.ErrInvertibility

	// ErrDecoding indicates an invalid encoding: a length mismatch, a non-canonical representation, or a value
	// outside the prime-order subgroup.
	ErrDecoding = internal.ErrDecoding

	// ErrRandomSource indicates the provided randomness source failed to deliver.
	ErrRandomSource = internal.ErrRandomSource
)

var (
	errBatchNoElements    = errors.New("no elements provided for batched operation")
	errBatchDifferentSize = errors.New("number of evaluations is different than number of previously blinded inputs")
	errBatchTooLarge      = fmt.Errorf("batch exceeds %d elements", internal.MaxSegmentLength)

	errInvalidSecretKey = fmt.Errorf("%w: secret key is nil or zero", internal.ErrInvalidInput)
	errInvalidBlinded   = fmt.Errorf("%w: blinded element is nil or the identity element", internal.ErrInvalidInput)
)
