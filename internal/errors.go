// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import "errors"

// The error taxonomy is rooted here so that the oprf and voprf packages surface the
// same sentinel values and callers can match them with errors.Is across packages.
var (
	// ErrInvalidInput indicates that an input deterministically maps to the group
	// identity element, or that a provided element is nil or the identity.
	ErrInvalidInput = errors.New("invalid input - input yields the group identity element")

	// ErrInvalidProof indicates the proof's recomputed challenge doesn't match.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrInvertibility indicates that POPRF private key tweaking yields the zero,
	// non-invertible, scalar.
	ErrInvertibility = errors.New("invalid input - POPRF private key tweaking yields the zero scalar")

	// ErrDecoding indicates an invalid encoding: a length mismatch, a non-canonical
	// representation, or a value outside the prime-order subgroup.
	ErrDecoding = errors.New("decoding error")

	// ErrRandomSource indicates the provided randomness source failed to deliver.
	ErrRandomSource = errors.New("randomness source failure")
)
