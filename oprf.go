// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package oprf implements RFC9497 and provides abstracted access to Oblivious Pseudorandom Functions (OPRF) and
// Threshold Oblivious Pseudorandom Functions (TOPRF) using Elliptic Curve Prime Order Groups (EC-OPRF).
// For VOPRF and POPRF use the github.com/bytemare/oprf/voprf package.
package oprf

import (
	"io"

	"github.com/bytemare/ecc"

	"github.com/bytemare/oprf/internal"
)

// Ciphersuite of the xOPRF compatible cipher suite to be used.
type Ciphersuite byte

const (
	// Ristretto255Sha512 identifies the Ristretto255 group and SHA-512.
	Ristretto255Sha512 = Ciphersuite(ecc.Ristretto255Sha512)

	// decaf448Shake256 identifies the Decaf448 group and Shake-256. Not supported.
	// decaf448Shake256 = 2.

	// P256Sha256 identifies the NIST P-256 group and SHA-256.
	P256Sha256 = Ciphersuite(ecc.P256Sha256)

	// P384Sha384 identifies the NIST P-384 group and SHA-384.
	P384Sha384 = Ciphersuite(ecc.P384Sha384)

	// P521Sha512 identifies the NIST P-512 group and SHA-512.
	P521Sha512 = Ciphersuite(ecc.P521Sha512)

	// Secp256k1 identifies the SECp256k1 group and SHA-256.
	Secp256k1 = Ciphersuite(ecc.Secp256k1Sha256)
)

// FromGroup returns a Ciphersuite given a Group.
func FromGroup(g ecc.Group) Ciphersuite {
	return Ciphersuite(g)
}

// Group returns the elliptic curve prime-order group of the ciphersuite.
func (c Ciphersuite) Group() ecc.Group {
	return ecc.Group(c)
}

// Name returns the [RFC9497](https://datatracker.ietf.org/doc/rfc9497) compliant identifier of the ciphersuite.
func (c Ciphersuite) Name() string {
	return internal.CiphersuiteIdentifier[ecc.Group(c)]
}

// Client returns an OPRF client.
func (c Ciphersuite) Client() *Client {
	return &Client{
		Client: internal.NewClient(internal.OPRF, ecc.Group(c)),
	}
}

// Client is used for OPRF and TOPRF client executions.
type Client struct {
	*internal.Client
}

// SetRandomSource sets the randomness source blinding scalars are drawn from. If random is nil, or this method is
// never called, the operating system's secure source is used. A failing source surfaces as ErrRandomSource, it is
// never substituted.
func (c *Client) SetRandomSource(random io.Reader) {
	c.Client.Random = random
}

// SetBlind sets one or multiple blinds in the client's blind register. This is optional, and useful if you want to
// force usage of specific blinding scalar. If no blinding scalars are set, new, random blinds will be used.
func (c *Client) SetBlind(blind ...*ecc.Scalar) {
	c.Client.UpdateStateCapacity(len(blind))

	for i, b := range blind {
		c.Client.SetBlind(i, b)
	}
}

// Blind blinds the input using the first blinding scalar in the Client's register. If no blinding scalars were
// previously set, new, random blinds will be used.
func (c *Client) Blind(input []byte) (*ecc.Element, error) {
	return c.Client.Blind(0, input)
}

// BlindBatch blinds the given set, using either previously set blinds in the same order (if they have been set) or
// newly generated random blinds. Note that if not enough blinds were set, new, random blinds will be used as necessary.
func (c *Client) BlindBatch(inputs [][]byte) ([]*ecc.Element, error) {
	if len(inputs) == 0 {
		return nil, errBatchNoElements
	}

	if len(inputs) > internal.MaxSegmentLength {
		return nil, errBatchTooLarge
	}

	c.UpdateStateCapacity(len(inputs))
	blindedInput := make([]*ecc.Element, len(inputs))

	for i, in := range inputs {
		blinded, err := c.Client.Blind(i, in)
		if err != nil {
			return nil, err
		}

		blindedInput[i] = blinded
	}

	return blindedInput, nil
}

// Finalize unblinds the evaluated element and returns the protocol output.
func (c *Client) Finalize(evaluated *ecc.Element) ([]byte, error) {
	return c.Client.Finalize(0, evaluated)
}

// FinalizeBatch unblinds the evaluated elements and returns the corresponding protocol outputs.
func (c *Client) FinalizeBatch(evaluated []*ecc.Element) ([][]byte, error) {
	if len(evaluated) == 0 {
		return nil, errBatchNoElements
	}

	if len(evaluated) != c.Size() {
		return nil, errBatchDifferentSize
	}

	return c.Client.FinalizeBatch(evaluated)
}

// Evaluate is the server's function to evaluate a Client provided blinded element with the server's secret key.
func Evaluate(key *ecc.Scalar, blinded *ecc.Element) (*ecc.Element, error) {
	if key == nil || key.IsZero() {
		return nil, errInvalidSecretKey
	}

	if blinded == nil || blinded.IsIdentity() {
		return nil, errInvalidBlinded
	}

	return blinded.Copy().Multiply(key), nil
}

// EvaluateBatch is the server's function to evaluate a set of Client provided blinded elements with the
// server's secret key.
func EvaluateBatch(key *ecc.Scalar, blinded []*ecc.Element) ([]*ecc.Element, error) {
	if len(blinded) == 0 {
		return nil, errBatchNoElements
	}

	evaluated := make([]*ecc.Element, len(blinded))

	for i, b := range blinded {
		ev, err := Evaluate(key, b)
		if err != nil {
			return nil, err
		}

		evaluated[i] = ev
	}

	return evaluated, nil
}
