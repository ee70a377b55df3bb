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

	"github.com/bytemare/ecc"
)

const (
	dstComposite = "Composite"
	dstChallenge = "Challenge"
)

// Verifiable enables VOPRF and POPRF functions over OPRF operations.
type Verifiable struct {
	*Core
	POPRFInfo []byte
	seedDST   []byte
}

// NewVerifiable returns a core configuration for VOPRF and POPRF given the ciphersuite and mode.
// The info argument should only be provided in POPRF mode.
func NewVerifiable(c *Core, info []byte) *Verifiable {
	if len(info) != 0 && c.Mode != POPRF {
		panic("internal error: POPRF info provided but POPRF mode not set")
	}

	ctx := ContextString(c.Mode, CiphersuiteIdentifier[c.Group])

	return &Verifiable{
		Core:      c,
		POPRFInfo: info,
		seedDST:   Dst(dstSeed, ctx),
	}
}

func (v Verifiable) challenge(encPks []byte, a0, a1, a2, a3 *ecc.Element) *ecc.Scalar {
	encA0 := lengthPrefixEncode(a0.Encode())
	encA1 := lengthPrefixEncode(a1.Encode())
	encA2 := lengthPrefixEncode(a2.Encode())
	encA3 := lengthPrefixEncode(a3.Encode())
	encDST := []byte(dstChallenge)
	input := concatenate(encPks, encA0, encA1, encA2, encA3, encDST)

	return v.HashToScalar(input)
}

func (v Verifiable) pTag(info []byte) *ecc.Scalar {
	framedInfo := make([]byte, 0, len(dstInfo)+2+len(info)) // dstInfo + lengthPrefixEncode(info)
	framedInfo = append(framedInfo, dstInfo...)
	framedInfo = append(framedInfo, lengthPrefixEncode(info)...)

	return v.HashToScalar(framedInfo)
}

// TweakPrivateKey tweaks the input scalar for use in the POPRF setting, returning the inverted tweaked scalar used
// for evaluations and the tweaked scalar itself.
func (v Verifiable) TweakPrivateKey(privateKey *ecc.Scalar) (*ecc.Scalar, *ecc.Scalar, error) {
	context := v.pTag(v.POPRFInfo)
	t := privateKey.Copy().Add(context)

	if t.IsZero() {
		return nil, nil, ErrInvertibility
	}

	return t.Copy().Invert(), t, nil
}

// TweakPublicKey tweaks the input element for use in the POPRF setting.
func (v Verifiable) TweakPublicKey(pubKey *ecc.Element) (*ecc.Element, error) {
	m := v.pTag(v.POPRFInfo)

	t := v.Group.Base().Multiply(m).Add(pubKey)
	if t.IsIdentity() {
		return nil, fmt.Errorf("%w: POPRF public key tweaking yields the identity element", ErrInvalidInput)
	}

	return t, nil
}

// GenerateProof produces a non-interactive zero-knowledge (NIZK) proof on the evaluated elements.
func (v Verifiable) GenerateProof(
	random, k *ecc.Scalar,
	pk *ecc.Element,
	cs, ds []*ecc.Element,
) (*ecc.Scalar, *ecc.Scalar) {
	encPk := lengthPrefixEncode(pk.Encode())
	a0, a1 := v.computeComposites(k, encPk, cs, ds)

	a2 := v.Group.Base().Multiply(random)
	a3 := a0.Copy().Multiply(random)

	proofC := v.challenge(encPk, a0, a1, a2, a3)
	proofS := random.Copy().Subtract(proofC.Copy().Multiply(k))

	return proofC, proofS
}

// VerifyProof verifies the non-interactive zero-knowledge (NIZK) proof on the evaluated elements produced by
// GenerateProof, and returns ErrInvalidProof if the recomputed challenge doesn't match.
func (v Verifiable) VerifyProof(proofC, proofS *ecc.Scalar, pubKey *ecc.Element, cs, ds []*ecc.Element) error {
	encGk := lengthPrefixEncode(pubKey.Encode())
	a0, a1 := v.computeComposites(nil, encGk, cs, ds)

	ap := pubKey.Copy().Multiply(proofC)
	a2 := v.Group.Base().Multiply(proofS).Add(ap)

	bm := a0.Copy().Multiply(proofS)
	bz := a1.Copy().Multiply(proofC)
	a3 := bm.Add(bz)
	expectedC := v.challenge(encGk, a0, a1, a2, a3)

	if !ctEqual(expectedC.Encode(), proofC.Encode()) {
		return ErrInvalidProof
	}

	return nil
}

func (v Verifiable) ccScalar(encSeed []byte, index int, ci, di *ecc.Element) *ecc.Scalar {
	input := concatenate(encSeed, I2osp2(index),
		lengthPrefixEncode(ci.Encode()),
		lengthPrefixEncode(di.Encode()),
		[]byte(dstComposite))

	return v.HashToScalar(input)
}

func (v Verifiable) computeCompositesFast(
	k *ecc.Scalar,
	encSeed []byte,
	cs, ds []*ecc.Element,
) (*ecc.Element, *ecc.Element) {
	m := v.Group.NewElement().Identity()

	for i, ci := range cs {
		di := v.ccScalar(encSeed, i, ci, ds[i])
		m = ci.Copy().Multiply(di).Add(m)
	}

	// The verifier's share of the transcript is Z = k * M, since Zi = k * Mi.
	return m, m.Copy().Multiply(k)
}

func (v Verifiable) computeCompositesClient(encSeed []byte, cs, ds []*ecc.Element) (*ecc.Element, *ecc.Element) {
	m := v.Group.NewElement().Identity()
	z := v.Group.NewElement().Identity()

	for i, ci := range cs {
		di := v.ccScalar(encSeed, i, ci, ds[i])
		m = ci.Copy().Multiply(di).Add(m)
		z = ds[i].Copy().Multiply(di).Add(z)
	}

	return m, z
}

func (v Verifiable) computeComposites(
	k *ecc.Scalar,
	encGk []byte,
	cs, ds []*ecc.Element,
) (*ecc.Element, *ecc.Element) {
	encSeedDST := lengthPrefixEncode(v.seedDST)

	// build seed
	seed := v.Hash.Hash(encGk, encSeedDST)
	encSeed := lengthPrefixEncode(seed)

	// When called from the server, computation of Z can be shortened, since Zi = k * Mi.
	if k != nil {
		return v.computeCompositesFast(k, encSeed, cs, ds)
	}

	return v.computeCompositesClient(encSeed, cs, ds)
}
