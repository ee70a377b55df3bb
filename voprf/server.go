// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf

import (
	"errors"
	"fmt"
	"io"

	"github.com/bytemare/ecc"

	"github.com/bytemare/oprf"
	"github.com/bytemare/oprf/internal"
)

var (
	errInvalidPrivateKey = errors.New("private key is nil or zero")
	errInvalidKeyPair    = errors.New("input public key doesn't belong to the private key")
	errNoKeyPair         = errors.New("no key pair has been set on the server")
	errBatchTooLarge     = fmt.Errorf("batch exceeds %d elements", internal.MaxSegmentLength)
)

// Server is used for VOPRF or POPRF server executions. For OPRF or TOPRF, use the oprf package (no need for a server
// instance).
type Server struct {
	// OPRF
	*internal.Verifiable

	// Randomness source for proof nonces, defaults to the operating system's secure source.
	random io.Reader

	// VOPRF
	privateKey *ecc.Scalar
	publicKey  *ecc.Element

	// POPRF
	scalar     *ecc.Scalar
	t          *ecc.Scalar
	tweakedKey *ecc.Element
}

// NewServer returns a server instance given a ciphersuite. poprfInfo must only be provided if
// the POPRF mode is requested. If poprfInfo is not provided or nil, the VOPRF mode is used.
func NewServer(cs oprf.Ciphersuite, poprfInfo ...byte) *Server {
	mode := internal.VOPRF
	if len(poprfInfo) != 0 {
		mode = internal.POPRF
	}

	return &Server{
		Verifiable: internal.NewVerifiable(internal.LoadConfiguration(ecc.Group(cs), mode), poprfInfo),
		random:     nil,
		privateKey: nil,
		publicKey:  nil,
		scalar:     nil,
		t:          nil,
		tweakedKey: nil,
	}
}

// SetRandomSource sets the randomness source the proof nonces are drawn from. If random is nil, or this method is
// never called, the operating system's secure source is used. A failing source surfaces as ErrRandomSource, it is
// never substituted.
func (s *Server) SetRandomSource(random io.Reader) {
	s.random = random
}

func (s *Server) setKeyPair(privateKey *ecc.Scalar, publicKey *ecc.Element) error {
	if s.Core.Mode == internal.POPRF {
		scalar, t, err := s.Verifiable.TweakPrivateKey(privateKey)
		if err != nil {
			return err
		}

		s.scalar, s.t = scalar, t
		s.tweakedKey = s.Core.Group.Base().Multiply(t)
	} else {
		s.scalar = privateKey
	}

	s.privateKey = privateKey
	s.publicKey = publicKey

	return nil
}

func checkKeys(g ecc.Group, privateKey *ecc.Scalar, publicKey *ecc.Element) error {
	if publicKey == nil || publicKey.IsIdentity() {
		return errInvalidPublicKey
	}

	if privateKey == nil || privateKey.IsZero() {
		return errInvalidPrivateKey
	}

	if !g.Base().Multiply(privateKey).Equal(publicKey) {
		return errInvalidKeyPair
	}

	return nil
}

// SetKeyPair sets the server's private and public key pair. This returns an error if either key is nil, the public key
// is the identity element, if it doesn't match as a public key to the provided private key, or, in POPRF mode, if
// tweaking the private key yields the zero scalar.
func (s *Server) SetKeyPair(privateKey *ecc.Scalar, publicKey *ecc.Element) error {
	if err := checkKeys(s.Core.Group, privateKey, publicKey); err != nil {
		return err
	}

	return s.setKeyPair(privateKey, publicKey)
}

// DeriveKeyPair derives and sets the server's private and public key pair given a secret seed and instance specific
// info.
func (s *Server) DeriveKeyPair(seed, info []byte) error {
	sk, pk, err := s.Core.DeriveKeyPair(seed, info)
	if err != nil {
		return err
	}

	return s.setKeyPair(sk, pk)
}

// GenerateKeys generates and sets a new, random private and public key pair. If random is provided, the secret key
// is drawn from that source.
func (s *Server) GenerateKeys(random ...io.Reader) error {
	source := s.random
	if len(random) != 0 {
		source = random[0]
	}

	sk, err := s.Core.RandomScalar(source)
	if err != nil {
		return err
	}

	return s.setKeyPair(sk, s.Core.Group.Base().Multiply(sk))
}

// KeyPair returns the server's private and public key pair.
func (s *Server) KeyPair() (*ecc.Scalar, *ecc.Element) {
	return s.privateKey, s.publicKey
}

func (s *Server) evaluate(blinded []*ecc.Element, random []*ecc.Scalar) (*Evaluation, error) {
	if s.scalar == nil {
		return nil, errNoKeyPair
	}

	if len(blinded) > internal.MaxSegmentLength {
		return nil, errBatchTooLarge
	}

	// Set the random nonce for the proof
	var r *ecc.Scalar

	if len(random) != 0 && random[0] != nil {
		r = random[0]
	} else {
		nonce, err := s.Core.RandomScalar(s.random)
		if err != nil {
			return nil, err
		}

		r = nonce
	}

	// Evaluate
	evaluated, err := oprf.EvaluateBatch(s.scalar, blinded)
	if err != nil {
		return nil, err
	}

	var proofC, proofS *ecc.Scalar

	if s.Core.Mode == internal.VOPRF {
		proofC, proofS = s.Verifiable.GenerateProof(r, s.privateKey, s.publicKey, blinded, evaluated)
	} else { // POPRF
		proofC, proofS = s.Verifiable.GenerateProof(r, s.t, s.tweakedKey, evaluated, blinded)
	}

	return &Evaluation{
		group: s.Core.Group,
		Proof: [2]*ecc.Scalar{
			proofC, proofS,
		},
		Evaluations: evaluated,
	}, nil
}

// Evaluate takes the Client provided blinded element and evaluates it, returning the evaluated element and the
// NIZK proof. The random argument is optional, and enables to force the use of that scalar for the random input to the
// NIZK proof.
func (s *Server) Evaluate(blinded *ecc.Element, random ...*ecc.Scalar) (*Evaluation, error) {
	return s.evaluate([]*ecc.Element{blinded}, random)
}

// EvaluateBatch takes the Client provided blinded elements and evaluates them, returning the evaluated elements and
// the unique NIZK proof for the whole set. The random argument is optional, and enables to force the use of that
// scalar for the random input to the NIZK proof.
func (s *Server) EvaluateBatch(blinded []*ecc.Element, random ...*ecc.Scalar) (*Evaluation, error) {
	return s.evaluate(blinded, random)
}

// Clear zeroes out the server's secret values: the private key and, in POPRF mode, the tweaked scalars. The server
// must be given a new key pair before further use.
func (s *Server) Clear() {
	for _, scalar := range []*ecc.Scalar{s.privateKey, s.scalar, s.t} {
		if scalar != nil {
			scalar.Zero()
		}
	}

	s.privateKey = nil
	s.publicKey = nil
	s.scalar = nil
	s.t = nil
	s.tweakedKey = nil
}
