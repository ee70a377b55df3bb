// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package oprf

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bytemare/ecc"

	"github.com/bytemare/oprf/internal"
)

var (
	errKeyPairLength      = fmt.Errorf("%w: invalid key pair encoding length", internal.ErrDecoding)
	errKeyPairCiphersuite = fmt.Errorf("%w: invalid ciphersuite identifier", internal.ErrDecoding)
	errKeyPairMismatch    = fmt.Errorf("%w: public key doesn't match the secret key", internal.ErrDecoding)
)

// KeyPair assembles an xOPRF key pair. The SecretKey can be used as the evaluation key for the Group identified by
// Ciphersuite.
type KeyPair struct {
	PublicKey   *ecc.Element
	SecretKey   *ecc.Scalar
	Ciphersuite Ciphersuite
}

// GenerateKeyPair returns a new, random key pair for the OPRF mode. If random is provided, the secret key is drawn
// from that source, and a source failure is returned as ErrRandomSource.
// VOPRF and POPRF keys must be created with server.GenerateKeys() in the voprf package.
func GenerateKeyPair(c Ciphersuite, random ...io.Reader) (*KeyPair, error) {
	var source io.Reader
	if len(random) != 0 {
		source = random[0]
	}

	core := internal.LoadConfiguration(c.Group(), internal.OPRF)

	sk, err := core.RandomScalar(source)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		PublicKey:   c.Group().Base().Multiply(sk),
		SecretKey:   sk,
		Ciphersuite: c,
	}, nil
}

// DeriveKeyPair returns a private-public key pair for the OPRF mode, given a secret seed and instance specific info.
// VOPRF and POPRF keys must be created with server.DeriveKeyPair() in the voprf package.
// TOPRF key pairs should be created using a distributed key generation protocol.
func DeriveKeyPair(c Ciphersuite, seed, info []byte) (*KeyPair, error) {
	// We don't use this as a method to a Ciphersuite, as it might be confusing when in VOPRF or POPRF mode, which
	// use the Ciphersuite identifier from this package.
	sk, pk, err := internal.LoadConfiguration(c.Group(), internal.OPRF).DeriveKeyPair(seed, info)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		PublicKey:   pk,
		SecretKey:   sk,
		Ciphersuite: c,
	}, nil
}

// Serialize returns the explicit key export: the ciphersuite identifier followed by the fixed-width secret and
// public key encodings.
func (k *KeyPair) Serialize() []byte {
	g := k.Ciphersuite.Group()

	output := make([]byte, 0, 1+g.ScalarLength()+g.ElementLength())
	output = append(output, byte(k.Ciphersuite))
	output = append(output, k.SecretKey.Encode()...)
	output = append(output, k.PublicKey.Encode()...)

	return output
}

// Deserialize decodes a key pair serialized with Serialize into k, and verifies that the public key matches the
// secret key. On error, k is left unchanged.
func (k *KeyPair) Deserialize(data []byte) error {
	if len(data) == 0 {
		return errKeyPairLength
	}

	c := Ciphersuite(data[0])
	if _, ok := internal.CiphersuiteIdentifier[c.Group()]; !ok {
		return errKeyPairCiphersuite
	}

	g := c.Group()

	if len(data) != 1+g.ScalarLength()+g.ElementLength() {
		return errKeyPairLength
	}

	sk := g.NewScalar()
	if err := sk.Decode(data[1 : 1+g.ScalarLength()]); err != nil {
		return fmt.Errorf("%w: invalid secret key encoding: %w", internal.ErrDecoding, err)
	}

	pk := g.NewElement()
	if err := pk.Decode(data[1+g.ScalarLength():]); err != nil {
		return fmt.Errorf("%w: invalid public key encoding: %w", internal.ErrDecoding, err)
	}

	if !g.Base().Multiply(sk).Equal(pk) {
		return errKeyPairMismatch
	}

	k.Ciphersuite = c
	k.SecretKey = sk
	k.PublicKey = pk

	return nil
}

// MarshalBinary encodes the key pair into its binary form.
func (k *KeyPair) MarshalBinary() ([]byte, error) {
	return k.Serialize(), nil
}

// UnmarshalBinary decodes the binary form of a key pair into k.
func (k *KeyPair) UnmarshalBinary(data []byte) error {
	return k.Deserialize(data)
}

type keyPairEncoded struct {
	SecretKey   []byte `json:"s"`
	PublicKey   []byte `json:"p"`
	Ciphersuite byte   `json:"c"`
}

// MarshalJSON encodes the key pair into JSON.
func (k *KeyPair) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(keyPairEncoded{
		SecretKey:   k.SecretKey.Encode(),
		PublicKey:   k.PublicKey.Encode(),
		Ciphersuite: byte(k.Ciphersuite),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding key pair: %w", err)
	}

	return out, nil
}

// UnmarshalJSON decodes a JSON encoded key pair into k. On error, k is left unchanged.
func (k *KeyPair) UnmarshalJSON(data []byte) error {
	enc := keyPairEncoded{}
	if err := json.Unmarshal(data, &enc); err != nil {
		return fmt.Errorf("%w: %w", internal.ErrDecoding, err)
	}

	encoded := make([]byte, 0, 1+len(enc.SecretKey)+len(enc.PublicKey))
	encoded = append(encoded, enc.Ciphersuite)
	encoded = append(encoded, enc.SecretKey...)
	encoded = append(encoded, enc.PublicKey...)

	return k.Deserialize(encoded)
}

// Clear zeroes out the secret key. The key pair must not be used afterwards.
func (k *KeyPair) Clear() {
	if k.SecretKey != nil {
		k.SecretKey.Zero()
	}
}
