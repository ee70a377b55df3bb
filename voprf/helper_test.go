// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf_test

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/bytemare/ecc"

	"github.com/bytemare/oprf"
	"github.com/bytemare/oprf/voprf"
)

var errExpectedEquality = errors.New("expected equality")

type configuration struct {
	name        string
	ciphersuite oprf.Ciphersuite
	group       ecc.Group
}

var configurationTable = []configuration{
	{
		name:        "Ristretto255",
		ciphersuite: oprf.Ristretto255Sha512,
		group:       ecc.Ristretto255Sha512,
	},
	{
		name:        "P256Sha256",
		ciphersuite: oprf.P256Sha256,
		group:       ecc.P256Sha256,
	},
	{
		name:        "P384Sha384",
		ciphersuite: oprf.P384Sha384,
		group:       ecc.P384Sha384,
	},
	{
		name:        "P521Sha512",
		ciphersuite: oprf.P521Sha512,
		group:       ecc.P521Sha512,
	},
	{
		name:        "Secp256k1Sha256",
		ciphersuite: oprf.Secp256k1,
		group:       ecc.Secp256k1Sha256,
	},
}

func testAll(t *testing.T, f func(*configuration)) {
	for _, test := range configurationTable {
		t.Run(test.name, func(t *testing.T) {
			f(&test)
		})
	}
}

// runs the given function once in VOPRF mode and once in POPRF mode, for every ciphersuite.
func testAllModes(t *testing.T, f func(*configuration, []byte)) {
	poprfInfo := []byte("some instance info")

	testAll(t, func(c *configuration) {
		t.Run("VOPRF", func(t *testing.T) {
			f(c, nil)
		})
		t.Run("POPRF", func(t *testing.T) {
			f(c, poprfInfo)
		})
	})
}

func newServer(t *testing.T, c *configuration, poprfInfo []byte) *voprf.Server {
	t.Helper()

	server := voprf.NewServer(c.ciphersuite, poprfInfo...)
	if err := server.GenerateKeys(); err != nil {
		t.Fatal(err)
	}

	return server
}

func newClientPair(t *testing.T, c *configuration, poprfInfo []byte) (*voprf.Server, *voprf.Client) {
	t.Helper()

	server := newServer(t, c, poprfInfo)
	_, pk := server.KeyPair()

	client, err := voprf.NewClient(c.ciphersuite, pk, poprfInfo...)
	if err != nil {
		t.Fatal(err)
	}

	return server, client
}

func decodeScalar(t *testing.T, g ecc.Group, input string) *ecc.Scalar {
	t.Helper()

	encoded, err := hex.DecodeString(input)
	if err != nil {
		t.Fatal(err)
	}

	s := g.NewScalar()
	if err = s.Decode(encoded); err != nil {
		t.Fatal(err)
	}

	return s
}

func decodeElement(t *testing.T, g ecc.Group, input string) *ecc.Element {
	t.Helper()

	encoded, err := hex.DecodeString(input)
	if err != nil {
		t.Fatal(err)
	}

	e := g.NewElement()
	if err = e.Decode(encoded); err != nil {
		t.Fatal(err)
	}

	return e
}

func mustHex(t *testing.T, input string) []byte {
	t.Helper()

	decoded, err := hex.DecodeString(input)
	if err != nil {
		t.Fatal(err)
	}

	return decoded
}
