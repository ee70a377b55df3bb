// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package voprf_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bytemare/ecc"
	"github.com/stretchr/testify/require"

	"github.com/bytemare/oprf"
	"github.com/bytemare/oprf/voprf"
)

func TestVOPRF(t *testing.T) {
	input := []byte("input")

	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		server, client := newClientPair(t, c, poprfInfo)

		blinded, err := client.Blind(input)
		require.NoError(t, err)

		evaluation, err := server.Evaluate(blinded)
		require.NoError(t, err)

		output, err := client.Finalize(evaluation)
		require.NoError(t, err)
		require.NotEmpty(t, output)
	})
}

func TestVOPRF_Batch(t *testing.T) {
	inputs := [][]byte{
		[]byte("input-1"),
		[]byte("input-2"),
		[]byte("input-3"),
	}

	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		server, client := newClientPair(t, c, poprfInfo)

		blinded, err := client.BlindBatch(inputs)
		require.NoError(t, err)

		evaluation, err := server.EvaluateBatch(blinded)
		require.NoError(t, err)

		outputs, err := client.FinalizeBatch(evaluation)
		require.NoError(t, err)
		require.Len(t, outputs, len(inputs))

		// Batch outputs match the corresponding single-input runs.
		for i, input := range inputs {
			single, err := client.Blind(input)
			require.NoError(t, err)

			singleEval, err := server.Evaluate(single)
			require.NoError(t, err)

			output, err := client.Finalize(singleEval)
			require.NoError(t, err)

			if !bytes.Equal(outputs[i], output) {
				t.Fatal(errExpectedEquality)
			}
		}
	})
}

func TestVOPRF_BothModes_DifferentOutput(t *testing.T) {
	input := []byte("input")

	testAll(t, func(c *configuration) {
		server := newServer(t, c, nil)
		sk, pk := server.KeyPair()

		poprfServer := voprf.NewServer(c.ciphersuite, []byte("info")...)
		require.NoError(t, poprfServer.SetKeyPair(sk, pk))

		client, err := voprf.NewClient(c.ciphersuite, pk)
		require.NoError(t, err)

		poprfClient, err := voprf.NewClient(c.ciphersuite, pk, []byte("info")...)
		require.NoError(t, err)

		blinded, err := client.Blind(input)
		require.NoError(t, err)

		evaluation, err := server.Evaluate(blinded)
		require.NoError(t, err)

		output, err := client.Finalize(evaluation)
		require.NoError(t, err)

		poprfBlinded, err := poprfClient.Blind(input)
		require.NoError(t, err)

		poprfEvaluation, err := poprfServer.Evaluate(poprfBlinded)
		require.NoError(t, err)

		poprfOutput, err := poprfClient.Finalize(poprfEvaluation)
		require.NoError(t, err)

		// The same key and input yield different outputs across modes.
		if bytes.Equal(output, poprfOutput) {
			t.Fatal("expected different outputs across modes")
		}
	})
}

func TestVOPRF_InvalidProof(t *testing.T) {
	input := []byte("input")

	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		server, client := newClientPair(t, c, poprfInfo)

		blinded, err := client.Blind(input)
		require.NoError(t, err)

		evaluation, err := server.Evaluate(blinded)
		require.NoError(t, err)

		// Tampering with the challenge invalidates the proof.
		tampered := &voprf.Evaluation{
			Proof:       evaluation.Proof,
			Evaluations: evaluation.Evaluations,
		}
		tampered.Proof[0] = evaluation.Proof[0].Copy().Add(c.group.NewScalar().Random())

		if _, err = client.Finalize(tampered); err == nil || !errors.Is(err, oprf.ErrInvalidProof) {
			t.Fatalf("expected ErrInvalidProof, got %v", err)
		}

		// Tampering with the response invalidates the proof.
		tampered.Proof[0] = evaluation.Proof[0]
		tampered.Proof[1] = evaluation.Proof[1].Copy().Add(c.group.NewScalar().Random())

		if _, err = client.Finalize(tampered); err == nil || !errors.Is(err, oprf.ErrInvalidProof) {
			t.Fatalf("expected ErrInvalidProof, got %v", err)
		}

		// Tampering with the evaluated element invalidates the proof.
		tampered.Proof[1] = evaluation.Proof[1]
		tampered.Evaluations = []*ecc.Element{
			evaluation.Evaluations[0].Copy().Add(c.group.Base()),
		}

		if _, err = client.Finalize(tampered); err == nil || !errors.Is(err, oprf.ErrInvalidProof) {
			t.Fatalf("expected ErrInvalidProof, got %v", err)
		}

		// The untampered evaluation still verifies.
		if _, err = client.Finalize(evaluation); err != nil {
			t.Fatal(err)
		}
	})
}

func TestVOPRF_WrongKey(t *testing.T) {
	input := []byte("input")

	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		_, client := newClientPair(t, c, poprfInfo)

		// A different server with a different key evaluates the blinded element.
		otherServer := newServer(t, c, poprfInfo)

		blinded, err := client.Blind(input)
		require.NoError(t, err)

		evaluation, err := otherServer.Evaluate(blinded)
		require.NoError(t, err)

		if _, err = client.Finalize(evaluation); err == nil || !errors.Is(err, oprf.ErrInvalidProof) {
			t.Fatalf("expected ErrInvalidProof, got %v", err)
		}
	})
}

func TestVOPRF_BatchReordered(t *testing.T) {
	inputs := [][]byte{
		[]byte("input-1"),
		[]byte("input-2"),
	}

	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		server, client := newClientPair(t, c, poprfInfo)

		blinded, err := client.BlindBatch(inputs)
		require.NoError(t, err)

		evaluation, err := server.EvaluateBatch(blinded)
		require.NoError(t, err)

		// Swapping evaluated elements breaks the batch proof.
		reordered := &voprf.Evaluation{
			Proof: evaluation.Proof,
			Evaluations: []*ecc.Element{
				evaluation.Evaluations[1],
				evaluation.Evaluations[0],
			},
		}

		if _, err = client.FinalizeBatch(reordered); err == nil || !errors.Is(err, oprf.ErrInvalidProof) {
			t.Fatalf("expected ErrInvalidProof, got %v", err)
		}
	})
}

func TestVOPRF_EvaluationChecks(t *testing.T) {
	input := []byte("input")

	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		server, client := newClientPair(t, c, poprfInfo)

		blinded, err := client.Blind(input)
		require.NoError(t, err)

		evaluation, err := server.Evaluate(blinded)
		require.NoError(t, err)

		// Nil evaluation.
		if _, err = client.Finalize(nil); err == nil {
			t.Fatal("expected error on nil evaluation")
		}

		// Nil and zero proof scalars.
		for _, proof := range [][2]*ecc.Scalar{
			{nil, evaluation.Proof[1]},
			{c.group.NewScalar(), evaluation.Proof[1]},
			{evaluation.Proof[0], nil},
			{evaluation.Proof[0], c.group.NewScalar()},
		} {
			bad := &voprf.Evaluation{
				Proof:       proof,
				Evaluations: evaluation.Evaluations,
			}

			if _, err = client.Finalize(bad); err == nil {
				t.Fatal("expected error on invalid proof scalars")
			}
		}

		// Empty evaluation set.
		bad := &voprf.Evaluation{
			Proof:       evaluation.Proof,
			Evaluations: nil,
		}

		if _, err = client.Finalize(bad); err == nil {
			t.Fatal("expected error on missing evaluations")
		}

		// Mismatched evaluation count.
		bad.Evaluations = []*ecc.Element{
			evaluation.Evaluations[0],
			evaluation.Evaluations[0],
		}

		if _, err = client.Finalize(bad); err == nil {
			t.Fatal("expected error on mismatched evaluation count")
		}
	})
}

func TestVOPRF_ClientErrors(t *testing.T) {
	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		// Nil and identity public keys are rejected.
		if _, err := voprf.NewClient(c.ciphersuite, nil, poprfInfo...); err == nil {
			t.Fatal("expected error on nil public key")
		}

		if _, err := voprf.NewClient(c.ciphersuite, c.group.NewElement(), poprfInfo...); err == nil {
			t.Fatal("expected error on identity public key")
		}
	})
}

func TestVOPRF_ServerErrors(t *testing.T) {
	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		server := voprf.NewServer(c.ciphersuite, poprfInfo...)

		// Evaluating without a key pair fails.
		if _, err := server.Evaluate(c.group.Base()); err == nil {
			t.Fatal("expected error on missing key pair")
		}

		// Invalid key pairs are rejected.
		sk := c.group.NewScalar().Random()
		pk := c.group.Base().Multiply(sk)

		if err := server.SetKeyPair(nil, pk); err == nil {
			t.Fatal("expected error on nil private key")
		}

		if err := server.SetKeyPair(c.group.NewScalar(), pk); err == nil {
			t.Fatal("expected error on zero private key")
		}

		if err := server.SetKeyPair(sk, nil); err == nil {
			t.Fatal("expected error on nil public key")
		}

		if err := server.SetKeyPair(sk, c.group.NewElement()); err == nil {
			t.Fatal("expected error on identity public key")
		}

		other := c.group.NewScalar().Random()
		if err := server.SetKeyPair(sk, c.group.Base().Multiply(other)); err == nil {
			t.Fatal("expected error on mismatched key pair")
		}

		require.NoError(t, server.SetKeyPair(sk, pk))
	})
}

func TestVOPRF_FailingRandomSource(t *testing.T) {
	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		server, client := newClientPair(t, c, poprfInfo)

		client.SetRandomSource(errReader{})

		if _, err := client.Blind([]byte("input")); err == nil ||
			!errors.Is(err, oprf.ErrRandomSource) {
			t.Fatalf("expected ErrRandomSource, got %v", err)
		}

		// A failing nonce source fails the evaluation.
		client2, err := voprf.NewClient(c.ciphersuite, serverPublicKey(server), poprfInfo...)
		require.NoError(t, err)

		blinded, err := client2.Blind([]byte("input"))
		require.NoError(t, err)

		server.SetRandomSource(errReader{})

		if _, err = server.Evaluate(blinded); err == nil ||
			!errors.Is(err, oprf.ErrRandomSource) {
			t.Fatalf("expected ErrRandomSource, got %v", err)
		}
	})
}

func serverPublicKey(s *voprf.Server) *ecc.Element {
	_, pk := s.KeyPair()
	return pk
}

// errReader always fails, to exercise randomness source failures.
type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy failure")
}

func TestVOPRF_Clear(t *testing.T) {
	input := []byte("input")

	testAllModes(t, func(c *configuration, poprfInfo []byte) {
		server, client := newClientPair(t, c, poprfInfo)

		blinded, err := client.Blind(input)
		require.NoError(t, err)

		evaluation, err := server.Evaluate(blinded)
		require.NoError(t, err)

		client.Clear()

		// A cleared client has no pending run to finalize.
		if _, err = client.Finalize(evaluation); err == nil {
			t.Fatal("expected error after Clear")
		}

		// A cleared server has no key pair anymore.
		server.Clear()

		if _, err = server.Evaluate(blinded); err == nil {
			t.Fatal("expected error after Clear")
		}
	})
}
