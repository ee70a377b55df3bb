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

	"github.com/bytemare/oprf"
	"github.com/bytemare/oprf/internal"
)

var (
	errStateNoPubKey = errors.New("state in verifiable mode lacks the server public key")
	errStateMode     = errors.New("state mode doesn't match the client's protocol mode")
)

// State represents a client's pending protocol run, and is shared with the oprf package.
type State = oprf.State

// Export extracts the client's internal values that can be imported in another client for session resumption.
// Note that the exported blinds are secret: a serialized State must be protected the way a key would be.
func (c *Client) Export() *State {
	state := c.oprf.Export()
	state.Mode = byte(c.verifiable.Mode)
	state.ServerPublicKey = c.serverPublicKey.Encode()

	return state
}

// Import rebuilds a client from a previously exported State, given the same ciphersuite and POPRF info the original
// client was created with. The blinded elements are recomputed from the imported inputs and blinds, so a resumed
// session verifies proofs against the same transcript.
func Import(state *State, poprfInfo ...byte) (*Client, error) {
	mode := internal.VOPRF
	if len(poprfInfo) != 0 {
		mode = internal.POPRF
	}

	if internal.Mode(state.Mode) != mode {
		return nil, errStateMode
	}

	if len(state.ServerPublicKey) == 0 {
		return nil, errStateNoPubKey
	}

	g := oprf.Ciphersuite(state.Ciphersuite).Group()

	pk := g.NewElement()
	if err := pk.Decode(state.ServerPublicKey); err != nil {
		return nil, fmt.Errorf("%w: invalid server public key: %w", internal.ErrDecoding, err)
	}

	client, err := NewClient(state.Ciphersuite, pk, poprfInfo...)
	if err != nil {
		return nil, err
	}

	if err := importClientState(client, state); err != nil {
		return nil, err
	}

	return client, nil
}

func importClientState(client *Client, state *State) error {
	if len(state.Input) != len(state.Blind) {
		return fmt.Errorf("%w: different number of inputs and blinds", internal.ErrDecoding)
	}

	inputs := make([][]byte, 0, len(state.Input))

	for i := range state.Blind {
		// a position that was never blinded carries neither input nor blind
		if len(state.Blind[i]) == 0 {
			continue
		}

		blind := client.verifiable.Group.NewScalar()
		if err := blind.Decode(state.Blind[i]); err != nil {
			return fmt.Errorf("%w: invalid blind %d: %w", internal.ErrDecoding, i, err)
		}

		client.oprf.Client.UpdateStateCapacity(len(inputs) + 1)
		client.oprf.Client.SetBlind(len(inputs), blind)
		inputs = append(inputs, state.Input[i])
	}

	if len(inputs) != 0 {
		if _, err := client.BlindBatch(inputs); err != nil {
			return err
		}
	}

	return nil
}
