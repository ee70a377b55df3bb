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

	"github.com/bytemare/ecc"

	"github.com/bytemare/oprf/internal"
)

var (
	errStateDiffInput = errors.New("state imbalance: different number of inputs and blinds")
	errStateNoSuite   = errors.New("state contains an invalid ciphersuite identifier")
	errStateMode      = errors.New("state mode doesn't match the client's protocol mode")
)

// State represents a client's pending protocol run, allowing internal values to be exported and imported to resume
// an xOPRF session. Note that the blinds it carries are secret: a serialized State must be protected the way a key
// would be.
type State struct {
	ServerPublicKey []byte      `json:"p,omitempty"`
	Input           [][]byte    `json:"i"`
	Blind           [][]byte    `json:"r"`
	Ciphersuite     Ciphersuite `json:"s"`
	Mode            byte        `json:"m"`
}

func exportRegisters(c *internal.Client, state *State) {
	state.Input = make([][]byte, len(c.Inputs))
	state.Blind = make([][]byte, len(c.Blinds))

	for i := range c.Inputs {
		state.Input[i] = make([]byte, len(c.Inputs[i]))
		copy(state.Input[i], c.Inputs[i])

		if c.Blinds[i] != nil {
			state.Blind[i] = c.Blinds[i].Encode()
		}
	}
}

func importRegisters(c *internal.Client, state *State) error {
	if len(state.Input) != len(state.Blind) {
		return errStateDiffInput
	}

	c.UpdateStateCapacity(len(state.Input))

	for i := range state.Input {
		c.Inputs[i] = make([]byte, len(state.Input[i]))
		copy(c.Inputs[i], state.Input[i])

		if len(state.Blind[i]) == 0 {
			c.Blinds[i] = nil
			continue
		}

		blind := c.Group.NewScalar()
		if err := blind.Decode(state.Blind[i]); err != nil {
			return fmt.Errorf("%w: invalid blind %d: %w", internal.ErrDecoding, i, err)
		}

		c.Blinds[i] = blind
	}

	return nil
}

// Export extracts the client's internal values that can be imported in another client for session resumption.
func (c *Client) Export() *State {
	state := &State{
		ServerPublicKey: nil,
		Input:           nil,
		Blind:           nil,
		Ciphersuite:     Ciphersuite(c.Group),
		Mode:            byte(internal.OPRF),
	}

	exportRegisters(c.Client, state)

	return state
}

// Import loads a previously exported State into c, replacing its input and blind registers. On error, c must be
// considered corrupted and discarded.
func (c *Client) Import(state *State) error {
	if _, ok := internal.CiphersuiteIdentifier[ecc.Group(state.Ciphersuite)]; !ok {
		return errStateNoSuite
	}

	if internal.Mode(state.Mode) != internal.OPRF {
		return errStateMode
	}

	c.Client = internal.NewClient(internal.OPRF, ecc.Group(state.Ciphersuite))

	return importRegisters(c.Client, state)
}
