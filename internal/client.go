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
	"io"
	"slices"

	"github.com/bytemare/ecc"
)

// A Client holds the core functionalities for all OPRF, TOPRF, VOPRF, and POPRF.
type Client struct {
	// Core abstracts configuration dependent operations.
	*Core

	// Random is the randomness source blinds are drawn from. If nil, the operating
	// system's secure source is used.
	Random io.Reader

	// Inputs registry: the inputs are necessary in blinding and finalizing.
	Inputs [][]byte

	// Blinds registry: the blinds are necessary in blinding and finalizing.
	Blinds []*ecc.Scalar
}

// NewClient loads the configuration for a new client.
func NewClient(mode Mode, g ecc.Group) *Client {
	return &Client{
		Core:   LoadConfiguration(g, mode),
		Random: nil,
		Inputs: make([][]byte, 1),
		Blinds: make([]*ecc.Scalar, 1),
	}
}

// Size returns the length of the input and blind registers in its current state.
func (c *Client) Size() int {
	return len(c.Inputs)
}

// UpdateStateCapacity increases the internal input and blind registers to n, if necessary. If n is smaller than the
// current register size, the buffers are unchanged.
func (c *Client) UpdateStateCapacity(n int) {
	if n <= len(c.Inputs) {
		return
	}

	d := n - len(c.Inputs)

	c.Inputs = slices.Grow(c.Inputs, d)
	c.Inputs = append(c.Inputs, make([][]byte, d)...)
	c.Blinds = slices.Grow(c.Blinds, d)
	c.Blinds = append(c.Blinds, make([]*ecc.Scalar, d)...)
}

// SetBlind sets a single blinding scalar at position index in the internal register.
func (c *Client) SetBlind(index int, blind *ecc.Scalar) *Client {
	c.Blinds[index] = c.Group.NewScalar().Set(blind)
	return c
}

// Blind uses the blinding scalar at position index in the internal register to blind the input, and return the blinded
// input. A fresh random blind is drawn if none was previously set at that position.
func (c *Client) Blind(index int, input []byte) (*ecc.Element, error) {
	if len(input) > MaxSegmentLength {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrInvalidInput, MaxSegmentLength)
	}

	if c.Blinds[index] == nil {
		r, err := c.RandomScalar(c.Random)
		if err != nil {
			return nil, err
		}

		c.Blinds[index] = r
	}

	p := c.HashToGroup(input)
	if p.IsIdentity() {
		return nil, ErrInvalidInput
	}

	// register the input only once blinding can't fail anymore
	c.Inputs[index] = make([]byte, len(input))
	copy(c.Inputs[index], input)

	return p.Multiply(c.Blinds[index]), nil
}

// Unblind uses the blinding scalar at position index in the internal register to unblind the evaluated element, and
// return the unblinded evaluation.
func (c *Client) Unblind(index int, evaluated *ecc.Element) *ecc.Element {
	inv := c.Blinds[index].Copy().Invert()
	return evaluated.Copy().Multiply(inv)
}

// Finalize finalizes the client's xOPRF execution. It takes a server evaluated element and the position in the internal
// blind register of the blind used in the blinding phase and returns the xOPRF output. The optional info argument must
// only be provided when using the POPRF mode.
func (c *Client) Finalize(index int, evaluated *ecc.Element, info ...byte) ([]byte, error) {
	if evaluated == nil || evaluated.IsIdentity() {
		return nil, fmt.Errorf("%w: evaluated element is nil or the identity element", ErrInvalidInput)
	}

	if c.Blinds[index] == nil {
		return nil, fmt.Errorf("%w: no blind was registered at index %d", ErrInvalidInput, index)
	}

	unblinded := c.Unblind(index, evaluated)

	return c.HashTranscript(c.Inputs[index], unblinded.Encode(), info), nil
}

// FinalizeBatch unblinds the evaluated elements and returns the corresponding protocol outputs. The optional info
// argument must only be provided when using the POPRF mode.
func (c *Client) FinalizeBatch(evaluated []*ecc.Element, info ...byte) ([][]byte, error) {
	out := make([][]byte, len(evaluated))

	for i, e := range evaluated {
		output, err := c.Finalize(i, e, info...)
		if err != nil {
			return nil, err
		}

		out[i] = output
	}

	return out, nil
}

// Clear wipes the client's input and blind registers, zeroing out every registered blinding scalar.
func (c *Client) Clear() {
	for i, blind := range c.Blinds {
		if blind != nil {
			blind.Zero()
		}

		c.Blinds[i] = nil
		c.Inputs[i] = nil
	}
}
