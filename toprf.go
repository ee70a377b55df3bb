// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package oprf

import (
	"fmt"

	"github.com/bytemare/ecc"
	secretsharing "github.com/bytemare/secret-sharing"
)

// ThresholdEvaluation is the result of the TOPRF server's evaluation.
type ThresholdEvaluation struct {
	// The Identifier is the identifier of the participant server that produced the Evaluated value.
	Identifier *ecc.Scalar

	// Evaluated is the output of the participant server's evaluation of the blinded input.
	Evaluated *ecc.Element
}

// TOPRFKeyShare identifies the sharded key share for a given participant.
type TOPRFKeyShare struct {
	// Identifier uniquely identifies a key share within secret sharing instance.
	Identifier *ecc.Scalar

	// SecretKey is the participant's secret share.
	SecretKey *ecc.Scalar
}

func delta(g ecc.Group, peers secretsharing.Polynomial, eval *ThresholdEvaluation) (*ecc.Element, error) {
	iv, err := peers.DeriveInterpolatingValue(g, eval.Identifier)
	if err != nil {
		return nil, fmt.Errorf("deriving interpolating value: %w", err)
	}

	return eval.Evaluated.Copy().Multiply(iv), nil
}

// ThresholdEvaluate is run by a participant server in the TOPRF scheme to evaluate a client's input instead of using
// the basic Evaluate function, upon which the different evaluations must be combined with ThresholdCombine. peers is
// the list of all the other active participants.
func ThresholdEvaluate(
	g ecc.Group,
	peers []*ecc.Scalar,
	share *TOPRFKeyShare,
	blinded *ecc.Element,
) (*ThresholdEvaluation, error) {
	evaluated, err := Evaluate(share.SecretKey, blinded)
	if err != nil {
		return nil, err
	}

	eval := &ThresholdEvaluation{
		Identifier: share.Identifier,
		Evaluated:  evaluated,
	}

	eval.Evaluated, err = delta(g, peers, eval)
	if err != nil {
		return nil, err
	}

	return eval, nil
}

// ThresholdCombine is used to combine evaluations produced by ThresholdEvaluate to produce the evaluated element to be
// consumed by the client. This can be done by a proxy or on the client before being provided to the Finalize function.
func ThresholdCombine(evaluations []*ThresholdEvaluation) (*ecc.Element, error) {
	if len(evaluations) == 0 {
		return nil, errBatchNoElements
	}

	result := evaluations[0].Evaluated.Copy()

	for _, ev := range evaluations[1:] {
		result.Add(ev.Evaluated)
	}

	return result, nil
}

// ThresholdProxyCombine is used to combine evaluations if the basic Evaluate was used before using a key share in the
// threshold setup. This requires no modification of the server's Evaluate call. Note that this concentrates some degree
// of computation that could be offloaded to the threshold participants using ThresholdEvaluate instead of Evaluate,
// and ThresholdCombine instead of ThresholdProxyCombine. This can be done by a proxy or on the client before being
// provided to the Finalize function.
func ThresholdProxyCombine(g ecc.Group, evaluations []*ThresholdEvaluation) (*ecc.Element, error) {
	if len(evaluations) == 0 {
		return nil, errBatchNoElements
	}

	peers := make(secretsharing.Polynomial, len(evaluations))
	for i, ev := range evaluations {
		peers[i] = ev.Identifier
	}

	result := g.NewElement()

	for _, ev := range evaluations {
		d, err := delta(g, peers, ev)
		if err != nil {
			return nil, err
		}

		result.Add(d)
	}

	return result, nil
}
