// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package voprf implements RFC9497 and provides abstracted access to Verifiable Oblivious Pseudorandom Functions
// (VOPRF) and Partially Oblivious Pseudorandom Functions (POPRF) using Elliptic Curve Prime Order Groups (EC-OPRF).
// For OPRF and TOPRF use the github.com/bytemare/oprf package.
package voprf
