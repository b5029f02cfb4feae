// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mathconst holds the handful of mathematical constants that the
// Biot-Savart desingularization and the Kelvin-wave adaptivity criterion
// need and that the standard math package does not export.
package mathconst

// EulerGamma is the Euler-Mascheroni constant, used by the local induction
// approximation's desingularized logarithm (see biotsavart's addLIA) and by the
// Kelvin wave period used for segment-length based adaptivity.
const EulerGamma = 0.5772156649015328606065120900824024310421593359399235988
