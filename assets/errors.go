// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

package assets

// Reason classifies why a special transaction was rejected.
type Reason uint8

const (
	// ReasonMalformed marks a transaction that is structurally invalid under
	// any chain state.
	ReasonMalformed Reason = iota

	// ReasonConsensus marks a transaction that violates a rule depending on
	// global state (timing, quorum activation, replay). The same bytes could
	// be valid against a different tip.
	ReasonConsensus
)

func (r Reason) String() string {
	switch r {
	case ReasonMalformed:
		return "malformed"
	case ReasonConsensus:
		return "consensus"
	}
	return "unknown"
}

// RuleError is a failed validation decision: a reason category plus a short
// machine-readable code. Validation never throws; it fails closed with one
// of these.
type RuleError struct {
	Reason Reason
	Code   string
}

func (e *RuleError) Error() string {
	return e.Code
}

func malformedError(code string) error {
	return &RuleError{Reason: ReasonMalformed, Code: code}
}

func consensusError(code string) error {
	return &RuleError{Reason: ReasonConsensus, Code: code}
}
