// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/mldsa"
)

// MaxScriptElementSize is the maximum size, in bytes, of a single
// pushed data element. ML-DSA-87 signatures (mldsa.SignatureSize) are
// the largest element any standard script pushes, so the cap must
// clear that with room to spare rather than Bitcoin's 520-byte figure,
// which was sized for secp256k1 keys and signatures.
const MaxScriptElementSize = mldsa.SignatureSize + 64

// MaxOpsPerScript bounds the number of non-push operations a single
// script may execute, preventing a pathological script from stalling
// validation.
const MaxOpsPerScript = 201

var (
	ErrScriptTooLong     = errors.New("txscript: script exceeds maximum size")
	ErrTooManyOperations = errors.New("txscript: too many non-push operations")
	ErrStackUnderflow    = errors.New("txscript: stack underflow")
	ErrVerifyFailed      = errors.New("txscript: OP_VERIFY/OP_EQUALVERIFY failed")
	ErrUnknownOpcode     = errors.New("txscript: unknown opcode")
	ErrScriptNotPushOnly = errors.New("txscript: signature script must be push-only")
	ErrEarlyReturn       = errors.New("txscript: OP_RETURN")
	ErrCleanStack        = errors.New("txscript: final stack must contain exactly one truthy element")
)

// SigChecker supplies the context OP_CHECKMLDSASIG needs: the hash a
// signature must cover. The concrete implementation, TxSigChecker,
// holds the signing hash of the transaction being validated, which is
// the same for every input; tests can substitute a fixed hash.
type SigChecker interface {
	SigningHash() chainhash.Hash
}

// FixedSigChecker is a SigChecker over a precomputed hash, used by
// tests and by genesis/tooling code that verifies a signature in
// isolation from a full transaction.
type FixedSigChecker chainhash.Hash

func (f FixedSigChecker) SigningHash() chainhash.Hash { return chainhash.Hash(f) }

// Engine executes a BTPC script: script_sig followed by script_pubkey
// on one shared stack, matching Bitcoin's pre-segwit execution model
// (BTPC has no segwit and needs none, since it carries no witness
// data).
type Engine struct {
	stack   [][]byte
	checker SigChecker
	numOps  int
}

// NewEngine constructs an Engine bound to the given signature context.
func NewEngine(checker SigChecker) *Engine {
	return &Engine{checker: checker}
}

// Execute runs sigScript then pkScript on a shared stack and reports
// whether the script evaluates successfully: sigScript and pkScript
// must each parse and execute without error, and the final stack must
// contain exactly one element that is truthy.
func (e *Engine) Execute(sigScript, pkScript []byte) error {
	if err := checkPushOnly(sigScript); err != nil {
		return err
	}

	if err := e.run(sigScript); err != nil {
		return err
	}
	if err := e.run(pkScript); err != nil {
		return err
	}

	if len(e.stack) != 1 {
		return ErrCleanStack
	}
	if !asBool(e.stack[0]) {
		return ErrCleanStack
	}
	return nil
}

func checkPushOnly(script []byte) error {
	ops, err := parse(script)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if !isPushOnly(op.opcode) {
			return ErrScriptNotPushOnly
		}
	}
	return nil
}

type parsedOp struct {
	opcode byte
	data   []byte
}

func parse(script []byte) ([]parsedOp, error) {
	var ops []parsedOp
	i := 0
	for i < len(script) {
		op := script[i]
		i++

		switch {
		case op >= minDirectPush && op <= maxDirectPush:
			n := int(op)
			if i+n > len(script) {
				return nil, fmt.Errorf("txscript: push of %d bytes exceeds script bounds", n)
			}
			ops = append(ops, parsedOp{opcode: op, data: script[i : i+n]})
			i += n

		case op == OP_PUSHDATA1:
			if i+1 > len(script) {
				return nil, ErrStackUnderflow
			}
			n := int(script[i])
			i++
			if i+n > len(script) {
				return nil, fmt.Errorf("txscript: OP_PUSHDATA1 of %d bytes exceeds script bounds", n)
			}
			ops = append(ops, parsedOp{opcode: op, data: script[i : i+n]})
			i += n

		case op == OP_PUSHDATA2:
			if i+2 > len(script) {
				return nil, ErrStackUnderflow
			}
			n := int(script[i]) | int(script[i+1])<<8
			i += 2
			if i+n > len(script) {
				return nil, fmt.Errorf("txscript: OP_PUSHDATA2 of %d bytes exceeds script bounds", n)
			}
			ops = append(ops, parsedOp{opcode: op, data: script[i : i+n]})
			i += n

		case op == OP_PUSHDATA4:
			if i+4 > len(script) {
				return nil, ErrStackUnderflow
			}
			n := int(script[i]) | int(script[i+1])<<8 | int(script[i+2])<<16 | int(script[i+3])<<24
			i += 4
			if i+n > len(script) {
				return nil, fmt.Errorf("txscript: OP_PUSHDATA4 of %d bytes exceeds script bounds", n)
			}
			ops = append(ops, parsedOp{opcode: op, data: script[i : i+n]})
			i += n

		default:
			ops = append(ops, parsedOp{opcode: op})
		}

		if len(ops[len(ops)-1].data) > MaxScriptElementSize {
			return nil, ErrScriptTooLong
		}
	}
	return ops, nil
}

func (e *Engine) run(script []byte) error {
	ops, err := parse(script)
	if err != nil {
		return err
	}

	for _, op := range ops {
		if isPushOnly(op.opcode) && op.opcode != OP_1NEGATE && !(op.opcode >= OP_1 && op.opcode <= OP_16) && op.opcode != OP_0 {
			e.push(op.data)
			continue
		}

		e.numOps++
		if e.numOps > MaxOpsPerScript {
			return ErrTooManyOperations
		}

		switch op.opcode {
		case OP_0:
			e.push(nil)
		case OP_1NEGATE:
			e.push([]byte{0x81})
		case OP_DUP:
			top, err := e.peek()
			if err != nil {
				return err
			}
			e.push(append([]byte(nil), top...))
		case OP_EQUAL, OP_EQUALVERIFY:
			a, err := e.pop()
			if err != nil {
				return err
			}
			b, err := e.pop()
			if err != nil {
				return err
			}
			equal := bytes.Equal(a, b)
			if op.opcode == OP_EQUALVERIFY {
				if !equal {
					return ErrVerifyFailed
				}
				continue
			}
			e.push(boolBytes(equal))
		case OP_VERIFY:
			top, err := e.pop()
			if err != nil {
				return err
			}
			if !asBool(top) {
				return ErrVerifyFailed
			}
		case OP_HASH:
			top, err := e.pop()
			if err != nil {
				return err
			}
			sum := chainhash.HashH(top)
			e.push(sum[:20])
		case OP_CHECKMLDSASIG:
			sig, err := e.pop()
			if err != nil {
				return err
			}
			pubKeyBytes, err := e.pop()
			if err != nil {
				return err
			}
			pubKey, err := mldsa.ParsePublicKey(pubKeyBytes)
			if err != nil {
				e.push(boolBytes(false))
				continue
			}
			hash := e.checker.SigningHash()
			e.push(boolBytes(mldsa.Verify(pubKey, hash[:], sig)))
		case OP_RETURN:
			return ErrEarlyReturn
		default:
			if op.opcode >= OP_1 && op.opcode <= OP_16 {
				e.push([]byte{op.opcode - OP_1 + 1})
				continue
			}
			return fmt.Errorf("%w: 0x%02x", ErrUnknownOpcode, op.opcode)
		}
	}
	return nil
}

func (e *Engine) push(b []byte) { e.stack = append(e.stack, b) }

func (e *Engine) pop() ([]byte, error) {
	if len(e.stack) == 0 {
		return nil, ErrStackUnderflow
	}
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return top, nil
}

func (e *Engine) peek() ([]byte, error) {
	if len(e.stack) == 0 {
		return nil, ErrStackUnderflow
	}
	return e.stack[len(e.stack)-1], nil
}

func asBool(b []byte) bool {
	for i, v := range b {
		if v != 0 {
			if i == len(b)-1 && v == 0x80 {
				return false // negative zero
			}
			return true
		}
	}
	return false
}

func boolBytes(b bool) []byte {
	if b {
		return []byte{1}
	}
	return nil
}
