// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btpc-project/btpc/chainhash"
)

// TxVersion is the only transaction version BTPC currently defines.
const TxVersion = 1

const (
	maxTxInPerMessage  = 1000000
	maxTxOutPerMessage = 1000000

	// MaxScriptSize bounds a single script_sig/script_pubkey, guarding
	// decode against a corrupt or adversarial length prefix.
	MaxScriptSize = 10000
)

// SerializeMode selects which of BTPC's two canonical transaction
// encodings Serialize produces. The two modes share every field except
// script_sig: the signing form always serializes it as empty so a
// signature never needs to commit to itself, while the broadcast form
// carries the real unlocking script. Both forms append the single
// fork_id byte so a signature (and a txid) can never be replayed across
// networks.
type SerializeMode int

const (
	// ModeBroadcast is the full, on-wire transaction encoding. Its
	// double-SHA-512 is the transaction id.
	ModeBroadcast SerializeMode = iota

	// ModeSigning omits every input's script_sig. Its double-SHA-512
	// is the hash an ML-DSA signature is computed over.
	ModeSigning
)

// OutPoint defines a Bitcoin-style data type that is used to track
// previous transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new BTPC transaction outpoint point with the
// provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash.String(), o.Index)
}

// TxIn defines a BTPC transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// SerializeSize returns the number of bytes it would take to serialize
// the transaction input.
func (t *TxIn) SerializeSize() int {
	return 64 + 4 + VarIntSerializeSize(uint64(len(t.SignatureScript))) + len(t.SignatureScript) + 4
}

// NewTxIn returns a new BTPC transaction input with the provided
// previous outpoint point and signature script with a default sequence
// of MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// MaxTxInSequenceNum is the default, "final" sequence number a
// transaction input carries when it does not participate in any
// sequence-based relative locktime scheme.
const MaxTxInSequenceNum uint32 = 0xffffffff

// TxOut defines a BTPC transaction output.
type TxOut struct {
	Value    uint64
	PkScript []byte
}

// SerializeSize returns the number of bytes it would take to serialize
// the transaction output.
func (t *TxOut) SerializeSize() int {
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// NewTxOut returns a new BTPC transaction output with the provided
// transaction value and public key script.
func NewTxOut(value uint64, pkScript []byte) *TxOut {
	return &TxOut{Value: value, PkScript: pkScript}
}

// MsgTx implements a BTPC transaction message. It is used to deliver
// coin transfers, and its canonical encoding (Serialize) feeds both the
// transaction id and the ML-DSA signature hash, keyed by SerializeMode.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new BTPC tx message that conforms to the MsgTx
// interface.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{Version: version}
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// IsCoinBase determines whether this transaction is a coinbase
// transaction. A coinbase has exactly one input whose previous output
// index is the maximum value and whose previous output hash is all
// zeroes.
func (msg *MsgTx) IsCoinBase() bool {
	if len(msg.TxIn) != 1 {
		return false
	}
	prevOut := &msg.TxIn[0].PreviousOutPoint
	return prevOut.Index == MaxPrevOutIndex && prevOut.Hash == (chainhash.Hash{})
}

// MaxPrevOutIndex marks the previous-output index of a coinbase input.
const MaxPrevOutIndex uint32 = 0xffffffff

// SerializeSize returns the number of bytes the broadcast form of the
// transaction would occupy once serialized, including the trailing
// fork_id byte.
func (msg *MsgTx) SerializeSize() int {
	n := 4 + VarIntSerializeSize(uint64(len(msg.TxIn)))
	for _, ti := range msg.TxIn {
		n += ti.SerializeSize()
	}
	n += VarIntSerializeSize(uint64(len(msg.TxOut)))
	for _, to := range msg.TxOut {
		n += to.SerializeSize()
	}
	n += 4 // locktime
	n += 1 // fork_id
	return n
}

// Serialize encodes the transaction to w in the requested mode,
// terminating with the single fork_id byte. This is the sole
// serialization routine for MsgTx: txid hashing (ModeBroadcast) and
// ML-DSA sighash computation (ModeSigning) both funnel through it so
// the two encodings can never drift apart in field order or framing.
func (msg *MsgTx) Serialize(w io.Writer, mode SerializeMode, forkID byte) error {
	if err := writeElement(w, msg.Version); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti, mode); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, to); err != nil {
			return err
		}
	}

	if err := writeElement(w, msg.LockTime); err != nil {
		return err
	}

	return writeElement(w, forkID)
}

func writeTxIn(w io.Writer, ti *TxIn, mode SerializeMode) error {
	if _, err := w.Write(ti.PreviousOutPoint.Hash[:]); err != nil {
		return err
	}
	if err := writeElement(w, ti.PreviousOutPoint.Index); err != nil {
		return err
	}

	script := ti.SignatureScript
	if mode == ModeSigning {
		script = nil
	}
	if err := WriteVarBytes(w, script); err != nil {
		return err
	}

	return writeElement(w, ti.Sequence)
}

func writeTxOut(w io.Writer, to *TxOut) error {
	if err := writeElement(w, to.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}

// Bytes returns the encoded transaction in the requested mode.
func (msg *MsgTx) Bytes(mode SerializeMode, forkID byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(msg.SerializeSize())
	if err := msg.Serialize(&buf, mode, forkID); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TxHash computes the transaction's id: the double-SHA-512 of its
// broadcast-mode canonical serialization, fork_id included. Two
// otherwise-identical transactions destined for different networks
// therefore have different ids as well as different signatures.
func (msg *MsgTx) TxHash(forkID byte) (chainhash.Hash, error) {
	b, err := msg.Bytes(ModeBroadcast, forkID)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(b), nil
}

// SigningHash computes the hash an ML-DSA signature over this
// transaction is computed against: the double-SHA-512 of its
// signing-mode canonical serialization (every script_sig blanked out),
// fork_id included.
func (msg *MsgTx) SigningHash(forkID byte) (chainhash.Hash, error) {
	b, err := msg.Bytes(ModeSigning, forkID)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(b), nil
}

// Deserialize decodes a transaction from r. Since the wire encoding does
// not self-describe its SerializeMode, Deserialize always expects the
// broadcast form (full script_sigs); ModeSigning exists only to compute
// a hash, never to round-trip a value.
func (msg *MsgTx) Deserialize(r io.Reader) (byte, error) {
	var version int32
	if err := readElement(r, &version); err != nil {
		return 0, err
	}
	msg.Version = version

	inCount, err := ReadVarInt(r)
	if err != nil {
		return 0, err
	}
	if inCount > maxTxInPerMessage {
		return 0, fmt.Errorf("too many transaction inputs to fit into max message size [count %d]", inCount)
	}

	msg.TxIn = make([]*TxIn, inCount)
	for i := uint64(0); i < inCount; i++ {
		ti := new(TxIn)
		if err := readTxIn(r, ti); err != nil {
			return 0, err
		}
		msg.TxIn[i] = ti
	}

	outCount, err := ReadVarInt(r)
	if err != nil {
		return 0, err
	}
	if outCount > maxTxOutPerMessage {
		return 0, fmt.Errorf("too many transaction outputs to fit into max message size [count %d]", outCount)
	}

	msg.TxOut = make([]*TxOut, outCount)
	for i := uint64(0); i < outCount; i++ {
		to := new(TxOut)
		if err := readTxOut(r, to); err != nil {
			return 0, err
		}
		msg.TxOut[i] = to
	}

	if err := readElement(r, &msg.LockTime); err != nil {
		return 0, err
	}

	var forkID [1]byte
	if _, err := io.ReadFull(r, forkID[:]); err != nil {
		return 0, err
	}

	return forkID[0], nil
}

func readTxIn(r io.Reader, ti *TxIn) error {
	if _, err := io.ReadFull(r, ti.PreviousOutPoint.Hash[:]); err != nil {
		return err
	}
	if err := readElement(r, &ti.PreviousOutPoint.Index); err != nil {
		return err
	}

	script, err := ReadVarBytes(r, MaxScriptSize, "signature script")
	if err != nil {
		return err
	}
	ti.SignatureScript = script

	return readElement(r, &ti.Sequence)
}

func readTxOut(r io.Reader, to *TxOut) error {
	if err := readElement(r, &to.Value); err != nil {
		return err
	}

	script, err := ReadVarBytes(r, MaxScriptSize, "public key script")
	if err != nil {
		return err
	}
	to.PkScript = script
	return nil
}

// Copy creates a deep copy of the transaction.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}

	for _, oldTxIn := range msg.TxIn {
		newTxIn := TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			Sequence:         oldTxIn.Sequence,
		}
		if oldTxIn.SignatureScript != nil {
			newTxIn.SignatureScript = append([]byte(nil), oldTxIn.SignatureScript...)
		}
		newTx.TxIn = append(newTx.TxIn, &newTxIn)
	}

	for _, oldTxOut := range msg.TxOut {
		newTxOut := TxOut{Value: oldTxOut.Value}
		if oldTxOut.PkScript != nil {
			newTxOut.PkScript = append([]byte(nil), oldTxOut.PkScript...)
		}
		newTx.TxOut = append(newTx.TxOut, &newTxOut)
	}

	return &newTx
}
