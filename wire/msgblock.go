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

// BlockHeaderLen is the fixed, 144-byte size of a serialized block
// header: a 4-byte version, two 64-byte hashes, and three 4-byte
// fields (timestamp, bits, nonce).
const BlockHeaderLen = 4 + chainhash.HashSize + chainhash.HashSize + 4 + 4 + 4

const maxTxPerBlock = 1000000

// MaxBlockSize is the maximum serialized size, in bytes, of a block
// (header plus every transaction in broadcast form).
const MaxBlockSize = 1024 * 1024

// BlockHeader defines information about a block and is the header of
// every MsgBlock.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created. This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp uint32

	// Difficulty target for the block, in compact "bits" form.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32
}

// BlockHash computes the block identifier: the double-SHA-512 of the
// header's fixed 144-byte serialization.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderLen))
	_ = writeBlockHeader(buf, h)
	return chainhash.DoubleHashH(buf.Bytes())
}

func writeBlockHeader(w io.Writer, h *BlockHeader) error {
	if err := writeElement(w, h.Version); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := writeElement(w, h.Timestamp); err != nil {
		return err
	}
	if err := writeElement(w, h.Bits); err != nil {
		return err
	}
	return writeElement(w, h.Nonce)
}

// Serialize encodes the block header to w in the fixed 144-byte
// consensus format.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// Deserialize decodes a block header from r.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	if err := readElement(r, &h.Version); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := readElement(r, &h.Timestamp); err != nil {
		return err
	}
	if err := readElement(r, &h.Bits); err != nil {
		return err
	}
	return readElement(r, &h.Nonce)
}

// NewBlockHeader returns a new BlockHeader using the provided version,
// previous block hash, merkle root hash, difficulty bits, and nonce
// used to generate the block with defaults for the remaining fields.
func NewBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash, bits uint32, nonce uint32) *BlockHeader {
	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Bits:       bits,
		Nonce:      nonce,
	}
}

// MsgBlock implements a BTPC block message: a header plus the ordered
// list of transactions it commits to via MerkleRoot. Transactions[0]
// must always be the coinbase.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// BlockHash computes the hash of the block header.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// Serialize encodes the entire block — header followed by its
// transactions in broadcast form — to w.
func (msg *MsgBlock) Serialize(w io.Writer, forkID byte) error {
	if err := writeBlockHeader(w, &msg.Header); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w, ModeBroadcast, forkID); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes an entire block from r.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}

	txCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txCount > maxTxPerBlock {
		return fmt.Errorf("too many transactions to fit into a block [count %d]", txCount)
	}

	msg.Transactions = make([]*MsgTx, txCount)
	for i := uint64(0); i < txCount; i++ {
		tx := new(MsgTx)
		if _, err := tx.Deserialize(r); err != nil {
			return err
		}
		msg.Transactions[i] = tx
	}

	return nil
}
