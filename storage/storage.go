// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage is a concrete, goleveldb-backed implementation of the
// abstract storage interface (get_utxo, get_block, get_block_at_height,
// chain_tip, apply_block). It is a reference collaborator, not a
// consensus-critical component: blockchain.UTXOSet and
// blockchain.Validator never depend on it, and any other durable K/V
// store could stand in its place.
package storage

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/btpc-project/btpc/blockchain"
	"github.com/btpc-project/btpc/chainhash"
	"github.com/btpc-project/btpc/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Key prefixes partition the single leveldb keyspace by record type.
const (
	prefixBlock       = 'b' // block hash -> serialized MsgBlock
	prefixHeightIndex = 'h' // height (8-byte BE) -> block hash
	prefixUTXO        = 'u' // outpoint (hash || index) -> serialized TxOut + height + coinbase flag
	prefixTip         = 't' // single record: current best block hash
	prefixWork        = 'w' // block hash -> cumulative chain work to that block
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: record not found")

// Store is a durable, goleveldb-backed chain store.
type Store struct {
	db     *leveldb.DB
	forkID byte
}

// Open opens (creating if necessary) a Store at path.
func Open(path string, forkID byte) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, forkID: forkID}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func blockKey(hash chainhash.Hash) []byte {
	key := make([]byte, 1+chainhash.HashSize)
	key[0] = prefixBlock
	copy(key[1:], hash[:])
	return key
}

func heightKey(height int64) []byte {
	key := make([]byte, 1+8)
	key[0] = prefixHeightIndex
	binary.BigEndian.PutUint64(key[1:], uint64(height))
	return key
}

func utxoKey(op wire.OutPoint) []byte {
	key := make([]byte, 1+chainhash.HashSize+4)
	key[0] = prefixUTXO
	copy(key[1:], op.Hash[:])
	binary.BigEndian.PutUint32(key[1+chainhash.HashSize:], op.Index)
	return key
}

func workKey(hash chainhash.Hash) []byte {
	key := make([]byte, 1+chainhash.HashSize)
	key[0] = prefixWork
	copy(key[1:], hash[:])
	return key
}

var tipKey = []byte{prefixTip}

// PutBlock persists block under its own hash and the given height,
// indexing it for lookup both ways.
func (s *Store) PutBlock(block *wire.MsgBlock, height int64) error {
	hash := block.BlockHash()

	var buf bytes.Buffer
	if err := block.Serialize(&buf, s.forkID); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put(blockKey(hash), buf.Bytes())
	batch.Put(heightKey(height), hash[:])
	return s.db.Write(batch, nil)
}

// GetBlock fetches the block with the given hash.
func (s *Store) GetBlock(hash chainhash.Hash) (*wire.MsgBlock, error) {
	raw, err := s.db.Get(blockKey(hash), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	block := new(wire.MsgBlock)
	if err := block.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return block, nil
}

// GetBlockAtHeight fetches the block stored at the given height on the
// chain this Store currently tracks.
func (s *Store) GetBlockAtHeight(height int64) (*wire.MsgBlock, error) {
	raw, err := s.db.Get(heightKey(height), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var hash chainhash.Hash
	if err := hash.SetBytes(raw); err != nil {
		return nil, err
	}
	return s.GetBlock(hash)
}

// ChainTip returns the hash of the current best block, or ErrNotFound
// if the store is empty.
func (s *Store) ChainTip() (chainhash.Hash, error) {
	raw, err := s.db.Get(tipKey, nil)
	if err == leveldb.ErrNotFound {
		return chainhash.Hash{}, ErrNotFound
	}
	if err != nil {
		return chainhash.Hash{}, err
	}
	var hash chainhash.Hash
	if err := hash.SetBytes(raw); err != nil {
		return chainhash.Hash{}, err
	}
	return hash, nil
}

// CumulativeWork returns the chain work accumulated up to and including
// the block identified by hash, or ErrNotFound if that block is
// unknown to this store.
func (s *Store) CumulativeWork(hash chainhash.Hash) (chainhash.Work, error) {
	raw, err := s.db.Get(workKey(hash), nil)
	if err == leveldb.ErrNotFound {
		return chainhash.Work{}, ErrNotFound
	}
	if err != nil {
		return chainhash.Work{}, err
	}
	if len(raw) != 16 {
		return chainhash.Work{}, errors.New("storage: corrupt work record")
	}
	return chainhash.Work{
		Hi: binary.BigEndian.Uint64(raw[:8]),
		Lo: binary.BigEndian.Uint64(raw[8:]),
	}, nil
}

// GetUTXO fetches an unspent output, or ErrNotFound if op is unspent in
// no block this store has applied.
func (s *Store) GetUTXO(op wire.OutPoint) (blockchain.UTXOEntry, error) {
	raw, err := s.db.Get(utxoKey(op), nil)
	if err == leveldb.ErrNotFound {
		return blockchain.UTXOEntry{}, ErrNotFound
	}
	if err != nil {
		return blockchain.UTXOEntry{}, err
	}
	return decodeUTXOEntry(raw)
}

// ApplyBlock commits block at height as the new chain tip: it persists
// the block, updates the height index, writes every UTXO mutation the
// block implies, and records the block's cumulative work and new tip
// pointer — all within a single leveldb batch, so a crash mid-apply
// never leaves the store half-updated (the same atomic-or-nothing
// guarantee blockchain.UTXOSet.ApplyBlock gives the in-memory set).
// parentWork is the cumulative work of block's parent.
func (s *Store) ApplyBlock(block *wire.MsgBlock, height int64, parentWork chainhash.Work) error {
	hash := block.BlockHash()

	var buf bytes.Buffer
	if err := block.Serialize(&buf, s.forkID); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put(blockKey(hash), buf.Bytes())
	batch.Put(heightKey(height), hash[:])

	for i, tx := range block.Transactions {
		if i != 0 {
			for _, in := range tx.TxIn {
				batch.Delete(utxoKey(in.PreviousOutPoint))
			}
		}
		txid, err := tx.TxHash(s.forkID)
		if err != nil {
			return err
		}
		for idx, out := range tx.TxOut {
			op := wire.OutPoint{Hash: txid, Index: uint32(idx)}
			entry := blockchain.UTXOEntry{Output: *out, Height: height, IsCoinbase: i == 0}
			batch.Put(utxoKey(op), encodeUTXOEntry(entry))
		}
	}

	work := parentWork.Add(hash.WorkInteger())
	workRaw := make([]byte, 16)
	binary.BigEndian.PutUint64(workRaw[:8], work.Hi)
	binary.BigEndian.PutUint64(workRaw[8:], work.Lo)
	batch.Put(workKey(hash), workRaw)

	// Fork choice: BTPC only ever advances the tip pointer to a block
	// whose cumulative work is strictly greater than the current tip's
	// — a tie keeps the existing tip (spec.md §8 scenario 6).
	advance := true
	if currentTip, err := s.ChainTip(); err == nil {
		currentWork, err := s.CumulativeWork(currentTip)
		if err == nil && work.Cmp(currentWork) <= 0 {
			advance = false
		}
	}
	if advance {
		batch.Put(tipKey, hash[:])
	}

	return s.db.Write(batch, nil)
}

func encodeUTXOEntry(e blockchain.UTXOEntry) []byte {
	buf := make([]byte, 0, 8+2+len(e.Output.PkScript)+8+1)
	var valueBuf [8]byte
	binary.BigEndian.PutUint64(valueBuf[:], e.Output.Value)
	buf = append(buf, valueBuf[:]...)

	var heightBuf [8]byte
	binary.BigEndian.PutUint64(heightBuf[:], uint64(e.Height))
	buf = append(buf, heightBuf[:]...)

	coinbase := byte(0)
	if e.IsCoinbase {
		coinbase = 1
	}
	buf = append(buf, coinbase)

	var scriptLen [4]byte
	binary.BigEndian.PutUint32(scriptLen[:], uint32(len(e.Output.PkScript)))
	buf = append(buf, scriptLen[:]...)
	buf = append(buf, e.Output.PkScript...)
	return buf
}

func decodeUTXOEntry(raw []byte) (blockchain.UTXOEntry, error) {
	if len(raw) < 8+8+1+4 {
		return blockchain.UTXOEntry{}, errors.New("storage: corrupt utxo record")
	}
	value := binary.BigEndian.Uint64(raw[:8])
	height := int64(binary.BigEndian.Uint64(raw[8:16]))
	isCoinbase := raw[16] != 0
	scriptLen := binary.BigEndian.Uint32(raw[17:21])
	if uint32(len(raw)-21) != scriptLen {
		return blockchain.UTXOEntry{}, errors.New("storage: corrupt utxo record length")
	}
	script := append([]byte(nil), raw[21:]...)
	return blockchain.UTXOEntry{
		Output:     wire.TxOut{Value: value, PkScript: script},
		Height:     height,
		IsCoinbase: isCoinbase,
	}, nil
}

// IterateUTXOs calls fn for every unspent output currently stored,
// stopping early if fn returns false.
func (s *Store) IterateUTXOs(fn func(op wire.OutPoint, entry blockchain.UTXOEntry) bool) error {
	prefix := []byte{prefixUTXO}
	iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		if len(key) != 1+chainhash.HashSize+4 {
			continue
		}
		var op wire.OutPoint
		if err := op.Hash.SetBytes(key[1 : 1+chainhash.HashSize]); err != nil {
			return err
		}
		op.Index = binary.BigEndian.Uint32(key[1+chainhash.HashSize:])

		entry, err := decodeUTXOEntry(iter.Value())
		if err != nil {
			return err
		}
		if !fn(op, entry) {
			break
		}
	}
	return iter.Error()
}
