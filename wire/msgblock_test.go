// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/btpc-project/btpc/chainhash"
	"github.com/stretchr/testify/require"
)

func TestBlockHeaderFixedSize(t *testing.T) {
	var prev, root chainhash.Hash
	h := NewBlockHeader(1, &prev, &root, 0x1d00ffff, 0)

	var buf bytes.Buffer
	require.NoError(t, h.Serialize(&buf))
	require.Equal(t, BlockHeaderLen, buf.Len())
}

func TestBlockHeaderRoundTrip(t *testing.T) {
	var prev, root chainhash.Hash
	prev[0] = 0x01
	root[0] = 0x02
	h := NewBlockHeader(1, &prev, &root, 0x1d00ffff, 42)
	h.Timestamp = 1700000000

	var buf bytes.Buffer
	require.NoError(t, h.Serialize(&buf))

	got := new(BlockHeader)
	require.NoError(t, got.Deserialize(&buf))
	require.Equal(t, *h, *got)
}

func TestBlockSerializeRoundTrip(t *testing.T) {
	block := &MsgBlock{}
	block.Header = *NewBlockHeader(1, &chainhash.Hash{}, &chainhash.Hash{}, 0x1d00ffff, 7)
	block.AddTransaction(sampleTx())

	var buf bytes.Buffer
	require.NoError(t, block.Serialize(&buf, 0))

	got := new(MsgBlock)
	require.NoError(t, got.Deserialize(&buf))
	require.Len(t, got.Transactions, 1)
	require.Equal(t, block.Header, got.Header)
}
