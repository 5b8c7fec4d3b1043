// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "github.com/btpc-project/btpc/address"

// PayToAddrScript builds the standard P2PKH locking script for addr:
//
//	OP_DUP OP_HASH <20-byte hash> OP_EQUALVERIFY OP_CHECKMLDSASIG
func PayToAddrScript(addr *address.Address) []byte {
	hash := addr.Hash160()
	script := make([]byte, 0, 3+len(hash)+2)
	script = append(script, OP_DUP, OP_HASH, byte(len(hash)))
	script = append(script, hash[:]...)
	script = append(script, OP_EQUALVERIFY, OP_CHECKMLDSASIG)
	return script
}

// SignatureScript builds the standard P2PKH unlocking script: a
// signature followed by the full (uncompressed, ML-DSA-87) public key.
func SignatureScript(sig []byte, pubKey []byte) []byte {
	script := make([]byte, 0, len(sig)+len(pubKey)+8)
	script = appendDataPush(script, sig)
	script = appendDataPush(script, pubKey)
	return script
}

func appendDataPush(script, data []byte) []byte {
	n := len(data)
	switch {
	case n <= maxDirectPush:
		script = append(script, byte(n))
	case n <= 0xff:
		script = append(script, OP_PUSHDATA1, byte(n))
	case n <= 0xffff:
		script = append(script, OP_PUSHDATA2, byte(n), byte(n>>8))
	default:
		script = append(script, OP_PUSHDATA4, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	}
	return append(script, data...)
}

// IsPayToPubKeyHash reports whether script has the canonical P2PKH
// shape produced by PayToAddrScript.
func IsPayToPubKeyHash(script []byte) bool {
	return len(script) == 3+address.HashSize+2 &&
		script[0] == OP_DUP &&
		script[1] == OP_HASH &&
		script[2] == address.HashSize &&
		script[len(script)-2] == OP_EQUALVERIFY &&
		script[len(script)-1] == OP_CHECKMLDSASIG
}

// ExtractPubKeyHash returns the 20-byte hash committed to by a P2PKH
// script, or false if script is not in that shape.
func ExtractPubKeyHash(script []byte) ([address.HashSize]byte, bool) {
	var hash [address.HashSize]byte
	if !IsPayToPubKeyHash(script) {
		return hash, false
	}
	copy(hash[:], script[3:3+address.HashSize])
	return hash, true
}
