// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The BTPC developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements BTPC's canonical on-disk and on-wire encoding:
// transactions, blocks, and the compact varint scheme they're built
// from. Every encoder in this package is deterministic — the same
// value always serializes to the same bytes — because consensus
// hashing and signing depend on it.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxVarIntPayload is the maximum payload size for a variable length
// integer.
const MaxVarIntPayload = 9

// ErrVarIntNonCanonical signals a varint was encoded using more bytes
// than its value required — a canonical-serialization violation.
type ErrVarIntNonCanonical struct {
	Got  uint64
	Disc byte
}

func (e *ErrVarIntNonCanonical) Error() string {
	return fmt.Sprintf("non-canonical varint encoding of %d using discriminant 0x%02x", e.Got, e.Disc)
}

// WriteVarInt serializes val to w using BTPC's compact variable length
// integer encoding, the same scheme Bitcoin uses: values below 0xfd
// encode as a single byte; larger values are prefixed with a
// discriminant byte (0xfd/0xfe/0xff) selecting a 2/4/8-byte little
// endian payload.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}

	if val <= 0xffff {
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	}

	if val <= 0xffffffff {
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	}

	buf := make([]byte, 9)
	buf[0] = 0xff
	binary.LittleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf)
	return err
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64. It rejects non-canonical encodings (a discriminant byte used
// where a shorter encoding would have sufficed) since canonical
// serialization is part of consensus.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	switch prefix[0] {
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v <= 0xffffffff {
			return 0, &ErrVarIntNonCanonical{Got: v, Disc: prefix[0]}
		}
		return v, nil
	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint32(buf[:]))
		if v <= 0xffff {
			return 0, &ErrVarIntNonCanonical{Got: v, Disc: prefix[0]}
		}
		return v, nil
	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint16(buf[:]))
		if v < 0xfd {
			return 0, &ErrVarIntNonCanonical{Got: v, Disc: prefix[0]}
		}
		return v, nil
	default:
		return uint64(prefix[0]), nil
	}
}

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteVarBytes writes a variable length byte slice to w, prefixed by
// its length as a varint.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadVarBytes reads a variable length byte slice whose length, in
// bytes, is read first as a varint. maxAllowed guards against a
// corrupt or adversarial length prefix forcing an oversized
// allocation.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, fmt.Errorf("%s is larger than the max allowed size (got %d, max %d)",
			fieldName, count, maxAllowed)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func writeElement(w io.Writer, element any) error {
	switch e := element.(type) {
	case int32:
		return binary.Write(w, binary.LittleEndian, e)
	case uint32:
		return binary.Write(w, binary.LittleEndian, e)
	case int64:
		return binary.Write(w, binary.LittleEndian, e)
	case uint64:
		return binary.Write(w, binary.LittleEndian, e)
	case byte:
		_, err := w.Write([]byte{e})
		return err
	default:
		return binary.Write(w, binary.LittleEndian, e)
	}
}

func readElement(r io.Reader, element any) error {
	return binary.Read(r, binary.LittleEndian, element)
}
