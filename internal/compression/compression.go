// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package compression implements the block codecs used for recording files.
//
// A compressed block is framed by a single byte identifying the algorithm, so
// that a block can be decompressed without knowing how it was written.
package compression

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Algorithm identifies a compression algorithm. The numeric values are
// persisted and must not change.
type Algorithm uint8

const (
	NoCompression Algorithm = iota
	Snappy
	MinLZ
	Zstd
	numAlgorithms
)

var algorithmNames = [numAlgorithms]string{
	NoCompression: "none",
	Snappy:        "snappy",
	MinLZ:         "minlz",
	Zstd:          "zstd",
}

func (a Algorithm) String() string {
	if a < numAlgorithms {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// ParseAlgorithm returns the algorithm with the given name.
func ParseAlgorithm(s string) (Algorithm, error) {
	for a, name := range algorithmNames {
		if strings.EqualFold(s, name) {
			return Algorithm(a), nil
		}
	}
	return 0, errors.Newf("unknown compression algorithm %q", s)
}

// zstdLevel is the zstd compression level. Recordings are small and written
// once, so a balanced level is enough.
const zstdLevel = 3

// Compressor compresses blocks.
type Compressor interface {
	Algorithm() Algorithm
	// Compress appends the compressed src to dst[:0] and returns the result.
	Compress(dst, src []byte) []byte
	// Close must be called when the Compressor is no longer needed. After
	// Close is called, the Compressor must not be used again.
	Close()
}

// Decompressor decompresses blocks.
type Decompressor interface {
	// DecompressInto decompresses compressed into buf. The buf slice must
	// have the exact size as the decompressed value. Callers may use
	// DecompressedLen to determine the correct size.
	DecompressInto(buf, compressed []byte) error
	// DecompressedLen returns the length of the provided block once
	// decompressed, allowing the caller to allocate a buffer exactly sized to
	// the decompressed payload.
	DecompressedLen(b []byte) (decompressedLen int, err error)
	// Close must be called when the Decompressor is no longer needed. After
	// Close is called, the Decompressor must not be used again.
	Close()
}

// GetCompressor returns a Compressor for the algorithm.
func GetCompressor(a Algorithm) Compressor {
	switch a {
	case NoCompression:
		return noopCompressor{}
	case Snappy:
		return snappyCompressor{}
	case MinLZ:
		return minlzCompressor{}
	case Zstd:
		return getZstdCompressor(zstdLevel)
	default:
		panic(errors.AssertionFailedf("unknown compression algorithm %d", errors.Safe(uint8(a))))
	}
}

// GetDecompressor returns a Decompressor for the algorithm.
func GetDecompressor(a Algorithm) (Decompressor, error) {
	switch a {
	case NoCompression:
		return noopDecompressor{}, nil
	case Snappy:
		return snappyDecompressor{}, nil
	case MinLZ:
		return minlzDecompressor{}, nil
	case Zstd:
		return getZstdDecompressor(), nil
	default:
		return nil, errors.Newf("unknown compression algorithm %d", errors.Safe(uint8(a)))
	}
}

// Compress compresses src with the given algorithm and returns the framed
// block.
func Compress(a Algorithm, src []byte) []byte {
	c := GetCompressor(a)
	defer c.Close()
	compressed := c.Compress(nil, src)
	block := make([]byte, 0, 1+len(compressed))
	block = append(block, byte(a))
	return append(block, compressed...)
}

// Decompress decompresses a block produced by Compress.
func Decompress(block []byte) ([]byte, Algorithm, error) {
	if len(block) == 0 {
		return nil, 0, errors.New("compression: empty block")
	}
	a := Algorithm(block[0])
	d, err := GetDecompressor(a)
	if err != nil {
		return nil, 0, err
	}
	defer d.Close()
	n, err := d.DecompressedLen(block[1:])
	if err != nil {
		return nil, 0, errors.Wrapf(err, "compression: %s block", a)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, a, nil
	}
	if err := d.DecompressInto(buf, block[1:]); err != nil {
		return nil, 0, errors.Wrapf(err, "compression: %s block", a)
	}
	return buf, a, nil
}

// checkBuffer verifies that a decompressor wrote into the caller's buffer.
func checkBuffer(result, buf []byte) error {
	if len(result) != len(buf) || (len(result) > 0 && &result[0] != &buf[0]) {
		return errors.AssertionFailedf("decompressed into unexpected buffer: %p != %p",
			errors.Safe(result), errors.Safe(buf))
	}
	return nil
}

// zstdDecompressedLen decodes the varint prefix of a zstd block.
func zstdDecompressedLen(b []byte) (int, error) {
	decodedLenU64, varIntLen := binary.Uvarint(b)
	if varIntLen <= 0 {
		return 0, errors.New("compression: zstd block has invalid length")
	}
	return int(decodedLenU64), nil
}
