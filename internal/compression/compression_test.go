// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package compression

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlgorithmString(t *testing.T) {
	for a := NoCompression; a < numAlgorithms; a++ {
		parsed, err := ParseAlgorithm(a.String())
		require.NoError(t, err)
		require.Equal(t, a, parsed)
	}
	parsed, err := ParseAlgorithm("ZSTD")
	require.NoError(t, err)
	require.Equal(t, Zstd, parsed)

	_, err = ParseAlgorithm("lz4")
	require.EqualError(t, err, `unknown compression algorithm "lz4"`)
	require.Equal(t, "Algorithm(9)", Algorithm(9).String())
}

func TestCompressionRoundTrip(t *testing.T) {
	seed := uint64(1)
	rng := rand.New(rand.NewPCG(0, seed))
	inputs := map[string][]byte{
		"empty":      nil,
		"short":      []byte("a"),
		"repetitive": bytes.Repeat([]byte("step 1/12: 30 < 50, go left\n"), 200),
		"random":     randBytes(rng, 4096),
	}
	for a := NoCompression; a < numAlgorithms; a++ {
		for name, in := range inputs {
			t.Run(fmt.Sprintf("%s/%s", a, name), func(t *testing.T) {
				block := Compress(a, in)
				require.Equal(t, byte(a), block[0])
				out, alg, err := Decompress(block)
				require.NoError(t, err)
				require.Equal(t, a, alg)
				require.Equal(t, len(in), len(out))
				if len(in) > 0 {
					require.Equal(t, in, out)
				}
			})
		}
	}
}

func TestCompressionShrinks(t *testing.T) {
	in := bytes.Repeat([]byte(`{"Name":"tree v12","Properties":[["pos","(400.0, 40.0)"]]}`), 100)
	for _, a := range []Algorithm{Snappy, MinLZ, Zstd} {
		block := Compress(a, in)
		require.Less(t, len(block), len(in)/4, "%s", a)
	}
}

func TestDecompressErrors(t *testing.T) {
	_, _, err := Decompress(nil)
	require.EqualError(t, err, "compression: empty block")

	_, _, err = Decompress([]byte{42, 1, 2, 3})
	require.EqualError(t, err, "unknown compression algorithm 42")

	block := Compress(Snappy, bytes.Repeat([]byte("x"), 100))
	block = block[:len(block)-1]
	_, _, err = Decompress(block)
	require.Error(t, err)
}

func randBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rng.Uint32())
	}
	return b
}
