// Package interner deduplicates literal values (strings and numbers) into
// dense uint32 handles so the rest of the pipeline can compare Fields by
// equality instead of by content.
//
// SPDX-License-Identifier: Apache-2.0
package interner

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/minio/highwayhash"
)

// Absent is the sentinel handle meaning "no value", used by RecordUpdate's
// `none` literal.
const Absent uint32 = 0

var hashKey = [32]byte{
	'l', 'i', 'g', 'a', 't', 'u', 'r', 'e', '-', 'i', 'n', 't', 'e', 'r', 'n', 'e',
	'r', '-', 'h', 'a', 's', 'h', '-', 'k', 'e', 'y', '-', '0', '0', '0', '0', '1',
}

// Interner is an append-only, content-hash-keyed table from literal values
// to dense handles. Safe for the single compiling goroutine this compiler
// describes; the mutex exists only to make concurrent read access safe,
// not to support concurrent writes from multiple compilations.
type Interner struct {
	mu      sync.Mutex
	byHash  map[uint64]uint32
	strings []string
	numbers []float64
	isNum   []bool
}

// New returns an empty interner. Handle 0 is reserved for Absent.
func New() *Interner {
	return &Interner{
		byHash:  make(map[uint64]uint32),
		strings: []string{""},
		numbers: []float64{0},
		isNum:   []bool{false},
	}
}

func hashString(s string) uint64 {
	sum := highwayhash.Sum64([]byte(s), hashKey[:])
	return sum
}

func hashNumber(n float64) uint64 {
	var buf [9]byte
	buf[0] = 'n'
	binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(n))
	return highwayhash.Sum64(buf[:], hashKey[:])
}

// String interns s, returning its dense handle.
func (in *Interner) String(s string) uint32 {
	in.mu.Lock()
	defer in.mu.Unlock()
	h := hashString(s)
	if id, ok := in.byHash[h]; ok {
		return id
	}
	id := uint32(len(in.strings))
	in.strings = append(in.strings, s)
	in.numbers = append(in.numbers, 0)
	in.isNum = append(in.isNum, false)
	in.byHash[h] = id
	return id
}

// Number interns n, returning its dense handle.
func (in *Interner) Number(n float64) uint32 {
	in.mu.Lock()
	defer in.mu.Unlock()
	h := hashNumber(n)
	if id, ok := in.byHash[h]; ok {
		return id
	}
	id := uint32(len(in.strings))
	in.strings = append(in.strings, "")
	in.numbers = append(in.numbers, n)
	in.isNum = append(in.isNum, true)
	in.byHash[h] = id
	return id
}

// Resolve returns the original value behind a handle, for diagnostics and
// the block printer.
func (in *Interner) Resolve(handle uint32) (s string, n float64, isNumber bool, ok bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if int(handle) >= len(in.strings) {
		return "", 0, false, false
	}
	return in.strings[handle], in.numbers[handle], in.isNum[handle], true
}
