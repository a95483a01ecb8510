// SPDX-License-Identifier: MPL-2.0

package treehash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

const (
	// DigestSize is the length of a digest in bytes.
	DigestSize = sha256.Size
	// RootMarker is the trailing node-kind byte of a component's own encoding.
	RootMarker byte = 2
	// MaxDepth is the largest depth the 16-bit depth fields can carry.
	MaxDepth = math.MaxUint16

	// childRecordSize is offset(4) + depth(2) + digest + end flag(1).
	childRecordSize = 4 + 2 + DigestSize + 1
)

type (
	// Digest is a tree hash.
	Digest [DigestSize]byte

	// Record is the hashing result of one node, consulted by its dependents.
	Record struct {
		Depth  int
		Digest Digest
	}

	// Records maps node ids to their results for one run.
	Records map[string]Record
)

// String returns the lowercase hex form of the digest.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// EncodeChildren encodes the dependency records of a node. deps must already
// be sorted and free of duplicates, and every entry must be present in
// records. It returns the encoding and the largest dependency depth, or -1
// when deps is empty.
func EncodeChildren(deps []string, records Records) ([]byte, int, error) {
	buf := make([]byte, 0, len(deps)*childRecordSize)
	maxDepth := -1
	for i, dep := range deps {
		rec, ok := records[dep]
		if !ok {
			return nil, 0, &MissingRecordError{ID: dep}
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(i))
		buf = binary.BigEndian.AppendUint16(buf, uint16(rec.Depth))
		buf = append(buf, rec.Digest[:]...)
		if i == len(deps)-1 {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		maxDepth = max(maxDepth, rec.Depth)
	}
	return buf, maxDepth, nil
}

// HashNode computes the record of a node from its decoded content identifier
// and the records of its sorted, unique dependencies.
func HashNode(contentID []byte, deps []string, records Records) (Record, error) {
	children, maxDepth, err := EncodeChildren(deps, records)
	if err != nil {
		return Record{}, err
	}
	depth := maxDepth + 1
	if depth > MaxDepth {
		return Record{}, &DepthOverflowError{Depth: depth}
	}
	return Record{Depth: depth, Digest: rootDigest(depth, contentID, children)}, nil
}

func rootDigest(depth int, contentID, children []byte) Digest {
	h := sha256.New()
	var depthBytes [2]byte
	binary.BigEndian.PutUint16(depthBytes[:], uint16(depth))
	h.Write(depthBytes[:])
	h.Write(contentID)
	h.Write(children)
	h.Write([]byte{RootMarker})

	var d Digest
	h.Sum(d[:0])
	return d
}
