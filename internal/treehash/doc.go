// SPDX-License-Identifier: MPL-2.0

// Package treehash computes tree hashes: a SHA-256 digest per component that
// covers the component's own content identifier and, recursively, the digests
// of its whole dependency closure.
//
// The byte layout hashed for a node is fixed, since downstream caches key on
// the resulting digests:
//
//	digest   = SHA-256( u16be(depth) | contentID | children | 0x02 )
//	children = for each dependency i, sorted by id:
//	           u32be(i) | u16be(dep depth) | dep digest (32 bytes) | u8(last ? 1 : 0)
//
// A leaf has depth 0 and an empty children section; any other node has depth
// one more than its deepest dependency.
//
// The children section covers the dependency set: a dependency listed twice
// in the registry is encoded once, so declaring it again does not change the
// digest. Tools that hash the raw declared list produce different digests
// for such components.
package treehash
