// SPDX-License-Identifier: MPL-2.0

package treehash

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeChildren(t *testing.T) {
	t.Parallel()

	var d1, d2 Digest
	d1[0], d2[31] = 0x11, 0x22
	records := Records{"x": {Depth: 3, Digest: d1}, "y": {Depth: 0x0102, Digest: d2}}

	got, maxDepth, err := EncodeChildren([]string{"x", "y"}, records)
	if err != nil {
		t.Fatalf("EncodeChildren() error: %v", err)
	}
	if maxDepth != 0x0102 {
		t.Errorf("maxDepth = %d, want %d", maxDepth, 0x0102)
	}

	var want []byte
	want = append(want, 0, 0, 0, 0, 0, 3)
	want = append(want, d1[:]...)
	want = append(want, 0)
	want = append(want, 0, 0, 0, 1, 0x01, 0x02)
	want = append(want, d2[:]...)
	want = append(want, 1)
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeChildren() =\n%x\nwant\n%x", got, want)
	}
}

func TestEncodeChildren_Empty(t *testing.T) {
	t.Parallel()

	got, maxDepth, err := EncodeChildren(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 || maxDepth != -1 {
		t.Errorf("EncodeChildren(nil) = %x, %d; want empty, -1", got, maxDepth)
	}
}

func TestEncodeChildren_MissingRecord(t *testing.T) {
	t.Parallel()

	_, _, err := EncodeChildren([]string{"x"}, Records{})
	var missErr *MissingRecordError
	if !errors.As(err, &missErr) || missErr.ID != "x" {
		t.Errorf("expected MissingRecordError for x, got %v", err)
	}
}

func TestHashNode_DepthOverflow(t *testing.T) {
	t.Parallel()

	_, err := HashNode(make([]byte, SHA1IDWidth), []string{"deep"}, Records{"deep": {Depth: MaxDepth}})
	if !errors.Is(err, ErrDepthOverflow) {
		t.Errorf("HashNode() error = %v, want ErrDepthOverflow", err)
	}
}

func TestHashNode_Leaf(t *testing.T) {
	t.Parallel()

	rec, err := HashNode(bytes.Repeat([]byte{0xaa}, SHA1IDWidth), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Depth != 0 || rec.Digest.String() != digestA {
		t.Errorf("HashNode(leaf) = %d %s, want 0 %s", rec.Depth, rec.Digest, digestA)
	}
}
