package bvh

import "testing"

func TestNodeLinkNullRoundTrip(t *testing.T) {
	kind, _, _ := Null.Decode()
	if kind != KindNull {
		kindErr(t, kind, KindNull)
	}
}

func kindErr(t *testing.T, got, want Kind) {
	t.Helper()
	t.Errorf("Decode().kind = %v, want %v", got, want)
}

func TestNodeLinkInnerRoundTrip(t *testing.T) {
	for _, idx := range []uint32{0, 1, 1000, MaxIndex} {
		l := NewInnerLink(idx)
		kind, gotIdx, count := l.Decode()
		if kind != KindInner {
			kindErr(t, kind, KindInner)
		}
		if gotIdx != idx {
			t.Errorf("index = %d, want %d", gotIdx, idx)
		}
		if count != 0 {
			t.Errorf("count = %d, want 0", count)
		}
	}
}

func TestNodeLinkLeafRoundTrip(t *testing.T) {
	for _, idx := range []uint32{0, 1, 1000, MaxIndex} {
		for count := 1; count <= MaxCount; count++ {
			l := NewLeafLink(idx, count)
			kind, gotIdx, gotCount := l.Decode()
			if kind != KindLeaf {
				kindErr(t, kind, KindLeaf)
			}
			if gotIdx != idx {
				t.Errorf("index = %d, want %d", gotIdx, idx)
			}
			if gotCount != count {
				t.Errorf("count = %d, want %d", gotCount, count)
			}
		}
	}
}

func TestNewInnerLinkPanicsOnOverflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for index > MaxIndex")
		}
	}()
	NewInnerLink(MaxIndex + 1)
}

func TestNewLeafLinkPanicsOnBadCount(t *testing.T) {
	for _, count := range []int{0, 8, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for count=%d", count)
				}
			}()
			NewLeafLink(0, count)
		}()
	}
}

func TestNodeLinkPredicates(t *testing.T) {
	if !Null.IsNull() || Null.IsInner() || Null.IsLeaf() {
		t.Error("Null predicates inconsistent")
	}
	inner := NewInnerLink(5)
	if inner.IsNull() || !inner.IsInner() || inner.IsLeaf() {
		t.Error("inner-link predicates inconsistent")
	}
	leaf := NewLeafLink(5, 2)
	if leaf.IsNull() || leaf.IsInner() || !leaf.IsLeaf() {
		t.Error("leaf-link predicates inconsistent")
	}
}
