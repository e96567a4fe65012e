package ids

import (
	"testing"

	"github.com/dynacharting/core/internal/dcerr"
)

func TestReserve(t *testing.T) {
	cases := []struct {
		name string
		id   dcerr.Id
		pre  func(r Registry)
		want bool
	}{
		{name: "zero id rejected", id: 0, want: false},
		{name: "fresh id accepted", id: 5, want: true},
		{name: "duplicate id rejected", id: 5, pre: func(r Registry) { r.Reserve(5, dcerr.KindPane) }, want: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := New()
			if c.pre != nil {
				c.pre(r)
			}
			got := r.Reserve(c.id, dcerr.KindPane)
			if got != c.want {
				t.Fatalf("Reserve(%d) = %v, want %v", c.id, got, c.want)
			}
		})
	}
}

func TestAllocateSkipsReserved(t *testing.T) {
	r := New()
	if !r.Reserve(1, dcerr.KindPane) {
		t.Fatalf("reserve 1 failed")
	}
	if !r.Reserve(2, dcerr.KindPane) {
		t.Fatalf("reserve 2 failed")
	}

	got := r.Allocate(dcerr.KindLayer)
	if got == 1 || got == 2 {
		t.Fatalf("Allocate returned colliding id %d", got)
	}
	if !r.Exists(got) {
		t.Fatalf("allocated id %d not recorded as existing", got)
	}
	if r.KindOf(got) != dcerr.KindLayer {
		t.Fatalf("allocated id has wrong kind: %v", r.KindOf(got))
	}
}

func TestReleaseIdempotent(t *testing.T) {
	r := New()
	r.Reserve(7, dcerr.KindBuffer)
	r.Release(7)
	if r.Exists(7) {
		t.Fatalf("id 7 still exists after release")
	}
	// Second release is a no-op, not an error.
	r.Release(7)
	if r.Exists(7) {
		t.Fatalf("id 7 exists after double release")
	}
}

func TestListInsertionOrder(t *testing.T) {
	r := New()
	r.Reserve(10, dcerr.KindPane)
	r.Reserve(3, dcerr.KindPane)
	r.Reserve(99, dcerr.KindPane)

	got := r.List(dcerr.KindPane)
	want := []dcerr.Id{10, 3, 99}
	if len(got) != len(want) {
		t.Fatalf("List length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestListEmptyForUnusedKind(t *testing.T) {
	r := New()
	if got := r.List(dcerr.KindTransform); len(got) != 0 {
		t.Fatalf("List for unused kind = %v, want empty", got)
	}
}
