package drawing

import "testing"

func TestAddAssignsMonotonicIds(t *testing.T) {
	s := New()
	a := s.AddTrendline(0, 0, 1, 1)
	b := s.AddHorizontalLevel(100)
	if a != 1 || b != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", a, b)
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := New()
	id := s.AddVerticalLine(5)
	s.AddRectangle(0, 0, 1, 1)
	s.Remove(id)
	if _, ok := s.Get(id); ok {
		t.Fatalf("expected removed drawing to be gone")
	}
	if s.Count() != 1 {
		t.Fatalf("count = %d, want 1", s.Count())
	}
	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("count after Clear = %d, want 0", s.Count())
	}
}

func TestJSONRoundTripPreservesAllocator(t *testing.T) {
	s := New()
	s.AddTrendline(0, 0, 1, 1)
	s.AddHorizontalLevel(50)
	blob, err := s.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	restored := New()
	if err := restored.LoadJSON(blob); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if restored.Count() != 2 {
		t.Fatalf("restored count = %d, want 2", restored.Count())
	}
	nextId := restored.AddVerticalLine(1)
	if nextId != 3 {
		t.Fatalf("next id after restore = %d, want 3", nextId)
	}
}
