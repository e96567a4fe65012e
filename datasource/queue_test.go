package datasource

import "testing"

func TestQueueFIFO(t *testing.T) {
	q := NewThreadSafeQueue(4)
	q.Push([]byte("a"))
	q.Push([]byte("b"))

	b, ok := q.Pop()
	if !ok || string(b) != "a" {
		t.Fatalf("Pop = %q, %v, want a, true", b, ok)
	}
}

func TestQueueDropsOldestOnOverflow(t *testing.T) {
	q := NewThreadSafeQueue(2)
	q.Push([]byte("1"))
	q.Push([]byte("2"))
	q.Push([]byte("3")) // should drop "1"

	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}
	b, _ := q.Pop()
	if string(b) != "2" {
		t.Fatalf("first = %q, want 2", b)
	}
}

func TestQueuePopEmptyReturnsFalse(t *testing.T) {
	q := NewThreadSafeQueue(4)
	if _, ok := q.Pop(); ok {
		t.Fatalf("Pop on empty queue should return false")
	}
}

func TestInlineDataSourceYieldsOnce(t *testing.T) {
	s := NewInlineDataSource([]byte("batch"))
	b, ok := s.Poll()
	if !ok || string(b) != "batch" {
		t.Fatalf("first Poll = %q, %v", b, ok)
	}
	if _, ok := s.Poll(); ok {
		t.Fatalf("second Poll should be empty")
	}
}
