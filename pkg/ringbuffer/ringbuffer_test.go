package ringbuffer

import "testing"

func TestNewRoundsCapacityToPowerOfTwo(t *testing.T) {
	cases := []struct {
		requested uint64
		want      uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{1000, 1024},
		{2 * 44100, 131072},
	}

	for _, c := range cases {
		_, consumer := New(c.requested)
		if got := consumer.Size(); got != c.want {
			t.Errorf("New(%d).Size() = %d, want %d", c.requested, got, c.want)
		}
	}
}

func TestPushSlicePopSliceRoundTrip(t *testing.T) {
	producer, consumer := New(16)

	in := []float32{0.1, 0.2, 0.3, 0.4}
	if n := producer.PushSlice(in); n != len(in) {
		t.Fatalf("PushSlice returned %d, want %d", n, len(in))
	}

	out := make([]float32, len(in))
	if n := consumer.PopSlice(out); n != len(in) {
		t.Fatalf("PopSlice returned %d, want %d", n, len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestPushSliceNeverOverfills(t *testing.T) {
	producer, _ := New(4)

	in := make([]float32, 10)
	n := producer.PushSlice(in)
	if n != 4 {
		t.Errorf("PushSlice stored %d samples into capacity-4 ring, want 4", n)
	}
	if producer.VacantLen() != 0 {
		t.Errorf("VacantLen() = %d, want 0 after filling ring", producer.VacantLen())
	}
}

func TestPushSliceReturnsZeroWhenFull(t *testing.T) {
	producer, _ := New(4)
	producer.PushSlice(make([]float32, 4))

	if n := producer.PushSlice([]float32{1.0}); n != 0 {
		t.Errorf("PushSlice on full ring returned %d, want 0", n)
	}
}

func TestWrapAroundPreservesOrder(t *testing.T) {
	producer, consumer := New(4)

	producer.PushSlice([]float32{1, 2, 3})
	out := make([]float32, 3)
	consumer.PopSlice(out)

	// readPos/writePos now sit at 3; push 3 more to force a wrap.
	producer.PushSlice([]float32{4, 5, 6})
	out2 := make([]float32, 3)
	n := consumer.PopSlice(out2)
	if n != 3 {
		t.Fatalf("PopSlice after wrap returned %d, want 3", n)
	}
	want := []float32{4, 5, 6}
	for i := range want {
		if out2[i] != want[i] {
			t.Errorf("out2[%d] = %v, want %v", i, out2[i], want[i])
		}
	}
}

func TestClearDropsBufferedSamples(t *testing.T) {
	producer, consumer := New(8)
	producer.PushSlice([]float32{1, 2, 3})

	consumer.Clear()

	if got := consumer.OccupiedLen(); got != 0 {
		t.Errorf("OccupiedLen() after Clear() = %d, want 0", got)
	}
	if n := consumer.PopSlice(make([]float32, 1)); n != 0 {
		t.Errorf("PopSlice after Clear() returned %d, want 0", n)
	}
}

func TestPeekContiguousAndConsume(t *testing.T) {
	producer, consumer := New(4)
	producer.PushSlice([]float32{1, 2, 3})
	// drain to 3, then push 2 more so data wraps and PeekContiguous must
	// return only the first contiguous run.
	consumer.PopSlice(make([]float32, 3))
	producer.PushSlice([]float32{4, 5})

	first := consumer.PeekContiguous()
	if err := consumer.Consume(uint64(len(first))); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	remaining, _, total := consumer.ReadSlices()
	if total != 1 {
		t.Fatalf("ReadSlices total = %d, want 1", total)
	}
	if remaining[0] != 5 {
		t.Errorf("remaining[0] = %v, want 5", remaining[0])
	}
}
