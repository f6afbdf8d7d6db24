package ringbuffer

import (
	"testing"

	"pgregory.net/rapid"
)

// TestPushPopConservesCount checks that for all sequences of
// push_slice/pop_slice on a freshly created ring, the
// total samples observed by the consumer equal the total samples the
// producer believes it pushed, in the absence of Clear().
func TestPushPopConservesCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.Uint64Range(1, 256).Draw(t, "capacity")
		ops := rapid.SliceOfN(rapid.SliceOfN(rapid.Float32(), 0, 32), 0, 64).Draw(t, "chunks")

		producer, consumer := New(capacity)

		var pushed, popped uint64
		for _, chunk := range ops {
			n := producer.PushSlice(chunk)
			pushed += uint64(n)

			out := make([]float32, len(chunk))
			m := consumer.PopSlice(out)
			popped += uint64(m)
		}

		// Drain whatever is left.
		drain := make([]float32, capacity*2+8)
		popped += uint64(consumer.PopSlice(drain))

		if pushed != popped {
			t.Fatalf("pushed %d samples but consumer observed %d", pushed, popped)
		}
	})
}

// TestVacantLenZeroRejectsPush is testable property 11: vacant_len() = 0
// causes push_slice to return 0, and push_slice never partially writes
// past capacity.
func TestVacantLenZeroRejectsPush(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.Uint64Range(1, 64).Draw(t, "capacity")
		producer, _ := New(capacity)

		fillSize := int(producer.VacantLen())
		n := producer.PushSlice(make([]float32, fillSize))
		if uint64(n) != uint64(fillSize) {
			t.Fatalf("filling to capacity stored %d of %d", n, fillSize)
		}
		if producer.VacantLen() != 0 {
			t.Fatalf("VacantLen() = %d after filling ring, want 0", producer.VacantLen())
		}

		extra := rapid.IntRange(1, 32).Draw(t, "extra")
		if n := producer.PushSlice(make([]float32, extra)); n != 0 {
			t.Fatalf("PushSlice on full ring returned %d, want 0", n)
		}
	})
}
