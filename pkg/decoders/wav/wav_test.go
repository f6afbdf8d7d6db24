package wav

import "testing"

func TestNewDecoderStartsAtZeroFormat(t *testing.T) {
	decoder := NewDecoder()
	if decoder == nil {
		t.Fatal("NewDecoder returned nil")
	}
	if decoder.SampleRate() != 0 || decoder.Channels() != 0 {
		t.Errorf("expected zero-value format before Open, got rate=%d channels=%d",
			decoder.SampleRate(), decoder.Channels())
	}
}

func TestCloseIsSafeWithoutOpen(t *testing.T) {
	decoder := NewDecoder()
	if err := decoder.Close(); err != nil {
		t.Errorf("Close on unopened decoder failed: %v", err)
	}
}

func TestDecodeNextWithoutOpenReturnsError(t *testing.T) {
	decoder := NewDecoder()
	if _, err := decoder.DecodeNext(); err == nil {
		t.Error("expected an error decoding without opening a file")
	}
}

func TestSeekWithoutOpenReturnsError(t *testing.T) {
	decoder := NewDecoder()
	if err := decoder.Seek(1.0); err == nil {
		t.Error("expected an error seeking without opening a file")
	}
}

func TestDurationIsUnsupported(t *testing.T) {
	decoder := NewDecoder()
	if _, ok := decoder.Duration(); ok {
		t.Error("Duration() should report ok=false: go-wav exposes no duration")
	}
}
