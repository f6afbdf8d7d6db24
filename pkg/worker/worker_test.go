package worker

import (
	"io"
	"testing"
	"time"

	"github.com/drgolem/audioengine/pkg/clock"
	"github.com/drgolem/audioengine/pkg/commandqueue"
	"github.com/drgolem/audioengine/pkg/dsp"
	"github.com/drgolem/audioengine/pkg/ringbuffer"
	"github.com/drgolem/audioengine/pkg/types"
)

// fakeDecoder yields a fixed number of constant-0.1 blocks, then io.EOF,
// matching the decoder-side contract types.Decoder.DecodeNext documents.
type fakeDecoder struct {
	rate, channels int
	blockFrames     int
	blocksRemaining int
	seeks           []float64
}

func (f *fakeDecoder) Open(string) error  { return nil }
func (f *fakeDecoder) Close() error       { return nil }
func (f *fakeDecoder) SampleRate() int    { return f.rate }
func (f *fakeDecoder) Channels() int      { return f.channels }
func (f *fakeDecoder) Duration() (time.Duration, bool) { return 0, false }

func (f *fakeDecoder) DecodeNext() ([]float32, error) {
	if f.blocksRemaining <= 0 {
		return nil, io.EOF
	}
	f.blocksRemaining--
	block := make([]float32, f.blockFrames*f.channels)
	for i := range block {
		block[i] = 0.1
	}
	return block, nil
}

func (f *fakeDecoder) Seek(timeSecs float64) error {
	f.seeks = append(f.seeks, timeSecs)
	return nil
}

func testConfig() Config {
	return Config{BackpressureSleep: time.Millisecond}
}

func TestWorkerDecodesUntilEOSThenSetsClockEOS(t *testing.T) {
	c := clock.New()
	c.SetSampleRate(44100)
	c.SetChannels(2)

	cmdQ := commandqueue.New(0)
	prod, _ := ringbuffer.New(1 << 16)
	dec := &fakeDecoder{rate: 44100, channels: 2, blockFrames: 256, blocksRemaining: 4}

	w := New(testConfig(), c, cmdQ, dec, prod, dsp.BassConfig{Enabled: false, Intensity: 0})
	w.Play()

	deadline := time.Now().Add(2 * time.Second)
	for !c.IsEOS() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	if !c.IsEOS() {
		t.Fatal("worker never reached EOS on an exhausted decoder")
	}
}

func TestWorkerStopIsJoinable(t *testing.T) {
	c := clock.New()
	c.SetSampleRate(44100)
	c.SetChannels(2)

	cmdQ := commandqueue.New(0)
	prod, _ := ringbuffer.New(1 << 20)
	dec := &fakeDecoder{rate: 44100, channels: 2, blockFrames: 256, blocksRemaining: 1 << 30}

	w := New(testConfig(), c, cmdQ, dec, prod, dsp.BassConfig{})
	w.Play()
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return: worker failed to join")
	}
}

func TestWorkerAppliesSeekCommand(t *testing.T) {
	c := clock.New()
	c.SetSampleRate(44100)
	c.SetChannels(1)

	cmdQ := commandqueue.New(0)
	prod, _ := ringbuffer.New(1 << 16)
	dec := &fakeDecoder{rate: 44100, channels: 1, blockFrames: 256, blocksRemaining: 1 << 30}

	w := New(testConfig(), c, cmdQ, dec, prod, dsp.BassConfig{})
	w.Play()
	time.Sleep(10 * time.Millisecond)

	if err := cmdQ.Send(types.Command{Kind: types.CommandSeek, SeekSecs: 12.5}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for len(dec.seeks) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	w.Stop()

	if len(dec.seeks) == 0 {
		t.Fatal("decoder never received the seek command")
	}
	if dec.seeks[0] != 12.5 {
		t.Errorf("seek target = %v, want 12.5", dec.seeks[0])
	}
}
