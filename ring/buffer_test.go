// File: ring/buffer_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-disruptor/api"
)

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for capacity 100")
		}
	}()
	New[int](100)
}

func TestClaimPublishSingleProducer(t *testing.T) {
	b := New[int](8)
	for i := 0; i < 5; i++ {
		seq := b.Claim()
		if seq != int64(i) {
			t.Fatalf("claim %d returned seq %d", i, seq)
		}
		b.WriteSlot(seq, i*10)
		b.Publish(seq)
	}
	if got := b.Cursor(); got != 4 {
		t.Fatalf("cursor = %d, want 4", got)
	}
	if got := b.HighestPublished(0, b.Cursor()); got != 4 {
		t.Fatalf("highest published = %d, want 4", got)
	}
	for i := int64(0); i <= 4; i++ {
		if got := b.Get(i); got != int(i)*10 {
			t.Fatalf("slot %d = %d, want %d", i, got, i*10)
		}
	}
}

func TestClaimNPublishRange(t *testing.T) {
	b := New[int](16)
	hi := b.ClaimN(4)
	if hi != 3 {
		t.Fatalf("ClaimN(4) = %d, want 3", hi)
	}
	lo := hi - 3
	for seq := lo; seq <= hi; seq++ {
		b.WriteSlot(seq, int(seq)+100)
	}
	b.PublishRange(lo, hi)
	if got := b.HighestPublished(0, hi); got != hi {
		t.Fatalf("highest published = %d, want %d", got, hi)
	}
}

// An unpublished claim must hide everything behind it.
func TestHighestPublishedStopsAtHole(t *testing.T) {
	b := New[int](8)
	first := b.Claim()  // 0, left unpublished
	second := b.Claim() // 1
	b.WriteSlot(second, 42)
	b.Publish(second)

	if got := b.HighestPublished(0, b.Cursor()); got != -1 {
		t.Fatalf("highest published over hole = %d, want -1", got)
	}
	b.WriteSlot(first, 41)
	b.Publish(first)
	if got := b.HighestPublished(0, b.Cursor()); got != 1 {
		t.Fatalf("highest published after fill = %d, want 1", got)
	}
}

func TestTryClaimFullRing(t *testing.T) {
	b := New[int](4)
	p := b.NewPoller() // gates at -1, never advanced
	_ = p
	for i := 0; i < 4; i++ {
		seq := b.Claim()
		b.WriteSlot(seq, i)
		b.Publish(seq)
	}
	if _, err := b.TryClaim(); !errors.Is(err, api.ErrRingFull) {
		t.Fatalf("TryClaim on full ring: err = %v, want ErrRingFull", err)
	}
}

// A blocked producer must resume once the slow consumer advances.
func TestClaimUnblocksAfterConsume(t *testing.T) {
	b := New[int](4)
	p := b.NewPoller()
	for i := 0; i < 4; i++ {
		seq := b.Claim()
		b.WriteSlot(seq, i)
		b.Publish(seq)
	}

	claimed := make(chan int64, 1)
	go func() {
		seq := b.Claim() // full: spins until the poller moves
		b.WriteSlot(seq, 99)
		b.Publish(seq)
		claimed <- seq
	}()

	select {
	case seq := <-claimed:
		t.Fatalf("claim succeeded on full ring: seq %d", seq)
	case <-time.After(50 * time.Millisecond):
	}

	// Consume one entry, freeing one slot.
	state, err := p.Poll(func(v int, seq int64, end bool) (bool, error) {
		return false, nil
	})
	if err != nil || state != api.PollProcessing {
		t.Fatalf("poll: state %v err %v", state, err)
	}

	select {
	case seq := <-claimed:
		if seq != 4 {
			t.Fatalf("unblocked claim = %d, want 4", seq)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("producer still blocked after consumer advanced")
	}
}

func TestRemoveGatingReleasesProducers(t *testing.T) {
	b := New[int](4)
	p := b.NewPoller()
	for i := 0; i < 4; i++ {
		seq := b.Claim()
		b.WriteSlot(seq, i)
		b.Publish(seq)
	}
	if _, err := b.TryClaim(); err == nil {
		t.Fatal("ring should be full while poller gates")
	}
	p.Close()
	if _, err := b.TryClaim(); err != nil {
		t.Fatalf("TryClaim after detach: %v", err)
	}
}

// Many producers, one consumer: no entry lost, no entry duplicated.
func TestMultiProducerStress(t *testing.T) {
	const (
		producers = 4
		perP      = 2000
		total     = producers * perP
	)
	b := New[int64](1024)
	p := b.NewPoller()

	var published atomic.Int64
	var wg sync.WaitGroup
	wg.Add(producers)
	for g := 0; g < producers; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perP; i++ {
				seq := b.Claim()
				b.WriteSlot(seq, seq)
				b.Publish(seq)
				published.Add(1)
			}
		}()
	}

	var (
		received int
		sum      int64
		lastSeq  = int64(-1)
	)
	deadline := time.Now().Add(10 * time.Second)
	for received < total {
		if time.Now().After(deadline) {
			t.Fatalf("timeout: received %d of %d", received, total)
		}
		_, err := p.Poll(func(v int64, seq int64, end bool) (bool, error) {
			if seq != lastSeq+1 {
				t.Errorf("sequence jumped %d -> %d", lastSeq, seq)
			}
			if v != seq {
				t.Errorf("slot %d holds %d", seq, v)
			}
			lastSeq = seq
			received++
			sum += v
			return true, nil
		})
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
	}
	wg.Wait()

	wantSum := int64(total-1) * int64(total) / 2
	if sum != wantSum {
		t.Fatalf("checksum %d, want %d", sum, wantSum)
	}
	if published.Load() != total {
		t.Fatalf("published %d, want %d", published.Load(), total)
	}
}

func BenchmarkClaimPublish(b *testing.B) {
	buf := New[int64](1 << 14)
	p := buf.NewPoller()
	done := make(chan struct{})
	go func() {
		defer close(done)
		var seen int
		for seen < b.N {
			_, _ = p.Poll(func(v int64, seq int64, end bool) (bool, error) {
				seen++
				return true, nil
			})
		}
	}()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq := buf.Claim()
		buf.WriteSlot(seq, int64(i))
		buf.Publish(seq)
	}
	<-done
}
