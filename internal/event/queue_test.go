package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrainPreservesOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Activation())
	q.Push(Trigger('h'))
	q.Push(Trigger('z'))

	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []RawEvent{Activation(), Trigger('h'), Trigger('z')}, q.Drain())
	assert.Empty(t, q.Drain())
	assert.Equal(t, 0, q.Len())
}

func TestQueueReadyCoalesces(t *testing.T) {
	q := NewQueue()
	select {
	case <-q.Ready():
		t.Fatal("ready fired before any push")
	default:
	}

	q.Push(Activation())
	q.Push(Activation())

	select {
	case <-q.Ready():
	case <-time.After(time.Second):
		t.Fatal("ready did not fire")
	}
	select {
	case <-q.Ready():
		t.Fatal("wakeups should be coalesced")
	default:
	}
	assert.Len(t, q.Drain(), 2)
}

func TestQueueConcurrentPushDrainNoLossNoDuplicate(t *testing.T) {
	const producers, perProducer = 8, 500
	q := NewQueue()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(Trigger(rune(p*perProducer + i)))
			}
		}(p)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	seen := make(map[rune]int)
	lastPerProducer := make(map[int]rune)
	collect := func(batch []RawEvent) {
		for _, ev := range batch {
			seen[ev.Char]++
			p := int(ev.Char) / perProducer
			if last, ok := lastPerProducer[p]; ok {
				require.Greater(t, ev.Char, last, "per-producer order must hold")
			}
			lastPerProducer[p] = ev.Char
		}
	}
	for {
		select {
		case <-done:
			collect(q.Drain())
			require.Len(t, seen, producers*perProducer)
			for c, n := range seen {
				require.Equal(t, 1, n, "event %d delivered %d times", c, n)
			}
			return
		default:
			collect(q.Drain())
		}
	}
}
