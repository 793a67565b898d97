package observe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_GetSet(t *testing.T) {
	v := NewValue(false)
	assert.False(t, v.Get())

	v.Set(true)
	assert.True(t, v.Get())
}

func TestValue_SubscribersRunInOrder(t *testing.T) {
	v := NewValue(0)
	var calls []string

	v.Subscribe(func(n int) { calls = append(calls, "first") })
	v.Subscribe(func(n int) { calls = append(calls, "second") })
	v.Subscribe(func(n int) { calls = append(calls, "third") })

	v.Set(1)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestValue_WriteBeforeNotify(t *testing.T) {
	v := NewValue("a")
	var seen string
	v.Subscribe(func(string) { seen = v.Get() })

	v.Set("b")
	assert.Equal(t, "b", seen)
}

func TestValue_SameValueDoesNotNotify(t *testing.T) {
	v := NewValue(true)
	calls := 0
	v.Subscribe(func(bool) { calls++ })

	v.Set(true)
	assert.Equal(t, 0, calls)

	v.Set(false)
	v.Set(false)
	assert.Equal(t, 1, calls)
}

func TestValue_Unsubscribe(t *testing.T) {
	v := NewValue(0)
	calls := 0
	unsubscribe := v.Subscribe(func(int) { calls++ })
	assert.Equal(t, 1, v.Len())

	v.Set(1)
	unsubscribe()
	unsubscribe()
	v.Set(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, v.Len())
}

func TestValue_UnsubscribeDuringNotify(t *testing.T) {
	v := NewValue(0)
	var calls []string
	var unsubscribeSecond func()

	v.Subscribe(func(int) {
		calls = append(calls, "first")
		unsubscribeSecond()
	})
	unsubscribeSecond = v.Subscribe(func(int) { calls = append(calls, "second") })

	v.Set(1)
	assert.Equal(t, []string{"first"}, calls)
}

func TestValue_NestedSetIsQueued(t *testing.T) {
	v := NewValue(false)
	var calls []string

	// the first subscriber immediately turns the flag back off
	v.Subscribe(func(on bool) {
		calls = append(calls, "reset")
		if on {
			v.Set(false)
		}
	})
	v.Subscribe(func(on bool) {
		if on {
			calls = append(calls, "observer:on")
		} else {
			calls = append(calls, "observer:off")
		}
	})

	v.Set(true)
	assert.Equal(t, []string{"reset", "observer:on", "reset", "observer:off"}, calls)
	assert.False(t, v.Get())
}

func TestValue_ConcurrentSets(t *testing.T) {
	v := NewValue(0)
	var mu sync.Mutex
	var seen []int
	v.Subscribe(func(n int) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Set(i)
		}()
	}
	wg.Wait()

	// the last notifier drains the queue before returning
	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, seen)
	assert.Equal(t, v.Get(), seen[len(seen)-1])
}
