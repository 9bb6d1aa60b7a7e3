package hub

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu     sync.Mutex
	got    []any
	closed bool
	full   bool
}

func (f *fakeChannel) Send(v any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.full {
		return false
	}
	f.got = append(f.got, v)
	return true
}

func (f *fakeChannel) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeChannel) received() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.got...)
}

func TestRegistry_NotifyWithoutChannel(t *testing.T) {
	r := NewRegistry(nil)

	assert.False(t, r.Notify("nobody", "x"))
}

func TestRegistry_RegisterAndNotify(t *testing.T) {
	r := NewRegistry(nil)
	ch := &fakeChannel{}

	r.Register("s1", ch)

	assert.True(t, r.Notify("s1", "hello"))
	assert.False(t, r.Notify("s2", "hello"))
	assert.Equal(t, []any{"hello"}, ch.received())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_LastRegistrationWinsAndDisplacedIsClosed(t *testing.T) {
	r := NewRegistry(nil)
	first, second := &fakeChannel{}, &fakeChannel{}

	r.Register("s1", first)
	r.Register("s1", second)

	require.True(t, r.Notify("s1", 1))
	assert.True(t, first.isClosed())
	assert.False(t, second.isClosed())
	assert.Empty(t, first.received())
	assert.Equal(t, []any{1}, second.received())
}

func TestRegistry_RegisterSameChannelTwiceKeepsItOpen(t *testing.T) {
	r := NewRegistry(nil)
	ch := &fakeChannel{}

	r.Register("s1", ch)
	r.Register("s1", ch)

	assert.False(t, ch.isClosed())
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	ch := &fakeChannel{}
	r.Register("s1", ch)

	r.Unregister("s1")
	r.Unregister("s1")
	r.Unregister("never")

	assert.True(t, ch.isClosed())
	assert.False(t, r.Notify("s1", "x"))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReleaseStaleChannelKeepsNewer(t *testing.T) {
	r := NewRegistry(nil)
	old, fresh := &fakeChannel{}, &fakeChannel{}
	r.Register("s1", old)
	r.Register("s1", fresh)

	assert.False(t, r.Release("s1", old))
	assert.True(t, r.Notify("s1", "still here"))

	assert.True(t, r.Release("s1", fresh))
	assert.False(t, r.Notify("s1", "gone"))
}

func TestRegistry_NotifySaturatedChannel(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("s1", &fakeChannel{full: true})

	assert.False(t, r.Notify("s1", "x"))
}

func TestRegistry_CloseAll(t *testing.T) {
	r := NewRegistry(nil)
	a, b := &fakeChannel{}, &fakeChannel{}
	r.Register("a", a)
	r.Register("b", b)

	r.CloseAll()

	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	r := NewRegistry(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%5)
			ch := &fakeChannel{}
			r.Register(id, ch)
			r.Notify(id, i)
			r.Release(id, ch)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Len(), 5)
}
