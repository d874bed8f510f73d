package notification

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeConn struct {
	writing int32
	overlap int32
	writes  int32
	closed  int32
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if !atomic.CompareAndSwapInt32(&c.writing, 0, 1) {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.StoreInt32(&c.writing, 0)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *fakeConn) Close() error {
	atomic.AddInt32(&c.closed, 1)
	return nil
}

func TestPushSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Register("user-1", conn)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Push("user-1", map[string]string{"title": "ping"})
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&conn.overlap) != 0 {
		t.Error("concurrent writes reached the same connection")
	}
	if got := atomic.LoadInt32(&conn.writes); got != 32 {
		t.Errorf("writes = %d, want 32", got)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	first := &fakeConn{}
	second := &fakeConn{}
	hub.Register("user-1", first)
	hub.Register("user-1", second)

	hub.Unregister("user-1", first)
	hub.Push("user-1", map[string]string{"title": "ping"})

	if atomic.LoadInt32(&first.writes) != 0 {
		t.Error("unregistered connection still received a push")
	}
	if atomic.LoadInt32(&second.writes) != 1 {
		t.Error("remaining connection missed the push")
	}
}
