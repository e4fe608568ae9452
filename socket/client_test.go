package socket

import (
	"sync"
	"testing"
)

func newTestClient() *Client {
	return &Client{
		cid:   1,
		uid:   1,
		send:  make(chan []byte, 4),
		done:  make(chan struct{}),
		rooms: make(map[uint64]struct{}),
	}
}

// 断开与广播并发时不得 panic: send 永不 close, 退出只靠 done 广播
func TestPushConcurrentWithClose(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := newTestClient()

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					c.Push([]byte(`{"event":"pong"}`))
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.close()
		}()
		wg.Wait()

		if !c.closed.Load() {
			t.Fatal("close 后标记应置位")
		}
		select {
		case <-c.done:
		default:
			t.Fatal("done 应已关闭")
		}
		// 关闭后的 Push 静默丢弃
		c.Push([]byte("late"))
	}
}

// read/write 两个泵退出时各调一次 close, 必须幂等
func TestCloseIdempotent(t *testing.T) {
	c := newTestClient()
	c.close()
	c.close()
	c.Push([]byte("x"))
}

func TestRoomMembership(t *testing.T) {
	c := newTestClient()
	if c.InRoom(7) {
		t.Error("未加入时不应在房间内")
	}
	c.joinRoom(7)
	if !c.InRoom(7) {
		t.Error("加入后应在房间内")
	}
	c.leaveRoom(7)
	if c.InRoom(7) {
		t.Error("离开后不应在房间内")
	}
}
