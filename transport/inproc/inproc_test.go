package inproc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestPipe_OrderedDelivery(t *testing.T) {
	a, b := Pipe()
	defer a.Close()

	got := make(chan string, 10)
	b.OnReceive(func(data []byte) { got <- string(data) })

	for i := 0; i < 10; i++ {
		if err := a.Send(context.Background(), []byte(fmt.Sprint(i))); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 10; i++ {
		select {
		case msg := <-got:
			if msg != fmt.Sprint(i) {
				t.Fatalf("message %d = %q", i, msg)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
}

func TestPipe_NoDeliveryBeforeRegistration(t *testing.T) {
	a, b := Pipe()
	defer a.Close()

	if err := a.Send(context.Background(), []byte("early")); err != nil {
		t.Fatal(err)
	}
	got := make(chan string, 1)
	b.OnReceive(func(data []byte) { got <- string(data) })

	select {
	case msg := <-got:
		if msg != "early" {
			t.Errorf("got %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("queued message was not delivered after registration")
	}
}

func TestPipe_SendCopies(t *testing.T) {
	a, b := Pipe()
	defer a.Close()

	got := make(chan string, 1)
	b.OnReceive(func(data []byte) { got <- string(data) })

	buf := []byte("abc")
	a.Send(context.Background(), buf)
	buf[0] = 'x'
	if msg := <-got; msg != "abc" {
		t.Errorf("got %q, want abc", msg)
	}
}

func TestPipe_ClosePropagates(t *testing.T) {
	a, b := Pipe()

	closedA := make(chan error, 1)
	closedB := make(chan error, 1)
	a.OnReceive(func([]byte) {})
	b.OnReceive(func([]byte) {})
	a.OnClose(func(err error) { closedA <- err })
	b.OnClose(func(err error) { closedB <- err })

	a.Close()
	for name, ch := range map[string]chan error{"a": closedA, "b": closedB} {
		select {
		case err := <-ch:
			if err != nil {
				t.Errorf("%s: close error = %v, want nil", name, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s: OnClose not called", name)
		}
	}

	if err := b.Send(context.Background(), []byte("late")); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after close = %v, want ErrClosed", err)
	}
	if err := b.Ready(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Ready after close = %v, want ErrClosed", err)
	}
}

func TestPipe_OnCloseAfterClose(t *testing.T) {
	a, b := Pipe()
	b.Close()

	// Wait for a's delivery loop to observe the close.
	deadline := time.Now().Add(time.Second)
	for {
		a.mu.Lock()
		fired := a.closeFired
		a.mu.Unlock()
		if fired || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}

	called := make(chan struct{}, 1)
	a.OnClose(func(error) { called <- struct{}{} })
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("late OnClose registration was not called")
	}
}
