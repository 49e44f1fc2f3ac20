package rawr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"
)

// captureSend records outgoing envelopes so tests can answer them in any order.
type captureSend[T any] struct {
	mu   sync.Mutex
	sent []Envelope[T]
	ch   chan Envelope[T]
}

func newCaptureSend[T any]() *captureSend[T] {
	return &captureSend[T]{ch: make(chan Envelope[T], 64)}
}

func (c *captureSend[T]) send(ctx context.Context, env Envelope[T]) error {
	c.mu.Lock()
	c.sent = append(c.sent, env)
	c.mu.Unlock()
	c.ch <- env
	return nil
}

func TestClient_CallResolves(t *testing.T) {
	rec := newCaptureSend[string]()
	client := NewClient[string, string](rec.send)

	go func() {
		env := <-rec.ch
		client.HandleResponse(Envelope[string]{ID: env.ID, Data: "re: " + env.Data})
	}()

	got, err := client.Call(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if got != "re: hi" {
		t.Errorf("Call = %q", got)
	}
	if client.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", client.Pending())
	}
}

func TestClient_ConcurrentCallsOutOfOrder(t *testing.T) {
	rec := newCaptureSend[int]()
	client := NewClient[int, int](rec.send)
	const n = 20

	// Respond once every request is in flight, in shuffled order.
	go func() {
		var envs []Envelope[int]
		for len(envs) < n {
			envs = append(envs, <-rec.ch)
		}
		rand.Shuffle(len(envs), func(i, j int) { envs[i], envs[j] = envs[j], envs[i] })
		for _, env := range envs {
			client.HandleResponse(Envelope[int]{ID: env.ID, Data: env.Data * 10})
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := client.Call(context.Background(), i)
			if err != nil {
				t.Errorf("call %d: %v", i, err)
				return
			}
			if got != i*10 {
				t.Errorf("call %d got response %d", i, got)
			}
		}(i)
	}
	wg.Wait()
}

func TestClient_UnknownIDIsNoOp(t *testing.T) {
	rec := newCaptureSend[string]()
	client := NewClient[string, string](rec.send)

	done := make(chan error, 1)
	go func() {
		_, err := client.Call(context.Background(), "x")
		done <- err
	}()
	env := <-rec.ch

	if client.HandleResponse(Envelope[string]{ID: env.ID + 1, Data: "stray"}) {
		t.Error("response for unknown id should be dropped")
	}
	if client.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", client.Pending())
	}

	client.HandleResponse(Envelope[string]{ID: env.ID, Data: "ok"})
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if client.HandleResponse(Envelope[string]{ID: env.ID, Data: "dup"}) {
		t.Error("duplicate response should be dropped")
	}
}

func TestClient_CancelAllPending(t *testing.T) {
	rec := newCaptureSend[int]()
	client := NewClient[int, int](rec.send)
	const k = 4

	errs := make(chan error, k)
	for i := 0; i < k; i++ {
		go func(i int) {
			_, err := client.Call(context.Background(), i)
			errs <- err
		}(i)
	}
	var ids []ReqID
	for i := 0; i < k; i++ {
		ids = append(ids, (<-rec.ch).ID)
	}

	reason := NewError(CodeConnectionClosed, "socket reset")
	if n := client.CancelAllPending(reason); n != k {
		t.Errorf("CancelAllPending = %d, want %d", n, k)
	}
	for i := 0; i < k; i++ {
		if err := <-errs; err != reason {
			t.Errorf("call err = %v, want reason", err)
		}
	}

	// A late response must not resurrect anything.
	if client.HandleResponse(Envelope[int]{ID: ids[0], Data: 1}) {
		t.Error("response after cancellation should be dropped")
	}
	if _, err := client.Call(context.Background(), 9); err != reason {
		t.Errorf("Call after cancellation = %v, want reason", err)
	}
}

func TestClient_ContextCancelRemovesOnlyThatCall(t *testing.T) {
	rec := newCaptureSend[string]()
	client := NewClient[string, string](rec.send)

	ctx, cancel := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := client.Call(ctx, "a")
		errA <- err
	}()
	envA := <-rec.ch

	resB := make(chan string, 1)
	go func() {
		v, _ := client.Call(context.Background(), "b")
		resB <- v
	}()
	envB := <-rec.ch

	cancel()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled call = %v, want context.Canceled", err)
	}
	if client.HandleResponse(Envelope[string]{ID: envA.ID, Data: "late"}) {
		t.Error("response for a cancelled call should be dropped")
	}

	client.HandleResponse(Envelope[string]{ID: envB.ID, Data: "b-ok"})
	if got := <-resB; got != "b-ok" {
		t.Errorf("other call = %q", got)
	}
}

func TestClient_SendFailure(t *testing.T) {
	sendErr := errors.New("write failed")
	client := NewClient[int, int](func(ctx context.Context, env Envelope[int]) error {
		return sendErr
	})
	if _, err := client.Call(context.Background(), 1); err != sendErr {
		t.Errorf("Call = %v, want send error", err)
	}
	if client.Pending() != 0 {
		t.Errorf("failed send left %d entries", client.Pending())
	}
}

func TestCallbackClient(t *testing.T) {
	client := NewCallbackClient[int, string](func(env Envelope[int], respond func(Envelope[string])) {
		go func() {
			time.Sleep(time.Duration(rand.IntN(5)) * time.Millisecond)
			respond(Envelope[string]{ID: env.ID, Data: fmt.Sprint(env.Data)})
			// A second response for the same id is dropped.
			respond(Envelope[string]{ID: env.ID, Data: "dup"})
		}()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := client.Call(context.Background(), i)
			if err != nil {
				t.Errorf("call %d: %v", i, err)
				return
			}
			if got != fmt.Sprint(i) {
				t.Errorf("call %d got %q", i, got)
			}
		}(i)
	}
	wg.Wait()
	if client.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", client.Pending())
	}
}

func TestCallbackClient_CancelAllPending(t *testing.T) {
	forwarded := make(chan Envelope[int], 1)
	client := NewCallbackClient[int, int](func(env Envelope[int], respond func(Envelope[int])) {
		forwarded <- env
	})

	errs := make(chan error, 1)
	go func() {
		_, err := client.Call(context.Background(), 1)
		errs <- err
	}()
	<-forwarded

	client.CancelAllPending(nil)
	if err := <-errs; !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("err = %v, want connection_closed", err)
	}
}

func TestUnwrap(t *testing.T) {
	inner := CallerFunc[Message, Result[Message]](func(ctx context.Context, req Message) (Result[Message], error) {
		if req.Method == "fail" {
			return Fail[Message](errors.New("boom")), nil
		}
		return Ok(Message{Method: req.Method, Payload: json.RawMessage(`1`)}), nil
	})
	caller := Unwrap(inner)

	res, err := caller.Call(context.Background(), Message{Method: "ok"})
	if err != nil || res.Method != "ok" {
		t.Errorf("Call(ok) = %+v, %v", res, err)
	}

	_, err = caller.Call(context.Background(), Message{Method: "fail"})
	if !errors.Is(err, ErrHandlerFailure) {
		t.Errorf("Call(fail) = %v, want handler_failure", err)
	}
}

func TestInvoke(t *testing.T) {
	echo := CallerFunc[Message, Message](func(ctx context.Context, req Message) (Message, error) {
		return req, nil
	})

	var out []string
	if err := Invoke(context.Background(), echo, "say_hello", []string{"World"}, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0] != "World" {
		t.Errorf("out = %v", out)
	}

	if err := Invoke(context.Background(), echo, "say_hello", nil, nil); err != nil {
		t.Errorf("Invoke with nil out = %v", err)
	}
}

func TestInvoke_ProtocolMismatch(t *testing.T) {
	wrongArm := CallerFunc[Message, Message](func(ctx context.Context, req Message) (Message, error) {
		return Message{Method: "ping_enum", Payload: json.RawMessage(`null`)}, nil
	})

	var out string
	err := Invoke(context.Background(), wrongArm, "say_hello", []string{"x"}, &out)
	if !errors.Is(err, ErrProtocolMismatch) {
		t.Fatalf("Invoke = %v, want protocol_mismatch", err)
	}

	badPayload := CallerFunc[Message, Message](func(ctx context.Context, req Message) (Message, error) {
		return Message{Method: req.Method, Payload: json.RawMessage(`{}`)}, nil
	})
	if err := Invoke(context.Background(), badPayload, "say_hello", nil, &out); !errors.Is(err, ErrProtocolMismatch) {
		t.Errorf("Invoke with undecodable payload = %v, want protocol_mismatch", err)
	}
}
