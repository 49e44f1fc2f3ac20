// Package testservice implements the reference Test service on top of the
// Go bindings generated from schema.json, for end-to-end tests of the
// runtime and its transports.
package testservice

//go:generate go run ../../cmd/rawrgen gen schema.json --target=go --out=gen --import-root=github.com/broady/rawr/internal/testservice/gen --clean

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/broady/rawr/internal/testservice/gen/testservice/enumeration"
	"github.com/broady/rawr/internal/testservice/gen/testservice/service"
	"github.com/broady/rawr/internal/testservice/gen/testservice/structure"
)

// Impl is a service.TestService. MaxDelay, when set, delays every
// say_hello reply by a random duration up to MaxDelay.
type Impl struct {
	MaxDelay time.Duration

	resets atomic.Int64
}

var _ service.TestService = (*Impl)(nil)

func (s *Impl) SayHello(ctx context.Context, name string) (string, error) {
	if s.MaxDelay > 0 {
		select {
		case <-time.After(rand.N(s.MaxDelay)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "Hello, " + name + "!", nil
}

// Complex returns arg with n added to its count.
func (s *Impl) Complex(ctx context.Context, arg structure.Structure, n int32) (structure.Structure, error) {
	arg.Count += n
	return arg, nil
}

func (s *Impl) PingEnum(ctx context.Context, en enumeration.EnumAdjacentlyTagged) (enumeration.EnumAdjacentlyTagged, error) {
	return en, nil
}

func (s *Impl) Reset(ctx context.Context) error {
	s.resets.Add(1)
	return nil
}

// Resets reports how many times Reset was called.
func (s *Impl) Resets() int64 { return s.resets.Load() }
