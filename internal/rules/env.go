package rules

import (
	"context"
	"time"

	"go-chatmod/internal/platform"
)

// Env bundles the runtime collaborators conditions and actions need.
// Clock and sleep are injectable so tests run without real delays.
type Env struct {
	Client platform.Client
	Now    func() time.Time
	Sleep  func(ctx context.Context, d time.Duration) error
}

func NewEnv(client platform.Client) *Env {
	return &Env{
		Client: client,
		Now:    func() time.Time { return time.Now().UTC() },
		Sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
