package headless

import (
	"context"
	"fmt"
	"time"
)

// Config controls the headless frame loop.
type Config struct {
	TPS   int
	Ticks uint64
}

// Run calls step once per tick until ctx is done, step fails or the tick
// limit is reached. dt is the fixed tick length.
func Run(ctx context.Context, step func(dt time.Duration) error, cfg Config) error {
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	d := time.Second / time.Duration(cfg.TPS)
	if d <= 0 {
		return fmt.Errorf("invalid headless tps: %d", cfg.TPS)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(d); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
