package service

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Censorer masks profanity in user text before it is stored.
type Censorer interface {
	Censor(ctx context.Context, text string) (string, error)
}

// censorPair censors two texts concurrently; both must succeed. The first
// failure cancels the sibling call.
func censorPair(ctx context.Context, c Censorer, a, b string) (string, string, error) {
	var outA, outB string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		outA, err = c.Censor(gctx, a)
		return err
	})
	g.Go(func() (err error) {
		outB, err = c.Censor(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return outA, outB, nil
}
