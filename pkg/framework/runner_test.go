package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func TestRunnerStopsOthers(t *testing.T) {
	r := NewRunner()
	blocked := RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	failing := NamedRun("failing", RunFunc(func(context.Context) error {
		return errors.New("listen failed")
	}))
	err := r.Go(blocked, failing).Wait()
	require.EqualError(t, err, "listen failed")
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner()
	r.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	r.Stop()
	require.NoError(t, r.Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	first := errors.New("first")
	errs.Add(first, errors.New("second"))
	require.EqualError(t, errs.Aggregate(), "Multiple errors:\nfirst\nsecond")
	require.True(t, errors.Is(errs.Aggregate(), first))
}

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan struct{})
	var closes int
	closer := closerFunc(func() error {
		closes++
		close(stop)
		return nil
	})
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunWithContextCloser(ctx, closer, func() error {
			<-stop
			return errors.New("closed")
		})
	}()
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	require.Equal(t, 1, closes)

	closes = 0
	require.EqualError(t, RunWithContextCloser(context.Background(), closerFunc(func() error {
		closes++
		return nil
	}), func() error {
		return errors.New("done")
	}), "done")
	require.Equal(t, 1, closes)
}
