package worker

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

func TestPool_ResultsInInputOrder(t *testing.T) {
	pool := NewPool(4, func(_ context.Context, n int) (string, error) {
		return strconv.Itoa(n * 2), nil
	})
	inputs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	jobs := pool.Run(context.Background(), inputs)
	if len(jobs) != len(inputs) {
		t.Fatalf("len(jobs) = %d, want %d", len(jobs), len(inputs))
	}
	for i, j := range jobs {
		if j.Err != nil {
			t.Fatalf("job %d: unexpected error: %v", i, j.Err)
		}
		if want := strconv.Itoa(inputs[i] * 2); j.Result != want {
			t.Errorf("job %d result = %q, want %q", i, j.Result, want)
		}
	}
}

func TestPool_ErrorsStayPerJob(t *testing.T) {
	boom := errors.New("boom")
	pool := NewPool(2, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})
	jobs := pool.Run(context.Background(), []int{1, 2, 3})
	if jobs[1].Err == nil || jobs[0].Err != nil || jobs[2].Err != nil {
		t.Errorf("errs = %v %v %v, want only job 1 failing", jobs[0].Err, jobs[1].Err, jobs[2].Err)
	}
}

func TestPool_ZeroWorkersStillRuns(t *testing.T) {
	pool := NewPool(0, func(_ context.Context, n int) (int, error) { return n, nil })
	jobs := pool.Run(context.Background(), []int{7})
	if jobs[0].Result != 7 {
		t.Errorf("result = %d, want 7", jobs[0].Result)
	}
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := NewPool(2, func(_ context.Context, n int) (int, error) { return n, nil })
	jobs := pool.Run(ctx, []int{1, 2, 3})
	// Jobs are returned in order regardless of how far dispatch got.
	if len(jobs) != 3 {
		t.Errorf("len(jobs) = %d, want 3", len(jobs))
	}
}

func TestPool_CancelledContextMarksUnstartedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := NewPool(2, func(_ context.Context, n int) (int, error) { return n * 10, nil })
	jobs := pool.Run(ctx, []int{1, 2, 3})
	for i, j := range jobs {
		if j.Err == nil && j.Result != (i+1)*10 {
			t.Errorf("job %d: unprocessed but carries no error", i)
		}
		if j.Err != nil && !errors.Is(j.Err, context.Canceled) {
			t.Errorf("job %d: err = %v, want context.Canceled", i, j.Err)
		}
		if j.Input != i+1 {
			t.Errorf("job %d input = %d, want %d", i, j.Input, i+1)
		}
	}
}
