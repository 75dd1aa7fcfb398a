package reviewcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-refdocs/internal/review"
)

type fakeCoordinator struct {
	runWithFunc func(context.Context, review.RunOptions) (*review.RunResult, error)
	dryRunFunc  func(context.Context) (*review.DryRunReport, error)
	sweepFunc   func(context.Context) ([]string, error)
}

func (f *fakeCoordinator) RunWith(ctx context.Context, opts review.RunOptions) (*review.RunResult, error) {
	if f.runWithFunc != nil {
		return f.runWithFunc(ctx, opts)
	}
	return nil, nil
}

func (f *fakeCoordinator) DryRun(ctx context.Context) (*review.DryRunReport, error) {
	if f.dryRunFunc != nil {
		return f.dryRunFunc(ctx)
	}
	return nil, nil
}

func (f *fakeCoordinator) SweepStaleLocks(ctx context.Context) ([]string, error) {
	if f.sweepFunc != nil {
		return f.sweepFunc(ctx)
	}
	return nil, nil
}

func TestRunReviewHandlerForwardsWaveOverrides(t *testing.T) {
	var capturedOpts review.RunOptions
	callbackInvoked := false

	svc := &fakeCoordinator{
		runWithFunc: func(ctx context.Context, opts review.RunOptions) (*review.RunResult, error) {
			capturedOpts = opts
			return &review.RunResult{
				Summary:     &review.Summary{Processed: 5, QualityPassed: true},
				SummaryPath: "data/review-summary.json",
			}, nil
		},
	}

	handler := NewRunReviewHandler(svc, nil, FeatureGates{})

	msg := RunReviewMessage{
		Agents:  8,
		Timeout: 2 * time.Minute,
		ResultCallback: func(env ResultEnvelope) {
			callbackInvoked = true
			if env.Run == nil || env.Run.Summary == nil {
				t.Fatalf("expected run summary in envelope: %+v", env)
			}
			if env.Run.Summary.Processed != 5 {
				t.Fatalf("expected 5 processed, got %d", env.Run.Summary.Processed)
			}
			if env.Metadata["operation"] != "run" {
				t.Fatalf("expected operation run, got %v", env.Metadata["operation"])
			}
		},
	}

	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute review: %v", err)
	}
	if capturedOpts.Agents != 8 {
		t.Fatalf("expected agents override 8, got %d", capturedOpts.Agents)
	}
	if capturedOpts.Timeout != 2*time.Minute {
		t.Fatalf("expected timeout override, got %v", capturedOpts.Timeout)
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestRunReviewHandlerDryRun(t *testing.T) {
	runWithCalled := false
	svc := &fakeCoordinator{
		runWithFunc: func(ctx context.Context, opts review.RunOptions) (*review.RunResult, error) {
			runWithCalled = true
			return nil, nil
		},
		dryRunFunc: func(ctx context.Context) (*review.DryRunReport, error) {
			return &review.DryRunReport{Agents: 4, Pages: []string{"builtins/list.md"}}, nil
		},
	}

	handler := NewRunReviewHandler(svc, nil, FeatureGates{})

	msg := RunReviewMessage{
		DryRun: true,
		ResultCallback: func(env ResultEnvelope) {
			if env.DryRun == nil || len(env.DryRun.Pages) != 1 {
				t.Fatalf("expected dry-run report in envelope: %+v", env)
			}
			if env.Metadata["operation"] != "dry_run" {
				t.Fatalf("expected operation dry_run, got %v", env.Metadata["operation"])
			}
		},
	}

	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute dry run: %v", err)
	}
	if runWithCalled {
		t.Fatal("dry run must not start a wave")
	}
}

func TestRunReviewMessageValidate(t *testing.T) {
	if err := (RunReviewMessage{Agents: -1}).Validate(); err == nil {
		t.Fatal("expected validation error for negative agents")
	}
	if err := (RunReviewMessage{Timeout: -time.Second}).Validate(); err == nil {
		t.Fatal("expected validation error for negative timeout")
	}
	if err := (RunReviewMessage{Agents: 8, Timeout: time.Minute}).Validate(); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
}

func TestRunReviewHandlerDisabled(t *testing.T) {
	handler := NewRunReviewHandler(&fakeCoordinator{}, nil, FeatureGates{ReviewEnabled: func() bool { return false }})
	err := handler.Execute(context.Background(), RunReviewMessage{})
	if !errors.Is(err, ErrReviewDisabled) {
		t.Fatalf("expected ErrReviewDisabled, got %v", err)
	}
}

func TestSweepLocksHandlerExecute(t *testing.T) {
	svc := &fakeCoordinator{
		sweepFunc: func(ctx context.Context) ([]string, error) {
			return []string{"agent-2.lock"}, nil
		},
	}

	handler := NewSweepLocksHandler(svc, nil, FeatureGates{})

	callbackInvoked := false
	msg := SweepLocksMessage{
		ResultCallback: func(env ResultEnvelope) {
			callbackInvoked = true
			if len(env.SweptLocks) != 1 || env.SweptLocks[0] != "agent-2.lock" {
				t.Fatalf("unexpected swept locks %v", env.SweptLocks)
			}
			if env.Metadata["operation"] != "sweep" {
				t.Fatalf("expected operation sweep, got %v", env.Metadata["operation"])
			}
		},
	}

	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute sweep: %v", err)
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestSweepLocksHandlerDisabled(t *testing.T) {
	handler := NewSweepLocksHandler(&fakeCoordinator{}, nil, FeatureGates{ReviewEnabled: func() bool { return false }})
	err := handler.Execute(context.Background(), SweepLocksMessage{})
	if !errors.Is(err, ErrReviewDisabled) {
		t.Fatalf("expected ErrReviewDisabled, got %v", err)
	}
}
