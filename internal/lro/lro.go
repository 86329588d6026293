// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lro waits on long-running operations: a generic poll loop over an
// operations service until the operation reports done or a maximum wait
// elapses. Every API domain shares this loop; only the poller differs.
package lro

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/longrunning/autogen/longrunningpb"
	"github.com/googleapis/gax-go/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxWait bounds a wait when the caller does not set one.
const DefaultMaxWait = 30 * time.Minute

// Poller fetches the current state of one operation by resource name.
type Poller interface {
	Poll(ctx context.Context, name string) (*longrunningpb.Operation, error)
}

// OperationError is a remote-reported operation failure. The remote detail
// message is surfaced verbatim rather than a generic "operation failed".
type OperationError struct {
	// Name is the operation resource name.
	Name string

	// Code is the google.rpc.Code of the failure.
	Code int32

	// Message is the remote failure detail, unmodified.
	Message string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s failed: %s", e.Name, e.Message)
}

// TimeoutError reports that an operation reached neither success nor
// failure before the maximum wait elapsed.
type TimeoutError struct {
	Name    string
	MaxWait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %s did not complete within %s", e.Name, e.MaxWait)
}

// Options tune a wait.
type Options struct {
	// MaxWait bounds the total wait. Zero means DefaultMaxWait.
	MaxWait time.Duration

	// Backoff controls the poll interval. The zero value polls every
	// second growing to a ten-second ceiling.
	Backoff gax.Backoff
}

func (o *Options) withDefaults() Options {
	opts := Options{}
	if o != nil {
		opts = *o
	}
	if opts.MaxWait == 0 {
		opts.MaxWait = DefaultMaxWait
	}
	if opts.Backoff.Initial == 0 {
		opts.Backoff = gax.Backoff{
			Initial:    time.Second,
			Max:        10 * time.Second,
			Multiplier: 1.4,
		}
	}
	return opts
}

// Wait polls the operation until it reports done or the maximum wait
// elapses. On success it returns the terminal operation, whose response
// names the target resource for create/update-style operations and is empty
// for delete-style ones. A remote failure becomes an *OperationError
// carrying the reported detail; exceeding the wait becomes a *TimeoutError.
// Cancellation of the caller's context is reported as such, never as a
// timeout.
func Wait(parent context.Context, p Poller, name string, opts *Options) (*longrunningpb.Operation, error) {
	o := opts.withDefaults()
	ctx, cancel := context.WithTimeout(parent, o.MaxWait)
	defer cancel()
	backoff := o.Backoff
	for {
		op, err := p.Poll(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, waitStopped(parent, name, o.MaxWait)
			}
			return nil, err
		}
		if op.GetDone() {
			if s := op.GetError(); s != nil {
				return nil, &OperationError{Name: name, Code: s.GetCode(), Message: s.GetMessage()}
			}
			return op, nil
		}
		if err := gax.Sleep(ctx, backoff.Pause()); err != nil {
			return nil, waitStopped(parent, name, o.MaxWait)
		}
	}
}

// waitStopped classifies why the wait context ended: the caller's own
// context going away wins over the wait deadline.
func waitStopped(parent context.Context, name string, maxWait time.Duration) error {
	if err := parent.Err(); err != nil {
		return fmt.Errorf("waiting on operation %s: %w", name, err)
	}
	return &TimeoutError{Name: name, MaxWait: maxWait}
}

// WaitAll waits on several operations concurrently and returns the terminal
// operations in input order. The first failure cancels the remaining waits.
func WaitAll(ctx context.Context, p Poller, names []string, opts *Options) ([]*longrunningpb.Operation, error) {
	out := make([]*longrunningpb.Operation, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			op, err := Wait(ctx, p, name, opts)
			if err != nil {
				return err
			}
			out[i] = op
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
