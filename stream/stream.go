package stream

import (
	"bufio"
	"bytes"
	"context"
	"io"
)

// Slice, et al., taken from:
// https://betterprogramming.pub/writing-a-stream-api-in-go-afbc3c4350e2

func Slice[T any](ctx context.Context, in []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- element:
			}
		}
	}()
	return out
}

// Lines streams the non-blank lines of in.
// Each line is a fresh copy, safe to retain.
// The error channel receives the scanner's error, if any, and is closed after out.
func Lines(ctx context.Context, in io.Reader, maxLineSize int) (<-chan []byte, <-chan error) {
	out := make(chan []byte)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(out)
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, min(64*1024, maxLineSize)), maxLineSize)
		for sc.Scan() {
			line := bytes.TrimSpace(sc.Bytes())
			if len(line) == 0 {
				continue
			}
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case out <- bytes.Clone(line):
			}
		}
		if err := sc.Err(); err != nil {
			errs <- err
		}
	}()
	return out, errs
}

func Filter[T any](ctx context.Context, predicate func(T) bool, in <-chan T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for element := range in {
			if predicate(element) {
				select {
				case <-ctx.Done():
					return
				case out <- element:
				}
			}
		}
	}()
	return out
}

func Transform[I any, O any](ctx context.Context, transformer func(I) O, in <-chan I) <-chan O {
	out := make(chan O)
	go func() {
		defer close(out)
		for element := range in {
			select {
			case <-ctx.Done():
				return
			case out <- transformer(element):
			}
		}
	}()
	return out
}

// Collect drains in into a slice.
// On cancellation it keeps draining, discarding, so upstream senders are not stranded.
func Collect[T any](ctx context.Context, in <-chan T) []T {
	out := make([]T, 0)
	for element := range in {
		select {
		case <-ctx.Done():
		default:
			out = append(out, element)
		}
	}
	return out
}
