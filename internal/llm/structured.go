package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Outcome describes how a structured completion ended.
type Outcome int

const (
	// OutcomeFailed means no reply was obtained: no provider, transport
	// error, quota or timeout.
	OutcomeFailed Outcome = iota
	// OutcomeUnparsed means the model replied but no attempt produced an
	// acceptable JSON value.
	OutcomeUnparsed
	// OutcomeParsed means Value was decoded from the model reply.
	OutcomeParsed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeParsed:
		return "parsed"
	case OutcomeUnparsed:
		return "unparsed"
	default:
		return "failed"
	}
}

type JSONOptions[T any] struct {
	// Schema, when set, is checked before decoding.
	Schema *Schema

	// Accept rejects decoded values that are well-formed but unusable.
	Accept func(T) bool

	// Attempts is the number of model calls to make. Defaults to 1.
	Attempts int

	// Timeout bounds each call. Zero leaves the caller's context alone.
	Timeout time.Duration

	// Fallback is returned whenever the outcome is not OutcomeParsed.
	Fallback T

	// WholeReply only accepts replies that are a JSON document once code
	// fences are removed. Prose with an embedded object is left unparsed.
	WholeReply bool
}

type JSONResult[T any] struct {
	Value   T
	Outcome Outcome

	// Raw is the text of the last reply received, if any.
	Raw string

	// Err is the last error seen. Nil when parsed.
	Err error
}

// CompleteJSON calls p, extracts and validates a JSON value of type T from
// the reply, and falls back to opts.Fallback when that is not possible. It
// never returns a hard error: callers inspect Outcome.
func CompleteJSON[T any](ctx context.Context, p Provider, req Request, opts JSONOptions[T]) JSONResult[T] {
	res := JSONResult[T]{Value: opts.Fallback, Outcome: OutcomeFailed}
	if p == nil {
		res.Err = ErrNoProvider
		return res
	}

	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		raw, err := generate(ctx, p, req, opts.Timeout)
		if err != nil {
			res.Err = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		res.Raw = raw
		res.Outcome = OutcomeUnparsed

		value, err := decode(raw, opts)
		if err != nil {
			res.Err = err
			continue
		}

		res.Value = value
		res.Outcome = OutcomeParsed
		res.Err = nil
		return res
	}

	res.Value = opts.Fallback
	return res
}

func generate(ctx context.Context, p Provider, req Request, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	resp, err := p.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func decode[T any](raw string, opts JSONOptions[T]) (T, error) {
	var value T

	var doc json.RawMessage
	if opts.WholeReply {
		doc = json.RawMessage(stripFences(raw))
		if !json.Valid(doc) {
			return value, &ErrInvalidResponse{Content: raw, Err: errors.New("reply is not a JSON document")}
		}
	} else {
		var ok bool
		doc, ok = ExtractJSON(raw)
		if !ok {
			return value, &ErrInvalidResponse{Content: raw, Err: errors.New("no JSON found in reply")}
		}
	}
	if err := Validate(opts.Schema, doc); err != nil {
		return value, err
	}
	if err := json.Unmarshal(doc, &value); err != nil {
		return value, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("decode: %w", err)}
	}
	if opts.Accept != nil && !opts.Accept(value) {
		return value, &ErrInvalidResponse{Content: raw, Err: errors.New("reply rejected")}
	}
	return value, nil
}
