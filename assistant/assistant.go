package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/hatcher/todoai/pkg/logs"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	// MaxAttempts bounds provider calls per request. Defaults to 3.
	MaxAttempts int
	// BaseDelay is the wait after the first failure; it doubles each retry.
	BaseDelay time.Duration
	// DisableFallback surfaces provider failures instead of canned answers.
	DisableFallback bool
	// Sleep waits between attempts. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o *Options) prepare() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.Sleep == nil {
		o.Sleep = sleepCtx
	}
}

// Assistant answers the suggest, prioritize and breakdown helpers. Successful
// answers are cached by request; concurrent identical misses share one
// provider round trip.
type Assistant struct {
	provider Provider
	cache    Cache
	opts     Options
	group    singleflight.Group
}

func New(provider Provider, cache Cache, opts Options) *Assistant {
	opts.prepare()
	if cache == nil {
		cache = NopCache{}
	}
	return &Assistant{provider: provider, cache: cache, opts: opts}
}

func (a *Assistant) Suggest(ctx context.Context, req SuggestionRequest) (SuggestionResponse, error) {
	if err := req.Validate(); err != nil {
		return SuggestionResponse{}, err
	}
	logs.CtxInfof(ctx, "generating suggestions for: %s", truncate(req.Description, 100))
	return resolve(ctx, a, operation[SuggestionResponse]{
		name:     "suggestions",
		key:      "suggest:" + req.Description,
		root:     "suggestions",
		prompt:   func() string { return buildSuggestionPrompt(req.Description) },
		validate: SuggestionResponse.validate,
		fallback: fallbackSuggestions,
	})
}

func (a *Assistant) Prioritize(ctx context.Context, req PrioritizationRequest) (PrioritizationResponse, error) {
	if err := req.Validate(); err != nil {
		return PrioritizationResponse{}, err
	}
	todosJSON, err := json.Marshal(req.Todos)
	if err != nil {
		return PrioritizationResponse{}, errors.WithMessage(err, "encode todos")
	}
	sum := sha256.Sum256(todosJSON)
	logs.CtxInfof(ctx, "prioritizing %d todos", len(req.Todos))
	return resolve(ctx, a, operation[PrioritizationResponse]{
		name:     "prioritization",
		key:      "prioritize:" + hex.EncodeToString(sum[:]),
		root:     "ranked_todos",
		prompt:   func() string { return buildPrioritizationPrompt(string(todosJSON)) },
		validate: PrioritizationResponse.validate,
		fallback: func() PrioritizationResponse { return fallbackPrioritization(req.Todos) },
	})
}

func (a *Assistant) Breakdown(ctx context.Context, req BreakdownRequest) (BreakdownResponse, error) {
	if err := req.Validate(); err != nil {
		return BreakdownResponse{}, err
	}
	logs.CtxInfof(ctx, "breaking down task: %s", truncate(req.Task, 100))
	return resolve(ctx, a, operation[BreakdownResponse]{
		name:     "breakdown",
		key:      "breakdown:" + req.Task,
		root:     "subtasks",
		prompt:   func() string { return buildBreakdownPrompt(req.Task) },
		validate: BreakdownResponse.validate,
		fallback: fallbackBreakdown,
	})
}

type operation[T any] struct {
	name     string
	key      string
	root     string
	prompt   func() string
	validate func(T) error
	fallback func() T
}

func resolve[T any](ctx context.Context, a *Assistant, op operation[T]) (T, error) {
	var zero T
	if cached, ok := a.lookup(ctx, op.key); ok {
		var out T
		if err := json.Unmarshal(cached, &out); err == nil {
			logs.CtxDebugf(ctx, "returning cached %s", op.name)
			return out, nil
		}
		logs.CtxWarnf(ctx, "dropping undecodable cache entry for %s", op.name)
	}

	v, err, shared := a.group.Do(op.key, func() (any, error) {
		// The first caller's context must not cut short the followers.
		callCtx := context.WithoutCancel(ctx)
		text, err := a.call(callCtx, op.prompt())
		if err != nil {
			return nil, err
		}
		out, err := decode[T](text, op.root)
		if err == nil {
			err = op.validate(out)
		}
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(out); err == nil {
			if err := a.cache.Set(callCtx, op.key, raw); err != nil {
				logs.CtxWarnf(ctx, "cache %s: %v", op.name, err)
			}
		}
		return out, nil
	})
	if err == nil {
		if shared {
			logs.CtxDebugf(ctx, "%s shared with a concurrent request", op.name)
		}
		return v.(T), nil
	}

	if a.opts.DisableFallback {
		logs.CtxErrorf(ctx, "failed to generate %s: %v", op.name, err)
		if errors.Is(err, ErrAIUnavailable) {
			return zero, err
		}
		return zero, &UnavailableError{Attempts: 1, Err: err}
	}
	logs.CtxErrorf(ctx, "failed to generate %s, using fallback: %v", op.name, err)
	return op.fallback(), nil
}

func (a *Assistant) lookup(ctx context.Context, key string) ([]byte, bool) {
	b, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		logs.CtxWarnf(ctx, "cache lookup: %v", err)
		return nil, false
	}
	return b, ok
}

// call asks the provider up to MaxAttempts times, waiting BaseDelay, then
// twice that, and so on between attempts.
func (a *Assistant) call(ctx context.Context, prompt string) (string, error) {
	if a.provider == nil {
		return "", &UnavailableError{Attempts: 0, Err: ErrNoProvider}
	}
	var lastErr error
	attempts := 0
	for attempt := 0; attempt < a.opts.MaxAttempts; attempt++ {
		attempts++
		start := time.Now()
		text, err := a.provider.Complete(ctx, prompt)
		if err == nil {
			logs.CtxDebugf(ctx, "AI call completed in %s", time.Since(start))
			return text, nil
		}
		lastErr = err
		logs.CtxWarnf(ctx, "AI call failed (attempt %d/%d): %v", attempt+1, a.opts.MaxAttempts, err)
		if errors.Is(err, ErrNoProvider) || attempt == a.opts.MaxAttempts-1 {
			break
		}
		delay := a.opts.BaseDelay << attempt
		logs.CtxInfof(ctx, "retrying in %s", delay)
		if err := a.opts.Sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}
	return "", &UnavailableError{Attempts: attempts, Err: lastErr}
}

// decode parses provider text, tolerating a markdown code fence around the
// JSON document.
func decode[T any](text, root string) (T, error) {
	var out T
	text = stripFence(text)
	if !gjson.Valid(text) {
		return out, invalidf("response is not valid JSON")
	}
	if r := gjson.Get(text, root); !r.IsArray() {
		return out, invalidf("response has no %q list", root)
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, invalidf("%v", err)
	}
	return out, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
