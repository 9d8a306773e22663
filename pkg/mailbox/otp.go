package mailbox

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

var errNoCode = errors.New("no verification code yet")

// Resolver polls a mailbox for a one-time passcode under a bounded retry
// policy.
type Resolver struct {
	fetcher Fetcher
	// skew widens the search window backwards from the reference time to
	// tolerate clock drift between this host and the mail server.
	skew time.Duration
	log  zerolog.Logger
}

func NewResolver(fetcher Fetcher, skew time.Duration) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		skew:    skew,
		log:     log.With().Str("component", "otp").Logger(),
	}
}

// Resolve waits out the mail-delivery warmup, then polls the mailbox up to
// policy.MaxAttempts times for a code received at or after reference (less
// the skew window). It returns "" with a nil error once the budget is
// exhausted; the absence of a code is the caller's failure to signal.
// Per-attempt mailbox errors are logged and consumed as "try again".
func (r *Resolver) Resolve(ctx context.Context, reference time.Time, policy types.RetryPolicy) (string, error) {
	if policy.WarmupDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(policy.WarmupDelay):
		}
	}

	since := reference.Add(-r.skew)

	code, err := retry.DoWithData(func() (string, error) {
		code, err := r.fetcher.FetchCode(ctx, since)
		if err != nil {
			return "", err
		}
		if code == "" {
			return "", errNoCode
		}
		return code, nil
	},
		retry.Attempts(policy.MaxAttempts),
		retry.Delay(policy.AttemptSpacing),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			r.log.Warn().
				Err(err).
				Uint("attempt", n+1).
				Msg("verification code not available, retrying")
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", nil
	}
	return code, nil
}
