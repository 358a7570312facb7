package retry

import (
	"context"
	"errors"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/rs/zerolog/log"
	"time"
)

type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Attempts:  4,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  8 * time.Second,
	}
}

// IsTransient reports throttling and retryable transport failures. Errors that
// did not come from the AWS SDK are never transient.
func IsTransient(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	if aerr.Code() == request.CanceledErrorCode {
		return false
	}
	return request.IsErrorThrottle(aerr) || request.IsErrorRetryable(aerr)
}

func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && (d > p.MaxDelay || d <= 0) {
		d = p.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, returns a non transient error, the attempts are
// exhausted or ctx is done. The last error is returned.
func Do(ctx context.Context, p Policy, fn func() error) (err error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !IsTransient(err) || i == attempts-1 {
			return
		}

		d := p.delay(i)
		log.Ctx(ctx).Debug().Err(err).Msgf("try %d/%d failed with transient error, retrying in %s", i+1, attempts, d)
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return
}
