package classifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/ummet-social/censor/interfaces"
)

const tracerName = "github.com/ummet-social/censor/adapters/classifier"

// RateLimit bounds outgoing requests. A zero Limit disables limiting.
type RateLimit struct {
	Limit rate.Limit
	Burst int
}

func (r RateLimit) limiter() *rate.Limiter {
	if r.Limit <= 0 {
		return nil
	}
	burst := r.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(r.Limit, burst)
}

// transport is the shared HTTP plumbing of the remote adapters.
type transport struct {
	name    string
	client  *resty.Client
	limiter *rate.Limiter
}

// post sends body as JSON and returns the raw 2xx response body. Errors wrap
// one of the interfaces.ErrClassifier* sentinels.
func (t *transport) post(ctx context.Context, endpoint string, body any) ([]byte, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "classifier."+t.name)
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(attribute.String("censor.request_id", requestID))

	out, err := t.do(ctx, endpoint, requestID, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, interfaces.FailureKind(err))
	}
	return out, err
}

func (t *transport) do(ctx context.Context, endpoint, requestID string, body any) ([]byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", interfaces.ErrClassifierTimeout, err)
		}
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d: %s", interfaces.ErrClassifierUnavailable, resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

func classifyTransportError(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %v", interfaces.ErrClassifierTimeout, err)
	}
	return fmt.Errorf("%w: %v", interfaces.ErrClassifierUnavailable, err)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", interfaces.ErrClassifierMalformedResponse, fmt.Sprintf(format, args...))
}
