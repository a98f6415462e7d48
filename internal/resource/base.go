// Package resource holds one service per backend resource. Every call
// notifies the user about its outcome:
//
//   - reads never return an error; they resolve to an empty slice or nil,
//     and a 404 on a read is silent;
//   - writes notify and then return the error so callers can keep forms open;
//   - a 401 anywhere produces a single "please log in" notice.
package resource

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/localharvest/marketclient/internal/notify"
	"github.com/localharvest/marketclient/pkg/envelope"
	apperrors "github.com/localharvest/marketclient/pkg/errors"
	"github.com/localharvest/marketclient/pkg/validator"
)

// API is the HTTP adapter the services call. *api.Client satisfies it.
type API interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	Post(ctx context.Context, path string, body any) ([]byte, error)
	Put(ctx context.Context, path string, body any) ([]byte, error)
	Patch(ctx context.Context, path string, body any) ([]byte, error)
	Delete(ctx context.Context, path string) ([]byte, error)
}

// Base carries the dependencies shared by every service.
type Base struct {
	api      API
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewBase creates the shared service dependencies.
func NewBase(api API, notifier notify.Notifier, logger *slog.Logger) *Base {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Base{api: api, notifier: notifier, logger: logger}
}

// Services groups every resource service.
type Services struct {
	Categories      *Categories
	Products        *Products
	Orders          *Orders
	HarvestRequests *HarvestRequests
	Earnings        *Earnings
	Profile         *Profile
	Verifications   *Verifications
	Deliveries      *Deliveries
}

// NewServices wires every service to one API client and notifier.
func NewServices(api API, notifier notify.Notifier, logger *slog.Logger) *Services {
	b := NewBase(api, notifier, logger)
	return &Services{
		Categories:      &Categories{b: b},
		Products:        &Products{b: b},
		Orders:          &Orders{b: b},
		HarvestRequests: &HarvestRequests{b: b},
		Earnings:        &Earnings{b: b},
		Profile:         &Profile{b: b},
		Verifications:   &Verifications{b: b},
		Deliveries:      &Deliveries{b: b},
	}
}

// readFailed applies the read-side notification policy.
func (b *Base) readFailed(ctx context.Context, op string, err error, fallback string) {
	switch {
	case apperrors.IsNotFound(err):
		b.logger.DebugContext(ctx, "resource not found", slog.String("op", op))
	case apperrors.IsUnauthorized(err):
		notify.Error(ctx, b.notifier, apperrors.LoginMessage)
	default:
		b.logger.WarnContext(ctx, "read failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		notify.Error(ctx, b.notifier, apperrors.UserMessage(err, fallback))
	}
}

// writeFailed applies the write-side notification policy and returns err.
func (b *Base) writeFailed(ctx context.Context, op string, err error, fallback string) error {
	if apperrors.IsUnauthorized(err) {
		notify.Error(ctx, b.notifier, apperrors.LoginMessage)
		return err
	}
	b.logger.WarnContext(ctx, "write failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	notify.Error(ctx, b.notifier, apperrors.UserMessage(err, fallback))
	return err
}

// readList GETs a collection in any list shape the backend uses.
func readList[T any](ctx context.Context, b *Base, op, path string, query url.Values, fallback string, keys ...string) []T {
	body, err := b.api.Get(ctx, path, query)
	if err == nil {
		items, decodeErr := envelope.DecodeList[T](body, keys...).Unwrap()
		if decodeErr == nil {
			return items
		}
		err = decodeErr
	}
	b.readFailed(ctx, op, err, fallback)
	return []T{}
}

// readOne GETs a single record. A null data field yields nil.
func readOne[T any](ctx context.Context, b *Base, op, path string, fallback string) *T {
	body, err := b.api.Get(ctx, path, nil)
	if err == nil {
		item, decodeErr := envelope.Decode[*T](body).Unwrap()
		if decodeErr == nil {
			return item
		}
		err = decodeErr
	}
	b.readFailed(ctx, op, err, fallback)
	return nil
}

// mutation describes one write call.
type mutation struct {
	op       string
	send     func(ctx context.Context) ([]byte, error)
	payload  any
	success  string
	fallback string
}

// validate checks the payload locally so invalid input never reaches the
// network. Failures carry the same field-error shape as a server 422.
func validate(payload any) error {
	if payload == nil {
		return nil
	}
	err := validator.Validate(payload)
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return verr.AppError()
	}
	return err
}

// write validates, sends and decodes a mutation whose response carries the
// affected record.
func write[T any](ctx context.Context, b *Base, m mutation) (*T, error) {
	if err := validate(m.payload); err != nil {
		return nil, b.writeFailed(ctx, m.op, err, m.fallback)
	}

	body, err := m.send(ctx)
	if err != nil {
		return nil, b.writeFailed(ctx, m.op, err, m.fallback)
	}

	res := envelope.Decode[*T](body)
	if !res.IsOk() {
		return nil, b.writeFailed(ctx, m.op, res.Err(), m.fallback)
	}
	b.succeeded(ctx, res.Message(), m.success)
	return res.Value(), nil
}

// exec is write for mutations whose response data is irrelevant.
func exec(ctx context.Context, b *Base, m mutation) error {
	if err := validate(m.payload); err != nil {
		return b.writeFailed(ctx, m.op, err, m.fallback)
	}

	body, err := m.send(ctx)
	if err != nil {
		return b.writeFailed(ctx, m.op, err, m.fallback)
	}

	res := envelope.Message(body)
	if !res.IsOk() {
		return b.writeFailed(ctx, m.op, res.Err(), m.fallback)
	}
	b.succeeded(ctx, res.Message(), m.success)
	return nil
}

func (b *Base) succeeded(ctx context.Context, serverMessage, fallback string) {
	msg := serverMessage
	if msg == "" {
		msg = fallback
	}
	notify.Success(ctx, b.notifier, msg)
}

func post(b *Base, path string, payload any) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) { return b.api.Post(ctx, path, payload) }
}

func put(b *Base, path string, payload any) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) { return b.api.Put(ctx, path, payload) }
}

func patch(b *Base, path string, payload any) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) { return b.api.Patch(ctx, path, payload) }
}

func del(b *Base, path string) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) { return b.api.Delete(ctx, path) }
}

func escape(id string) string {
	return url.PathEscape(id)
}
