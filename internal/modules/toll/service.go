// README: Toll service wraps the fee engine with quote caching, batching and input parsing.
package toll

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBadTimestamp    = errors.New("bad timestamp")
	ErrBatchTooLarge   = errors.New("batch too large")
)

// QuoteCache memoises day quotes. Implementations must be safe for concurrent use.
type QuoteCache interface {
	GetDay(ctx context.Context, key string) (DayResult, bool, error)
	PutDay(ctx context.Context, key string, res DayResult) error
}

type Options struct {
	Currency         string
	Location         *time.Location
	BatchConcurrency int
	MaxBatch         int
}

type Service struct {
	cache QuoteCache
	log   *zap.Logger
	opts  Options
}

// NewService accepts a nil cache (no caching) and a nil logger (no logging).
func NewService(cache QuoteCache, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Currency == "" {
		opts.Currency = "SEK"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	return &Service{cache: cache, log: log, opts: opts}
}

func (s *Service) Currency() string {
	return s.opts.Currency
}

type PassQuote struct {
	Vehicle         VehicleKind
	At              civil.DateTime
	Fee             int
	TollFreeDate    bool
	TollFreeVehicle bool
}

func (s *Service) QuotePass(ctx context.Context, k VehicleKind, at civil.DateTime) (PassQuote, error) {
	freeVehicle, err := IsTollFreeVehicle(k)
	if err != nil {
		return PassQuote{}, err
	}
	fee, err := FeeForSinglePass(at, k)
	if err != nil {
		return PassQuote{}, err
	}
	s.log.Debug("pass quoted",
		zap.String("vehicle", string(k)),
		zap.String("at", at.String()),
		zap.Int("fee", fee),
	)
	return PassQuote{
		Vehicle:         k,
		At:              at,
		Fee:             fee,
		TollFreeDate:    IsTollFreeDate(at.Date),
		TollFreeVehicle: freeVehicle,
	}, nil
}

func (s *Service) QuoteDay(ctx context.Context, k VehicleKind, passes []civil.DateTime) (DayResult, error) {
	if _, err := IsTollFreeVehicle(k); err != nil {
		return DayResult{}, err
	}

	key := quoteKey(k, passes)
	if s.cache != nil {
		res, ok, err := s.cache.GetDay(ctx, key)
		if err != nil {
			s.log.Warn("quote cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return res, nil
		}
	}

	res, err := DailyFee(k, passes)
	if err != nil {
		return DayResult{}, err
	}
	s.log.Debug("day quoted",
		zap.String("vehicle", string(k)),
		zap.Int("passes", len(passes)),
		zap.Int("windows", len(res.Windows)),
		zap.Int("total", res.Total),
		zap.Bool("capped", res.Capped),
	)

	if s.cache != nil {
		if err := s.cache.PutDay(ctx, key, res); err != nil {
			s.log.Warn("quote cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

type DayRequest struct {
	Vehicle VehicleKind
	Passes  []civil.DateTime
}

// QuoteDays computes independent vehicle-days concurrently. Results keep the
// input order; the first failure cancels the rest.
func (s *Service) QuoteDays(ctx context.Context, reqs []DayRequest) ([]DayResult, error) {
	if s.opts.MaxBatch > 0 && len(reqs) > s.opts.MaxBatch {
		return nil, fmt.Errorf("%w: %d days, limit %d", ErrBatchTooLarge, len(reqs), s.opts.MaxBatch)
	}

	out := make([]DayResult, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.QuoteDay(gctx, req.Vehicle, req.Passes)
			if err != nil {
				return fmt.Errorf("day %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParsePass reads a local date-time, or an RFC 3339 timestamp which is
// moved into the service's toll zone first.
func (s *Service) ParsePass(raw string) (civil.DateTime, error) {
	raw = strings.TrimSpace(raw)
	if dt, err := civil.ParseDateTime(raw); err == nil {
		return dt, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return civil.DateTime{}, fmt.Errorf("%w: %q", ErrBadTimestamp, raw)
	}
	return civil.DateTimeOf(t.In(s.opts.Location)), nil
}

func (s *Service) ParsePasses(raw []string) ([]civil.DateTime, error) {
	out := make([]civil.DateTime, 0, len(raw))
	for _, r := range raw {
		dt, err := s.ParsePass(r)
		if err != nil {
			return nil, err
		}
		out = append(out, dt)
	}
	return out, nil
}

func quoteKey(k VehicleKind, passes []civil.DateTime) string {
	h := sha256.New()
	h.Write([]byte(k))
	for _, p := range passes {
		h.Write([]byte{'|'})
		h.Write([]byte(p.String()))
	}
	return hex.EncodeToString(h.Sum(nil))
}
