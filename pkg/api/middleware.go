package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/hazyhaar/catmatch/pkg/audit"
	"github.com/hazyhaar/catmatch/pkg/kit"
	"github.com/hazyhaar/catmatch/pkg/metrics"
	"github.com/hazyhaar/catmatch/pkg/rank"
)

// searchMiddleware observes every search: metrics, debug log line and, when
// a store is configured, the search log.
func searchMiddleware(logger *slog.Logger, store *audit.Store) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			res, ok := resp.(*rank.Result)
			if err != nil || !ok {
				return resp, err
			}

			transport := kit.GetTransport(ctx)
			elapsed := time.Since(start)
			metrics.ObserveSearch(string(res.Status), transport, elapsed)
			logger.Debug("search",
				"request_id", kit.GetRequestID(ctx),
				"transport", transport,
				"normalized", res.Normalized,
				"status", res.Status,
				"results", len(res.Matches),
				"elapsed", elapsed,
			)

			if store != nil {
				entry := audit.Entry{
					RequestID:   kit.GetRequestID(ctx),
					Query:       res.Query,
					Normalized:  res.Normalized,
					Status:      string(res.Status),
					ResultCount: len(res.Matches),
					Transport:   transport,
				}
				if len(res.Matches) > 0 {
					entry.TopCode = res.Matches[0].Code
				}
				if err := store.Record(ctx, entry); err != nil {
					logger.Warn("search log write failed", "error", err)
				}
			}
			return resp, nil
		}
	}
}
