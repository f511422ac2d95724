package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SearchFunc looks up options for a query. It runs off the update loop.
type SearchFunc[V comparable] func(ctx context.Context, query string) ([]Option[V], error)

// SearchFailedMsg reports a SearchFunc error for the query with sequence Seq.
type SearchFailedMsg struct {
	ID  string
	Seq uint64
	Err error
}

// Search returns a tea.Cmd that runs fn for the query in req and answers with
// SearchResults tagged with the request's sequence, or SearchFailedMsg.
func Search[V comparable](ctx context.Context, req SearchChangeMsg, fn SearchFunc[V]) tea.Cmd {
	return func() tea.Msg {
		opts, err := fn(ctx, req.Query)
		if err != nil {
			return SearchFailedMsg{ID: req.ID, Seq: req.Seq, Err: err}
		}
		return SearchResults[V]{ID: req.ID, Seq: req.Seq, Options: opts}
	}
}

// StaticSearch returns a SearchFunc that filters a fixed catalogue with the
// given match mode after waiting latency. The wait honours ctx.
func StaticSearch[V comparable](catalogue []Option[V], mode MatchMode, latency time.Duration) SearchFunc[V] {
	return func(ctx context.Context, query string) ([]Option[V], error) {
		if latency > 0 {
			t := time.NewTimer(latency)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-t.C:
			}
		}
		return FilterOptions(catalogue, query, mode), nil
	}
}
