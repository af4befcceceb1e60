package console

import (
	"context"

	"github.com/rs/zerolog"

	"fieldops-console/internal/notify"
)

// Runner executes user-triggered mutations. Every call ends in exactly one
// notification for the audience.
type Runner struct {
	board  *notify.Board
	logger zerolog.Logger
}

func NewRunner(board *notify.Board, logger zerolog.Logger) *Runner {
	return &Runner{board: board, logger: logger}
}

// Run calls fn and reports whether the caller should refetch. On failure the
// error is reduced to a single failure notification and swallowed, leaving
// whatever is displayed untouched.
func (r *Runner) Run(ctx context.Context, audience, action, success string, fn func(context.Context) error) (notify.Notification, bool) {
	if err := fn(ctx); err != nil {
		r.logger.Warn().Err(err).Str("action", action).Str("audience", audience).Msg("mutation failed")
		return r.board.Failure(audience, err), false
	}
	r.logger.Info().Str("action", action).Str("audience", audience).Msg("mutation applied")
	return r.board.Success(audience, success), true
}
