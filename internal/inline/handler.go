package inline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"mediadex/internal/access"
	"mediadex/internal/domain"
	"mediadex/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Answerer is the slice of the Bot API used to deliver answers.
type Answerer interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler runs the inline-query pipeline. It holds no mutable state, so
// one instance safely serves concurrent queries.
type Handler struct {
	gate      *access.Gate
	index     domain.MediaIndex
	renderer  *Renderer
	assembler *Assembler
	identity  domain.Identity
	api       Answerer
	logger    *slog.Logger
}

type HandlerConfig struct {
	Gate      *access.Gate
	Index     domain.MediaIndex
	Renderer  *Renderer
	Assembler *Assembler
	Identity  domain.Identity
	API       Answerer
	Logger    *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		gate:      cfg.Gate,
		index:     cfg.Index,
		renderer:  cfg.Renderer,
		assembler: cfg.Assembler,
		identity:  cfg.Identity,
		api:       cfg.API,
		logger:    cfg.Logger,
	}
}

// Handle resolves one inline query and answers it. A failed answer call is
// logged and dropped; the query may have been edited or expired before
// the answer landed.
func (h *Handler) Handle(ctx context.Context, query *tgbotapi.InlineQuery) {
	if query == nil || query.From == nil {
		return
	}
	page := h.Resolve(ctx, query.From.ID, query.Query)

	answer := tgbotapi.InlineConfig{
		InlineQueryID: query.ID,
		Results:       page.Results,
		CacheTime:     page.CacheTime,
		IsPersonal:    page.IsPersonal,
		NextOffset:    page.NextOffset,
	}
	if _, err := h.api.Request(answer); err != nil {
		h.logger.Warn("inline answer not delivered",
			"query_id", query.ID, "user_id", query.From.ID, "err", err)
	}
}

// Resolve runs the full pipeline for one requester and raw query string.
// It always returns a well-formed page; gate denials, source failures, and
// empty result sets all terminate in a single informational result.
func (h *Handler) Resolve(ctx context.Context, userID int64, rawQuery string) domain.Page {
	start := time.Now()
	defer func() {
		metrics.ResolveLatency.Observe(time.Since(start).Seconds())
	}()

	switch decision := h.gate.Authorize(ctx, userID); decision {
	case access.SubscriptionRequired:
		h.logger.Info("inline query denied",
			"stage", "gate", "reason", decision.String(), "user_id", userID)
		metrics.GateDenialsTotal.Inc()
		return h.assembler.SubscriptionRequired(h.identity.Username())
	case access.Unauthorized:
		h.logger.Info("inline query denied",
			"stage", "gate", "reason", decision.String(), "user_id", userID)
		metrics.GateDenialsTotal.Inc()
		return h.assembler.Unauthorized()
	}

	if strings.TrimSpace(rawQuery) == "" {
		return h.browse(ctx, userID)
	}
	term, typeFilter := ParseQuery(rawQuery)
	return h.search(ctx, userID, term, typeFilter)
}

func (h *Handler) browse(ctx context.Context, userID int64) domain.Page {
	metrics.InlineBrowseTotal.Inc()

	records, err := h.index.GetRecentMedia(ctx, recentLimit)
	if err != nil {
		h.logger.Error("recent media lookup failed",
			"stage", "source", "user_id", userID, "err", err)
		metrics.SourceFailuresTotal.Inc()
		return h.assembler.BrowseFailure()
	}
	return h.assembler.BrowsePage(h.renderAll(records))
}

func (h *Handler) search(ctx context.Context, userID int64, term, typeFilter string) domain.Page {
	metrics.InlineSearchTotal.Inc()

	records, err := h.index.SearchMedia(ctx, term, typeFilter)
	if err != nil {
		h.logger.Error("media search failed",
			"stage", "source", "user_id", userID, "term", term, "type", typeFilter, "err", err)
		metrics.SourceFailuresTotal.Inc()
		return h.assembler.SearchFailure()
	}
	return h.assembler.SearchPage(term, h.renderAll(records), len(records))
}

// renderAll maps records to results, dropping the ones the renderer
// rejects without disturbing the rest.
func (h *Handler) renderAll(records []domain.MediaRecord) []interface{} {
	results := make([]interface{}, 0, len(records))
	for i, rec := range records {
		if result, ok := h.renderer.Render(rec, i); ok {
			results = append(results, result)
		}
	}
	return results
}
