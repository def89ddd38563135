package wip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/praxis-pm/praxis/internal/platform/httpx"
)

// Handler serves the engine over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	cache    *Cache
	validate *validator.Validate
}

// NewHandler constructs the HTTP handler.
func NewHandler(logger *slog.Logger, service *Service, cache *Cache) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		cache:    cache,
		validate: validator.New(),
	}
}

type scopeParams struct {
	Ref string `validate:"required,max=64"`
}

// TaskProfitability handles GET /api/tasks/{ref}/profitability.
func (h *Handler) TaskProfitability(w http.ResponseWriter, r *http.Request) {
	params := scopeParams{Ref: chi.URLParam(r, "ref")}
	if err := h.validate.Struct(params); err != nil {
		httpx.RespondError(w, fmt.Errorf("invalid task reference: %w", httpx.ErrValidation))
		return
	}

	key, err := h.cache.BuildKey(r.Context(), keyTaskProfitability(params.Ref))
	if err != nil {
		h.respondError(w, "build cache key", err)
		return
	}

	var response TaskProfitabilityResponse
	err = h.cache.FetchJSON(r.Context(), key, &response, func(ctx context.Context) (interface{}, error) {
		value, err := singleflightBuild(ctx, key, func(ctx context.Context) (interface{}, error) {
			res, err := h.service.TaskProfitability(ctx, params.Ref)
			if err != nil {
				return nil, err
			}
			return newTaskProfitabilityResponse(res), nil
		})
		if err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		h.respondError(w, "task profitability", err)
		return
	}

	httpx.JSON(w, http.StatusOK, response)
}

// ClientBalances handles GET /api/clients/{ref}/balances.
func (h *Handler) ClientBalances(w http.ResponseWriter, r *http.Request) {
	params := scopeParams{Ref: chi.URLParam(r, "ref")}
	if err := h.validate.Struct(params); err != nil {
		httpx.RespondError(w, fmt.Errorf("invalid client reference: %w", httpx.ErrValidation))
		return
	}

	key, err := h.cache.BuildKey(r.Context(), keyClientBalances(params.Ref))
	if err != nil {
		h.respondError(w, "build cache key", err)
		return
	}

	var response ClientBalancesResponse
	err = h.cache.FetchJSON(r.Context(), key, &response, func(ctx context.Context) (interface{}, error) {
		value, err := singleflightBuild(ctx, key, func(ctx context.Context) (interface{}, error) {
			res, err := h.service.ClientBalances(ctx, params.Ref)
			if err != nil {
				return nil, err
			}
			return newClientBalancesResponse(res), nil
		})
		if err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		h.respondError(w, "client balances", err)
		return
	}

	httpx.JSON(w, http.StatusOK, response)
}

// Invalidate handles POST /api/wip/cache/invalidate, bumping the cache
// version after upstream ledger loads.
func (h *Handler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Bump(r.Context()); err != nil {
		h.respondError(w, "cache bump", err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "invalidated"})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if !errors.Is(err, httpx.ErrNotFound) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
