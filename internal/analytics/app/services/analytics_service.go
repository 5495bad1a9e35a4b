package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crispy/internal/analytics/app/core"
	"crispy/internal/analytics/domain/dto"
	"crispy/internal/analytics/domain/models"
	"crispy/internal/xpkg/auth"
	apperr "crispy/internal/xpkg/errors"
	"crispy/internal/xpkg/logger"

	"golang.org/x/sync/errgroup"
)

type AnalyticsService struct {
	repo  core.IAnalyticsRepo
	mylog logger.Logger
	now   func() time.Time
}

func NewAnalyticsService(repo core.IAnalyticsRepo, mylogger logger.Logger, now func() time.Time) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{repo: repo, mylog: mylogger, now: now}
}

// Summary recomputes every rollup from the month window on each call.
func (as *AnalyticsService) Summary(ctx context.Context, actor auth.Identity) (dto.Summary, error) {
	if err := auth.RequireStaff(actor); err != nil {
		return dto.Summary{}, err
	}

	now := as.now().UTC()
	from := models.WindowMonth.Start(now)
	to := models.Midnight(now).AddDate(0, 0, 1)

	orders, items, err := as.load(ctx, from, to)
	if err != nil {
		as.mylog.Action("analytics_summary").Error("Failed to load analytics rows", err)
		return dto.Summary{}, fmt.Errorf("cannot compute analytics: %w", err)
	}
	return Summarize(orders, items, now), nil
}

// DailySales rolls up one UTC date given as YYYY-MM-DD. An empty date means
// today.
func (as *AnalyticsService) DailySales(ctx context.Context, actor auth.Identity, date string) (dto.DailySales, error) {
	if err := auth.RequireStaff(actor); err != nil {
		return dto.DailySales{}, err
	}

	day := models.Midnight(as.now())
	if date = strings.TrimSpace(date); date != "" {
		parsed, err := time.Parse(core.DateLayout, date)
		if err != nil {
			return dto.DailySales{}, apperr.NewValidation("date", "must be YYYY-MM-DD")
		}
		day = parsed
	}

	orders, items, err := as.load(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		as.mylog.Action("daily_sales").Error("Failed to load analytics rows", err, "date", day.Format(core.DateLayout))
		return dto.DailySales{}, fmt.Errorf("cannot compute daily sales: %w", err)
	}
	return ComputeDailySales(orders, items, day), nil
}

func (as *AnalyticsService) load(ctx context.Context, from, to time.Time) ([]models.OrderFact, []models.ItemFact, error) {
	var (
		orders []models.OrderFact
		items  []models.ItemFact
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = as.repo.Orders(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = as.repo.Items(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return orders, items, nil
}
