package queries

import (
	"context"

	"sweetdelivery/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetOrderStatsQueryHandler reads order counts without taking the store lock;
// a slightly stale count is acceptable for statistics.
type GetOrderStatsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderStatsQueryHandler(db *gorm.DB) GetOrderStatsQueryHandler {
	return GetOrderStatsQueryHandler{db: db}
}

type statusCountRow struct {
	Status int
	Total  int64
}

func (h GetOrderStatsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatsQuery,
) (GetOrderStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderStatsQueryResponse{}, err
	}

	var rows []statusCountRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS total
		FROM orders
		GROUP BY status
	`).Scan(&rows).Error
	if err != nil {
		return GetOrderStatsQueryResponse{}, err
	}

	counts := make(map[string]int64, len(order.Statuses()))
	for _, status := range order.Statuses() {
		counts[status.String()] = 0
	}
	for _, row := range rows {
		status := order.Status(row.Status)
		if status.Validate() != nil {
			continue
		}
		counts[status.String()] = row.Total
	}

	return GetOrderStatsQueryResponse{Counts: counts}, nil
}
