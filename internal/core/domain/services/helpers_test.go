package services_test

import (
	"testing"
	"time"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/kernel"
	"sweetdelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2021, 1, 10, 10, 0, 0, 0, time.UTC)

func windows(t *testing.T, values ...string) []kernel.TimeWindow {
	t.Helper()
	w, err := kernel.ParseTimeWindows(values)
	require.NoError(t, err)
	return w
}

func newCourier(t *testing.T, id int64, courierType courier.Type, regions []int, hours ...string) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(id, courierType, regions, windows(t, hours...))
	require.NoError(t, err)
	return c
}

func newOrder(t *testing.T, id int64, weight string, region int, hours ...string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(id, decimal.RequireFromString(weight), region, windows(t, hours...), baseTime)
	require.NoError(t, err)
	return o
}

func assignedOrder(t *testing.T, c *courier.Courier, id int64, weight string, region int, at time.Time, hours ...string) *order.Order {
	t.Helper()
	o := newOrder(t, id, weight, region, hours...)
	require.NoError(t, o.Assign(c.ID(), c.Type(), at))
	return o
}

func orderIDs(orders []*order.Order) []int64 {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids
}
