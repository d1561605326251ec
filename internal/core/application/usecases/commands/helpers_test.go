package commands_test

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

func fixedClock() time.Time {
	return baseTime
}

func newCourier(t *testing.T, id int64, courierType courier.Type, regions []int, windows ...string) *courier.Courier {
	t.Helper()

	hours, err := kernel.ParseTimeWindows(windows)
	require.NoError(t, err)
	c, err := courier.NewCourier(id, courierType, regions, hours)
	require.NoError(t, err)
	return c
}

func newOrder(t *testing.T, id int64, weight string, region int, windows ...string) *order.Order {
	t.Helper()

	hours, err := kernel.ParseTimeWindows(windows)
	require.NoError(t, err)
	o, err := order.NewOrder(id, decimal.RequireFromString(weight), region, hours, baseTime)
	require.NoError(t, err)
	return o
}

func assignedOrder(
	t *testing.T,
	id int64,
	weight string,
	region int,
	c *courier.Courier,
	at time.Time,
	windows ...string,
) *order.Order {
	t.Helper()

	o := newOrder(t, id, weight, region, windows...)
	require.NoError(t, o.Assign(c.ID(), c.Type(), at))
	return o
}
