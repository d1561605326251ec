package commands_test

import (
	"testing"
	"time"

	"sweetdelivery/internal/core/application/usecases/commands"
	"sweetdelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrdersCommand_ValidInput(t *testing.T) {
	createdAt := time.Date(2021, 1, 10, 9, 0, 0, 123456789, time.FixedZone("MSK", 3*3600))
	records := []commands.OrderRecord{
		{ID: 1, Weight: decimal.RequireFromString("0.23"), Region: 12, DeliveryHours: []string{"09:00-18:00"}},
		{ID: 2, Weight: decimal.RequireFromString("15"), Region: 1, DeliveryHours: []string{"09:00-18:00"}},
		{ID: 3, Weight: decimal.RequireFromString("0.01"), Region: 22, DeliveryHours: []string{}},
		{ID: 4, Weight: decimal.RequireFromString("50"), Region: -3, DeliveryHours: []string{"10:00-11:00"}},
	}

	cmd, err := commands.NewCreateOrdersCommand(records, createdAt)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	require.Len(t, cmd.Orders(), 4)
	for _, o := range cmd.Orders() {
		assert.Equal(t, order.Unassigned, o.Status())
		assert.Equal(t, time.Date(2021, 1, 10, 6, 0, 0, 123000000, time.UTC), o.DateCreated())
	}
	assert.True(t, decimal.RequireFromString("0.23").Equal(cmd.Orders()[0].Weight()))
}

func TestNewCreateOrdersCommand_ReportsEveryInvalidRecord(t *testing.T) {
	records := []commands.OrderRecord{
		{ID: 1, Weight: decimal.RequireFromString("1"), Region: 1, DeliveryHours: []string{"09:00-18:00"}},
		{ID: 2, Weight: decimal.RequireFromString("0.001"), Region: 1, DeliveryHours: []string{"09:00-18:00"}},
		{ID: 3, Weight: decimal.RequireFromString("50.01"), Region: 1, DeliveryHours: []string{"09:00-18:00"}},
		{ID: 4, Weight: decimal.RequireFromString("1"), Region: 1, DeliveryHours: []string{"09:00-18:0"}},
		{ID: 0, Weight: decimal.RequireFromString("1"), Region: 1, DeliveryHours: []string{"09:00-18:00"}},
	}

	_, err := commands.NewCreateOrdersCommand(records, baseTime)

	var invalid *commands.InvalidRecordsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, commands.RecordsOrders, invalid.Kind)
	assert.Equal(t, []int64{2, 3, 4, 0}, invalid.IDs)
	assert.Contains(t, invalid.Messages[0], "order 2:")
	assert.Contains(t, invalid.Messages[0], "weight")
}

func TestCreateOrdersCommand_Validate_NotConstructed(t *testing.T) {
	var cmd commands.CreateOrdersCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrdersCommandIsNotConstructed)
}
