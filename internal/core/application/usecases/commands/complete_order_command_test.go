package commands_test

import (
	"testing"
	"time"

	"sweetdelivery/internal/core/application/usecases/commands"
	"sweetdelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleteOrderCommand_NormalizesTime(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected time.Time
	}{
		{
			name:     "zulu",
			value:    "2021-01-10T10:33:01.42Z",
			expected: time.Date(2021, 1, 10, 10, 33, 1, 420000000, time.UTC),
		},
		{
			name:     "offset",
			value:    "2021-01-10T13:33:01.4219+03:00",
			expected: time.Date(2021, 1, 10, 10, 33, 1, 421000000, time.UTC),
		},
		{
			name:     "no fraction",
			value:    "2021-01-10T10:33:01Z",
			expected: time.Date(2021, 1, 10, 10, 33, 1, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := commands.NewCompleteOrderCommand(2, 6, tc.value)

			require.NoError(t, err)
			assert.Equal(t, int64(2), cmd.CourierID())
			assert.Equal(t, int64(6), cmd.OrderID())
			assert.True(t, tc.expected.Equal(cmd.CompleteTime()), cmd.CompleteTime())
		})
	}
}

func TestNewCompleteOrderCommand_InvalidInput(t *testing.T) {
	testCases := []struct {
		name      string
		courierID int64
		orderID   int64
		value     string
	}{
		{name: "missing zone", courierID: 1, orderID: 1, value: "2021-01-10T10:33:01.42"},
		{name: "not a time", courierID: 1, orderID: 1, value: "yesterday"},
		{name: "bad courier", courierID: 0, orderID: 1, value: "2021-01-10T10:33:01.42Z"},
		{name: "bad order", courierID: 1, orderID: -1, value: "2021-01-10T10:33:01.42Z"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := commands.NewCompleteOrderCommand(tc.courierID, tc.orderID, tc.value)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}

func TestCompleteOrderCommand_Validate_NotConstructed(t *testing.T) {
	var cmd commands.CompleteOrderCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrCompleteOrderCommandIsNotConstructed)
}
