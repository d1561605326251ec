package services

import (
	"cmp"
	"slices"
	"time"

	"sweetdelivery/internal/core/domain/model/courier"
	"sweetdelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

const (
	// BasePay is paid per fully completed batch before the type coefficient.
	BasePay int64 = 500

	// maxDeliverySeconds caps the average delivery time used by the rating.
	maxDeliverySeconds = 60 * 60

	maxRating = 5
)

// DeliveryRecord is the part of an order's history the calculator needs.
type DeliveryRecord struct {
	OrderID          int64
	Region           int
	Status           order.Status
	TypeWhenAssigned courier.Type
	DateAssigned     time.Time
	DateFinished     *time.Time
}

// DeliveryRecordOf extracts the record of an assigned or completed order.
// ok is false for unassigned orders.
func DeliveryRecordOf(o *order.Order) (DeliveryRecord, bool) {
	if o.DateAssigned() == nil {
		return DeliveryRecord{}, false
	}
	return DeliveryRecord{
		OrderID:          o.ID(),
		Region:           o.Region(),
		Status:           o.Status(),
		TypeWhenAssigned: o.TypeWhenAssigned(),
		DateAssigned:     *o.DateAssigned(),
		DateFinished:     o.DateFinished(),
	}, true
}

// RatingCalculator derives a courier's earnings and rating.
//
// Earnings: orders are grouped into batches by assignment time (millisecond
// precision). A batch pays BasePay times the coefficient of the type the
// courier had when the batch was assigned, once every order in it is completed.
//
// Rating: completed orders are sorted by finish time, newest first. Each order
// takes the gap to the next older finish as its delivery time; the oldest takes
// the gap from its own assignment. Delivery times are averaged per region and
// the fastest region average t, clamped to [0, 3600] seconds, gives
//
//	rating = round((3600 - t) / 3600 * 5, 2)
type RatingCalculator struct{}

// NewRatingCalculator creates a new RatingCalculator instance.
func NewRatingCalculator() RatingCalculator {
	return RatingCalculator{}
}

// Earnings sums the pay of every fully completed batch.
func (r RatingCalculator) Earnings(records []DeliveryRecord) int64 {
	type batch struct {
		courierType courier.Type
		completed   bool
	}

	batches := make(map[int64]*batch)
	for _, rec := range records {
		if rec.Status != order.Assigned && rec.Status != order.Completed {
			continue
		}
		key := rec.DateAssigned.UnixMilli()
		b, ok := batches[key]
		if !ok {
			b = &batch{courierType: rec.TypeWhenAssigned, completed: true}
			batches[key] = b
		}
		if rec.Status != order.Completed {
			b.completed = false
		}
	}

	var earnings int64
	for _, b := range batches {
		if b.completed {
			earnings += b.courierType.Coefficient() * BasePay
		}
	}
	return earnings
}

// Rating returns nil when no order is completed.
func (r RatingCalculator) Rating(records []DeliveryRecord) *float64 {
	completed := make([]DeliveryRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == order.Completed && rec.DateFinished != nil {
			completed = append(completed, rec)
		}
	}
	if len(completed) == 0 {
		return nil
	}

	slices.SortFunc(completed, func(a, b DeliveryRecord) int {
		if c := b.DateFinished.Compare(*a.DateFinished); c != 0 {
			return c
		}
		return cmp.Compare(b.OrderID, a.OrderID)
	})

	type sample struct {
		total decimal.Decimal
		count int64
	}
	regions := make(map[int]*sample)

	last := len(completed) - 1
	for i, rec := range completed {
		var spent time.Duration
		if i < last {
			spent = rec.DateFinished.Sub(*completed[i+1].DateFinished)
		} else {
			spent = rec.DateFinished.Sub(rec.DateAssigned)
		}

		s, ok := regions[rec.Region]
		if !ok {
			s = &sample{total: decimal.Zero}
			regions[rec.Region] = s
		}
		s.total = s.total.Add(decimal.New(spent.Milliseconds(), -3))
		s.count++
	}

	var fastest *decimal.Decimal
	for _, s := range regions {
		mean := s.total.Div(decimal.NewFromInt(s.count))
		if fastest == nil || mean.LessThan(*fastest) {
			fastest = &mean
		}
	}

	limit := decimal.NewFromInt(maxDeliverySeconds)
	t := decimal.Max(decimal.Zero, decimal.Min(*fastest, limit))
	rating, _ := limit.Sub(t).Div(limit).Mul(decimal.NewFromInt(maxRating)).Round(2).Float64()

	return &rating
}
