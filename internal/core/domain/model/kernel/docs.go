// Package kernel provides the value objects shared by the courier and order aggregates.
//
// The package includes:
//   - TimeWindow: a daily "HH:MM-HH:MM" interval used for courier working hours
//     and order delivery hours
//   - timestamp helpers that normalize instants to UTC with millisecond precision
//     and render them with a trailing "Z"
//
// Value objects are immutable and must be built through their constructors.
package kernel
