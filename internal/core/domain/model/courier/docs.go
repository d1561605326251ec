// Package courier provides the Courier aggregate of the dispatch service.
//
// The package includes:
//   - Courier: identity, transport type, served regions and working hours
//   - Type: the transport type that fixes carrying capacity and pay coefficient
//
// Key business rules:
//   - Capacity is 10 for foot, 15 for bike and 50 for car couriers
//   - Pay coefficient is 2 for foot, 5 for bike and 9 for car couriers
//   - Working hours are daily windows that never wrap around midnight
//   - Profile changes report which fields were touched so that assigned
//     orders can be revalidated against the new profile
package courier
