// Package order provides the Order aggregate and its lifecycle.
//
// The package includes:
//   - Order: identity, weight, region, delivery hours and assignment data
//   - Status: the state machine Unassigned -> Assigned -> Completed
//
// Key business rules:
//   - Weight is kept as an exact decimal between 0.01 and 50
//   - Assigning stamps the courier, the courier's current type and the batch time
//   - Unassigning is only possible from Assigned and clears every assignment field
//   - Completion is checked in a fixed order: not assigned yet, assigned to
//     another courier, already completed
//   - Completed is terminal
package order
