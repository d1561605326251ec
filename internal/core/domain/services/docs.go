// Package services provides domain services that implement the dispatch rules
// spanning couriers and orders.
//
// The package includes:
//   - AssignmentEngine: greedy selection of unassigned orders for a courier
//   - MutationValidator: revalidation of assigned orders after a profile change
//   - CompletionEngine: completion of an assigned order
//   - RatingCalculator: courier earnings and rating from delivery history
//
// Services are stateless and work on aggregates loaded by the application
// layer. They mutate the aggregates they are given; persisting the result is
// left to the caller.
package services
