// Package ml trains the regression model behind the prediction endpoints.
//
// A request builds a fresh random forest from the table, evaluates it on
// a held-out split and throws it away. Nothing is cached between calls.
// The split and every tree are seeded, so identical input gives identical
// output regardless of how the trees are scheduled.
package ml
