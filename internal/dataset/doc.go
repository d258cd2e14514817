// Package dataset defines the in-memory Table every analytic operation works
// on. Column kinds (numeric, categorical, identifier) are inferred once when
// the table is built so that all operations agree on them.
package dataset
