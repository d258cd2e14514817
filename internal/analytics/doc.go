// Package analytics computes the statistical views served by the API:
// cleaning and standardization, descriptive statistics, distributions,
// categorical frequencies, correlation with normality tests, Welch t-tests,
// radar profiles and the rule-based insight report.
//
// Every function works on an in-memory dataset.Table and never touches
// storage. Thresholds come from config.AnalyticsConfig so they can be
// audited in one place.
package analytics
