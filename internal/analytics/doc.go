// Package analytics implements the distributor-quarter risk analytics
// pipeline: month-label normalization, distributor-quarter aggregation,
// risk classification, quarter-over-quarter trends, the alert engine, the
// correlation engine, and root-cause reporting.
//
// Everything here is a pure, stateless projection of the raw dataset. The
// same input always produces the same output, so results are reproducible
// from any dataset snapshot; ownership of the dataset and its lifecycle
// lives in the dataset package.
package analytics
