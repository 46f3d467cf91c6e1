// Package analytics implements the analysis pipeline over the canonical
// transaction table: calendar-week revenue aggregation, isolation-forest
// anomaly detection, KPI computation, and summary assembly.
//
// # Architecture
//
// The package is organized around pure functions plus one orchestrating
// service:
//
//  1. AggregateWeekly: reduces the table to Monday-start weekly revenue points
//  2. DetectAnomalies: scores the weekly series with a seeded isolation forest
//  3. ComputeKPIs: derives totals, averages and top categories
//  4. BuildSummary: assembles the immutable summary object
//  5. Service: runs load → clean → summarize with content-hash memoization
//
// # Usage
//
//	service := analytics.NewService(cfg.Analysis, cfg.Schema, logger)
//	result, err := service.Analyze(ctx, "orders.csv", data, 0.01)
//
// # Determinism
//
// Every stage is deterministic for identical input: the forest uses a fixed
// seed and ensemble size, categorical ties break lexicographically, and no
// stage reads the wall clock. Re-running the pipeline on identical input
// with an identical contamination rate yields a byte-identical summary.
package analytics
