// Package solarstats relays periodic numeric readings into a
// home-automation platform's long-term statistics store and generates
// the dashboard widgets that visualize them.
//
// # Architecture
//
// The service is structured into several key packages:
//   - homeassistant: REST client for the platform's statistics API
//   - relay: pending queue, hourly aggregation, and flush machinery
//   - scheduler: periodic flush trigger
//   - sampler: entity-state polling feeding the relay
//   - rollup: period rollups and the self-consumption ratio
//   - dashboard: card and energy-source configuration generators
//   - models: shared data structures and the statistic catalog
//
// Key Features
//
//   - Hourly Aggregation:
//     Buffered readings are partitioned into UTC clock-hour buckets and
//     summarized as mean/min/max (averaged series) or sum (cumulative
//     series) before submission.
//
//   - At-Least-Once Delivery:
//     A failed submission re-queues the original readings for the next
//     cycle; duplicates are possible, loss within the queue is not.
//
//   - Degrade-Don't-Fail Queries:
//     History queries and rollups log failures and return empty results
//     rather than surfacing errors.
//
// For more information about specific packages, see their respective
// documentation.
package solarstats
