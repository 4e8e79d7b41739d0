// Package health reports whether the state cache and its host process are
// within budget.
//
// A Checker reports a Status: Healthy, Degraded or Unhealthy. StoreChecker
// compares a cache.Store's encoded size against byte budgets and fails once
// the store is closed. MemoryChecker compares the process heap against a
// memory budget. Aggregator runs several checkers concurrently and folds
// their results into one status:
//
//	agg := health.NewAggregator()
//	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{}))
//	agg.Register("statecache", storeChecker)
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
package health
