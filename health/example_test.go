package health_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/componentstate/cache"
	"github.com/jonwraymond/componentstate/health"
)

func ExampleNewStoreChecker() {
	store := cache.NewStore()
	_ = store.Set("pane", "scrollY", 12)

	checker, err := health.NewStoreChecker("", store, health.DefaultStoreCheckerConfig())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	r := checker.Check(context.Background())
	fmt.Println(r.Status, r.Message)
	// Output:
	// healthy state store holds 1 entries
}

func ExampleAggregator_OverallStatus() {
	agg := health.NewAggregator()
	agg.Register("ok", health.NewCheckerFunc("ok", func(context.Context) health.Result {
		return health.Healthy("fine")
	}))
	agg.Register("slow", health.NewCheckerFunc("slow", func(context.Context) health.Result {
		return health.Degraded("slow")
	}))

	results := agg.CheckAll(context.Background())
	fmt.Println(agg.OverallStatus(results))
	// Output:
	// degraded
}
