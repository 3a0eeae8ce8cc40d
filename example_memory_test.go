package wxdex_test

import (
	"context"
	"fmt"
	"log"

	"github.com/cardindex/wxdex"
)

// Example showing the default Catalog: built lazily from the
// environment the first time any package-level function is called.
func Example_defaultCatalog() {
	ctx := context.Background()

	if err := wxdex.Cache(ctx, "booster", "WX24", "", "Booster Pack WX24"); err != nil {
		log.Fatal(err)
	}

	result, err := wxdex.Analyze(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("analyzed %d cards (%d failed)\n", result.Analyzed, result.Failed)

	// Output varies with the upstream catalog's current contents.
}

// Example showing a standalone Catalog built from an explicit Config,
// for an embedder that needs more than one catalog at once.
func Example_explicitConfig() {
	ctx := context.Background()

	cat, err := wxdex.NewWithConfig(wxdex.Config{
		UpstreamBaseURL: "https://example.invalid",
		DatabaseDSN:     ":memory:",
		CacheRoot:       "./cache",
	})
	if err != nil {
		log.Fatal(err)
	}
	defer cat.Close()

	cards, err := cat.Search(ctx, "白")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("found %d cards matching 白\n", len(cards))

	// Output varies with the upstream catalog's current contents.
}
