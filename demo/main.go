package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cardindex/wxdex"
	"github.com/cardindex/wxdex/internal/filter"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := wxdex.Cache(ctx, "booster", "WX24", "", "Booster Pack WX24"); err != nil {
		log.Fatal(err)
	}

	result, err := wxdex.Analyze(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("analyzed %d cards (%d failed)\n", result.Analyzed, result.Failed)

	cards, err := wxdex.Filter(ctx, filter.Query{ColorMask: 2}) // White
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("found %d white cards\n", len(cards))

	if len(cards) > 0 {
		c := cards[0]
		fmt.Println(c.Name)
		fmt.Println(c.Code)
		fmt.Println(c.CardType())
		fmt.Println(c.Colors())
		fmt.Println(c.SkillText)
	}

	archive, err := wxdex.NewWithConfig(wxdex.Config{
		UpstreamBaseURL: "https://example.invalid",
		DatabaseDSN:     "./cards.db",
	})
	if err != nil {
		log.Fatal(err)
	}
	defer archive.Close()

	now := time.Now()
	_, _ = wxdex.Search(ctx, "白姫")
	fmt.Printf("%v to search the default catalog\n", time.Since(now))

	now = time.Now()
	_, _ = archive.Search(ctx, "白姫")
	fmt.Printf("%v to search the archive catalog\n", time.Since(now))

	// Safe to call from multiple goroutines.
	var wg sync.WaitGroup
	for _, productNo := range []string{"WX24", "WX25", "WX26"} {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if err := wxdex.Cache(ctx, "booster", p, "", "Booster Pack "+p); err != nil {
				fmt.Printf("%s: %v\n", p, err)
				return
			}
			fmt.Printf("%s: cached\n", p)
		}(productNo)
	}
	wg.Wait()
}
