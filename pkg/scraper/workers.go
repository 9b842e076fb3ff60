package scraper

import (
	"context"
	"sync"
)

type job struct {
	index   int
	scraper *Scraper
}

type indexedResult struct {
	index  int
	result Result
}

// worker scrapes jobs until the channel is closed.
func worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan job, results chan<- indexedResult) {
	defer wg.Done()
	for j := range jobs {
		results <- indexedResult{index: j.index, result: j.scraper.Scrape(ctx)}
	}
}

// ScrapeAll runs every scraper concurrently, one worker per source, and
// returns the results in the order the scrapers were given. Sources share no
// state, so one failing source never affects another.
func ScrapeAll(ctx context.Context, scrapers []*Scraper) []Result {
	var wg sync.WaitGroup
	jobs := make(chan job, len(scrapers))
	results := make(chan indexedResult, len(scrapers))

	for w := 0; w < len(scrapers); w++ {
		wg.Add(1)
		go worker(ctx, &wg, jobs, results)
	}
	for i, s := range scrapers {
		jobs <- job{index: i, scraper: s}
	}
	close(jobs)

	wg.Wait()
	close(results)

	ordered := make([]Result, len(scrapers))
	for r := range results {
		ordered[r.index] = r.result
	}
	return ordered
}
