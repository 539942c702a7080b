package index

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/quickdex/core"
)

// Search scores every indexed item against the query and returns a
// ranked, truncated result list. Two short-circuits bypass the index:
// a configured web-search prefix and an arithmetic expression. A
// search during an indexing run reflects whatever snapshot the live
// index holds at the instant of the read.
func (p *Pipeline) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if result, ok := p.webSearchResult(query); ok {
		return []core.SearchResult{result}, nil
	}
	if looksLikeExpression(query) {
		if result, ok := calculatorResult(query); ok {
			return []core.SearchResult{result}, nil
		}
	}

	snapshot := p.snapshot()
	now := time.Now().UTC()

	var results []core.SearchResult
	var err error
	if len(snapshot) > parallelScoreThreshold {
		results, err = p.scoreParallel(ctx, snapshot, query, now)
	} else {
		results, err = p.scoreSequential(ctx, snapshot, query, now)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].UseCount > results[j].UseCount
	})
	if len(results) > p.maxResults {
		results = results[:p.maxResults]
	}
	return results, nil
}

func (p *Pipeline) snapshot() []core.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	items := make([]core.Item, 0, len(p.items))
	for _, item := range p.items {
		items = append(items, item)
	}
	return items
}

func (p *Pipeline) scoreSequential(ctx context.Context, items []core.Item, query string, now time.Time) ([]core.SearchResult, error) {
	results := make([]core.SearchResult, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if result, ok := p.scoreItem(item, query, now); ok {
			results = append(results, result)
		}
	}
	return results, nil
}

// scoreParallel chunks the corpus across the scoring pool. Each worker
// writes into its own region of a preallocated slice, so no locking on
// the hot path.
func (p *Pipeline) scoreParallel(ctx context.Context, items []core.Item, query string, now time.Time) ([]core.SearchResult, error) {
	workers := p.scorePool.Cap()
	if workers < 1 {
		workers = 1
	}
	chunkSize := (len(items) + workers - 1) / workers

	scored := make([][]core.SearchResult, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= len(items) {
			break
		}
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		w, start, end := w, start, end

		wg.Add(1)
		task := func() {
			defer wg.Done()
			chunk := make([]core.SearchResult, 0, end-start)
			for _, item := range items[start:end] {
				if ctx.Err() != nil {
					return
				}
				if result, ok := p.scoreItem(item, query, now); ok {
					chunk = append(chunk, result)
				}
			}
			scored[w] = chunk
		}
		if err := p.scorePool.Submit(task); err != nil {
			// Pool saturated or released: run inline
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []core.SearchResult
	for _, chunk := range scored {
		results = append(results, chunk...)
	}
	return results, nil
}

func (p *Pipeline) scoreItem(item core.Item, query string, now time.Time) (core.SearchResult, bool) {
	score := p.scorer.Score(query, item.Name, item.Path, item.UseCount, item.LastUsedAt, now, p.weights)
	if score <= 0 {
		return core.SearchResult{}, false
	}
	return core.SearchResult{
		Path:        item.Path,
		Name:        item.Name,
		Description: item.Description,
		Kind:        item.Kind,
		Score:       score,
		UseCount:    item.UseCount,
	}, true
}

// webSearchResult recognizes "<prefix> terms" queries and produces a
// single web-search result pointing at the configured URL template.
func (p *Pipeline) webSearchResult(query string) (core.SearchResult, bool) {
	if p.webPrefix == "" {
		return core.SearchResult{}, false
	}
	rest, ok := strings.CutPrefix(query, p.webPrefix+" ")
	if !ok {
		return core.SearchResult{}, false
	}
	terms := strings.TrimSpace(rest)
	if terms == "" {
		return core.SearchResult{}, false
	}

	target := strings.Replace(p.webURL, "%s", url.QueryEscape(terms), 1)
	return core.SearchResult{
		Path:        target,
		Name:        terms,
		Description: "Search the web",
		Kind:        core.KindWebSearch,
		Score:       1,
	}, true
}

// calculatorResult evaluates an arithmetic query into a single result.
func calculatorResult(query string) (core.SearchResult, bool) {
	value, err := evaluate(query)
	if err != nil {
		return core.SearchResult{}, false
	}
	rendered := formatResult(value)
	return core.SearchResult{
		Path:        "calc:" + query,
		Name:        query + " = " + rendered,
		Description: rendered,
		Kind:        core.KindCalculator,
		Score:       1,
	}, true
}
