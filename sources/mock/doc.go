// Package mock provides a test double implementation of sources.Source.
//
// The mock allows indexing tests to run against controlled item sets
// without touching the filesystem, and to inject failures.
//
//	src := mock.NewMockSource(core.Item{Path: "/a", Name: "a", Kind: core.KindFile})
//	src.IsVolatile = true
//	items, _ := src.Harvest(ctx)
package mock
