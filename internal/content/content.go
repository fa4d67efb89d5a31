// Package content models the source material a generation run consumes:
// wiki pages split into sections, grouped into bounded work units with a
// stable content-addressed key.
package content

import "context"

// GroupIndividual is the group label for locators submitted directly
// rather than enumerated from a category.
const GroupIndividual = "individual"

// Section is one titled slice of a fetched page.
type Section struct {
	Title     string
	Text      string
	WordCount int
}

// Fetcher acquires source content. Implementations live outside this
// core (wiki scraping, HTML cleaning); the orchestrator only depends on
// this interface.
type Fetcher interface {
	// PagesInGroup enumerates the page locators belonging to a group
	// selector (e.g. a wiki category).
	PagesInGroup(ctx context.Context, sourceID, groupSelector string) ([]string, error)

	// FetchContent fetches one page and returns its sections in document
	// order, already cleaned to plain text.
	FetchContent(ctx context.Context, sourceID, locator string) ([]Section, error)
}

// Title is a resolved catalog entry.
type Title struct {
	ID             int
	CanonicalTitle string
}

// Resolver maps a free-form name to a canonical catalog title.
// Implemented by an external catalog client, out of scope here.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Title, error)
}

// WorkUnit is the smallest chunk of source content submitted to the
// model in one call. Constructed fresh per run, never mutated.
type WorkUnit struct {
	SourceID            string
	GroupLabel          string
	Locator             string
	SubUnitLabel        string
	Text                string
	WordCount           int
	TargetQuestionCount int
}

// Key returns the unit's deduplication key.
func (u WorkUnit) Key() string {
	return UnitKey(u.SourceID, u.GroupLabel, u.Locator, u.SubUnitLabel)
}
