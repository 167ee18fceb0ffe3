package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// DefaultCapPerGroup limits each group on first render. Three groups at
// three items each keeps the initial view at nine candidates.
const DefaultCapPerGroup = 3

// groupOrder fixes the display order of result buckets.
var groupOrder = []domain.DataType{
	domain.DataTypeCommon,
	domain.DataTypeBranded,
	domain.DataTypeIngredient,
}

var groupTitles = map[domain.DataType]string{
	domain.DataTypeCommon:     "Common foods",
	domain.DataTypeBranded:    "Branded products",
	domain.DataTypeIngredient: "Ingredients",
	domain.DataTypeScanned:    "Scanned products",
}

// Aggregator applies the progressive-disclosure policy: capped groups on
// first render, per-group opaque cursors for expansion.
type Aggregator struct {
	capPerGroup int
}

// NewAggregator creates an aggregator with the given per-group cap.
func NewAggregator(capPerGroup int) *Aggregator {
	if capPerGroup <= 0 {
		capPerGroup = DefaultCapPerGroup
	}
	return &Aggregator{capPerGroup: capPerGroup}
}

// Aggregate partitions relevance-ordered candidates into groups, truncates
// each to the cap, and computes remaining counts. totalHits is the upstream
// total, which may exceed the number of fetched candidates; TotalRemaining
// accounts for both truncated and unfetched hits so that shown + remaining
// always equals the total.
func (a *Aggregator) Aggregate(candidates []domain.FoodCandidate, totalHits int) ([]domain.SearchResultGroup, int) {
	if totalHits < len(candidates) {
		totalHits = len(candidates)
	}

	buckets := partition(candidates)

	var groups []domain.SearchResultGroup
	shown := 0
	for _, dataType := range groupOrder {
		bucket := buckets[dataType]
		if len(bucket) == 0 {
			continue
		}

		end := a.capPerGroup
		if end > len(bucket) {
			end = len(bucket)
		}

		group := domain.SearchResultGroup{
			Title:     groupTitles[dataType],
			DataType:  dataType,
			Items:     bucket[:end],
			Remaining: len(bucket) - end,
		}
		if group.Remaining > 0 {
			group.Cursor = encodeCursor(dataType, end)
		}
		shown += end
		groups = append(groups, group)
	}

	return groups, totalHits - shown
}

// ExpandGroup returns the next page of one group starting at the cursor's
// offset. Expansion is idempotent: the same cursor over the same candidate
// snapshot always yields the same page and next cursor, so re-invoking it
// never duplicates already-shown items.
func (a *Aggregator) ExpandGroup(candidates []domain.FoodCandidate, cursor string) (*domain.SearchResultGroup, error) {
	dataType, offset, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	bucket := partition(candidates)[dataType]
	if offset > len(bucket) {
		return nil, fmt.Errorf("%w: offset %d beyond group of %d", domain.ErrStaleCursor, offset, len(bucket))
	}

	end := offset + a.capPerGroup
	if end > len(bucket) {
		end = len(bucket)
	}

	group := &domain.SearchResultGroup{
		Title:     groupTitles[dataType],
		DataType:  dataType,
		Items:     bucket[offset:end],
		Remaining: len(bucket) - end,
	}
	if group.Remaining > 0 {
		group.Cursor = encodeCursor(dataType, end)
	}
	return group, nil
}

// partition splits candidates by DataType, preserving relevance order within
// each bucket.
func partition(candidates []domain.FoodCandidate) map[domain.DataType][]domain.FoodCandidate {
	buckets := make(map[domain.DataType][]domain.FoodCandidate)
	for _, c := range candidates {
		buckets[c.DataType] = append(buckets[c.DataType], c)
	}
	return buckets
}

// encodeCursor builds the opaque per-group pagination token.
func encodeCursor(dataType domain.DataType, offset int) string {
	return fmt.Sprintf("%s:%d", dataType, offset)
}

// decodeCursor parses and validates a pagination token.
func decodeCursor(cursor string) (domain.DataType, int, error) {
	part := strings.SplitN(cursor, ":", 2)
	if len(part) != 2 {
		return "", 0, fmt.Errorf("%w: malformed cursor %q", domain.ErrInvalidInput, cursor)
	}

	dataType := domain.DataType(part[0])
	if _, ok := groupTitles[dataType]; !ok {
		return "", 0, fmt.Errorf("%w: unknown group %q", domain.ErrInvalidInput, part[0])
	}

	offset, err := strconv.Atoi(part[1])
	if err != nil || offset < 0 {
		return "", 0, fmt.Errorf("%w: bad cursor offset %q", domain.ErrInvalidInput, part[1])
	}

	return dataType, offset, nil
}
