// Package search ranks items against a keyword query. Scoring is a weighted
// substring-match count: 3 per keyword found in the title, 1 in the
// description, 2 per tag containing the keyword.
package search

import (
	"context"
	"sort"
	"strings"

	"marketd/internal/server/models"
)

// ItemSource yields the items to rank. The store satisfies it.
type ItemSource interface {
	AllItems(ctx context.Context) []*models.Item
}

// Service scores and orders items for SEARCH_ITEMS requests.
type Service struct {
	items ItemSource
}

func NewService(items ItemSource) *Service {
	return &Service{items: items}
}

// Search lowercases and splits the query on whitespace, scores every item
// (skipping those outside the requested category), keeps items with a
// positive score, orders them by descending score and truncates to
// maxResults. The sort is stable: items with equal scores keep their
// relative order from the item table.
//
// A query with no keywords is a browse: every item in the requested
// category is returned, in table order.
func (s *Service) Search(ctx context.Context, query, category string, maxResults int) []*models.Item {
	keywords := strings.Fields(strings.ToLower(query))

	type scored struct {
		item  *models.Item
		score int
	}

	var matched []scored
	for _, item := range s.items.AllItems(ctx) {
		if category != "" && !strings.EqualFold(item.Category, category) {
			continue
		}
		score := scoreItem(item, keywords)
		if score > 0 || len(keywords) == 0 {
			matched = append(matched, scored{item: item, score: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	if maxResults < 0 {
		maxResults = 0
	}
	if len(matched) > maxResults {
		matched = matched[:maxResults]
	}

	result := make([]*models.Item, len(matched))
	for i, m := range matched {
		result[i] = m.item
	}
	return result
}

func scoreItem(item *models.Item, keywords []string) int {
	title := strings.ToLower(item.Title)
	description := strings.ToLower(item.Description)

	score := 0
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			score += 3
		}
		if strings.Contains(description, kw) {
			score++
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				score += 2
			}
		}
	}
	return score
}
