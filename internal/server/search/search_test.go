package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"marketd/internal/server/models"
)

type staticItems []*models.Item

func (s staticItems) AllItems(context.Context) []*models.Item { return s }

func item(id, title, description, category string, tags ...string) *models.Item {
	return &models.Item{
		ID:          id,
		Title:       title,
		Description: description,
		Category:    category,
		Tags:        tags,
	}
}

func ids(items []*models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSearch_WeightsTitleOverTagsOverDescription(t *testing.T) {
	src := staticItems{
		item("desc", "Chair", "a lamp is included", "Home"),
		item("tag", "Chair", "wooden", "Home", "lamp"),
		item("title", "Lamp", "wooden", "Home"),
	}
	svc := NewService(src)

	got := svc.Search(context.Background(), "lamp", "", 10)
	assert.Equal(t, []string{"title", "tag", "desc"}, ids(got))
}

func TestSearch_TitleMatchStrictlyIncreasesScore(t *testing.T) {
	svc := NewService(staticItems{
		item("plain", "Chair", "desk lamp", "Home"),
		item("titled", "Lamp chair", "desk lamp", "Home"),
	})

	got := svc.Search(context.Background(), "lamp", "", 10)
	assert.Equal(t, []string{"titled", "plain"}, ids(got))
}

func TestSearch_EqualScoresKeepTableOrder(t *testing.T) {
	svc := NewService(staticItems{
		item("first", "Lamp", "", "Home"),
		item("second", "Lamp", "", "Home"),
		item("third", "Lamp", "", "Home"),
	})

	got := svc.Search(context.Background(), "lamp", "", 10)
	assert.Equal(t, []string{"first", "second", "third"}, ids(got))
}

func TestSearch_CategoryFilterIsCaseInsensitive(t *testing.T) {
	svc := NewService(staticItems{
		item("home", "Lamp", "", "Home"),
		item("office", "Lamp", "", "Office"),
	})

	got := svc.Search(context.Background(), "lamp", "home", 10)
	assert.Equal(t, []string{"home"}, ids(got))

	got = svc.Search(context.Background(), "lamp", "HOME", 10)
	assert.Equal(t, []string{"home"}, ids(got))
}

func TestSearch_ZeroScoreItemsAreDropped(t *testing.T) {
	svc := NewService(staticItems{
		item("match", "Lamp", "", "Home"),
		item("miss", "Chair", "wooden", "Home"),
	})

	got := svc.Search(context.Background(), "lamp", "", 10)
	assert.Equal(t, []string{"match"}, ids(got))
}

func TestSearch_TruncatesToMaxResults(t *testing.T) {
	svc := NewService(staticItems{
		item("a", "Lamp one", "", ""),
		item("b", "Lamp two", "", ""),
		item("c", "Lamp three", "", ""),
	})

	got := svc.Search(context.Background(), "lamp", "", 2)
	assert.Len(t, got, 2)

	got = svc.Search(context.Background(), "lamp", "", 0)
	assert.Empty(t, got)
}

func TestSearch_MultipleKeywordsAccumulate(t *testing.T) {
	svc := NewService(staticItems{
		item("both", "Lamp desk", "", ""),
		item("one", "Lamp", "", ""),
	})

	got := svc.Search(context.Background(), "lamp desk", "", 10)
	assert.Equal(t, []string{"both", "one"}, ids(got))
}

func TestSearch_EmptyQueryBrowsesCategory(t *testing.T) {
	svc := NewService(staticItems{
		item("a", "Lamp", "", "Home"),
		item("b", "Bike", "", "Sports"),
		item("c", "Chair", "", "Home"),
	})

	got := svc.Search(context.Background(), "", "", 10)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))

	got = svc.Search(context.Background(), "", "Home", 10)
	assert.Equal(t, []string{"a", "c"}, ids(got))

	// Whitespace-only queries browse too, and the result cap still holds.
	got = svc.Search(context.Background(), "   ", "", 2)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}
