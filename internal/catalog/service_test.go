package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testService() *Service {
	return NewService(New([]MenuItem{
		{ID: "1", Name: "Vegan Brownie", Description: "Rich chocolate dessert", Cost: f64(150), VegOrNonVeg: Veg, IsVegan: true, Rating: f64(4.5), Category: "Desserts"},
		{ID: "2", Name: "Chicken Wings", Description: "Spicy wings", Cost: f64(300), VegOrNonVeg: NonVeg, Rating: f64(4.1), Category: "Starters"},
		{ID: "3", Name: "Paneer Roll", Description: "Wrap with VEGAN mayo", Cost: f64(220), VegOrNonVeg: Veg, Category: "Starters"},
		{ID: "4", Name: "Mystery Plate", VegOrNonVeg: Veg, Rating: f64(5)},
	}, nil))
}

func ids(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestService_Search(t *testing.T) {
	s := testService()
	assert.Equal(t, []string{"1", "3"}, ids(s.Search("vegan")))
	assert.Equal(t, []string{"2"}, ids(s.Search("  WINGS ")))
	assert.Len(t, s.Search(""), 4)
	assert.Empty(t, s.Search("sushi"))
}

func TestService_Filter(t *testing.T) {
	s := testService()
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"veg only", Filter{VegOnly: true}, []string{"1", "3", "4"}},
		{"non-veg only", Filter{NonVegOnly: true}, []string{"2"}},
		{"both flags", Filter{VegOnly: true, NonVegOnly: true}, []string{}},
		{"min rating skips unrated", Filter{MinRating: 4.2}, []string{"1", "4"}},
		{"max cost skips unpriced", Filter{MaxCost: 250}, []string{"1", "3"}},
		{"category case-insensitive", Filter{Category: "starters"}, []string{"2", "3"}},
		{"combined", Filter{Term: "vegan", VegOnly: true, MinRating: 4}, []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(s.Filter(tt.filter)))
		})
	}
}

func TestService_GroupByCategory(t *testing.T) {
	s := testService()
	groups := s.GroupByCategory()
	assert.Equal(t, []string{"2", "3"}, ids(groups["Starters"]))
	assert.Equal(t, []string{"4"}, ids(groups["Other"]))
	assert.Equal(t, []string{"Desserts", "Other", "Starters"}, s.Categories())
}

func TestService_CombosForUnknownItem(t *testing.T) {
	_, err := testService().CombosForItem("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}
