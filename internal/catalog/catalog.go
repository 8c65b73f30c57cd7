package catalog

import (
	"math"
	"strconv"
)

// NotAvailable is shown in place of a missing rating or price.
const NotAvailable = "N/A"

const (
	Veg    = "veg"
	NonVeg = "non-veg"
)

// Tier classifies a combo for display only.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
	TierVIP      Tier = "vip"
)

// MenuItem is one orderable dish. JSON names follow the recommendation
// backend so items it returns decode into the same type.
type MenuItem struct {
	ID                  string   `json:"item_id"`
	Name                string   `json:"name_of_item"`
	Description         string   `json:"description"`
	Cost                *float64 `json:"cost,omitempty"`
	VegOrNonVeg         string   `json:"veg_or_non_veg"`
	IsVegan             bool     `json:"is_vegan"`
	IsGlutenFree        bool     `json:"is_gluten_free"`
	IsDairyFree         bool     `json:"is_dairy_free"`
	Rating              *float64 `json:"rating,omitempty"`
	NumberOfPeopleRated int      `json:"number_of_people_rated"`
	ImageLink           string   `json:"image_link"`
	Category            string   `json:"category,omitempty"`
	Cuisine             string   `json:"cuisine,omitempty"`
	Ingredients         string   `json:"ingredients,omitempty"`
	ComboIDs            []string `json:"combo_ids,omitempty"`
}

// Combo is a fixed bundle sold as a single discounted cart entry.
type Combo struct {
	ID                 string            `json:"combo_id"`
	Name               string            `json:"combo_name"`
	Description        string            `json:"description,omitempty"`
	ItemIDs            []string          `json:"combo_item_ids,omitempty"`
	Items              []MenuItem        `json:"combo_items"`
	Cost               *float64          `json:"cost,omitempty"`
	DiscountedCost     *float64          `json:"discounted_cost,omitempty"`
	DiscountPercentage int               `json:"discount_percentage"`
	Tier               Tier              `json:"combo_type,omitempty"`
	ImageLinks         []string          `json:"image_links"`
	Rating             *float64          `json:"rating,omitempty"`
	PreparationTime    int               `json:"preparation_time,omitempty"`
	Nutrition          map[string]string `json:"nutrition,omitempty"`
	AdditionalInfo     []string          `json:"additional_info,omitempty"`
}

// IsVeg reports whether the item is vegetarian.
func (m MenuItem) IsVeg() bool {
	return m.VegOrNonVeg == Veg
}

// Price returns the cost or zero when the catalog has none.
func (m MenuItem) Price() float64 {
	if m.Cost == nil {
		return 0
	}
	return *m.Cost
}

func (m MenuItem) DisplayCost() string {
	return display(m.Cost)
}

func (m MenuItem) DisplayRating() string {
	return display(m.Rating)
}

// Price returns the discounted cost when present, the full cost otherwise.
func (c Combo) Price() float64 {
	if c.DiscountedCost != nil {
		return *c.DiscountedCost
	}
	if c.Cost != nil {
		return *c.Cost
	}
	return 0
}

// DiscountPercent derives the whole-number discount from the two prices,
// or 0 when either one is missing.
func (c Combo) DiscountPercent() int {
	if c.Cost == nil || c.DiscountedCost == nil || *c.Cost <= 0 {
		return 0
	}
	pct := (*c.Cost - *c.DiscountedCost) / *c.Cost * 100
	if pct <= 0 {
		return 0
	}
	return int(math.Round(pct))
}

// IsVeg is true when every constituent item is vegetarian.
func (c Combo) IsVeg() bool {
	if len(c.Items) == 0 {
		return false
	}
	for _, it := range c.Items {
		if !it.IsVeg() {
			return false
		}
	}
	return true
}

func (c Combo) DisplayCost() string {
	return display(c.Cost)
}

func display(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
