package catalog

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// PostgresSource loads the catalog from the menu_items and combos tables.
type PostgresSource struct {
	db *sql.DB
}

const (
	listMenuItemsQuery = `
		SELECT item_id, name_of_item, COALESCE(description, ''), cost, COALESCE(veg_or_non_veg, ''),
			COALESCE(is_vegan, false), COALESCE(is_gluten_free, false), COALESCE(is_dairy_free, false),
			rating, COALESCE(number_of_people_rated, 0), COALESCE(image_link, ''),
			COALESCE(category, ''), COALESCE(cuisine, ''), COALESCE(ingredients, '')
		FROM menu_items
		ORDER BY item_id
	`
	listCombosQuery = `
		SELECT combo_id, combo_name, COALESCE(description, ''), item_ids, cost, discounted_cost,
			COALESCE(combo_type, ''), image_links, rating, COALESCE(preparation_time, 0)
		FROM combos
		ORDER BY combo_id
	`
)

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) LoadItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, listMenuItemsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "query menu_items")
	}
	defer rows.Close()

	out := make([]MenuItem, 0)
	for rows.Next() {
		var (
			it     MenuItem
			cost   sql.NullFloat64
			rating sql.NullFloat64
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &cost, &it.VegOrNonVeg,
			&it.IsVegan, &it.IsGlutenFree, &it.IsDairyFree,
			&rating, &it.NumberOfPeopleRated, &it.ImageLink,
			&it.Category, &it.Cuisine, &it.Ingredients); err != nil {
			return nil, errors.Wrap(err, "scan menu item")
		}
		it.Cost = nullFloat(cost)
		it.Rating = nullFloat(rating)
		out = append(out, it)
	}
	return out, errors.Wrap(rows.Err(), "iterate menu_items")
}

func (s *PostgresSource) LoadCombos(ctx context.Context) ([]Combo, error) {
	rows, err := s.db.QueryContext(ctx, listCombosQuery)
	if err != nil {
		return nil, errors.Wrap(err, "query combos")
	}
	defer rows.Close()

	out := make([]Combo, 0)
	for rows.Next() {
		var (
			cb         Combo
			itemIDs    []string
			imageLinks []string
			tier       string
			cost       sql.NullFloat64
			discounted sql.NullFloat64
			rating     sql.NullFloat64
		)
		if err := rows.Scan(&cb.ID, &cb.Name, &cb.Description, pq.Array(&itemIDs), &cost, &discounted,
			&tier, pq.Array(&imageLinks), &rating, &cb.PreparationTime); err != nil {
			return nil, errors.Wrap(err, "scan combo")
		}
		cb.ItemIDs = itemIDs
		cb.ImageLinks = imageLinks
		cb.Tier = Tier(tier)
		cb.Cost = nullFloat(cost)
		cb.DiscountedCost = nullFloat(discounted)
		cb.Rating = nullFloat(rating)
		out = append(out, cb)
	}
	return out, errors.Wrap(rows.Err(), "iterate combos")
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
