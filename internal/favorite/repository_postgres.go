package favorite

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getFavoritesQuery = `SELECT coalesce("favoriteItemIds", ARRAY[]::text[]) FROM users WHERE "userId" = $1`
	userExistsQuery   = `SELECT 1 FROM users WHERE "userId" = $1`
	addFavoriteQuery  = `
		UPDATE users
		SET "favoriteItemIds" = array_append(coalesce("favoriteItemIds", ARRAY[]::text[]), $2),
			"updateAt" = $3
		WHERE "userId" = $1
			AND NOT ($2 = ANY(coalesce("favoriteItemIds", ARRAY[]::text[])))
		RETURNING "favoriteItemIds"
	`
	removeFavoriteQuery = `
		UPDATE users
		SET "favoriteItemIds" = array_remove(coalesce("favoriteItemIds", ARRAY[]::text[]), $2),
			"updateAt" = $3
		WHERE "userId" = $1
			AND ($2 = ANY(coalesce("favoriteItemIds", ARRAY[]::text[])))
		RETURNING "favoriteItemIds"
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddFavorite(userID int, itemID string, updatedAt string) ([]string, error) {
	var arr pq.StringArray
	err := r.db.QueryRow(addFavoriteQuery, userID, itemID, updatedAt).Scan(&arr)
	if errors.Is(err, sql.ErrNoRows) {
		// nothing updated: either no such user or the item is already there
		if !r.userExists(userID) {
			return nil, ErrNotFound
		}
		return nil, ErrAlreadyFavorite
	}
	if err != nil {
		return nil, err
	}
	return []string(arr), nil
}

func (r *PostgresRepository) RemoveFavorite(userID int, itemID string, updatedAt string) ([]string, error) {
	var arr pq.StringArray
	err := r.db.QueryRow(removeFavoriteQuery, userID, itemID, updatedAt).Scan(&arr)
	if errors.Is(err, sql.ErrNoRows) {
		if !r.userExists(userID) {
			return nil, ErrNotFound
		}
		return nil, ErrNotFavorite
	}
	if err != nil {
		return nil, err
	}
	if arr == nil {
		return []string{}, nil
	}
	return []string(arr), nil
}

func (r *PostgresRepository) GetFavorites(userID int) ([]string, error) {
	var arr pq.StringArray
	if err := r.db.QueryRow(getFavoritesQuery, userID).Scan(&arr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if arr == nil {
		return []string{}, nil
	}
	return []string(arr), nil
}

func (r *PostgresRepository) userExists(userID int) bool {
	var one int
	return r.db.QueryRow(userExistsQuery, userID).Scan(&one) == nil
}
