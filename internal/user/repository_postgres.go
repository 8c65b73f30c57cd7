package user

import (
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	selectUserColumns = `SELECT "userId", coalesce(email, ''), coalesce(password, ''), "firstName", "lastName", coalesce(phone, ''), "phoneVerified", avatar_pic, "createAt", "updateAt" FROM users`

	getUserByIDQuery    = selectUserColumns + ` WHERE "userId" = $1`
	getUserByEmailQuery = selectUserColumns + ` WHERE email = $1`
	getUserByPhoneQuery = selectUserColumns + ` WHERE phone = $1`

	insertUserQuery = `
		INSERT INTO users (email, password, "firstName", "lastName", phone, "phoneVerified", "createAt", "updateAt", avatar_pic)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), $3, $4, NULLIF($5, ''), $6, $7, $8, $9)
		RETURNING "userId"
	`
	updateUserQuery = `
		UPDATE users
		SET email = NULLIF($1, ''),
			"firstName" = $2,
			"lastName" = $3,
			phone = NULLIF($4, ''),
			"phoneVerified" = $5,
			"updateAt" = $6,
			avatar_pic = $8,
			password = coalesce(NULLIF($9, ''), password)
		WHERE "userId" = $7
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return r.getOne(getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return r.getOne(getUserByEmailQuery, email)
}

func (r *PostgresRepository) GetByPhone(phone string) (User, error) {
	return r.getOne(getUserByPhoneQuery, phone)
}

func (r *PostgresRepository) getOne(query string, arg any) (User, error) {
	user, err := scanUser(r.db.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) Create(user User) (User, error) {
	var id int
	// avatarPic may be nil
	avatarVal := sql.NullString{}
	if user.AvatarPic != nil {
		avatarVal = sql.NullString{String: *user.AvatarPic, Valid: true}
	}
	err := r.db.QueryRow(
		insertUserQuery,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.PhoneVerified,
		user.CreatedAt,
		user.UpdatedAt,
		avatarVal,
	).Scan(&id)
	if err != nil {
		return User{}, err
	}

	user.ID = id
	return user, nil
}

func (r *PostgresRepository) Update(id int, userUpdate User) (User, error) {
	// a nil avatar must reach the database as NULL, not ""
	var avatarArg any
	if userUpdate.AvatarPic != nil {
		avatarArg = *userUpdate.AvatarPic
	}
	result, err := r.db.Exec(
		updateUserQuery,
		userUpdate.Email,
		userUpdate.FirstName,
		userUpdate.LastName,
		userUpdate.Phone,
		userUpdate.PhoneVerified,
		userUpdate.UpdatedAt,
		id,
		avatarArg,
		userUpdate.Password,
	)
	if err != nil {
		return User{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}

	return r.GetByID(id)
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var avatar sql.NullString
	var createdAt sql.NullString
	var updatedAt sql.NullString

	if err := scanner.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.PhoneVerified,
		&avatar,
		&createdAt,
		&updatedAt,
	); err != nil {
		return User{}, err
	}

	if avatar.Valid {
		user.AvatarPic = &avatar.String
	}
	if createdAt.Valid {
		user.CreatedAt = createdAt.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.String
	}

	return user, nil
}
