package user

import (
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"userId", "email", "password", "firstName", "lastName", "phone", "phoneVerified", "avatar_pic", "createAt", "updateAt"}

func TestPostgresRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE email = $1`)).
		WithArgs("a@b.co").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(4, "a@b.co", "hash", "Asha", "Rao", "", false, nil, "2024-01-01T00:00:00Z", nil))

	u, err := repo.GetByEmail("a@b.co")
	require.NoError(t, err)
	assert.Equal(t, 4, u.ID)
	assert.Nil(t, u.AvatarPic)
	assert.Equal(t, "2024-01-01T00:00:00Z", u.CreatedAt)
	assert.Empty(t, u.UpdatedAt)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE phone = $1`)).
		WithArgs("+1555").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByPhone("+1555")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateAndUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("", "", "", "", "+1555", true, "t0", "t0", nil).
		WillReturnRows(sqlmock.NewRows([]string{"userId"}).AddRow(12))

	created, err := repo.Create(User{Phone: "+1555", PhoneVerified: true, CreatedAt: "t0", UpdatedAt: "t0"})
	require.NoError(t, err)
	assert.Equal(t, 12, created.ID)

	avatar := "/a.png"
	mock.ExpectExec("UPDATE users").
		WithArgs("", "Asha", "", "+1555", true, "t1", 12, avatar, "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE "userId" = $1`)).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(12, "", "", "Asha", "", "+1555", true, avatar, "t0", "t1"))

	updated, err := repo.Update(12, User{FirstName: "Asha", Phone: "+1555", PhoneVerified: true, UpdatedAt: "t1", AvatarPic: &avatar})
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarPic)
	assert.Equal(t, avatar, *updated.AvatarPic)

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = repo.Update(99, User{})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
