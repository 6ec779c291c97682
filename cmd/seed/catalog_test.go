package main

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []seedComposer{
	{Name: "Robert Schumann", BirthDate: "1810-06-08", DeathDate: "1856-07-29", Compositions: []seedComposition{
		{Title: "Kinderszenen", Subtitle: "Op. 15", Genre: "Keyboard"},
		{Title: "Carnaval", Subtitle: "Op. 9", Genre: "Keyboard"},
	}},
	{Name: "Anonymous", Compositions: []seedComposition{{Title: "Greensleeves"}}},
}

func TestSeedCatalog_UpsertsInOneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO composers`).
		WithArgs("Robert Schumann", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("k1"))
	mock.ExpectExec(`INSERT INTO compositions`).
		WithArgs("k1", "Kinderszenen", "Op. 15", "Keyboard").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO compositions`).
		WithArgs("k1", "Carnaval", "Op. 9", "Keyboard").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO composers`).
		WithArgs("Anonymous", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("k2"))
	mock.ExpectExec(`ON CONFLICT \(composer_id, title\)`).
		WithArgs("k2", "Greensleeves", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := seedCatalog(context.Background(), db, testCatalog)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCatalog_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO composers`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("k1"))
	mock.ExpectExec(`INSERT INTO compositions`).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err = seedCatalog(context.Background(), db, testCatalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kinderszenen")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNullDate(t *testing.T) {
	assert.True(t, nullDate("1810-06-08").Valid)
	assert.False(t, nullDate("").Valid)
}

func TestCatalog_NoDuplicateTitlesPerComposer(t *testing.T) {
	names := map[string]bool{}
	for _, c := range catalog {
		require.False(t, names[c.Name], c.Name)
		names[c.Name] = true
		titles := map[string]bool{}
		for _, w := range c.Compositions {
			require.False(t, titles[w.Title], w.Title)
			titles[w.Title] = true
		}
	}
}
