package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type seedComposition struct {
	Title    string
	Subtitle string
	Genre    string
}

type seedComposer struct {
	Name         string
	BirthDate    string
	DeathDate    string
	Compositions []seedComposition
}

var catalog = []seedComposer{
	{Name: "Johann Sebastian Bach", BirthDate: "1685-03-31", DeathDate: "1750-07-28", Compositions: []seedComposition{
		{Title: "Goldberg Variations", Subtitle: "BWV 988", Genre: "Keyboard"},
		{Title: "Mass in B minor", Subtitle: "BWV 232", Genre: "Choral"},
		{Title: "Cello Suite No. 1", Subtitle: "BWV 1007", Genre: "Chamber"},
	}},
	{Name: "Wolfgang Amadeus Mozart", BirthDate: "1756-01-27", DeathDate: "1791-12-05", Compositions: []seedComposition{
		{Title: "Requiem in D minor", Subtitle: "K. 626", Genre: "Choral"},
		{Title: "Symphony No. 41", Subtitle: "K. 551 \"Jupiter\"", Genre: "Symphony"},
		{Title: "Don Giovanni", Subtitle: "K. 527", Genre: "Opera"},
	}},
	{Name: "Ludwig van Beethoven", BirthDate: "1770-12-17", DeathDate: "1827-03-26", Compositions: []seedComposition{
		{Title: "Symphony No. 9", Subtitle: "Op. 125", Genre: "Symphony"},
		{Title: "Piano Sonata No. 14", Subtitle: "Op. 27 No. 2 \"Moonlight\"", Genre: "Keyboard"},
		{Title: "String Quartet No. 14", Subtitle: "Op. 131", Genre: "Chamber"},
	}},
	{Name: "Robert Schumann", BirthDate: "1810-06-08", DeathDate: "1856-07-29", Compositions: []seedComposition{
		{Title: "Kinderszenen", Subtitle: "Op. 15", Genre: "Keyboard"},
		{Title: "Piano Concerto in A minor", Subtitle: "Op. 54", Genre: "Concerto"},
	}},
	{Name: "Clara Schumann", BirthDate: "1819-09-13", DeathDate: "1896-05-20", Compositions: []seedComposition{
		{Title: "Piano Trio in G minor", Subtitle: "Op. 17", Genre: "Chamber"},
		{Title: "Piano Concerto in A minor", Subtitle: "Op. 7", Genre: "Concerto"},
	}},
	{Name: "Johannes Brahms", BirthDate: "1833-05-07", DeathDate: "1897-04-03", Compositions: []seedComposition{
		{Title: "Ein deutsches Requiem", Subtitle: "Op. 45", Genre: "Choral"},
		{Title: "Symphony No. 4", Subtitle: "Op. 98", Genre: "Symphony"},
	}},
	{Name: "Claude Debussy", BirthDate: "1862-08-22", DeathDate: "1918-03-25", Compositions: []seedComposition{
		{Title: "La mer", Genre: "Orchestral"},
		{Title: "Clair de lune", Subtitle: "Suite bergamasque", Genre: "Keyboard"},
	}},
}

const upsertComposer = `
	INSERT INTO composers (name, birth_date, death_date)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE SET birth_date = EXCLUDED.birth_date, death_date = EXCLUDED.death_date
	RETURNING id`

const upsertComposition = `
	INSERT INTO compositions (composer_id, title, subtitle, genre)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (composer_id, title) DO UPDATE SET subtitle = EXCLUDED.subtitle, genre = EXCLUDED.genre`

// seedCatalog upserts every composer and composition in one transaction.
// Aggregates are never touched, so re-running keeps existing review data.
func seedCatalog(ctx context.Context, db *sql.DB, composers []seedComposer) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	n := 0
	for _, c := range composers {
		var id string
		if err := tx.QueryRowContext(ctx, upsertComposer, c.Name, nullDate(c.BirthDate), nullDate(c.DeathDate)).Scan(&id); err != nil {
			return 0, fmt.Errorf("upsert composer %q: %w", c.Name, err)
		}
		for _, w := range c.Compositions {
			if _, err := tx.ExecContext(ctx, upsertComposition, id, w.Title, w.Subtitle, w.Genre); err != nil {
				return 0, fmt.Errorf("upsert composition %q: %w", w.Title, err)
			}
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func nullDate(s string) sql.NullTime {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
