package tally

import (
	"context"
	"database/sql"

	"github.com/funvibe/tally/internal/config"
	_ "modernc.org/sqlite"
)

// SQLiteDriver is the database/sql driver name registered by this package.
const SQLiteDriver = "sqlite"

// LoadRates reads a YAML conversion table.
func LoadRates(path string) (*ConversionTable, error) {
	return config.LoadConversionTable(path)
}

// RatesFromDB reads a conversion table from db. See config.RatesSchema for the tables.
func RatesFromDB(ctx context.Context, db *sql.DB) (*ConversionTable, error) {
	return config.LoadConversionTableSQL(ctx, db)
}

// OpenRates reads a conversion table from the SQLite database at dsn.
func OpenRates(ctx context.Context, dsn string) (*ConversionTable, error) {
	db, err := sql.Open(SQLiteDriver, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return RatesFromDB(ctx, db)
}

// SaveRates writes table into the SQLite database at dsn.
func SaveRates(ctx context.Context, dsn string, table *ConversionTable) error {
	db, err := sql.Open(SQLiteDriver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return config.StoreConversionTableSQL(ctx, db, table)
}
