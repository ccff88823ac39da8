package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// RatesSchema creates the tables read by LoadConversionTableSQL.
const RatesSchema = `
CREATE TABLE IF NOT EXISTS currencies (code TEXT PRIMARY KEY);
CREATE TABLE IF NOT EXISTS rates (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	rate   TEXT NOT NULL,
	PRIMARY KEY (source, target)
);`

// LoadConversionTableSQL reads currencies and rates from db.
// Rates are stored as text so no precision is lost in the driver.
func LoadConversionTableSQL(ctx context.Context, db *sql.DB) (*ConversionTable, error) {
	table := NewConversionTable()

	codes, err := db.QueryContext(ctx, `SELECT code FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("querying currencies: %w", err)
	}
	defer codes.Close()
	for codes.Next() {
		var code string
		if err := codes.Scan(&code); err != nil {
			return nil, err
		}
		if err := table.AddCurrency(code); err != nil {
			return nil, err
		}
	}
	if err := codes.Err(); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT source, target, rate FROM rates`)
	if err != nil {
		return nil, fmt.Errorf("querying rates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var from, to, raw string
		if err := rows.Scan(&from, &to, &raw); err != nil {
			return nil, err
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("rate %s/%s: %w", from, to, err)
		}
		if err := table.SetRate(from, to, rate); err != nil {
			return nil, err
		}
	}
	return table, rows.Err()
}

// StoreConversionTableSQL writes table into db, creating the schema if needed.
func StoreConversionTableSQL(ctx context.Context, db *sql.DB, table *ConversionTable) error {
	if _, err := db.ExecContext(ctx, RatesSchema); err != nil {
		return fmt.Errorf("creating rates schema: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, code := range table.Currencies() {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO currencies (code) VALUES (?)`, code); err != nil {
			return err
		}
	}
	for _, p := range table.Pairs() {
		rate, _ := table.Rate(p.From, p.To)
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO rates (source, target, rate) VALUES (?, ?, ?)`,
			p.From, p.To, rate.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}
