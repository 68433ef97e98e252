package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DefaultPriceTier is the published price tier read when none is configured.
const DefaultPriceTier = "standard"

const selectPublishedCosts = `
SELECT box_sku, country_code, carrier, tariff_class, weight_bracket, is_pallet,
       box_material_cost, box_pick_cost, box_pack_cost, transport_cost, total_cost
FROM published_box_costs
WHERE price_tier = $1`

// costRow is one row of the published cost table.
type costRow struct {
	BoxSKU          string          `db:"box_sku"`
	CountryCode     string          `db:"country_code"`
	Carrier         sql.NullString  `db:"carrier"`
	TariffClass     sql.NullString  `db:"tariff_class"`
	WeightBracket   sql.NullString  `db:"weight_bracket"`
	IsPallet        sql.NullBool    `db:"is_pallet"`
	BoxMaterialCost sql.NullFloat64 `db:"box_material_cost"`
	BoxPickCost     sql.NullFloat64 `db:"box_pick_cost"`
	BoxPackCost     sql.NullFloat64 `db:"box_pack_cost"`
	TransportCost   sql.NullFloat64 `db:"transport_cost"`
	TotalCost       sql.NullFloat64 `db:"total_cost"`
}

var errIncompleteCostRow = errors.New("cost row has no total cost")

func (r costRow) toEntry() (model.CostEntry, error) {
	if !r.TotalCost.Valid {
		return model.CostEntry{}, errIncompleteCostRow
	}
	entry := model.CostEntry{
		BoxSKU:          r.BoxSKU,
		CountryCode:     strings.ToUpper(strings.TrimSpace(r.CountryCode)),
		Carrier:         r.Carrier.String,
		TariffClass:     r.TariffClass.String,
		IsPallet:        r.IsPallet.Bool,
		BoxMaterialCost: r.BoxMaterialCost.Float64,
		BoxPickCost:     r.BoxPickCost.Float64,
		BoxPackCost:     r.BoxPackCost.Float64,
		TransportCost:   r.TransportCost.Float64,
		TotalCost:       r.TotalCost.Float64,
	}
	if r.WeightBracket.Valid && r.WeightBracket.String != "" {
		bracket := r.WeightBracket.String
		entry.WeightBracket = &bracket
	}
	return entry, nil
}

// CostStore reads the published box cost table.
type CostStore struct {
	db        *sqlx.DB
	priceTier string
}

// NewCostStore creates a cost store reading the given price tier.
func NewCostStore(db *sqlx.DB, priceTier string) *CostStore {
	if priceTier == "" {
		priceTier = DefaultPriceTier
	}
	return &CostStore{db: db, priceTier: priceTier}
}

// ConnectCostDB opens the cost database, retrying with backoff while it starts up.
func ConnectCostDB(dsn string) (*sqlx.DB, error) {
	const (
		maxAttempts = 5
		baseDelay   = 500 * time.Millisecond
	)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := sqlx.Open("postgres", dsn)
		if err != nil {
			lastErr = err
			sleepWithBackoff(attempt, baseDelay)
			continue
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			return db, nil
		}
		_ = db.Close()
		sleepWithBackoff(attempt, baseDelay)
	}
	return nil, fmt.Errorf("failed to connect to cost database after %d attempts: %w", maxAttempts, lastErr)
}

func sleepWithBackoff(attempt int, base time.Duration) {
	d := base << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	time.Sleep(d)
}

// LoadCosts reads every published cost entry of the price tier. Rows without a
// total cost are rejected and logged.
func (s *CostStore) LoadCosts(ctx context.Context) ([]model.CostEntry, error) {
	var rows []costRow
	if err := s.db.SelectContext(ctx, &rows, selectPublishedCosts, s.priceTier); err != nil {
		return nil, fmt.Errorf("select published costs: %w", err)
	}

	entries := make([]model.CostEntry, 0, len(rows))
	rejected := 0
	for _, row := range rows {
		entry, err := row.toEntry()
		if err != nil {
			rejected++
			log.Warn().
				Str("box_sku", row.BoxSKU).
				Str("country", row.CountryCode).
				Err(err).
				Msg("Rejected cost row")
			continue
		}
		entries = append(entries, entry)
	}
	if rejected > 0 {
		log.Warn().Int("rejected", rejected).Int("loaded", len(entries)).Msg("Cost table contains incomplete rows")
	}
	return entries, nil
}

// HealthCheck verifies the cost database is reachable.
func (s *CostStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close closes the cost database.
func (s *CostStore) Close() error {
	return s.db.Close()
}
