package repository

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TicketPriceRepository is the pricing lookup boundary: price per seat
// category for a show time.
type TicketPriceRepository interface {
	FindByShowTimeID(ctx context.Context, showTimeID uuid.UUID) (map[entity.SeatCategory]int64, error)
}

type ticketPriceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketPriceRepository(db database.PgxIface, log *zap.Logger) TicketPriceRepository {
	return &ticketPriceRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket_price")),
	}
}

func (r *ticketPriceRepository) FindByShowTimeID(ctx context.Context, showTimeID uuid.UUID) (map[entity.SeatCategory]int64, error) {
	query := `
		SELECT category, amount
		FROM ticket_prices
		WHERE show_time_id = $1
	`

	rows, err := r.db.Query(ctx, query, showTimeID)
	if err != nil {
		r.log.Error("Failed to find ticket prices by show time",
			zap.Error(err),
			zap.String("show_time_id", showTimeID.String()),
		)
		return nil, fmt.Errorf("find ticket prices for show time %s: %w", showTimeID.String(), err)
	}
	defer rows.Close()

	prices := make(map[entity.SeatCategory]int64)
	for rows.Next() {
		var category entity.SeatCategory
		var amount int64
		if err := rows.Scan(&category, &amount); err != nil {
			r.log.Error("Failed to scan ticket price row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket price row: %w", err)
		}
		prices[category] = amount
	}

	return prices, nil
}
