package repository

import (
	"context"
	"fmt"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TheaterMovieRepository interface {
	FindByTheaterAndMovie(ctx context.Context, theaterID, movieID uuid.UUID) (*entity.TheaterMovie, error)
}

type theaterMovieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTheaterMovieRepository(db database.PgxIface, log *zap.Logger) TheaterMovieRepository {
	return &theaterMovieRepository{
		db:  db,
		log: log.With(zap.String("repository", "theater_movie")),
	}
}

func (r *theaterMovieRepository) FindByTheaterAndMovie(ctx context.Context, theaterID, movieID uuid.UUID) (*entity.TheaterMovie, error) {
	query := `
		SELECT id, theater_id, movie_id, run_start, run_end, created_at
		FROM theater_movies
		WHERE theater_id = $1 AND movie_id = $2
	`

	var tm entity.TheaterMovie
	err := r.db.QueryRow(ctx, query, theaterID, movieID).Scan(
		&tm.ID,
		&tm.TheaterID,
		&tm.MovieID,
		&tm.RunStart,
		&tm.RunEnd,
		&tm.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater movie link",
			zap.Error(err),
			zap.String("theater_id", theaterID.String()),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find theater movie link %s/%s: %w", theaterID.String(), movieID.String(), err)
	}

	return &tm, nil
}
