package repository

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/cooleo273/ecommerce-platform/internal/config"

	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Repository bundles the database handle with the typed repositories built
// on top of it.
type Repository struct {
	DB       *sql.DB
	User     UserRepository
	Catalog  CatalogRepository
	Cart     CartRepository
	Order    OrderRepository
	Address  AddressRepository
	Wishlist WishlistRepository
}

func New(cfg *config.Config) (*Repository, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		DB:       db,
		User:     NewUserRepo(db),
		Catalog:  NewCatalogRepo(db),
		Cart:     NewCartRepo(db),
		Order:    NewOrderRepo(db),
		Address:  NewAddressRepo(db),
		Wishlist: NewWishlistRepo(db),
	}, nil
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
