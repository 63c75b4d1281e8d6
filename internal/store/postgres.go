package store

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domain "github.com/pricewatch/pricewatch/pkg/types"
)

const defaultPoolSize = 10

// Postgres error codes we translate into sentinel errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
// Monetary columns are NUMERIC and scanned as shopspring decimals via the
// pgx decimal codec, so price comparisons stay exact.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
// A non-positive poolSize falls back to the default.
func NewPostgresStore(
	ctx context.Context,
	connString string,
	poolSize int,
) (*PostgresStore, error) {
	cfg, err := poolConfig(connString, poolSize)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// poolConfig parses the connection string and applies the pool size and the
// decimal codec registration.
func poolConfig(connString string, poolSize int) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	cfg.MaxConns = int32(poolSize)

	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	return cfg, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateUser inserts a new user. Returns ErrAlreadyExists when the username
// or email is taken.
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) error {
	args := pgx.NamedArgs{
		"username": u.Username,
		"email":    u.Email,
		"password": u.Password,
	}

	err := s.pool.QueryRow(ctx, queryCreateUser, args).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %q/%q: %w", u.Username, u.Email, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by its ID.
func (s *PostgresStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, queryGetUserByID, id)
}

// GetUserByEmail retrieves a user by its unique email.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, queryGetUserByEmail, email)
}

// GetUserByUsername retrieves a user by its unique username.
func (s *PostgresStore) GetUserByUsername(
	ctx context.Context,
	username string,
) (*domain.User, error) {
	return s.getUser(ctx, queryGetUserByUsername, username)
}

func (s *PostgresStore) getUser(ctx context.Context, query, key string) (*domain.User, error) {
	u := &domain.User{}
	err := s.pool.QueryRow(ctx, query, key).Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// DeleteUser removes a user, all its products, and their price history in a
// single transaction.
func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning delete user tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, queryDeleteUserHistory, id); err != nil {
		return fmt.Errorf("deleting user price history: %w", err)
	}
	if _, err := tx.Exec(ctx, queryDeleteUserProducts, id); err != nil {
		return fmt.Errorf("deleting user products: %w", err)
	}

	tag, err := tx.Exec(ctx, queryDeleteUser, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %q: %w", id, ErrNotFound)
	}

	return tx.Commit(ctx)
}

// CreateProduct inserts a new product owned by an existing user. Returns
// ErrNotFound when the owning user does not exist.
func (s *PostgresStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	args := pgx.NamedArgs{
		"name":                  p.Name,
		"url":                   p.URL,
		"target_price":          p.TargetPrice,
		"notifications_enabled": p.NotificationsEnabled,
		"user_id":               p.UserID,
	}

	err := s.pool.QueryRow(ctx, queryCreateProduct, args).Scan(&p.ID, &p.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user %q: %w", p.UserID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

// GetProduct retrieves a product by its ID, without history.
func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	err := scanProduct(s.pool.QueryRow(ctx, queryGetProduct, id), p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// ListAllProducts returns every tracked product, for the monitoring sweep.
func (s *PostgresStore) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, queryListAllProducts)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListProducts queries products with optional filters, returning results and
// total count.
func (s *PostgresStore) ListProducts(
	ctx context.Context,
	opts *ProductQuery,
) ([]domain.Product, int, error) {
	if opts == nil {
		opts = &ProductQuery{}
	}
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// UpdateProduct updates a product's editable fields (name, url, target price,
// notification flag). Current price and last-checked are owned by
// UpdateProductPrice and never touched here.
func (s *PostgresStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	args := pgx.NamedArgs{
		"id":                    p.ID,
		"name":                  p.Name,
		"url":                   p.URL,
		"target_price":          p.TargetPrice,
		"notifications_enabled": p.NotificationsEnabled,
	}

	tag, err := s.pool.Exec(ctx, queryUpdateProduct, args)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %q: %w", p.ID, ErrNotFound)
	}
	return nil
}

// DeleteProduct removes a product and its entire price history in a single
// transaction.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning delete product tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, queryDeleteProductHistory, id); err != nil {
		return fmt.Errorf("deleting product price history: %w", err)
	}

	tag, err := tx.Exec(ctx, queryDeleteProduct, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %q: %w", id, ErrNotFound)
	}

	return tx.Commit(ctx)
}

// UpdateProductPrice applies a fetched price to a product in one transaction:
// the product row is locked, a history entry is appended when the committed
// current price is absent or differs from price (exact decimal comparison),
// and current_price/last_checked_at are updated unconditionally. The returned
// product includes its history newest-first.
func (s *PostgresStore) UpdateProductPrice(
	ctx context.Context,
	productID string,
	price decimal.Decimal,
) (*domain.Product, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("beginning price update tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var current *decimal.Decimal
	err = tx.QueryRow(ctx, queryLockProductPrice, productID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("product %q: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, false, fmt.Errorf("locking product: %w", err)
	}

	appended := current == nil || !current.Equal(price)
	if appended {
		var entry domain.PriceHistoryEntry
		err := tx.QueryRow(ctx, queryInsertHistoryEntry, productID, price).
			Scan(&entry.ID, &entry.RecordedAt)
		if err != nil {
			return nil, false, fmt.Errorf("appending price history: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, queryTouchProductPrice, productID, price); err != nil {
		return nil, false, fmt.Errorf("updating product price: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("committing price update: %w", err)
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, appended, err
	}
	product.History, err = s.ListPriceHistory(ctx, productID)
	if err != nil {
		return nil, appended, err
	}

	return product, appended, nil
}

// ListPriceHistory returns a product's price ledger, newest entries first.
func (s *PostgresStore) ListPriceHistory(
	ctx context.Context,
	productID string,
) ([]domain.PriceHistoryEntry, error) {
	rows, err := s.pool.Query(ctx, queryListPriceHistory, productID)
	if err != nil {
		return nil, fmt.Errorf("querying price history: %w", err)
	}
	defer rows.Close()

	var entries []domain.PriceHistoryEntry
	for rows.Next() {
		var e domain.PriceHistoryEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Price, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning price history entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func scanProduct(row scannable, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.URL, &p.CurrentPrice, &p.TargetPrice,
		&p.LastCheckedAt, &p.NotificationsEnabled, &p.UserID, &p.CreatedAt,
	)
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
