package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-api/internal/models"

	"github.com/go-sql-driver/mysql"
)

// MySQL implements UserStore and ProductStore over a *sql.DB.
type MySQL struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

func (s *MySQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *MySQL) CreateUser(ctx context.Context, username, passwordHash string) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user ID: %w", err)
	}
	return int(userID), nil
}

func (s *MySQL) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *MySQL) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *MySQL) CreateProduct(ctx context.Context, p *models.Product) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO products (name, sku, type, description, image_url, quantity, price) VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.Name, p.SKU, p.Type, p.Description, p.ImageURL, p.Quantity, p.Price,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	productID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get product ID: %w", err)
	}
	return int(productID), nil
}

func (s *MySQL) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	return scanProduct(s.db.QueryRowContext(ctx,
		"SELECT id, name, sku, type, description, image_url, quantity, price, created_at FROM products WHERE id = ?",
		id,
	))
}

func (s *MySQL) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, sku, type, description, image_url, quantity, price, created_at
		 FROM products
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read products: %w", err)
	}

	return products, total, nil
}

func (s *MySQL) UpdateQuantity(ctx context.Context, productID, newQuantity int, userID *int) (*models.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// The row lock serializes concurrent updates to the same product, so no
	// two audit rows can record the same old_quantity.
	var oldQuantity int
	err = tx.QueryRowContext(ctx,
		"SELECT quantity FROM products WHERE id = ? FOR UPDATE",
		productID,
	).Scan(&oldQuantity)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE products SET quantity = ? WHERE id = ?",
		newQuantity, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO inventory_updates (product_id, user_id, old_quantity, new_quantity, description) VALUES (?, ?, ?, ?, ?)",
		productID, userID, oldQuantity, newQuantity,
		models.QuantityChangeDescription(oldQuantity, newQuantity),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append inventory update: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quantity update: %w", err)
	}

	return s.GetProductByID(ctx, productID)
}

func (s *MySQL) ListInventoryUpdates(ctx context.Context, productID int) ([]*models.InventoryUpdate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, user_id, old_quantity, new_quantity, description, created_at
		 FROM inventory_updates
		 WHERE product_id = ?
		 ORDER BY created_at ASC, id ASC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory updates: %w", err)
	}
	defer rows.Close()

	updates := make([]*models.InventoryUpdate, 0)
	for rows.Next() {
		var update models.InventoryUpdate
		var userID sql.NullInt64
		var description sql.NullString

		err := rows.Scan(
			&update.ID, &update.ProductID, &userID,
			&update.OldQuantity, &update.NewQuantity, &description, &update.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning inventory update: %w", err)
		}

		if userID.Valid {
			val := int(userID.Int64)
			update.UserID = &val
		}
		update.Description = description.String

		updates = append(updates, &update)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory updates: %w", err)
	}

	return updates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var product models.Product
	var ptype, description, imageURL sql.NullString

	err := row.Scan(
		&product.ID, &product.Name, &product.SKU, &ptype, &description,
		&imageURL, &product.Quantity, &product.Price, &product.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning product: %w", err)
	}

	product.Type = ptype.String
	product.Description = description.String
	product.ImageURL = imageURL.String
	return &product, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
