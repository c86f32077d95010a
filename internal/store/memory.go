package store

import (
	"context"
	"sync"
	"time"

	"inventory-api/internal/models"
)

// Memory is an in-memory store used by tests. A single mutex stands in for
// the row-level locking the MySQL implementation gets from the database.
type Memory struct {
	mu            sync.Mutex
	users         map[int]*models.User
	products      map[int]*models.Product
	updates       []*models.InventoryUpdate
	lastUserID    int
	lastProductID int
	lastUpdateID  int
	insertOrder   []int
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[int]*models.User),
		products: make(map[int]*models.Product),
	}
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) CreateUser(ctx context.Context, username, passwordHash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return 0, ErrDuplicate
		}
	}

	m.lastUserID++
	m.users[m.lastUserID] = &models.User{
		ID:           m.lastUserID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	return m.lastUserID, nil
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) CreateProduct(ctx context.Context, p *models.Product) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.products {
		if existing.SKU == p.SKU {
			return 0, ErrDuplicate
		}
	}

	m.lastProductID++
	stored := *p
	stored.ID = m.lastProductID
	stored.CreatedAt = time.Now()
	m.products[stored.ID] = &stored
	m.insertOrder = append(m.insertOrder, stored.ID)
	return stored.ID, nil
}

func (m *Memory) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProduct(p), nil
}

func (m *Memory) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := len(m.insertOrder)

	// Insertion order doubles as creation order, so newest-first is the
	// reverse of insertOrder.
	page := make([]*models.Product, 0)
	for i := total - 1 - offset; i >= 0 && len(page) < limit; i-- {
		page = append(page, cloneProduct(m.products[m.insertOrder[i]]))
	}
	return page, total, nil
}

func (m *Memory) UpdateQuantity(ctx context.Context, productID, newQuantity int, userID *int) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return nil, ErrNotFound
	}

	oldQuantity := p.Quantity
	p.Quantity = newQuantity

	m.lastUpdateID++
	m.updates = append(m.updates, &models.InventoryUpdate{
		ID:          m.lastUpdateID,
		ProductID:   productID,
		UserID:      userID,
		OldQuantity: oldQuantity,
		NewQuantity: newQuantity,
		Description: models.QuantityChangeDescription(oldQuantity, newQuantity),
		CreatedAt:   time.Now(),
	})

	return cloneProduct(p), nil
}

func (m *Memory) ListInventoryUpdates(ctx context.Context, productID int) ([]*models.InventoryUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	updates := make([]*models.InventoryUpdate, 0)
	for _, u := range m.updates {
		if u.ProductID == productID {
			copied := *u
			updates = append(updates, &copied)
		}
	}
	return updates, nil
}

func cloneUser(u *models.User) *models.User {
	copied := *u
	return &copied
}

func cloneProduct(p *models.Product) *models.Product {
	copied := *p
	return &copied
}
