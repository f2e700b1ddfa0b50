package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ray-remotestate/burgerhouse/database/dbhelper"
	"github.com/ray-remotestate/burgerhouse/models"
)

type fakeUsers struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]models.AppUser
	passwords map[uuid.UUID]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]models.AppUser{}, passwords: map[uuid.UUID]string{}}
}

func (f *fakeUsers) find(email string) (models.AppUser, bool) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.AppUser{}, false
}

func (f *fakeUsers) IsUserExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.find(email)
	return ok, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, reg models.Registration, hashedPassword string, role models.Role) (models.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.find(reg.Email); ok {
		return models.AppUser{}, dbhelper.ErrUserExists
	}
	u := models.AppUser{
		ID: uuid.New(), Role: role, Email: reg.Email, Name: reg.Name, Surname: reg.Surname,
		Phone: reg.Phone, Address: reg.Address, Card: reg.Card, CreatedAt: time.Now(),
	}
	f.byID[u.ID] = u
	f.passwords[u.ID] = hashedPassword
	return u, nil
}

// GetUserByPassword compares plain text; hashing is covered by the store tests.
func (f *fakeUsers) GetUserByPassword(_ context.Context, email, password string) (models.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.find(email)
	if !ok || f.passwords[u.ID] != password {
		return models.AppUser{}, dbhelper.ErrInvalidCredentials
	}
	return u, nil
}

func (f *fakeUsers) GetProfile(_ context.Context, userID uuid.UUID) (*models.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) UpsertProfile(_ context.Context, userID uuid.UUID, update models.ProfileUpdate) (models.AppUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return models.AppUser{}, dbhelper.ErrUserNotFound
	}
	u = update.Apply(u)
	f.byID[userID] = u
	return u, nil
}

func (f *fakeUsers) add(u models.AppUser, password string) models.AppUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.byID[u.ID] = u
	f.passwords[u.ID] = password
	return u
}

type fakeCatalog struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.MenuItem
}

func newFakeCatalog(items ...models.MenuItem) *fakeCatalog {
	c := &fakeCatalog{items: map[uuid.UUID]models.MenuItem{}}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

func (c *fakeCatalog) ListMenuItems(context.Context) ([]models.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.MenuItem, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *fakeCatalog) GetMenuItem(_ context.Context, id uuid.UUID) (models.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	if !ok {
		return models.MenuItem{}, dbhelper.ErrMenuItemNotFound
	}
	return item, nil
}

func (c *fakeCatalog) CreateMenuItem(_ context.Context, in models.MenuItemInput) (models.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := fromInput(uuid.New(), in)
	c.items[item.ID] = item
	return item, nil
}

func (c *fakeCatalog) UpdateMenuItem(_ context.Context, id uuid.UUID, in models.MenuItemInput) (models.MenuItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return models.MenuItem{}, dbhelper.ErrMenuItemNotFound
	}
	item := fromInput(id, in)
	c.items[id] = item
	return item, nil
}

func (c *fakeCatalog) DeleteMenuItem(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return dbhelper.ErrMenuItemNotFound
	}
	delete(c.items, id)
	return nil
}

func fromInput(id uuid.UUID, in models.MenuItemInput) models.MenuItem {
	return models.MenuItem{
		ID: id, Name: in.Name, Description: in.Description, Price: in.Price, ImageURL: in.ImageURL,
		Category: in.Category, IsAvailable: in.IsAvailable, Options: in.Options, CreatedAt: time.Now(),
	}
}

// memoryOrders keeps orders newest first.
type memoryOrders struct {
	mu     sync.Mutex
	orders []models.Order
}

func (m *memoryOrders) CreateOrder(_ context.Context, draft models.OrderDraft) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := models.Order{
		ID: uuid.New(), UserID: draft.UserID, Customer: draft.Customer, Address: draft.Address,
		CartItems: draft.CartItems, Subtotal: draft.Subtotal, DeliveryFee: draft.DeliveryFee,
		Total: draft.Total(), Status: models.OrderStatusPending, CreatedAt: time.Now(),
	}
	m.orders = append([]models.Order{o}, m.orders...)
	return o.ID, nil
}

func (m *memoryOrders) ListOrdersForUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryOrders) ListAllOrders(context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Order(nil), m.orders...), nil
}

func (m *memoryOrders) GetOrder(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, nil
}

func (m *memoryOrders) SetOrderStatus(_ context.Context, orderID uuid.UUID, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID == orderID {
			m.orders[i].Status = status
			return nil
		}
	}
	return nil
}
