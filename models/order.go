package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
)

func (s OrderStatus) IsValid() bool {
	return s == OrderStatusPending || s == OrderStatusPreparing || s == OrderStatusDelivered
}

// Advance returns the next status. Delivered is terminal and advances to
// itself. A missing status is read as pending.
func (s OrderStatus) Advance() OrderStatus {
	switch s {
	case OrderStatusPending, "":
		return OrderStatusPreparing
	default:
		return OrderStatusDelivered
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

type Customer struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func CustomerFromUser(u AppUser) Customer {
	return Customer{Name: u.Name, Surname: u.Surname, Phone: u.Phone, Email: u.Email}
}

// Order is a checkout snapshot. Subtotal, DeliveryFee and Total are fixed when
// the order is created; Status is the only field that changes afterwards.
type Order struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"userId"`
	Customer    Customer        `db:"-" json:"customer"`
	Address     string          `db:"address" json:"address"`
	CartItems   []CartItem      `db:"cart_items" json:"cartItems"`
	Subtotal    decimal.Decimal `db:"subtotal" json:"subtotal"`
	DeliveryFee decimal.Decimal `db:"delivery_fee" json:"deliveryFee"`
	Total       decimal.Decimal `db:"total" json:"total"`
	Status      OrderStatus     `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
}

// OrderDraft is what checkout hands to the order store. The store assigns
// the id, the pending status, the total and the creation time.
type OrderDraft struct {
	UserID      uuid.UUID
	Customer    Customer
	Address     string
	CartItems   []CartItem
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
}

func (d OrderDraft) Total() decimal.Decimal {
	return d.Subtotal.Add(d.DeliveryFee)
}

// DashboardStats summarises all orders for the admin dashboard.
type DashboardStats struct {
	TotalOrders  int               `json:"totalOrders"`
	TotalRevenue decimal.Decimal   `json:"totalRevenue"`
	RecentTotals []decimal.Decimal `json:"recentTotals"`
}
