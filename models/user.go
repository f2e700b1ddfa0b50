package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// AdminEmailSuffix marks accounts that are created with the admin role.
const AdminEmailSuffix = "@admin.com"

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ClassifyRole derives the role of a new account from its email address.
// It is called once, at registration; stored roles are never re-derived.
func ClassifyRole(email string) Role {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), AdminEmailSuffix) {
		return RoleAdmin
	}
	return RoleUser
}

// Card holds demo payment fields. Nothing is charged against them.
type Card struct {
	CardNumber string `json:"cardNumber"`
	CardExpiry string `json:"cardExpiry"`
	CardCvv    string `json:"cardCvv"`
}

type AppUser struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Role      Role      `db:"role" json:"role"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	Card      Card      `db:"-" json:"card"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (u AppUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Registration is the input of account creation.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Card     Card   `json:"card"`
}

// Normalize trims every text field except the password.
func (r *Registration) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.Card = r.Card.trimmed()
}

func (r Registration) Validate() error {
	if r.Email == "" || strings.TrimSpace(r.Password) == "" {
		return &ValidationError{Field: "email", Message: "enter email and password"}
	}
	if !IsEmail(r.Email) {
		return &ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	if !MinLen(r.Password, 6) {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	if r.Name == "" || r.Surname == "" {
		return &ValidationError{Field: "name", Message: "enter name and surname"}
	}
	return nil
}

// ProfileUpdate is a partial profile change; nil fields are left untouched.
// Role and email are not part of it.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Surname *string `json:"surname,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Card    *Card   `json:"card,omitempty"`
}

// Normalize trims every set field.
func (p *ProfileUpdate) Normalize() {
	for _, f := range []*string{p.Name, p.Surname, p.Phone, p.Address} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if p.Card != nil {
		card := p.Card.trimmed()
		p.Card = &card
	}
}

// Apply returns u with the non-nil fields of p written over it.
func (p ProfileUpdate) Apply(u AppUser) AppUser {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Surname != nil {
		u.Surname = strings.TrimSpace(*p.Surname)
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		u.Address = strings.TrimSpace(*p.Address)
	}
	if p.Card != nil {
		u.Card = p.Card.trimmed()
	}
	return u
}

func (c Card) trimmed() Card {
	return Card{
		CardNumber: strings.TrimSpace(c.CardNumber),
		CardExpiry: strings.TrimSpace(c.CardExpiry),
		CardCvv:    strings.TrimSpace(c.CardCvv),
	}
}
