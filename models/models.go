package models

import "time"

// CustomizationOption is a single selectable option with a price delta.
type CustomizationOption struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
}

// CustomizationGroup is a named, ordered group of options on a food item.
type CustomizationGroup struct {
	Name    string                `json:"name" bson:"name"`
	Options []CustomizationOption `json:"options" bson:"options"`
}

type FoodItem struct {
	FoodID         string               `json:"foodId" bson:"foodid"`
	Name           string               `json:"name" bson:"name"`
	Description    string               `json:"description" bson:"description"`
	Price          float64              `json:"price" bson:"price"`
	Image          string               `json:"image" bson:"image"`
	Category       string               `json:"category" bson:"category"`
	InStock        bool                 `json:"inStock" bson:"inStock"`
	Customizations []CustomizationGroup `json:"customizations" bson:"customizations"`
}

// Categories is the fixed set of storefront categories.
var Categories = []string{
	"Salad", "Rolls", "Deserts", "Sandwich", "Cake", "Pure Veg", "Pasta", "Noodles",
}

type User struct {
	UserID    string         `json:"userId" bson:"userid"`
	Name      string         `json:"name" bson:"name"`
	Email     string         `json:"email" bson:"email"`
	Password  string         `json:"-" bson:"password"`
	Avatar    string         `json:"avatar" bson:"avatar"`
	Role      []string       `json:"role" bson:"role"`
	Cart      map[string]int `json:"cartData" bson:"cart"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	LastLogin time.Time      `json:"-" bson:"last_login,omitempty"`
}

type PromoCode struct {
	Code               string    `json:"code" bson:"code"`
	DiscountPercentage int       `json:"discountPercentage" bson:"discountPercentage"`
	MaxUses            int       `json:"maxUses" bson:"maxUses"`
	UsedCount          int       `json:"usedCount" bson:"usedCount"`
	ValidUntil         time.Time `json:"validUntil" bson:"validUntil"`
	IsActive           bool      `json:"isActive" bson:"isActive"`
	Description        string    `json:"description" bson:"description"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
}

type Banner struct {
	BannerID  string    `json:"bannerId" bson:"bannerid"`
	Title     string    `json:"title" bson:"title"`
	Subtitle  string    `json:"subtitle" bson:"subtitle"`
	Image     string    `json:"image" bson:"image"`
	Link      string    `json:"link" bson:"link"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// OrderItem is a snapshot of a food item at placement time. Later catalog
// edits never change it.
type OrderItem struct {
	Name           string            `json:"name" bson:"name"`
	Price          float64           `json:"price" bson:"price"`
	Quantity       int               `json:"quantity" bson:"quantity"`
	Customizations map[string]string `json:"customizations,omitempty" bson:"customizations,omitempty"`
}

type Address struct {
	Name     string `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" bson:"email" validate:"required,email"`
	Phone    string `json:"phone" bson:"phone" validate:"required"`
	Location string `json:"location" bson:"location" validate:"required"`
}

type Order struct {
	OrderID        string      `json:"orderId" bson:"orderid"`
	UserID         string      `json:"userId" bson:"userid"`
	Items          []OrderItem `json:"items" bson:"items"`
	Amount         float64     `json:"amount" bson:"amount"`
	Address        Address     `json:"address" bson:"address"`
	PromoCode      string      `json:"promoCode,omitempty" bson:"promoCode,omitempty"`
	Payment        bool        `json:"payment" bson:"payment"`
	Status         string      `json:"status" bson:"status"`
	Reference      string      `json:"reference,omitempty" bson:"reference,omitempty"`
	IdempotencyKey string      `json:"-" bson:"idempotencyKey,omitempty"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
}

// IdempotencyRecord caches a mutating response keyed by a client token.
type IdempotencyRecord struct {
	Key         string         `bson:"key"`
	Method      string         `bson:"method"`
	Path        string         `bson:"path"`
	UserID      string         `bson:"user_id"`
	RequestHash string         `bson:"request_hash"`
	Response    map[string]any `bson:"response,omitempty"`
	CreatedAt   time.Time      `bson:"created_at"`
	ExpiresAt   time.Time      `bson:"expires_at"`
}

// OrderEvent travels over the Redis order-events channel and the admin
// websocket feed.
type OrderEvent struct {
	Kind    string `json:"kind"` // "placed", "paid", "status"
	OrderID string `json:"orderId"`
	Status  string `json:"status,omitempty"`
}
