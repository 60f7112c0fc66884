// Package gorm provides GORM-based implementations of the outbound
// repository ports.
package gorm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserModel represents a user account row
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null;size:150"`
	Email        string    `gorm:"uniqueIndex;not null;size:254"`
	PasswordHash string    `gorm:"not null"`
	Superuser    bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for UserModel
func (UserModel) TableName() string { return "users" }

// BeforeCreate sets the ID if not already set
func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ProductModel represents a master ingredient catalog row
type ProductModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"uniqueIndex;not null;size:200"`
	Unit      string    `gorm:"not null;size:64"`
	CreatedAt time.Time
}

// TableName returns the table name for ProductModel
func (ProductModel) TableName() string { return "products" }

// BeforeCreate sets the ID if not already set
func (m *ProductModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TagModel represents a tag row
type TagModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"uniqueIndex;not null;size:64"`
	Slug string    `gorm:"uniqueIndex;not null;size:64"`
}

// TableName returns the table name for TagModel
func (TagModel) TableName() string { return "tags" }

// BeforeCreate sets the ID if not already set
func (m *TagModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// RecipeModel represents a recipe row
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null;size:200"`
	Description string    `gorm:"type:text"`
	CookTime    int       `gorm:"not null"`
	Image       string    `gorm:"size:500"`
	Slug        string    `gorm:"uniqueIndex;not null;size:220"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	Author      UserModel         `gorm:"foreignKey:AuthorID"`
	Ingredients []IngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags        []TagModel        `gorm:"many2many:recipe_tags;joinForeignKey:RecipeID;joinReferences:TagID"`
}

// TableName returns the table name for RecipeModel
func (RecipeModel) TableName() string { return "recipes" }

// BeforeCreate sets the ID if not already set
func (m *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IngredientModel represents one ingredient line of a recipe. Amounts are
// stored as numeric so aggregation never loses precision.
type IngredientModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,3);not null"`

	Product ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for IngredientModel
func (IngredientModel) TableName() string { return "ingredients" }

// BeforeCreate sets the ID if not already set
func (m *IngredientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// FavoriteModel represents a user-favorites-recipe pair. The composite
// primary key is the uniqueness guarantee concurrent toggles rely on.
type FavoriteModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

// TableName returns the table name for FavoriteModel
func (FavoriteModel) TableName() string { return "favorites" }

// PurchaseModel represents a user-purchases-recipe pair with the same
// composite-key uniqueness guarantee as FavoriteModel.
type PurchaseModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

// TableName returns the table name for PurchaseModel
func (PurchaseModel) TableName() string { return "purchases" }

// SubscriptionModel represents a user-follows-author pair
type SubscriptionModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	AuthorID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time
}

// TableName returns the table name for SubscriptionModel
func (SubscriptionModel) TableName() string { return "subscriptions" }

// AllModels returns every model for migration registration
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&ProductModel{},
		&TagModel{},
		&RecipeModel{},
		&IngredientModel{},
		&FavoriteModel{},
		&PurchaseModel{},
		&SubscriptionModel{},
	}
}
