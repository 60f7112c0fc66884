package gorm

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/foodgram/v2/internal/domain/catalog"
	"github.com/foodgram/v2/internal/ports/outbound"
	"gorm.io/gorm"
)

// ProductRepository implements outbound.ProductRepository using GORM
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new GORM product repository
func NewProductRepository(db *gorm.DB) outbound.ProductRepository {
	return &ProductRepository{db: db}
}

// Create persists a master catalog entry
func (r *ProductRepository) Create(ctx context.Context, product catalog.Product) error {
	model := &ProductModel{ID: product.ID, Title: product.Title, Unit: product.Unit}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByTitle retrieves a product by exact title, (nil, nil) when absent
func (r *ProductRepository) FindByTitle(ctx context.Context, title string) (*catalog.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, "title = ?", title).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &catalog.Product{ID: model.ID, Title: model.Title, Unit: model.Unit}, nil
}

// SearchByPrefix returns products whose title starts with the prefix,
// ordered by title. Backs the ingredient typeahead.
func (r *ProductRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]catalog.Product, error) {
	var models []ProductModel
	q := r.db.WithContext(ctx).
		Where("title LIKE ?", escapeLike(prefix)+"%").
		Order("title ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	products := make([]catalog.Product, 0, len(models))
	for _, m := range models {
		products = append(products, catalog.Product{ID: m.ID, Title: m.Title, Unit: m.Unit})
	}
	return products, nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied prefixes
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// TagRepository implements outbound.TagRepository using GORM
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new GORM tag repository
func NewTagRepository(db *gorm.DB) outbound.TagRepository {
	return &TagRepository{db: db}
}

// Create persists a tag
func (r *TagRepository) Create(ctx context.Context, tag catalog.Tag) error {
	model := &TagModel{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// All returns every tag ordered by name
func (r *TagRepository) All(ctx context.Context) ([]catalog.Tag, error) {
	var models []TagModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tagsFromModels(models), nil
}

// FindBySlugs returns the tags matching the given slugs
func (r *TagRepository) FindBySlugs(ctx context.Context, slugs []string) ([]catalog.Tag, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var models []TagModel
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	return tagsFromModels(models), nil
}

func tagsFromModels(models []TagModel) []catalog.Tag {
	tags := make([]catalog.Tag, 0, len(models))
	for _, m := range models {
		tags = append(tags, catalog.Tag{ID: m.ID, Name: m.Name, Slug: m.Slug})
	}
	return tags
}
