package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lymstore/storefront/internal/domain"
)

// Repository handles database operations for catalog products
type Repository interface {
	// FindByIDs batch-loads products keyed by id; unknown ids are simply absent
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)

	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List retrieves products with filtering, sorting and pagination
	List(ctx context.Context, filter ListFilter) ([]domain.Product, int64, error)

	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product and detaches it from historical order items
	Delete(ctx context.Context, id int64) error

	// DecrementStock subtracts qty only if at least qty units are on hand
	DecrementStock(ctx context.Context, id int64, qty int) error

	// AdjustStock applies a signed delta, refusing to go below zero, and returns the new stock
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)
}

// ListFilter narrows a product listing. A zero PageSize returns every match.
type ListFilter struct {
	OnlyEnabled bool
	Query       string
	Category    string
	Sort        string
	Order       string
	Page        int
	PageSize    int
}

// whitelist allowed sort columns to avoid SQL injection
var sortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"base_price": "base_price",
	"stock":      "stock",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based product repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	result := make(map[int64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, domain.DatabaseError(err, "failed to query products")
	}
	for i := range rows {
		result[rows[i].ID] = &rows[i]
	}
	return result, nil
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("product %d not found", id)
	} else if err != nil {
		return nil, domain.DatabaseError(err, "failed to query product")
	}
	return &p, nil
}

func (r *GormRepository) List(ctx context.Context, filter ListFilter) ([]domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if filter.OnlyEnabled {
		query = query.Where("enabled = ?", true)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		if strings.EqualFold(r.db.Name(), "postgres") {
			query = query.Where("name ILIKE ?", "%"+q+"%")
		} else {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		// category is a JSON array of labels; match the quoted label
		query = query.Where("category LIKE ?", `%"`+c+`"%`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.DatabaseError(err, "failed to count products")
	}

	sortCol, ok := sortColumns[filter.Sort]
	if !ok {
		sortCol = "id"
	}
	order := strings.ToUpper(strings.TrimSpace(filter.Order))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	query = query.Order(sortCol + " " + order)
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []domain.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, domain.DatabaseError(err, "failed to query products")
	}
	return rows, total, nil
}

func (r *GormRepository) Create(ctx context.Context, p *domain.Product) error {
	if err := Validate(p); err != nil {
		return err
	}
	p.ApplyDefaults()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return domain.DatabaseError(err, "failed to create product")
	}
	return nil
}

func (r *GormRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := Validate(p); err != nil {
		return err
	}
	p.ApplyDefaults()
	p.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", p.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(p)
	if res.Error != nil {
		return domain.DatabaseError(res.Error, "failed to update product")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("product %d not found", p.ID)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.OrderItem{}).
			Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return domain.DatabaseError(err, "failed to detach order items")
		}
		res := tx.Delete(&domain.Product{}, id)
		if res.Error != nil {
			return domain.DatabaseError(res.Error, "failed to delete product")
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("product %d not found", id)
		}
		return nil
	})
}

func (r *GormRepository) DecrementStock(ctx context.Context, id int64, qty int) error {
	if qty <= 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return domain.DatabaseError(res.Error, "failed to update stock")
	}
	if res.RowsAffected == 0 {
		// stock changed since it was read
		var p domain.Product
		if err := r.db.WithContext(ctx).Select("id", "name", "stock").First(&p, id).Error; err != nil {
			return domain.InsufficientStock(id, "", 0)
		}
		return domain.InsufficientStock(p.ID, p.Name, p.Stock)
	}
	return nil
}

func (r *GormRepository) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	var newStock int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Product
		err := tx.Select("id", "name", "stock").First(&p, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("product %d not found", id)
		} else if err != nil {
			return domain.DatabaseError(err, "failed to query product")
		}
		if p.Stock+delta < 0 {
			return domain.InvalidInput("stock cannot go below zero (current %d, change %d)", p.Stock, delta)
		}
		res := tx.Model(&domain.Product{}).
			Where("id = ? AND stock + ? >= 0", id, delta).
			Updates(map[string]interface{}{
				"stock":      gorm.Expr("stock + ?", delta),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return domain.DatabaseError(res.Error, "failed to update stock")
		}
		if res.RowsAffected == 0 {
			return domain.InvalidInput("stock cannot go below zero")
		}
		var after domain.Product
		if err := tx.Select("id", "stock").First(&after, id).Error; err != nil {
			return domain.DatabaseError(err, "failed to read stock")
		}
		newStock = after.Stock
		return nil
	})
	return newStock, err
}

// Validate checks the invariants every stored product must hold.
func Validate(p *domain.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return domain.InvalidInput("name is required")
	case p.BasePrice.IsNegative():
		return domain.InvalidInput("base price cannot be negative")
	case p.SalePrice.Valid && p.SalePrice.Decimal.IsNegative():
		return domain.InvalidInput("sale price cannot be negative")
	case p.Taxes.IsNegative():
		return domain.InvalidInput("tax rate cannot be negative")
	case p.Stock < 0:
		return domain.InvalidInput("stock cannot be negative")
	case p.ProductionTimeHours < 0:
		return domain.InvalidInput("production time cannot be negative")
	case p.MaxPurchaseQuantity != nil && *p.MaxPurchaseQuantity < p.MinPurchaseQuantity:
		return domain.InvalidInput("max purchase quantity is below the minimum")
	case p.Status != "" && !p.Status.Valid():
		return domain.InvalidInput("invalid status %q", p.Status)
	}
	return nil
}
