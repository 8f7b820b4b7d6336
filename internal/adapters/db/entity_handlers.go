// internal/adapters/db/entity_handlers.go

// Entity handlers implement registry.EntityHandler for the syncable tables.
// Each handler owns the SQL for its table; the replay and download engines
// drive them through the registry without knowing any table names.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// categoryHandler syncs the categories table
type categoryHandler struct{}

// NewCategoryHandler creates the category entity handler
func NewCategoryHandler() registry.EntityHandler { return categoryHandler{} }

func (categoryHandler) Name() string { return "category" }

func (categoryHandler) Schema() registry.Schema {
	return registry.Schema{
		TextFields:   []registry.FieldSpec{{Name: "name", MaxLen: 100}},
		UniqueFields: []string{"name"},
	}
}

func (categoryHandler) FindByUnique(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, bool, error) {
	name, ok := registry.StringField(payload, "name")
	if !ok || name == "" {
		return 0, false, nil
	}
	return findID(ctx, q, `SELECT id FROM categories WHERE tenant_id = $1 AND name = $2`, tenantID, name)
}

func (categoryHandler) ApplyCreate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, error) {
	name, _ := registry.StringField(payload, "name")
	if name == "" {
		return 0, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	description, _ := registry.StringField(payload, "description")

	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO categories (tenant_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		tenantID, name, description,
	).Scan(&id)
	if err != nil {
		return 0, wrapIntegrity(err)
	}
	return id, nil
}

func (h categoryHandler) GetForUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (map[string]interface{}, time.Time, bool, error) {
	row := q.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE`,
		tenantID, id)

	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, time.Time{}, false, notFoundOrErr(err, "category")
	}
	return serializeCategory(&c), c.UpdatedAt, true, nil
}

func (categoryHandler) ApplyUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64, payload map[string]interface{}) error {
	builder := psql.Update("categories").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": id})
	builder = setString(builder, payload, "name")
	builder = setString(builder, payload, "description")
	return execUpdate(ctx, q, builder, "category")
}

func (categoryHandler) ApplyDelete(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (bool, error) {
	return execDelete(ctx, q, `DELETE FROM categories WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (categoryHandler) LoadByIDs(ctx context.Context, q ports.Querier, tenantID uuid.UUID, ids []int64) ([]map[string]interface{}, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE tenant_id = $1 AND id = ANY($2)
		ORDER BY id ASC`,
		tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, serializeCategory(&c))
	}
	return out, rows.Err()
}

func serializeCategory(c *domain.Category) map[string]interface{} {
	return map[string]interface{}{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"created_at":  c.CreatedAt.Format(time.RFC3339),
		"updated_at":  c.UpdatedAt.Format(time.RFC3339),
	}
}

// supplierHandler syncs the suppliers table
type supplierHandler struct{}

// NewSupplierHandler creates the supplier entity handler
func NewSupplierHandler() registry.EntityHandler { return supplierHandler{} }

func (supplierHandler) Name() string { return "supplier" }

func (supplierHandler) Schema() registry.Schema {
	return registry.Schema{
		TextFields: []registry.FieldSpec{
			{Name: "name", MaxLen: 150},
			{Name: "phone", MaxLen: 20},
		},
		UniqueFields: []string{"name"},
	}
}

func (supplierHandler) FindByUnique(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, bool, error) {
	name, ok := registry.StringField(payload, "name")
	if !ok || name == "" {
		return 0, false, nil
	}
	return findID(ctx, q, `SELECT id FROM suppliers WHERE tenant_id = $1 AND name = $2`, tenantID, name)
}

func (supplierHandler) ApplyCreate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, error) {
	name, _ := registry.StringField(payload, "name")
	if name == "" {
		return 0, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	email, _ := registry.StringField(payload, "email")
	phone, _ := registry.StringField(payload, "phone")
	address, _ := registry.StringField(payload, "address")

	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO suppliers (tenant_id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		tenantID, name, email, phone, address,
	).Scan(&id)
	if err != nil {
		return 0, wrapIntegrity(err)
	}
	return id, nil
}

func (supplierHandler) GetForUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (map[string]interface{}, time.Time, bool, error) {
	row := q.QueryRow(ctx, `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM suppliers
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE`,
		tenantID, id)

	var s domain.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, time.Time{}, false, notFoundOrErr(err, "supplier")
	}
	return serializeSupplier(&s), s.UpdatedAt, true, nil
}

func (supplierHandler) ApplyUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64, payload map[string]interface{}) error {
	builder := psql.Update("suppliers").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": id})
	for _, field := range []string{"name", "email", "phone", "address"} {
		builder = setString(builder, payload, field)
	}
	return execUpdate(ctx, q, builder, "supplier")
}

func (supplierHandler) ApplyDelete(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (bool, error) {
	return execDelete(ctx, q, `DELETE FROM suppliers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (supplierHandler) LoadByIDs(ctx context.Context, q ports.Querier, tenantID uuid.UUID, ids []int64) ([]map[string]interface{}, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, email, phone, address, created_at, updated_at
		FROM suppliers
		WHERE tenant_id = $1 AND id = ANY($2)
		ORDER BY id ASC`,
		tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load suppliers: %w", err)
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		out = append(out, serializeSupplier(&s))
	}
	return out, rows.Err()
}

func serializeSupplier(s *domain.Supplier) map[string]interface{} {
	return map[string]interface{}{
		"id":         s.ID,
		"name":       s.Name,
		"email":      s.Email,
		"phone":      s.Phone,
		"address":    s.Address,
		"created_at": s.CreatedAt.Format(time.RFC3339),
		"updated_at": s.UpdatedAt.Format(time.RFC3339),
	}
}

// productHandler syncs the products table
type productHandler struct{}

// NewProductHandler creates the product entity handler
func NewProductHandler() registry.EntityHandler { return productHandler{} }

func (productHandler) Name() string { return "product" }

func (productHandler) Schema() registry.Schema {
	return registry.Schema{
		TextFields: []registry.FieldSpec{
			{Name: "name", MaxLen: 150},
			{Name: "sku", MaxLen: 100},
		},
		References: []registry.RefSpec{
			{Field: "category_id"},
			{Field: "supplier_id"},
		},
		UniqueFields: []string{"sku"},
	}
}

func (productHandler) FindByUnique(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, bool, error) {
	sku, ok := registry.StringField(payload, "sku")
	if !ok || sku == "" {
		return 0, false, nil
	}
	return findID(ctx, q, `SELECT id FROM products WHERE tenant_id = $1 AND sku = $2`, tenantID, sku)
}

func (productHandler) ApplyCreate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, error) {
	name, _ := registry.StringField(payload, "name")
	if name == "" {
		return 0, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	sku, _ := registry.StringField(payload, "sku")
	if sku == "" {
		return 0, &domain.ValidationError{Field: "sku", Reason: "required"}
	}
	description, _ := registry.StringField(payload, "description")

	price, err := decimalField(payload, "price")
	if err != nil {
		return 0, err
	}
	quantity, _ := registry.Int64Field(payload, "quantity")
	reorderLevel, _ := registry.Int64Field(payload, "reorder_level")

	var categoryID, supplierID interface{}
	if v, ok := registry.Int64Field(payload, "category_id"); ok {
		categoryID = v
	}
	if v, ok := registry.Int64Field(payload, "supplier_id"); ok {
		supplierID = v
	}

	var id int64
	err = q.QueryRow(ctx, `
		INSERT INTO products (tenant_id, name, sku, description, category_id, supplier_id, price, quantity, reorder_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		tenantID, name, sku, description, categoryID, supplierID, price, quantity, reorderLevel,
	).Scan(&id)
	if err != nil {
		return 0, wrapIntegrity(err)
	}
	return id, nil
}

func (productHandler) GetForUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (map[string]interface{}, time.Time, bool, error) {
	row := q.QueryRow(ctx, `
		SELECT id, name, sku, description, category_id, supplier_id,
		       price, quantity, reorder_level, created_at, updated_at
		FROM products
		WHERE tenant_id = $1 AND id = $2
		FOR UPDATE`,
		tenantID, id)

	p, err := scanProduct(row)
	if err != nil {
		return nil, time.Time{}, false, notFoundOrErr(err, "product")
	}
	return serializeProduct(p), p.UpdatedAt, true, nil
}

func (productHandler) ApplyUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64, payload map[string]interface{}) error {
	builder := psql.Update("products").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": id})
	for _, field := range []string{"name", "sku", "description"} {
		builder = setString(builder, payload, field)
	}
	for _, field := range []string{"quantity", "reorder_level"} {
		if v, ok := registry.Int64Field(payload, field); ok {
			builder = builder.Set(field, v)
		}
	}
	if _, present := payload["price"]; present {
		price, err := decimalField(payload, "price")
		if err != nil {
			return err
		}
		builder = builder.Set("price", price)
	}
	// Reference fields accept explicit null to detach
	for _, field := range []string{"category_id", "supplier_id"} {
		v, present := payload[field]
		if !present {
			continue
		}
		if v == nil {
			builder = builder.Set(field, nil)
		} else if refID, ok := registry.Int64Field(payload, field); ok {
			builder = builder.Set(field, refID)
		}
	}
	return execUpdate(ctx, q, builder, "product")
}

func (productHandler) ApplyDelete(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (bool, error) {
	return execDelete(ctx, q, `DELETE FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (productHandler) LoadByIDs(ctx context.Context, q ports.Querier, tenantID uuid.UUID, ids []int64) ([]map[string]interface{}, error) {
	rows, err := q.Query(ctx, `
		SELECT id, name, sku, description, category_id, supplier_id,
		       price, quantity, reorder_level, created_at, updated_at
		FROM products
		WHERE tenant_id = $1 AND id = ANY($2)
		ORDER BY id ASC`,
		tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, serializeProduct(p))
	}
	return out, rows.Err()
}

func scanProduct(row squirrel.RowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Description, &p.CategoryID, &p.SupplierID,
		&p.Price, &p.Quantity, &p.ReorderLevel, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func serializeProduct(p *domain.Product) map[string]interface{} {
	out := map[string]interface{}{
		"id":            p.ID,
		"name":          p.Name,
		"sku":           p.SKU,
		"description":   p.Description,
		"price":         p.Price.String(),
		"quantity":      p.Quantity,
		"reorder_level": p.ReorderLevel,
		"created_at":    p.CreatedAt.Format(time.RFC3339),
		"updated_at":    p.UpdatedAt.Format(time.RFC3339),
	}
	if p.CategoryID != nil {
		out["category_id"] = *p.CategoryID
	} else {
		out["category_id"] = nil
	}
	if p.SupplierID != nil {
		out["supplier_id"] = *p.SupplierID
	} else {
		out["supplier_id"] = nil
	}
	return out
}

// Shared handler helpers

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// notFoundOrErr maps ErrNoRows to a clean not-found (nil error, found=false
// at the caller) and wraps anything else.
func notFoundOrErr(err error, entity string) error {
	if isNoRows(err) {
		return nil
	}
	return fmt.Errorf("failed to lock %s: %w", entity, err)
}

func findID(ctx context.Context, q ports.Querier, query string, args ...interface{}) (int64, bool, error) {
	var id int64
	err := q.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed unique lookup: %w", err)
	}
	return id, true, nil
}

func execUpdate(ctx context.Context, q ports.Querier, builder squirrel.UpdateBuilder, entity string) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s update: %w", entity, err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return wrapIntegrity(err)
	}
	return nil
}

func execDelete(ctx context.Context, q ports.Querier, query string, args ...interface{}) (bool, error) {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, wrapIntegrity(err)
	}
	return tag.RowsAffected() > 0, nil
}

func setString(builder squirrel.UpdateBuilder, payload map[string]interface{}, field string) squirrel.UpdateBuilder {
	if v, ok := registry.StringField(payload, field); ok {
		return builder.Set(field, v)
	}
	return builder
}

// decimalField parses a money amount from the numeric shapes JSON decoding
// produces. Absent keys yield zero.
func decimalField(payload map[string]interface{}, key string) (decimal.Decimal, error) {
	v, ok := payload[key]
	if !ok || v == nil {
		return decimal.Zero, nil
	}
	switch n := v.(type) {
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, &domain.ValidationError{Field: key, Reason: "invalid decimal"}
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	}
	return decimal.Zero, &domain.ValidationError{Field: key, Reason: "invalid decimal"}
}
