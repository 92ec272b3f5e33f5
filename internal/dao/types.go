package dao

import (
	"context"
	"fmt"
	"strconv"
)

// SourceKind identifies where grid records come from.
type SourceKind string

// Supported source kinds.
const (
	// SourceLocal serves the bundled sample records.
	SourceLocal SourceKind = "local"
	// SourceFile loads a static JSON array from disk or S3.
	SourceFile SourceKind = "file"
	// SourceRemote pages through a REST endpoint.
	SourceRemote SourceKind = "remote"
	// SourceSQLite queries a SQLite records table.
	SourceSQLite SourceKind = "sqlite"
)

// ParseSourceKind validates a source kind string.
func ParseSourceKind(s string) (SourceKind, error) {
	switch k := SourceKind(s); k {
	case SourceLocal, SourceFile, SourceRemote, SourceSQLite:
		return k, nil
	case "":
		return SourceLocal, nil
	default:
		return "", fmt.Errorf("unknown source kind %q (expected local, file, remote or sqlite)", s)
	}
}

// Record represents a single grid record as delivered by a source.
// Records are never mutated once decoded.
type Record struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"sale_price"`
}

// Record field keys.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldCategory    = "category"
	FieldSubcategory = "subcategory"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
	FieldPrice       = "price"
	FieldSalePrice   = "sale_price"
)

// Fields lists the record keys in display order.
var Fields = []string{
	FieldID,
	FieldName,
	FieldCategory,
	FieldSubcategory,
	FieldCreatedAt,
	FieldUpdatedAt,
	FieldPrice,
	FieldSalePrice,
}

// Field returns the raw value stored under key.
func (r Record) Field(key string) (any, bool) {
	switch key {
	case FieldID:
		return r.ID, true
	case FieldName:
		return r.Name, true
	case FieldCategory:
		return r.Category, true
	case FieldSubcategory:
		return r.Subcategory, true
	case FieldCreatedAt:
		return r.CreatedAt, true
	case FieldUpdatedAt:
		return r.UpdatedAt, true
	case FieldPrice:
		return r.Price, true
	case FieldSalePrice:
		return r.SalePrice, true
	default:
		return nil, false
	}
}

// RowID returns a stable row identity.
func (r Record) RowID() string {
	return strconv.Itoa(r.ID)
}

// ValueFunc maps a record field to a comparison-ready value
// (string, float64 or time.Time).
type ValueFunc func(r Record, key string) (any, bool)

// RawValue is a ValueFunc that performs no transform.
func RawValue(r Record, key string) (any, bool) {
	v, ok := r.Field(key)
	if !ok {
		return nil, false
	}
	if i, ok := v.(int); ok {
		return float64(i), true
	}
	return v, true
}

// Source fetches one page of records for a query snapshot.
type Source interface {
	FetchPage(ctx context.Context, snap QuerySnapshot) (*ResultPage, error)
}

// Faceter lists the distinct values of a column, used for multi-select hints.
type Faceter interface {
	Facets(ctx context.Context, column string) ([]string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, snap QuerySnapshot) (*ResultPage, error)

// FetchPage calls f.
func (f SourceFunc) FetchPage(ctx context.Context, snap QuerySnapshot) (*ResultPage, error) {
	return f(ctx, snap)
}
