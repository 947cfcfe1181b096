package model

import (
	"time"

	"github.com/lib/pq"
)

// Product represents a catalog item. Variants are owned by the product and
// deleted with it.
type Product struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	Seq         int64          `json:"-" gorm:"type:bigserial;autoIncrement;uniqueIndex"` // insertion order
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Price       float64        `json:"price" gorm:"type:double precision;not null"`
	Description string         `json:"description" gorm:"type:text;not null;default:''"`
	Images      pq.StringArray `json:"images" gorm:"type:text[];not null;default:'{}'"`
	Variants    []Variant      `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Variant is a size/color configuration of a product with its own
// inventory. It has no identity of its own: Position is its index within
// the parent's variant list.
type Variant struct {
	ProductID string  `json:"-" gorm:"type:uuid;primaryKey"`
	Position  int     `json:"-" gorm:"primaryKey;autoIncrement:false"`
	Size      *string `json:"size" gorm:"type:varchar(100)"`
	Color     *string `json:"color" gorm:"type:varchar(100)"`
	Inventory int     `json:"inventory" gorm:"not null;default:0"`
}

// TableName keeps the variants table name stable
func (Variant) TableName() string {
	return "product_variants"
}

// Clone returns a deep copy so callers never share slices or pointers with
// a stored product.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}

	out := *p
	out.Images = append(pq.StringArray{}, p.Images...)
	out.Variants = make([]Variant, len(p.Variants))
	for i, v := range p.Variants {
		out.Variants[i] = v.clone()
	}
	return &out
}

func (v Variant) clone() Variant {
	out := v
	if v.Size != nil {
		size := *v.Size
		out.Size = &size
	}
	if v.Color != nil {
		color := *v.Color
		out.Color = &color
	}
	return out
}
