// Package dalmodels holds the row shapes shared by the Postgres repositories.
package dalmodels

import (
	"time"

	"github.com/corray333/backend-labs/commerce/internal/service/models/client"
	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/service/models/orderline"
	"github.com/corray333/backend-labs/commerce/internal/service/models/product"
	"github.com/shopspring/decimal"
)

// Table expressions with the aliases the column lists below rely on.
const (
	OrdersTable     = "orders o"
	OrderLinesTable = "order_lines ol"
	ClientsTable    = "clients cl"
	ProductsTable   = "products p " +
		"JOIN product_categories c ON c.id = p.category_id " +
		"JOIN product_sections s ON s.id = p.section_id"
)

// OrderColumns lists order columns in OrderDal scan order.
var OrderColumns = []string{
	"o.id",
	"o.client_id",
	"o.status",
	"o.version",
	"o.created_at",
	"o.updated_at",
}

// OrderDal represents order data access layer model.
type OrderDal struct {
	ID        int64
	ClientID  int64
	Status    string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Targets returns scan destinations matching OrderColumns.
func (d *OrderDal) Targets() []any {
	return []any{&d.ID, &d.ClientID, &d.Status, &d.Version, &d.CreatedAt, &d.UpdatedAt}
}

// ToModel converts OrderDal to service layer Order model.
func (d *OrderDal) ToModel() order.Order {
	return order.Order{
		ID:        d.ID,
		ClientID:  d.ClientID,
		Status:    d.Status,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Lines:     []orderline.OrderLine{},
	}
}

// ClientColumns lists client columns in ClientDal scan order.
var ClientColumns = []string{"cl.id", "cl.name", "cl.email", "cl.cpf"}

// ClientDal represents client data access layer model.
type ClientDal struct {
	ID    int64
	Name  string
	Email string
	CPF   string
}

// Targets returns scan destinations matching ClientColumns.
func (d *ClientDal) Targets() []any {
	return []any{&d.ID, &d.Name, &d.Email, &d.CPF}
}

// ToModel converts ClientDal to service layer Client model.
func (d *ClientDal) ToModel() client.Client {
	return client.Client{ID: d.ID, Name: d.Name, Email: d.Email, CPF: d.CPF}
}

// ProductColumns lists product columns, joined with category and section, in ProductDal scan order.
var ProductColumns = []string{
	"p.id",
	"p.name",
	"p.category_id",
	"p.section_id",
	"p.cost",
	"p.selling_price",
	"p.availability",
	"p.description",
	"p.bar_code",
	"p.initial_stock",
	"p.expiration_date",
	"p.images",
	"c.name",
	"s.name",
}

// ProductDal represents product data access layer model.
type ProductDal struct {
	ID             int64
	Name           string
	CategoryID     int64
	SectionID      int64
	Cost           decimal.NullDecimal
	SellingPrice   decimal.Decimal
	Availability   bool
	Description    *string
	BarCode        *string
	InitialStock   int
	ExpirationDate *time.Time
	Images         *string
	CategoryName   string
	SectionName    string
}

// Targets returns scan destinations matching ProductColumns.
func (d *ProductDal) Targets() []any {
	return []any{
		&d.ID,
		&d.Name,
		&d.CategoryID,
		&d.SectionID,
		&d.Cost,
		&d.SellingPrice,
		&d.Availability,
		&d.Description,
		&d.BarCode,
		&d.InitialStock,
		&d.ExpirationDate,
		&d.Images,
		&d.CategoryName,
		&d.SectionName,
	}
}

// ToModel converts ProductDal to service layer Product model with category and section attached.
func (d *ProductDal) ToModel() product.Product {
	p := product.Product{
		ID:             d.ID,
		Name:           d.Name,
		CategoryID:     d.CategoryID,
		SectionID:      d.SectionID,
		SellingPrice:   d.SellingPrice,
		Availability:   d.Availability,
		Description:    d.Description,
		BarCode:        d.BarCode,
		InitialStock:   d.InitialStock,
		ExpirationDate: d.ExpirationDate,
		Images:         d.Images,
		Category:       &product.Category{ID: d.CategoryID, Name: d.CategoryName},
		Section:        &product.Section{ID: d.SectionID, Name: d.SectionName},
	}
	if d.Cost.Valid {
		cost := d.Cost.Decimal
		p.Cost = &cost
	}

	return p
}

// OrderLineColumns lists order line columns in OrderLineDal scan order.
var OrderLineColumns = []string{
	"ol.id",
	"ol.order_id",
	"ol.product_id",
	"ol.quantity",
	"ol.unit_price",
}

// OrderLineDal represents order line data access layer model.
type OrderLineDal struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Targets returns scan destinations matching OrderLineColumns.
func (d *OrderLineDal) Targets() []any {
	return []any{&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.UnitPrice}
}

// ToModel converts OrderLineDal to service layer OrderLine model.
func (d *OrderLineDal) ToModel() orderline.OrderLine {
	return orderline.OrderLine{
		ID:        d.ID,
		OrderID:   d.OrderID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		UnitPrice: d.UnitPrice,
	}
}

// HydratedLineDal is an order line joined with its product.
type HydratedLineDal struct {
	Line    OrderLineDal
	Product ProductDal
}

// HydratedLineColumns lists OrderLineColumns followed by ProductColumns.
func HydratedLineColumns() []string {
	cols := make([]string, 0, len(OrderLineColumns)+len(ProductColumns))
	cols = append(cols, OrderLineColumns...)

	return append(cols, ProductColumns...)
}

// Targets returns scan destinations matching HydratedLineColumns.
func (d *HydratedLineDal) Targets() []any {
	return append(d.Line.Targets(), d.Product.Targets()...)
}

// ToModel converts HydratedLineDal to an OrderLine with its product attached.
func (d *HydratedLineDal) ToModel() orderline.OrderLine {
	line := d.Line.ToModel()
	p := d.Product.ToModel()
	line.Product = &p

	return line
}
