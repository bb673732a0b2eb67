package repository

import (
	"context"

	"github.com/sangkips/investify-pos/internal/domain/entity"
)

// ProductFilter narrows a catalog listing
type ProductFilter struct {
	Branch  string
	Search  string
	Barcode string
}

// CatalogService reads the product catalog of the backend
type CatalogService interface {
	GetProducts(ctx context.Context, filter ProductFilter) ([]entity.Product, error)
	// LookupByBarcode returns (nil, nil) when no product carries the code in that branch.
	LookupByBarcode(ctx context.Context, code, branch string) (*entity.Product, error)
}

// CustomerService finds loyalty customers
type CustomerService interface {
	// LookupByPhone returns (nil, nil) when no customer has the phone number.
	LookupByPhone(ctx context.Context, phone string) (*entity.Customer, error)
}

// DiscountService validates discount codes
type DiscountService interface {
	ValidateCode(ctx context.Context, code string) (*entity.DiscountValidation, error)
}

// SaleService drives the sale lifecycle at the backend
type SaleService interface {
	CreateSale(ctx context.Context, req *entity.CreateSaleRequest) (*entity.Sale, error)
	GetSale(ctx context.Context, id int64) (*entity.Sale, error)
	CompleteSale(ctx context.Context, id int64) error
	PrintReceipt(ctx context.Context, id int64) error
}

// PaymentService records tenders against a sale
type PaymentService interface {
	CreatePayment(ctx context.Context, req *entity.CreatePaymentRequest) (*entity.Payment, error)
}
