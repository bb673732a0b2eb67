package backend

import (
	"context"
	"net/url"
	"strings"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/repository"
)

type catalogService struct {
	client *Client
}

// NewCatalogService returns the product catalog adapter
func NewCatalogService(client *Client) repository.CatalogService {
	return &catalogService{client: client}
}

func (s *catalogService) GetProducts(ctx context.Context, filter repository.ProductFilter) ([]entity.Product, error) {
	query := url.Values{}
	if filter.Branch != "" {
		query.Set("branch", filter.Branch)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Barcode != "" {
		query.Set("barcode", filter.Barcode)
	}

	raw, err := s.client.get(ctx, "products/", query)
	if err != nil {
		return nil, err
	}
	return normalizeList[entity.Product](raw)
}

func (s *catalogService) LookupByBarcode(ctx context.Context, code, branch string) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	products, err := s.GetProducts(ctx, repository.ProductFilter{Branch: branch, Barcode: code})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	for i := range products {
		if products[i].Barcode == code {
			return &products[i], nil
		}
	}
	if len(products) > 0 {
		return &products[0], nil
	}
	return nil, nil
}
