package backend

import (
	"context"
	"fmt"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/repository"
)

type saleService struct {
	client *Client
}

func NewSaleService(client *Client) repository.SaleService {
	return &saleService{client: client}
}

func (s *saleService) CreateSale(ctx context.Context, req *entity.CreateSaleRequest) (*entity.Sale, error) {
	raw, err := s.client.post(ctx, "sales/", req)
	if err != nil {
		return nil, err
	}
	return normalizeItem[entity.Sale](raw)
}

func (s *saleService) GetSale(ctx context.Context, id int64) (*entity.Sale, error) {
	raw, err := s.client.get(ctx, fmt.Sprintf("sales/%d/", id), nil)
	if err != nil {
		return nil, err
	}
	return normalizeItem[entity.Sale](raw)
}

func (s *saleService) CompleteSale(ctx context.Context, id int64) error {
	_, err := s.client.post(ctx, fmt.Sprintf("sales/%d/complete/", id), nil)
	return err
}

func (s *saleService) PrintReceipt(ctx context.Context, id int64) error {
	_, err := s.client.post(ctx, fmt.Sprintf("sales/%d/print-receipt/", id), nil)
	return err
}

type paymentService struct {
	client *Client
}

func NewPaymentService(client *Client) repository.PaymentService {
	return &paymentService{client: client}
}

func (s *paymentService) CreatePayment(ctx context.Context, req *entity.CreatePaymentRequest) (*entity.Payment, error) {
	raw, err := s.client.post(ctx, "payments/", req)
	if err != nil {
		return nil, err
	}
	return normalizeItem[entity.Payment](raw)
}
