package backend

import (
	"context"
	"errors"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/enum"
	"github.com/sangkips/investify-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var ErrDiscountRejected = errors.New("discount code rejected")

type discountService struct {
	client *Client
}

func NewDiscountService(client *Client) repository.DiscountService {
	return &discountService{client: client}
}

type validateDiscountResponse struct {
	Valid        *bool             `json:"valid"`
	Code         string            `json:"code"`
	DiscountType enum.DiscountType `json:"discount_type"`
	Value        decimal.Decimal   `json:"value"`
	Message      string            `json:"message"`
}

func (s *discountService) ValidateCode(ctx context.Context, code string) (*entity.DiscountValidation, error) {
	raw, err := s.client.post(ctx, "discounts/validate/", map[string]string{"code": code})
	if err != nil {
		return nil, err
	}
	resp, err := normalizeItem[validateDiscountResponse](raw)
	if err != nil {
		return nil, err
	}
	if resp.Valid != nil && !*resp.Valid {
		return nil, ErrDiscountRejected
	}
	if resp.Value.IsNegative() {
		return nil, ErrDiscountRejected
	}
	if resp.Code == "" {
		resp.Code = code
	}
	return &entity.DiscountValidation{
		Code:         resp.Code,
		DiscountType: resp.DiscountType,
		Value:        resp.Value,
	}, nil
}
