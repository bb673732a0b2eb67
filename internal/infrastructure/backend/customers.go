package backend

import (
	"context"
	"net/url"
	"strings"

	"github.com/sangkips/investify-pos/internal/domain/entity"
	"github.com/sangkips/investify-pos/internal/domain/repository"
)

type customerService struct {
	client *Client
}

func NewCustomerService(client *Client) repository.CustomerService {
	return &customerService{client: client}
}

func (s *customerService) LookupByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	raw, err := s.client.get(ctx, "customers/", url.Values{"phone": {phone}})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	customers, err := normalizeList[entity.Customer](raw)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].Phone == phone {
			return &customers[i], nil
		}
	}
	if len(customers) > 0 {
		return &customers[0], nil
	}
	return nil, nil
}
