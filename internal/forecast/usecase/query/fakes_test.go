package query

import (
	"context"
	"time"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/forecast/domain"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
)

type fakeProductRepo struct {
	products map[string]*catalogdomain.Product
}

func (f *fakeProductRepo) Create(*catalogdomain.Product) error { return nil }

func (f *fakeProductRepo) FindByID(id uint) (*catalogdomain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (f *fakeProductRepo) FindByArticle(article string) (*catalogdomain.Product, error) {
	if p, ok := f.products[article]; ok {
		return p, nil
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (f *fakeProductRepo) FindAll() ([]catalogdomain.Product, error) { return nil, nil }

func (f *fakeProductRepo) FindByCategory(uint) ([]catalogdomain.Product, error) { return nil, nil }

func (f *fakeProductRepo) Count() (int64, error) { return int64(len(f.products)), nil }

type fakeHistoryRepo struct {
	entries map[uint][]pricingdomain.PriceHistory
	queries int
}

func (f *fakeHistoryRepo) Create(*pricingdomain.PriceHistory) error { return nil }

func (f *fakeHistoryRepo) FindByProduct(productID uint) ([]pricingdomain.PriceHistory, error) {
	f.queries++
	return f.entries[productID], nil
}

func (f *fakeHistoryRepo) FindByProductSince(productID uint, since time.Time) ([]pricingdomain.PriceHistory, error) {
	f.queries++
	var result []pricingdomain.PriceHistory
	for _, e := range f.entries[productID] {
		if !e.CreatedAt.Before(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeHistoryRepo) FindLatest(productID uint) (*pricingdomain.PriceHistory, error) {
	f.queries++
	entries := f.entries[productID]
	if len(entries) == 0 {
		return nil, nil
	}
	latest := entries[len(entries)-1]
	return &latest, nil
}

func (f *fakeHistoryRepo) FindLatestPerProduct() ([]pricingdomain.PriceHistory, error) {
	return nil, nil
}

func (f *fakeHistoryRepo) Count() (int64, error) { return 0, nil }

type stubForecaster struct {
	calls    int
	lastReq  domain.ForecastRequest
	response *domain.ForecastResponse
}

func (s *stubForecaster) GenerateForecast(_ context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	s.calls++
	s.lastReq = req
	return s.response, nil
}
