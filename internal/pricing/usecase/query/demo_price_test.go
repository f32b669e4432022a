package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/pricing/domain"
)

type fakeProductRepo struct {
	products []catalogdomain.Product
}

func (f *fakeProductRepo) Create(*catalogdomain.Product) error { return nil }

func (f *fakeProductRepo) FindByID(id uint) (*catalogdomain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (f *fakeProductRepo) FindByArticle(article string) (*catalogdomain.Product, error) {
	for i := range f.products {
		if f.products[i].Article == article {
			return &f.products[i], nil
		}
	}
	return nil, catalogdomain.ErrProductNotFound
}

func (f *fakeProductRepo) FindAll() ([]catalogdomain.Product, error) { return f.products, nil }

func (f *fakeProductRepo) FindByCategory(uint) ([]catalogdomain.Product, error) { return nil, nil }

func (f *fakeProductRepo) Count() (int64, error) { return int64(len(f.products)), nil }

// fakeHistoryRepo stores entries unordered to make sure callers rely on
// the repository contract, not insertion order.
type fakeHistoryRepo struct {
	entries []domain.PriceHistory
}

func (f *fakeHistoryRepo) Create(*domain.PriceHistory) error { return nil }

func (f *fakeHistoryRepo) FindByProduct(productID uint) ([]domain.PriceHistory, error) {
	var result []domain.PriceHistory
	for _, e := range f.entries {
		if e.ProductID == productID {
			result = append(result, e)
		}
	}
	sortByCreatedAt(result)
	return result, nil
}

func (f *fakeHistoryRepo) FindByProductSince(productID uint, since time.Time) ([]domain.PriceHistory, error) {
	var result []domain.PriceHistory
	for _, e := range f.entries {
		if e.ProductID == productID && !e.CreatedAt.Before(since) {
			result = append(result, e)
		}
	}
	sortByCreatedAt(result)
	return result, nil
}

func (f *fakeHistoryRepo) FindLatest(productID uint) (*domain.PriceHistory, error) {
	var latest *domain.PriceHistory
	for i := range f.entries {
		e := f.entries[i]
		if e.ProductID != productID {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = &f.entries[i]
		}
	}
	return latest, nil
}

func (f *fakeHistoryRepo) FindLatestPerProduct() ([]domain.PriceHistory, error) {
	byProduct := map[uint]domain.PriceHistory{}
	for _, e := range f.entries {
		if cur, ok := byProduct[e.ProductID]; !ok || e.CreatedAt.After(cur.CreatedAt) {
			byProduct[e.ProductID] = e
		}
	}
	result := make([]domain.PriceHistory, 0, len(byProduct))
	for _, e := range byProduct {
		result = append(result, e)
	}
	return result, nil
}

func (f *fakeHistoryRepo) Count() (int64, error) { return int64(len(f.entries)), nil }

func sortByCreatedAt(entries []domain.PriceHistory) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].CreatedAt.Before(entries[j-1].CreatedAt); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

var day = 24 * time.Hour

func repos() (*fakeProductRepo, *fakeHistoryRepo) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	products := &fakeProductRepo{products: []catalogdomain.Product{
		{ID: 1, Article: "482159736", Name: "iPhone 15 128GB", CategoryID: 1, Brand: "Apple"},
		{ID: 2, Article: "284619537", Name: "MacBook Pro 14", CategoryID: 2, Brand: "Apple"},
	}}
	// Deliberately out of order: the max-timestamp row must win
	history := &fakeHistoryRepo{entries: []domain.PriceHistory{
		{ID: 3, ProductID: 1, Price: 79990, CreatedAt: base.Add(2 * day)},
		{ID: 1, ProductID: 1, Price: 82990, CreatedAt: base},
		{ID: 2, ProductID: 1, Price: 81490, CreatedAt: base.Add(day)},
		{ID: 4, ProductID: 2, Price: 189990, CreatedAt: base},
	}}
	return products, history
}

func TestDemoPrice(t *testing.T) {
	products, history := repos()
	h := NewDemoPriceHandler(products, history)

	t.Run("LatestRowWins", func(t *testing.T) {
		result, err := h.Handle(DemoPriceQuery{Article: "482159736"})

		require.NoError(t, err)
		assert.Equal(t, 79990.0, result.Price)
		assert.Equal(t, "2024-03-03", result.Date)
		require.NotNil(t, result.Product.CurrentPrice)
		assert.Equal(t, 79990.0, *result.Product.CurrentPrice)
		assert.Equal(t, "Apple", result.Product.Brand)
	})

	t.Run("UnknownArticle", func(t *testing.T) {
		_, err := h.Handle(DemoPriceQuery{Article: "000"})
		assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
	})

	t.Run("NoHistory", func(t *testing.T) {
		products.products = append(products.products, catalogdomain.Product{ID: 3, Article: "fresh"})
		result, err := h.Handle(DemoPriceQuery{Article: "fresh"})

		require.NoError(t, err)
		assert.Zero(t, result.Price)
		assert.Empty(t, result.Date)
		assert.Nil(t, result.Product.CurrentPrice)
	})
}

func TestProductPrices(t *testing.T) {
	products, history := repos()
	h := NewProductPricesHandler(products, history)

	t.Run("OrderedSeriesWithCurrentPrice", func(t *testing.T) {
		result, err := h.Handle(ProductPricesQuery{ProductID: 1})

		require.NoError(t, err)
		require.Len(t, result.PriceHistory, 3)
		assert.Equal(t, 82990.0, result.PriceHistory[0].Price)
		assert.Equal(t, 79990.0, result.PriceHistory[2].Price)
		assert.Equal(t, 79990.0, result.CurrentPrice)
		assert.Equal(t, "2024-03-03", result.LastUpdate)
		assert.Equal(t, "482159736", result.Product.Article)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		_, err := h.Handle(ProductPricesQuery{ProductID: 99})
		assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
	})
}

func TestLatestPrices(t *testing.T) {
	_, history := repos()
	h := NewLatestPricesHandler(history)

	latest, err := h.Handle(LatestPricesQuery{})

	require.NoError(t, err)
	require.Len(t, latest, 2)
	for _, entry := range latest {
		if entry.ProductID == 1 {
			assert.Equal(t, 79990.0, entry.Price)
		}
	}
}
