package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
	"github.com/tair/price-forecasting/pkg/logger"
)

const historyDays = 90

// Seeder populates empty tables with demo catalog data and price history.
type Seeder struct {
	products   catalogdomain.ProductRepository
	categories catalogdomain.CategoryRepository
	history    pricingdomain.PriceHistoryRepository
	rng        *rand.Rand
	now        func() time.Time
}

// NewSeeder creates a seeder. A nil rng or now falls back to defaults.
func NewSeeder(
	products catalogdomain.ProductRepository,
	categories catalogdomain.CategoryRepository,
	history pricingdomain.PriceHistoryRepository,
	rng *rand.Rand,
	now func() time.Time,
) *Seeder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Seeder{
		products:   products,
		categories: categories,
		history:    history,
		rng:        rng,
		now:        now,
	}
}

type productSeed struct {
	article     string
	name        string
	description string
	category    string
	brand       string
	imageURL    string
}

var categorySeeds = []string{"Smartphones", "Laptops", "Headphones", "Home Appliances"}

var productSeeds = []productSeed{
	{"482159736", "iPhone 15 128GB", "Apple flagship smartphone", "Smartphones", "Apple", "/images/iphone15.jpg"},
	{"5938472610", "iPhone 15 256GB", "Apple flagship smartphone with extra storage", "Smartphones", "Apple", "/images/iphone15-256.jpg"},
	{"620184735", "Samsung Galaxy S24 128GB", "Samsung flagship smartphone", "Smartphones", "Samsung", "/images/galaxy-s24.jpg"},
	{"7493825160", "Samsung Galaxy S23 256GB", "Previous generation Samsung flagship", "Smartphones", "Samsung", "/images/galaxy-s23.jpg"},
	{"815937402", "Xiaomi 13 Lite 128GB", "Affordable Xiaomi flagship", "Smartphones", "Xiaomi", "/images/xiaomi13-lite.jpg"},
	{"9264738151", "Xiaomi Redmi Note 12 128GB", "Budget Xiaomi smartphone", "Smartphones", "Xiaomi", "/images/redmi-note12.jpg"},
	{"1038574926", "OPPO Reno 10 256GB", "Stylish OPPO smartphone", "Smartphones", "OPPO", "/images/oppo-reno10.jpg"},

	{"284619537", "MacBook Pro 14\" M3 512GB", "Apple professional laptop", "Laptops", "Apple", "/images/macbook-pro-14.jpg"},
	{"3957281640", "MacBook Air 13\" M2 256GB", "Apple lightweight laptop", "Laptops", "Apple", "/images/macbook-air-13.jpg"},
	{"462839175", "ASUS VivoBook 15 i5 512GB", "Versatile ASUS laptop", "Laptops", "ASUS", "/images/vivobook-15.jpg"},

	{"9374851260", "AirPods Pro 2", "Apple wireless earbuds", "Headphones", "Apple", "/images/airpods-pro2.jpg"},
	{"148259637", "AirPods 3", "Apple wireless earbuds", "Headphones", "Apple", "/images/airpods-3.jpg"},
	{"2593671480", "Sony WH-1000XM5", "Sony noise-cancelling headphones", "Headphones", "Sony", "/images/wh-1000xm5.jpg"},
}

// Run seeds categories, products and price history into empty tables.
// Tables that already hold rows are left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	byName, err := s.seedCategories(ctx)
	if err != nil {
		return err
	}

	if err := s.seedProducts(ctx, byName); err != nil {
		return err
	}

	return s.seedPriceHistory(ctx)
}

func (s *Seeder) seedCategories(ctx context.Context) (map[string]uint, error) {
	count, err := s.categories.Count()
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	byName := make(map[string]uint, len(categorySeeds))
	if count > 0 {
		existing, err := s.categories.FindAll()
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		for _, c := range existing {
			byName[c.Name] = c.ID
		}
		return byName, nil
	}

	for _, name := range categorySeeds {
		category := &catalogdomain.Category{Name: name}
		if err := s.categories.Create(category); err != nil {
			return nil, fmt.Errorf("create category %q: %w", name, err)
		}
		byName[name] = category.ID
	}

	logger.Info(ctx).Int("categories", len(categorySeeds)).Msg("Seeded categories")
	return byName, nil
}

func (s *Seeder) seedProducts(ctx context.Context, byName map[string]uint) error {
	count, err := s.products.Count()
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, seed := range productSeeds {
		categoryID, ok := byName[seed.category]
		if !ok {
			return fmt.Errorf("unknown seed category %q", seed.category)
		}

		product := &catalogdomain.Product{
			Article:     seed.article,
			Name:        seed.name,
			Description: seed.description,
			CategoryID:  categoryID,
			Brand:       seed.brand,
			ImageURL:    seed.imageURL,
		}
		if err := s.products.Create(product); err != nil {
			return fmt.Errorf("create product %s: %w", seed.article, err)
		}
	}

	logger.Info(ctx).Int("products", len(productSeeds)).Msg("Seeded products")
	return nil
}

// seedPriceHistory writes 90 days of daily prices per product. Each product
// gets a base price in [50000, 110000) and every day fluctuates within
// +/-10% of that base.
func (s *Seeder) seedPriceHistory(ctx context.Context) error {
	count, err := s.history.Count()
	if err != nil {
		return fmt.Errorf("count price history: %w", err)
	}
	if count > 0 {
		return nil
	}

	products, err := s.products.FindAll()
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	startDate := s.now().AddDate(0, 0, -historyDays)
	rows := 0
	for _, product := range products {
		basePrice := float64(30000 + s.rng.Intn(60000) + 20000)

		for day := 0; day < historyDays; day++ {
			variation := s.rng.Float64()*0.2 - 0.1
			price := math.Round(basePrice*(1+variation)*100) / 100

			entry := &pricingdomain.PriceHistory{
				ProductID: product.ID,
				Price:     price,
				CreatedAt: startDate.AddDate(0, 0, day),
			}
			if err := s.history.Create(entry); err != nil {
				return fmt.Errorf("create price entry for product %d: %w", product.ID, err)
			}
			rows++
		}
	}

	logger.Info(ctx).Int("rows", rows).Msg("Seeded price history")
	return nil
}
