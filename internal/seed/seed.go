package seed

import (
	"agribid/internal/models"
	"agribid/internal/repository"
	"agribid/utils"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// entry is one product in the YAML seed catalog
type entry struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	ImageURL       string   `yaml:"image_url"`
	StartingPrice  float64  `yaml:"starting_price"`
	Seller         string   `yaml:"seller"`
	Location       string   `yaml:"location"`
	Quantity       int      `yaml:"quantity"`
	Category       string   `yaml:"category"`
	HarvestDate    string   `yaml:"harvest_date"`
	ExpiryDate     string   `yaml:"expiry_date"`
	Certifications []string `yaml:"certifications"`
	AuctionHours   int      `yaml:"auction_hours"` // 0 means bidding never closes
}

// Load parses a YAML seed catalog into products. Auction end times are
// relative to now so a seed file never goes stale.
func Load(path string) ([]models.Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}

	var entries []entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("seed: parse %s: %w", path, err)
	}

	now := time.Now()
	products := make([]models.Product, 0, len(entries))
	for _, e := range entries {
		product := models.Product{
			ProductID:      utils.GenerateID(),
			Name:           e.Name,
			Description:    e.Description,
			ImageURL:       e.ImageURL,
			StartingPrice:  e.StartingPrice,
			CurrentPrice:   e.StartingPrice,
			Seller:         e.Seller,
			Location:       e.Location,
			Quantity:       e.Quantity,
			Category:       e.Category,
			HarvestDate:    e.HarvestDate,
			ExpiryDate:     e.ExpiryDate,
			Certifications: e.Certifications,
			Bids:           []models.Bid{},
		}
		if e.AuctionHours > 0 {
			end := now.Add(time.Duration(e.AuctionHours) * time.Hour)
			product.AuctionEndTime = &end
		}
		products = append(products, product)
	}
	return products, nil
}

// Populate loads the catalog into the repository
func Populate(repo repository.MarketDB, path string) (int, error) {
	products, err := Load(path)
	if err != nil {
		return 0, err
	}
	for _, p := range products {
		if err := repo.AddProduct(p); err != nil {
			return 0, fmt.Errorf("seed: add product %s: %w", p.Name, err)
		}
	}
	return len(products), nil
}
