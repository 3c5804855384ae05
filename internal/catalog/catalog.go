package catalog

import (
	"fmt"
	"os"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Catalog is the immutable list of purchasable token packages
type Catalog struct {
	packages []model.TokenPackage
	byID     map[string]model.TokenPackage
}

type fileFormat struct {
	Packages []filePackage `yaml:"packages"`
}

type filePackage struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	TokenAmount int    `yaml:"token_amount"`
	Price       string `yaml:"price"`
	Popular     bool   `yaml:"popular"`
}

// Default returns the built-in Basic/Premium/Enterprise packages
func Default() *Catalog {
	c, err := New([]model.TokenPackage{
		{PackageID: "1", Name: "Basic", Description: "50 tokens for occasional use", TokenAmount: 50, Price: decimal.NewFromInt(50000)},
		{PackageID: "2", Name: "Premium", Description: "150 tokens with 10% bonus", TokenAmount: 150, Price: decimal.NewFromInt(135000), Popular: true},
		{PackageID: "3", Name: "Enterprise", Description: "500 tokens with 20% bonus", TokenAmount: 500, Price: decimal.NewFromInt(400000)},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// New validates packages and builds a catalog
func New(packages []model.TokenPackage) (*Catalog, error) {
	if len(packages) == 0 {
		return nil, fmt.Errorf("catalog: no packages defined")
	}

	c := &Catalog{byID: make(map[string]model.TokenPackage, len(packages))}
	for _, p := range packages {
		if p.PackageID == "" {
			return nil, fmt.Errorf("catalog: package %q has no id", p.Name)
		}
		if _, dup := c.byID[p.PackageID]; dup {
			return nil, fmt.Errorf("catalog: duplicate package id %q", p.PackageID)
		}
		if p.TokenAmount <= 0 {
			return nil, fmt.Errorf("catalog: package %q: %w - token amount must be positive", p.PackageID, auctionerrors.ErrInvalidAmount)
		}
		if !p.Price.IsPositive() {
			return nil, fmt.Errorf("catalog: package %q: %w - price must be positive", p.PackageID, auctionerrors.ErrInvalidAmount)
		}
		c.byID[p.PackageID] = p
		c.packages = append(c.packages, p)
	}
	return c, nil
}

// Load reads a YAML catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}

	packages := make([]model.TokenPackage, 0, len(doc.Packages))
	for _, fp := range doc.Packages {
		price, err := decimal.NewFromString(fp.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog: package %q: bad price %q: %w", fp.ID, fp.Price, err)
		}
		packages = append(packages, model.TokenPackage{
			PackageID:   fp.ID,
			Name:        fp.Name,
			Description: fp.Description,
			TokenAmount: fp.TokenAmount,
			Price:       price,
			Popular:     fp.Popular,
		})
	}
	return New(packages)
}

// List returns every package in catalog order
func (c *Catalog) List() []model.TokenPackage {
	return append([]model.TokenPackage(nil), c.packages...)
}

// Get returns a package by id
func (c *Catalog) Get(packageID string) (model.TokenPackage, error) {
	p, ok := c.byID[packageID]
	if !ok {
		return model.TokenPackage{}, fmt.Errorf("token package %s: %w", packageID, auctionerrors.ErrNotFound)
	}
	return p, nil
}
