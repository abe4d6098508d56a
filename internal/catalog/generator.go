// Package catalog generates synthetic products for seeding the search index.
// Category levels are nested by construction: a level-2 name is only ever
// emitted together with its level-1 parent, and a level-3 name only together
// with its level-2 parent.
package catalog

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/enricorticelli/elasticsearch-ecommerce-demo/internal/domain"
)

var level1Categories = []string{"Electronics", "Home & Living", "Gaming & Entertainment"}

var level2ByLevel1 = map[string][]string{
	"Electronics":            {"Computers", "Smartphones", "Audio", "Cameras"},
	"Home & Living":          {"Appliances", "Furniture", "Decor", "Kitchen"},
	"Gaming & Entertainment": {"Consoles", "PC Gaming", "Board Games", "Streaming"},
}

var level3ByLevel2 = map[string][]string{
	"Computers":   {"Laptops", "Desktops", "Monitors", "Components", "Storage"},
	"Smartphones": {"Android Phones", "iOS Phones", "Accessories", "Wearables"},
	"Audio":       {"Headphones", "Speakers", "Soundbars", "Microphones"},
	"Cameras":     {"DSLR", "Mirrorless", "Action Cams", "Lenses"},
	"Appliances":  {"Refrigerators", "Washers", "Dryers", "Air Purifiers"},
	"Furniture":   {"Desks", "Chairs", "Shelves", "Lighting"},
	"Decor":       {"Wall Art", "Clocks", "Plants", "Mirrors"},
	"Kitchen":     {"Cookware", "Coffee Makers", "Blenders", "Utensils"},
	"Consoles":    {"PlayStation", "Xbox", "Nintendo", "Retro"},
	"PC Gaming":   {"Graphics Cards", "Keyboards", "Mice", "VR"},
	"Board Games": {"Strategy", "Party", "Card Games", "Co-op"},
	"Streaming":   {"Microphones", "Webcams", "Capture Cards", "Lighting Kits"},
}

var brands = []string{"Apple", "Samsung", "Sony", "LG", "Microsoft", "Dell", "HP", "Lenovo", "Asus", "Acer"}

var nameAdjectives = []string{
	"Sleek", "Rustic", "Ergonomic", "Intelligent", "Compact", "Durable",
	"Refined", "Handcrafted", "Practical", "Incredible", "Awesome", "Modern",
}

var nameMaterials = []string{
	"Steel", "Wooden", "Granite", "Cotton", "Rubber", "Aluminum", "Plastic", "Bronze", "Carbon",
}

var nameProducts = []string{
	"Keyboard", "Mouse", "Headphones", "Speaker", "Monitor", "Desk", "Chair",
	"Lamp", "Camera", "Tablet", "Charger", "Backpack", "Watch", "Controller",
}

var descriptionTemplates = []string{
	"The %s %s %s combines everyday reliability with a design that fits any setup.",
	"Built to last, the %s %s %s delivers consistent performance at a fair price.",
	"Our %s %s %s is the result of careful engineering and honest materials.",
	"Upgrade your space with the %s %s %s, a favorite among demanding users.",
}

// Generator produces synthetic products with consistently nested categories.
// Not safe for concurrent use; create one per seeding run.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the current time.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a deterministic generator for tests.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns count synthetic products.
func (g *Generator) Generate(count int) []domain.Product {
	products := make([]domain.Product, 0, count)
	for i := 0; i < count; i++ {
		products = append(products, g.product())
	}
	return products
}

func (g *Generator) product() domain.Product {
	adjective := nameAdjectives[g.rng.Intn(len(nameAdjectives))]
	material := nameMaterials[g.rng.Intn(len(nameMaterials))]
	item := nameProducts[g.rng.Intn(len(nameProducts))]
	template := descriptionTemplates[g.rng.Intn(len(descriptionTemplates))]

	return domain.Product{
		ID:          uuid.New().String(),
		Name:        fmt.Sprintf("%s %s %s", adjective, material, item),
		Description: fmt.Sprintf(template, adjective, material, item),
		Price:       roundCents(10 + g.rng.Float64()*1990),
		Brand:       brands[g.rng.Intn(len(brands))],
		Categories:  g.categories(),
		Stock:       g.rng.Intn(101),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%d/640/480", g.rng.Intn(100000)),
		CreatedAt:   time.Now().UTC().Add(-time.Duration(g.rng.Intn(365*24)) * time.Hour),
	}
}

// categories picks one level-1 category, 1..2 distinct level-2 children of
// it, and 1..5 distinct level-3 children of each selected level-2 node.
func (g *Generator) categories() []domain.CategoryNode {
	nodes := make([]domain.CategoryNode, 0, 12)

	level1 := level1Categories[g.rng.Intn(len(level1Categories))]
	nodes = append(nodes, domain.CategoryNode{Name: level1, Level: 1})

	level2Options := level2ByLevel1[level1]
	if len(level2Options) == 0 {
		return nodes
	}

	for _, level2 := range g.pick(level2Options, 2) {
		nodes = append(nodes, domain.CategoryNode{Name: level2, Level: 2})

		level3Options := level3ByLevel2[level2]
		if len(level3Options) == 0 {
			continue
		}
		for _, level3 := range g.pick(level3Options, 5) {
			nodes = append(nodes, domain.CategoryNode{Name: level3, Level: 3})
		}
	}

	return nodes
}

// pick selects between 1 and min(max, len(options)) distinct entries from
// options, without replacement.
func (g *Generator) pick(options []string, max int) []string {
	if max > len(options) {
		max = len(options)
	}
	count := 1 + g.rng.Intn(max)

	shuffled := make([]string, len(options))
	copy(shuffled, options)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:count]
}

func roundCents(v float64) float64 {
	return float64(int(v*100)) / 100
}
