package feedgen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Column order matches the headerless feeds the parser assumes.
var header = []string{
	"id", "title", "retailer", "category", "url", "image",
	"price", "originalPrice", "currency", "tags", "regions",
	"popularity", "endsAt", "updatedAt",
}

var retailers = []string{
	"Amazon AU", "JB Hi-Fi", "Kogan", "The Good Guys", "Catch",
	"Big W", "Bunnings", "Chemist Warehouse",
}

var categories = []string{
	"Tech", "Home", "Fashion", "Toys", "Health", "Garden", "Gaming",
}

var products = []string{
	"Wireless Noise Cancelling Headphones", "65\" OLED TV", "Robot Vacuum",
	"Air Fryer XL", "Mechanical Keyboard", "Espresso Machine",
	"Cordless Drill Kit", "Running Shoes", "Gaming Monitor 27\"",
	"Smart Watch Series 9", "Portable SSD 2TB", "Stand Mixer",
	"Electric Scooter", "Weighted Blanket", "Dash Cam",
}

var tagPool = []string{
	"clearance", "flash-sale", "summer", "winter", "back-to-school",
	"free-shipping", "bundle", "refurbished",
}

// Generator produces random deal rows.
type Generator struct {
	rng *rand.Rand
	cfg *Config
}

// NewGenerator creates a generator from a run config.
func NewGenerator(cfg *Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), cfg: cfg}
}

// TSV renders the whole feed, header row included.
func (g *Generator) TSV() string {
	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	b.WriteByte('\n')
	for i := 0; i < g.cfg.NumDeals; i++ {
		b.WriteString(strings.Join(g.row(i), "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Generator) row(i int) []string {
	messy := g.rng.Float64() < g.cfg.MessyRatio
	now := g.cfg.Now

	retailer := retailers[g.rng.Intn(len(retailers))]
	product := products[g.rng.Intn(len(products))]
	title := fmt.Sprintf("%s - %d%% off", product, 10+g.rng.Intn(60))

	price := 20 + g.rng.Float64()*980
	original := price * (1 + 0.1 + g.rng.Float64()*0.9)
	popularity := g.rng.Intn(101)

	updatedAt := now.Add(-time.Duration(g.rng.Intn(96)) * time.Hour)
	endsAt := ""
	if g.rng.Float64() < 0.5 {
		endsAt = now.Add(time.Duration(1+g.rng.Intn(240)) * time.Hour).Format(time.RFC3339)
	}

	slug := strings.ToLower(strings.ReplaceAll(product, " ", "-"))
	rawURL := fmt.Sprintf("https://example-shop.com.au/p/%s?ref=feed&c=%d", slug, i)

	priceStr := fmt.Sprintf("%.2f", price)
	originalStr := fmt.Sprintf("%.2f", original)
	id := fmt.Sprintf("deal-%04d", i+1)
	tags := g.pickTags()

	if messy {
		// The defects real sheets exhibit.
		switch g.rng.Intn(4) {
		case 0:
			priceStr = "$" + priceStr
			originalStr = "AUD " + originalStr
		case 1:
			rawURL = strings.ReplaceAll(rawURL, "&", "&amp;")
		case 2:
			id = ""
		case 3:
			title = "  " + title + "  "
		}
	}

	return []string{
		id,
		title,
		retailer,
		categories[g.rng.Intn(len(categories))],
		rawURL,
		"", // image left blank so backfill has work to do
		priceStr,
		originalStr,
		"AUD",
		tags,
		"AU",
		fmt.Sprintf("%d", popularity),
		endsAt,
		updatedAt.Format(time.RFC3339),
	}
}

func (g *Generator) pickTags() string {
	n := 1 + g.rng.Intn(3)
	picked := make([]string, 0, n)
	for len(picked) < n {
		t := tagPool[g.rng.Intn(len(tagPool))]
		if !contains(picked, t) {
			picked = append(picked, t)
		}
	}
	return strings.Join(picked, ";")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
