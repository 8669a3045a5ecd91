// Package classify assigns a storefront category tag and a promotional
// badge to free-text app metadata using deterministic keyword scoring.
package classify

import (
	"strings"
	"time"
)

// AppMeta is the text a classifier decision is based on.
type AppMeta struct {
	Name        string
	BundleID    string
	Description string
	VersionDate *time.Time
}

// Category is one scoring bucket. Earlier declaration wins ties, so order
// the slice by priority. Blockers suppress the category entirely when any
// of them appears anywhere in the metadata; companion apps ("minecraft
// guide") would otherwise score as the thing they describe.
type Category struct {
	Tag      string
	Names    []string
	Bundles  []string
	Keywords []string
	Blockers []string
}

// Scoring weights. A hit on the display name is the strongest signal, the
// bundle identifier next, free-text description weakest.
const (
	nameWeight    = 3
	bundleWeight  = 2
	keywordWeight = 1
)

// Config holds the keyword tables. It is injectable so the tables can be
// tuned without touching the scorer.
type Config struct {
	Categories []Category
	DefaultTag string

	// Badge rules.
	RecencyWindow   time.Duration
	TrendingNames   []string
	PremiumKeywords []string
}

// DefaultConfig returns the production tables, mirroring the storefront's
// App Store-style sections.
func DefaultConfig() Config {
	return Config{
		Categories: []Category{
			{
				Tag:      "game",
				Names:    []string{"minecraft", "roblox", "pubg", "free fire", "genshin", "honkai", "gta", "fifa", "pes", "brawl", "clash", "cod", "pokemon", "liên quân", "lien quan", "toc chien", "mobile legends", "mlbb"},
				Bundles:  []string{".game", ".games", "unity", "unreal", "epic"},
				Keywords: []string{"game", "rpg", "moba", "fps", "battle", "arena", "shooter", "sandbox", "survival", "craft"},
				Blockers: []string{"guide", "tips", "news", "wiki", "assistant", "tracker", "stats"},
			},
			{
				Tag:     "social",
				Names:   []string{"facebook", "instagram", "tiktok", "telegram", "zalo", "discord", "messenger", "snapchat", "threads", "twitter"},
				Bundles: []string{"facebook", "instagram", "tiktok", "telegram", "zalo", "discord", "messenger", "snapchat", "threads", "twitter"},
			},
			{
				Tag:      "photo & video",
				Bundles:  []string{"photo", "video", "camera"},
				Keywords: []string{"photo", "video", "editor", "filter", "camera"},
			},
			{
				Tag:      "entertainment",
				Keywords: []string{"movie", "film", "tv", "anime", "series", "stream"},
			},
			{
				Tag:      "music",
				Names:    []string{"spotify"},
				Keywords: []string{"music", "audio", "song", "spotify", "mp3"},
			},
			{
				Tag:      "shopping",
				Names:    []string{"shopee", "lazada"},
				Keywords: []string{"shop", "buy", "order", "delivery", "shopee", "lazada"},
			},
			{
				Tag:      "productivity",
				Keywords: []string{"pdf", "note", "document", "office", "task", "calendar"},
			},
		},
		DefaultTag:      "utilities",
		RecencyWindow:   7 * 24 * time.Hour,
		TrendingNames:   []string{"facebook", "instagram", "tiktok", "minecraft", "roblox", "genshin"},
		PremiumKeywords: []string{"premium", "vip", "pro", "unlocked", "mod"},
	}
}

func countHits(haystack string, needles []string) int {
	hits := 0
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			hits++
		}
	}
	return hits
}

// Classify scores meta against every category and returns the tag of the
// highest-scoring one, or the default tag when nothing scores. Ties keep the
// earlier category.
func Classify(meta AppMeta, cfg Config) string {
	name := strings.ToLower(meta.Name)
	bundle := strings.ToLower(meta.BundleID)
	desc := strings.ToLower(meta.Description)
	all := name + " " + bundle + " " + desc

	bestTag := cfg.DefaultTag
	bestScore := 0
	for _, cat := range cfg.Categories {
		if countHits(all, cat.Blockers) > 0 {
			continue
		}
		score := nameWeight*countHits(name, cat.Names) +
			bundleWeight*countHits(bundle, cat.Bundles) +
			keywordWeight*countHits(all, cat.Keywords)
		if score > bestScore {
			bestScore = score
			bestTag = cat.Tag
		}
	}
	return bestTag
}

// Badge values.
const (
	BadgeNew      = "new"
	BadgeTrending = "trending"
	BadgeVIP      = "vip"
)

// DetectBadge assigns a promotional badge independently of the category:
// recently updated apps are "new", household names are "trending", unlocked
// or premium builds are "vip". Empty string means no badge.
func DetectBadge(meta AppMeta, now time.Time, cfg Config) string {
	if meta.VersionDate != nil && now.Sub(*meta.VersionDate) <= cfg.RecencyWindow {
		return BadgeNew
	}

	name := strings.ToLower(meta.Name)
	if countHits(name, cfg.TrendingNames) > 0 {
		return BadgeTrending
	}

	desc := strings.ToLower(meta.Description)
	if countHits(name, cfg.PremiumKeywords) > 0 || countHits(desc, cfg.PremiumKeywords) > 0 {
		return BadgeVIP
	}
	return ""
}
