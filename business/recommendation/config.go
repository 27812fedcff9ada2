package recommendation

import "time"

type Config struct {
	// DefaultLimit applies when the caller passes limit <= 0.
	DefaultLimit int
	// CacheTTL bounds how stale a cached result may get. Zero disables caching.
	CacheTTL time.Duration
	// PlaceholderImage is used for destinations whose best trek has no images.
	PlaceholderImage string
}

const (
	defaultLimit            = 5
	defaultCacheTTL         = 5 * time.Minute
	defaultPlaceholderImage = "https://images.unsplash.com/photo-1506905925346-21bda4d32df4"
)

func DefaultConfig() Config {
	return Config{
		DefaultLimit:     defaultLimit,
		CacheTTL:         defaultCacheTTL,
		PlaceholderImage: defaultPlaceholderImage,
	}
}

// withDefaults fills zero fields so a partially set Config stays usable.
func (c Config) withDefaults() Config {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = defaultLimit
	}
	if c.PlaceholderImage == "" {
		c.PlaceholderImage = defaultPlaceholderImage
	}
	return c
}

// normalizeLimit leaves positive limits alone; ranking already stops at the
// number of candidates.
func (c Config) normalizeLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	return limit
}
