package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.treks (
//     id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
//     user_id       UUID,
//     title         TEXT NOT NULL,
//     location      TEXT NOT NULL,
//     description   TEXT,
//     duration      INT NOT NULL,
//     price         NUMERIC NOT NULL,
//     difficulty    TEXT NOT NULL,
//     category      TEXT NOT NULL,
//     images        JSONB DEFAULT '[]',
//     rating        NUMERIC DEFAULT 0,
//     rating_count  INT DEFAULT 0,
//     is_approved   BOOLEAN DEFAULT FALSE,
//     created_at    TIMESTAMPTZ DEFAULT NOW(),
//     updated_at    TIMESTAMPTZ DEFAULT NOW()
// );

const (
	DifficultyEasy      = "easy"
	DifficultyModerate  = "moderate"
	DifficultyDifficult = "difficult"
	DifficultyExtreme   = "extreme"
)

const (
	CategoryHiking              = "hiking"
	CategoryTrekking            = "trekking"
	CategoryMountainClimbing    = "mountain climbing"
	CategoryCamping             = "camping"
	CategoryInternationalTravel = "international travel"
	CategoryAdventureTravel     = "adventure travel"
	CategoryWildlifeSafari      = "wildlife safari"
)

type Trek struct {
	ID          string                      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	UserID      string                      `gorm:"column:user_id;type:uuid" json:"userId,omitempty"`
	Title       string                      `gorm:"column:title;type:text;not null" json:"title"`
	Location    string                      `gorm:"column:location;type:text;not null" json:"location"`
	Description string                      `gorm:"column:description;type:text" json:"description,omitempty"`
	Duration    int                         `gorm:"column:duration;not null" json:"duration"`
	Price       float64                     `gorm:"column:price;type:numeric;not null" json:"price"`
	Difficulty  string                      `gorm:"column:difficulty;type:text;not null" json:"difficulty"`
	Category    string                      `gorm:"column:category;type:text;not null" json:"category"`
	Images      datatypes.JSONSlice[string] `gorm:"column:images;type:jsonb" json:"images"`
	Rating      float64                     `gorm:"column:rating;type:numeric;default:0" json:"rating"`
	RatingCount int                         `gorm:"column:rating_count;default:0" json:"ratingCount"`
	IsApproved  bool                        `gorm:"column:is_approved;default:false" json:"isApproved"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Trek) TableName() string {
	return "treks"
}

// Thumbnail returns the first image of the trek, or "" when it has none.
func (t Trek) Thumbnail() string {
	if len(t.Images) == 0 {
		return ""
	}
	return t.Images[0]
}

// TrekFilter narrows catalog reads. Zero values mean "no constraint".
type TrekFilter struct {
	Category   string
	Difficulty string
	MinPrice   float64
	MaxPrice   float64
	Location   string
	ExcludeIDs []string

	// Sort is one of createdAt, price, rating, duration. Empty keeps catalog order.
	Sort  string
	Order string
	Page  int
	Limit int
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

type TrekPage struct {
	Treks      []Trek     `json:"treks"`
	Pagination Pagination `json:"pagination"`
}
