package domain

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

type Review struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	TrekID    string    `gorm:"column:trek_id;type:uuid;not null" json:"trekId"`
	Trek      *Trek     `gorm:"foreignKey:TrekID" json:"trek,omitempty"`
	Rating    int       `gorm:"column:rating;not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"column:comment;type:text" json:"comment,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Review) TableName() string {
	return "reviews"
}

type Booking struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	UserID        string    `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	TrekID        string    `gorm:"column:trek_id;type:uuid;not null" json:"trekId"`
	Trek          *Trek     `gorm:"foreignKey:TrekID" json:"trek,omitempty"`
	CompanyID     string    `gorm:"column:company_id;type:uuid;not null" json:"companyId"`
	StartDate     time.Time `gorm:"column:start_date" json:"startDate"`
	EndDate       time.Time `gorm:"column:end_date" json:"endDate"`
	Participants  int       `gorm:"column:participants" json:"participants"`
	TotalPrice    float64   `gorm:"column:total_price;type:numeric" json:"totalPrice"`
	Status        string    `gorm:"column:status;type:text;default:pending" json:"status"`
	PaymentStatus string    `gorm:"column:payment_status;type:text;default:pending" json:"paymentStatus"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Wishlist is the single wishlist row of a user. TrekIDs holds the raw
// references and may be longer than Treks when a referenced trek is gone.
type Wishlist struct {
	ID      string   `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"_id"`
	UserID  string   `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	Treks   []Trek   `gorm:"many2many:wishlist_treks;" json:"treks"`
	TrekIDs []string `gorm:"-" json:"-"`
}

func (Wishlist) TableName() string {
	return "wishlists"
}

// InteractionHistory is everything a user has done with the catalog.
type InteractionHistory struct {
	Reviews  []Review
	Bookings []Booking
	Wishlist *Wishlist
}

// InteractedTrekIDs returns the ids of every trek the user reviewed, booked or wishlisted.
func (h InteractionHistory) InteractedTrekIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(h.Reviews)+len(h.Bookings))

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, r := range h.Reviews {
		add(r.TrekID)
	}
	for _, b := range h.Bookings {
		add(b.TrekID)
	}
	if h.Wishlist != nil {
		for _, id := range h.Wishlist.TrekIDs {
			add(id)
		}
		for _, t := range h.Wishlist.Treks {
			add(t.ID)
		}
	}

	return ids
}
