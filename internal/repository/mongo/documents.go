package mongo

import (
	"time"

	"myTrekMarket/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	treksCollection     = "treks"
	reviewsCollection   = "reviews"
	bookingsCollection  = "bookings"
	wishlistsCollection = "wishlists"
)

type trekDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      primitive.ObjectID `bson:"userId,omitempty"`
	Title       string             `bson:"title"`
	Location    string             `bson:"location"`
	Description string             `bson:"description"`
	Duration    int                `bson:"duration"`
	Price       float64            `bson:"price"`
	Difficulty  string             `bson:"difficulty"`
	Category    string             `bson:"category"`
	Images      []string           `bson:"images"`
	Rating      float64            `bson:"rating"`
	RatingCount int                `bson:"ratingCount"`
	IsApproved  bool               `bson:"isApproved"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d trekDocument) toDomain() domain.Trek {
	t := domain.Trek{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Location:    d.Location,
		Description: d.Description,
		Duration:    d.Duration,
		Price:       d.Price,
		Difficulty:  d.Difficulty,
		Category:    d.Category,
		Images:      d.Images,
		Rating:      d.Rating,
		RatingCount: d.RatingCount,
		IsApproved:  d.IsApproved,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if !d.UserID.IsZero() {
		t.UserID = d.UserID.Hex()
	}
	return t
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"userId"`
	TrekID    primitive.ObjectID `bson:"trekId"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type bookingDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	UserID        primitive.ObjectID `bson:"userId"`
	TrekID        primitive.ObjectID `bson:"trekId"`
	CompanyID     primitive.ObjectID `bson:"companyId"`
	StartDate     time.Time          `bson:"startDate"`
	EndDate       time.Time          `bson:"endDate"`
	Participants  int                `bson:"participants"`
	TotalPrice    float64            `bson:"totalPrice"`
	Status        string             `bson:"status"`
	PaymentStatus string             `bson:"paymentStatus"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

type wishlistDocument struct {
	ID     primitive.ObjectID   `bson:"_id"`
	UserID primitive.ObjectID   `bson:"userId"`
	Treks  []primitive.ObjectID `bson:"treks"`
}

// objectIDs parses hex ids, dropping any that are not ObjectIDs.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, oid)
	}
	return out
}
