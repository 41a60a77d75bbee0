package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/geo"
)

const collectionGyms = "gyms"

type GymRepository struct {
	col *mongo.Collection
}

func NewGymRepository(db *mongo.Database) *GymRepository {
	return &GymRepository{col: db.Collection(collectionGyms)}
}

// geoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type geoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type gymDocument struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description *string   `bson:"description,omitempty"`
	Phone       *string   `bson:"phone,omitempty"`
	Location    geoPoint  `bson:"location"`
	CreatedAt   time.Time `bson:"created_at"`
}

func newGymDocument(g *domain.Gym) gymDocument {
	return gymDocument{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Phone:       g.Phone,
		Location:    geoPoint{Type: "Point", Coordinates: []float64{g.Longitude, g.Latitude}},
		CreatedAt:   g.CreatedAt,
	}
}

func (d gymDocument) toDomain() *domain.Gym {
	g := &domain.Gym{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Phone:       d.Phone,
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if len(d.Location.Coordinates) == 2 {
		g.Longitude = d.Location.Coordinates[0]
		g.Latitude = d.Location.Coordinates[1]
	}
	return g
}

func (r *GymRepository) Create(ctx context.Context, g *domain.Gym) (*domain.Gym, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newGymDocument(g)
	doc.ID = uuid.NewString()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert gym: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GymRepository) FindByID(ctx context.Context, id string) (*domain.Gym, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc gymDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGymNotFound
		}
		return nil, fmt.Errorf("find gym: %w", err)
	}
	return doc.toDomain(), nil
}

// SearchByTitle matches query literally anywhere in the title, ignoring case.
func (r *GymRepository) SearchByTitle(ctx context.Context, query string, page int) ([]*domain.Gym, error) {
	filter := bson.M{"title": titleContains(query)}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(domain.PageOffset(page))).
		SetLimit(domain.PageSize)

	return r.find(ctx, filter, opts)
}

// FindWithinRadius returns gyms inside a spherical cap of radiusKm. The
// result is a superset candidate list; callers apply the exact bound.
func (r *GymRepository) FindWithinRadius(ctx context.Context, latitude, longitude, radiusKm float64) ([]*domain.Gym, error) {
	return r.find(ctx, withinRadius(latitude, longitude, radiusKm), options.Find())
}

func (r *GymRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Gym, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find gyms: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []gymDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode gyms: %w", err)
	}

	gyms := make([]*domain.Gym, 0, len(docs))
	for _, d := range docs {
		gyms = append(gyms, d.toDomain())
	}
	return gyms, nil
}

// EnsureIndexes creates the 2dsphere index used by FindWithinRadius and the
// ordering index used by SearchByTitle.
func (r *GymRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("gyms indexes: %w", err)
	}
	return nil
}

func titleContains(query string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
}

// $centerSphere takes its radius in radians.
func withinRadius(latitude, longitude, radiusKm float64) bson.M {
	return bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{longitude, latitude},
					radiusKm / geo.EarthRadiusKm,
				},
			},
		},
	}
}
