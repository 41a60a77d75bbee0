package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

const collectionCheckIns = "check_ins"

type CheckInRepository struct {
	col *mongo.Collection
}

func NewCheckInRepository(db *mongo.Database) *CheckInRepository {
	return &CheckInRepository{col: db.Collection(collectionCheckIns)}
}

// checkInDocument stores the UTC calendar day next to created_at so the
// one-per-day rule can be a unique index.
type checkInDocument struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"user_id"`
	GymID       string     `bson:"gym_id"`
	Day         string     `bson:"day"`
	CreatedAt   time.Time  `bson:"created_at"`
	ValidatedAt *time.Time `bson:"validated_at"`
}

func (d checkInDocument) toDomain() *domain.CheckIn {
	c := &domain.CheckIn{
		ID:        d.ID,
		UserID:    d.UserID,
		GymID:     d.GymID,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.ValidatedAt != nil {
		v := d.ValidatedAt.UTC()
		c.ValidatedAt = &v
	}
	return c
}

// Create inserts a check-in. A second check-in by the same user on the same
// UTC day violates uniq_user_day and is reported as domain.ErrDuplicateCheckIn.
func (r *CheckInRepository) Create(ctx context.Context, c *domain.CheckIn) (*domain.CheckIn, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := checkInDocument{
		ID:          uuid.NewString(),
		UserID:      c.UserID,
		GymID:       c.GymID,
		Day:         domain.CalendarDay(c.CreatedAt),
		CreatedAt:   c.CreatedAt,
		ValidatedAt: c.ValidatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateCheckIn
		}
		return nil, fmt.Errorf("insert check-in: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CheckInRepository) FindByID(ctx context.Context, id string) (*domain.CheckIn, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CheckInRepository) FindByUserOnDay(ctx context.Context, userID string, day time.Time) (*domain.CheckIn, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "day": domain.CalendarDay(day)})
}

func (r *CheckInRepository) findOne(ctx context.Context, filter bson.M) (*domain.CheckIn, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc checkInDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCheckInNotFound
		}
		return nil, fmt.Errorf("find check-in: %w", err)
	}
	return doc.toDomain(), nil
}

// Update persists validated_at. The write only applies while the stored
// check-in is still unvalidated; losing that race yields
// domain.ErrAlreadyValidated.
func (r *CheckInRepository) Update(ctx context.Context, c *domain.CheckIn) (*domain.CheckIn, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": c.ID, "validated_at": nil}
	update := bson.M{"$set": bson.M{"validated_at": c.ValidatedAt}}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("update check-in: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, c.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrAlreadyValidated
	}
	return c, nil
}

func (r *CheckInRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return n, nil
}

// FindManyByUser returns one page of the user's check-ins, newest first.
func (r *CheckInRepository) FindManyByUser(ctx context.Context, userID string, page int) ([]*domain.CheckIn, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(domain.PageOffset(page))).
		SetLimit(domain.PageSize)

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find check-ins: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []checkInDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode check-ins: %w", err)
	}

	out := make([]*domain.CheckIn, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the (user_id, day) unique index and the history index.
func (r *CheckInRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_day"),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("check_ins indexes: %w", err)
	}
	return nil
}
