package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medipresence/hospital-system/internal/core/domain"
)

const (
	collectionPresence = "staff_presence"
	collectionShifts   = "shifts"
)

type PresenceRepository struct {
	presence *mongo.Collection
	shifts   *mongo.Collection
}

func NewPresenceRepository(db *mongo.Database) *PresenceRepository {
	return &PresenceRepository{
		presence: db.Collection(collectionPresence),
		shifts:   db.Collection(collectionShifts),
	}
}

func (r *PresenceRepository) CreatePresence(ctx context.Context, p *domain.StaffPresence) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.presence.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert presence: %w", err)
	}
	return nil
}

func (r *PresenceRepository) FindPresenceByUserID(ctx context.Context, userID string) (*domain.StaffPresence, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.StaffPresence
	if err := r.presence.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPresenceNotFound
		}
		return nil, fmt.Errorf("find presence: %w", err)
	}
	return &p, nil
}

func (r *PresenceRepository) UpdatePresence(ctx context.Context, p *domain.StaffPresence) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.presence.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update presence: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPresenceNotFound
	}
	return nil
}

func (r *PresenceRepository) ListPresence(ctx context.Context) ([]*domain.StaffPresence, error) {
	return r.list(ctx, bson.M{})
}

func (r *PresenceRepository) ListOnDuty(ctx context.Context) ([]*domain.StaffPresence, error) {
	return r.list(ctx, bson.M{"status": domain.PresenceOnDuty})
}

func (r *PresenceRepository) list(ctx context.Context, filter bson.M) ([]*domain.StaffPresence, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.presence.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.StaffPresence
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode presence: %w", err)
	}
	return out, nil
}

func (r *PresenceRepository) CreateShift(ctx context.Context, s *domain.Shift) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if s.ID == "" {
		s.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.shifts.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

// CloseOpenShift stamps clock_out on the user's most recent open shift.
func (r *PresenceRepository) CloseOpenShift(ctx context.Context, userID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "clock_out": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"clock_out": at}}
	opts := options.FindOneAndUpdate().SetSort(bson.D{{Key: "clock_in", Value: -1}})

	err := r.shifts.FindOneAndUpdate(ctx, filter, update, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrShiftNotFound
		}
		return fmt.Errorf("close shift: %w", err)
	}
	return nil
}

// EnsureIndexes creates lookup indexes for presence and shifts.
func (r *PresenceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.presence.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create presence indexes: %w", err)
	}

	if _, err := r.shifts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "clock_in", Value: -1}},
	}); err != nil {
		return fmt.Errorf("create shift indexes: %w", err)
	}
	return nil
}
