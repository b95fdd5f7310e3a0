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

const collectionAlerts = "alerts"

type AlertRepository struct {
	col *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{col: db.Collection(collectionAlerts)}
}

func (r *AlertRepository) Create(ctx context.Context, a *domain.Alert) (*domain.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}
	return a, nil
}

func (r *AlertRepository) FindByID(ctx context.Context, id string) (*domain.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Alert
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, fmt.Errorf("find alert: %w", err)
	}
	return &a, nil
}

// ListUnacknowledged returns open alerts, newest first.
func (r *AlertRepository) ListUnacknowledged(ctx context.Context) ([]*domain.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"acknowledged": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Alert
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	return out, nil
}

func (r *AlertRepository) HasOpenAlert(ctx context.Context, alertType, relatedUserID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{
		"alert_type":      alertType,
		"related_user_id": relatedUserID,
		"acknowledged":    false,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count alerts: %w", err)
	}
	return n > 0, nil
}

func (r *AlertRepository) Update(ctx context.Context, a *domain.Alert) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlertNotFound
	}
	return nil
}

func (r *AlertRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "acknowledged", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("create alert indexes: %w", err)
	}
	return nil
}
