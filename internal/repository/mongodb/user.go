package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/keepsake-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// userDocument is the stored shape of a user. Lists are embedded.
type userDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Username    string             `bson:"username"`
	Password    string             `bson:"password"`
	Session     string             `bson:"session,omitempty"`
	Quotes      []model.Quote      `bson:"quotes,omitempty"`
	Experiences []model.Experience `bson:"experiences,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty"`
}

func toDocument(u model.User) userDocument {
	return userDocument{
		Username:    u.Username,
		Password:    u.Password,
		Session:     u.Session,
		Quotes:      u.Quotes,
		Experiences: u.Experiences,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (d userDocument) toModel() model.User {
	return model.User{
		Username:    d.Username,
		Password:    d.Password,
		Session:     d.Session,
		Quotes:      d.Quotes,
		Experiences: d.Experiences,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{users: conn.users}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}}, "username")
}

func (r *UserRepository) GetBySession(ctx context.Context, session string) (model.User, error) {
	if session == "" {
		return model.User{}, model.ErrNotFound
	}
	return r.findOne(ctx, bySession(session), "session")
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D, by string) (model.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by %s: %w", by, err)
	}
	return doc.toModel(), nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	if _, err := r.users.InsertOne(ctx, toDocument(user)); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) SetSession(ctx context.Context, username, session string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "session", Value: session},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}

	if _, err := r.users.UpdateOne(ctx, bson.D{{Key: "username", Value: username}}, update); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (r *UserRepository) ClearSession(ctx context.Context, session string) error {
	if session == "" {
		return nil
	}

	update := bson.D{
		{Key: "$unset", Value: bson.D{{Key: "session", Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}},
	}

	if _, err := r.users.UpdateOne(ctx, bySession(session), update); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *UserRepository) PushQuote(ctx context.Context, session string, quote model.Quote) (model.UpdateResult, error) {
	return r.pushFront(ctx, session, "quotes", quote)
}

func (r *UserRepository) PullQuote(ctx context.Context, session, quoteID string) (model.UpdateResult, error) {
	return r.pull(ctx, session, "quotes", quoteID)
}

func (r *UserRepository) PushExperience(ctx context.Context, session string, experience model.Experience) (model.UpdateResult, error) {
	return r.pushFront(ctx, session, "experiences", experience)
}

func (r *UserRepository) PullExperience(ctx context.Context, session, experienceID string) (model.UpdateResult, error) {
	return r.pull(ctx, session, "experiences", experienceID)
}

// PatchExperience sets the editable fields on every experience with the
// given id. The filter requires such an experience to exist because array
// filters fail on documents without the array; a miss is then resolved to
// either an unknown session or an unknown item.
func (r *UserRepository) PatchExperience(ctx context.Context, session, experienceID string, patch model.ExperiencePatch) (model.UpdateResult, error) {
	if session == "" {
		return model.UpdateResult{}, nil
	}

	filter := bson.D{
		{Key: "session", Value: session},
		{Key: "experiences.id", Value: experienceID},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "experiences.$[e].tried", Value: patch.Tried},
		{Key: "experiences.$[e].dateTried", Value: patch.DateTried},
		{Key: "experiences.$[e].notes", Value: patch.Notes},
	}}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.D{{Key: "e.id", Value: experienceID}}},
	})

	res, err := r.users.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to patch experience: %w", err)
	}
	if res.MatchedCount > 0 {
		// Re-setting identical values is not reported as unchanged.
		return model.UpdateResult{Matched: res.MatchedCount, Modified: res.MatchedCount}, nil
	}

	owners, err := r.users.CountDocuments(ctx, bySession(session), options.Count().SetLimit(1))
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to count session owners: %w", err)
	}
	return model.UpdateResult{Matched: owners}, nil
}

func (r *UserRepository) pushFront(ctx context.Context, session, field string, item any) (model.UpdateResult, error) {
	if session == "" {
		return model.UpdateResult{}, nil
	}

	update := bson.D{{Key: "$push", Value: bson.D{{Key: field, Value: bson.D{
		{Key: "$each", Value: bson.A{item}},
		{Key: "$position", Value: 0},
	}}}}}

	res, err := r.users.UpdateOne(ctx, bySession(session), update)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to push to %s: %w", field, err)
	}
	return model.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (r *UserRepository) pull(ctx context.Context, session, field, itemID string) (model.UpdateResult, error) {
	if session == "" {
		return model.UpdateResult{}, nil
	}

	update := bson.D{{Key: "$pull", Value: bson.D{{Key: field, Value: bson.D{{Key: "id", Value: itemID}}}}}}

	res, err := r.users.UpdateOne(ctx, bySession(session), update)
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to pull from %s: %w", field, err)
	}
	return model.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func bySession(session string) bson.D {
	return bson.D{{Key: "session", Value: session}}
}
