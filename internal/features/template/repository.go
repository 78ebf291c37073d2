package template

import (
	"context"
	"time"

	"go-orgadmin/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TemplateRepository interface {
	Create(ctx context.Context, tmpl *TemplateDefinition) error
	GetByID(ctx context.Context, id string) (*TemplateDefinition, error)
	GetByInternalName(ctx context.Context, name string) (*TemplateDefinition, error)
	List(ctx context.Context, activeOnly bool) ([]TemplateDefinition, error)
	Update(ctx context.Context, id string, tmpl *TemplateDefinition) error
	ExistsByInternalName(ctx context.Context, name string) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type TemplateRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTemplateRepository(mongodb *database.MongodbDB) TemplateRepository {
	return &TemplateRepositoryImpl{
		Collection: mongodb.DB.Collection("templates"),
	}
}

func (r *TemplateRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "internal_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, tmpl *TemplateDefinition) error {
	_, err := r.Collection.InsertOne(ctx, tmpl)
	return err
}

func (r *TemplateRepositoryImpl) GetByID(ctx context.Context, id string) (*TemplateDefinition, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTemplateNotFound
	}
	var tmpl TemplateDefinition
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&tmpl)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

func (r *TemplateRepositoryImpl) GetByInternalName(ctx context.Context, name string) (*TemplateDefinition, error) {
	var tmpl TemplateDefinition
	err := r.Collection.FindOne(ctx, bson.M{"internal_name": name}).Decode(&tmpl)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &tmpl, nil
}

func (r *TemplateRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]TemplateDefinition, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "display_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []TemplateDefinition
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, id string, tmpl *TemplateDefinition) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrTemplateNotFound
	}
	update := bson.M{
		"$set": bson.M{
			"display_name":      tmpl.DisplayName,
			"description":       tmpl.Description,
			"icon":              tmpl.Icon,
			"color":             tmpl.Color,
			"default_sla_hours": tmpl.DefaultSLAHours,
			"is_active":         tmpl.IsActive,
			"fields":            tmpl.Fields,
			"levels":            tmpl.Levels,
			"updated_at":        time.Now(),
		},
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepositoryImpl) ExistsByInternalName(ctx context.Context, name string) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{"internal_name": name})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
