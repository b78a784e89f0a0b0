package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GalleryImage is a project/installation photo shown on the public gallery
// page. Category is a free-text label used only for grouping. Some legacy
// records carry no bilingual title at all, just the category string.
type GalleryImage struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       Localized           `bson:"title" json:"title"`
	Description Localized           `bson:"description" json:"description"`
	ImageID     *primitive.ObjectID `bson:"imageId,omitempty" json:"imageId,omitempty"`
	ThumbID     *primitive.ObjectID `bson:"thumbId,omitempty" json:"thumbId,omitempty"`
	ThumbURL    string              `bson:"thumbUrl,omitempty" json:"thumbUrl,omitempty"`
	Category    string              `bson:"category" json:"category"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// ImageIDs returns the image and thumbnail references for the deletion
// cascade.
func (g *GalleryImage) ImageIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	if g.ImageID != nil {
		ids = append(ids, *g.ImageID)
	}
	if g.ThumbID != nil {
		ids = append(ids, *g.ThumbID)
	}
	return ids
}

type GalleryStore struct {
	col *mongo.Collection
}

func (s *GalleryStore) list(ctx context.Context, filter bson.M) ([]GalleryImage, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []GalleryImage
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (s *GalleryStore) List(ctx context.Context) ([]GalleryImage, error) {
	return s.list(ctx, bson.M{})
}

func (s *GalleryStore) ListByCategory(ctx context.Context, category string) ([]GalleryImage, error) {
	return s.list(ctx, bson.M{"category": category})
}

func (s *GalleryStore) GetByID(ctx context.Context, id primitive.ObjectID) (*GalleryImage, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var image GalleryImage
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (s *GalleryStore) Create(ctx context.Context, image *GalleryImage) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	image.ID = primitive.NewObjectID()
	image.CreatedAt = time.Now().UTC()
	_, err := s.col.InsertOne(ctx, image)
	return err
}

func (s *GalleryStore) Update(ctx context.Context, image *GalleryImage) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":       image.Title,
		"description": image.Description,
		"imageId":     image.ImageID,
		"thumbId":     image.ThumbID,
		"thumbUrl":    image.ThumbURL,
		"category":    image.Category,
	}}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": image.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GalleryStore) Delete(ctx context.Context, id primitive.ObjectID) (*GalleryImage, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var image GalleryImage
	err := s.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}
