package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Image is the binary store behind every image reference in the catalog.
// Records are created only by the upload endpoint and deleted explicitly by
// the owning mutation; there is no garbage collection, so a skipped deletion
// path leaves an orphan.
type Image struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Data        primitive.Binary   `bson:"data" json:"-"`
	ContentType string             `bson:"contentType" json:"contentType"`
	ThumbURL    string             `bson:"thumbUrl,omitempty" json:"thumbUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type ImagesStore struct {
	col *mongo.Collection
}

func (s *ImagesStore) Put(ctx context.Context, data []byte, contentType, thumbURL string) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	image := Image{
		ID:          primitive.NewObjectID(),
		Data:        primitive.Binary{Subtype: 0x00, Data: data},
		ContentType: contentType,
		ThumbURL:    thumbURL,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, image); err != nil {
		return primitive.NilObjectID, err
	}
	return image.ID, nil
}

func (s *ImagesStore) Get(ctx context.Context, id primitive.ObjectID) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var image Image
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&image)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (s *ImagesStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes a batch of image records. Missing ids are not an error:
// cascades may race with manual cleanup.
func (s *ImagesStore) DeleteMany(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}
