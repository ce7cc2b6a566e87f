package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/housemarket/browse-service/internal/entity"
	"github.com/housemarket/browse-service/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingCollectionName = "listings"

type ListingMongoRepository struct {
	db *mongo.Database
}

func NewListingMongoRepository(client *mongo.Client, dbName string) *ListingMongoRepository {
	return &ListingMongoRepository{
		db: client.Database(dbName),
	}
}

type geolocationDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type listingDocument struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	Type            string               `bson:"type"`
	Name            string               `bson:"name"`
	Address         string               `bson:"address"`
	RegularPrice    float64              `bson:"regular_price"`
	Offer           bool                 `bson:"offer"`
	DiscountedPrice float64              `bson:"discounted_price,omitempty"`
	Bedrooms        int                  `bson:"bedrooms"`
	Bathrooms       int                  `bson:"bathrooms"`
	Parking         bool                 `bson:"parking"`
	Furnished       bool                 `bson:"furnished"`
	ImgURLs         []string             `bson:"img_urls"`
	Geolocation     *geolocationDocument `bson:"geolocation,omitempty"`
	Contact         string               `bson:"contact,omitempty"`
	UserRef         string               `bson:"user_ref"`
	Timestamp       primitive.DateTime   `bson:"timestamp"`
}

func toListingDocument(l *entity.Listing) (*listingDocument, error) {
	doc := &listingDocument{
		Type:            string(l.Type),
		Name:            l.Name,
		Address:         l.Address,
		RegularPrice:    l.RegularPrice,
		Offer:           l.Offer,
		DiscountedPrice: l.DiscountedPrice,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		Parking:         l.Parking,
		Furnished:       l.Furnished,
		ImgURLs:         l.ImgURLs,
		Contact:         l.Contact,
		UserRef:         l.UserRef,
		Timestamp:       primitive.NewDateTimeFromTime(l.Timestamp),
	}
	if l.Geolocation != nil {
		doc.Geolocation = &geolocationDocument{Lat: l.Geolocation.Lat, Lng: l.Geolocation.Lng}
	}
	if l.ID != "" {
		objID, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toListingEntity(doc *listingDocument) *entity.Listing {
	l := &entity.Listing{
		ID:              doc.ID.Hex(),
		Type:            entity.ListingType(doc.Type),
		Name:            doc.Name,
		Address:         doc.Address,
		RegularPrice:    doc.RegularPrice,
		Offer:           doc.Offer,
		DiscountedPrice: doc.DiscountedPrice,
		Bedrooms:        doc.Bedrooms,
		Bathrooms:       doc.Bathrooms,
		Parking:         doc.Parking,
		Furnished:       doc.Furnished,
		ImgURLs:         doc.ImgURLs,
		Contact:         doc.Contact,
		UserRef:         doc.UserRef,
		Timestamp:       doc.Timestamp.Time(),
	}
	if doc.Geolocation != nil {
		l.Geolocation = &entity.Geolocation{Lat: doc.Geolocation.Lat, Lng: doc.Geolocation.Lng}
	}
	return l
}

func (r *ListingMongoRepository) Create(ctx context.Context, listing *entity.Listing) (string, error) {
	doc, err := toListingDocument(listing)
	if err != nil {
		return "", err
	}

	res, err := r.db.Collection(listingCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create listing in mongo: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	return insertedID.Hex(), nil
}

func (r *ListingMongoRepository) Update(ctx context.Context, listing *entity.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("listing ID is required for update")
	}

	res, err := r.db.Collection(listingCollectionName).UpdateOne(ctx,
		bson.M{"_id": doc.ID}, bson.M{"$set": doc})
	if err != nil {
		return fmt.Errorf("failed to update listing in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingMongoRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.db.Collection(listingCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete listing from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ListingMongoRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var doc listingDocument
	err = r.db.Collection(listingCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by id from mongo: %w", err)
	}
	return toListingEntity(&doc), nil
}

func (r *ListingMongoRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			// Stale ids in a client-persisted set are expected; skip them.
			continue
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return []*entity.Listing{}, nil
	}

	cursor, err := r.db.Collection(listingCollectionName).Find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to get listings by ids from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings from mongo: %w", err)
	}

	listings := make([]*entity.Listing, len(docs))
	for i := range docs {
		listings[i] = toListingEntity(&docs[i])
	}
	return listings, nil
}

// FindPage fetches one timestamp-descending page. The cursor is strict: only
// documents older than the cursor's timestamp qualify, with the object id as
// tiebreak for listings created in the same instant.
func (r *ListingMongoRepository) FindPage(ctx context.Context, query repository.ListingQuery, after *repository.Cursor, limit int64) ([]*entity.Listing, error) {
	mongoFilter := bson.M{}
	if query.Type != "" {
		mongoFilter["type"] = string(query.Type)
	}
	if query.OfferOnly {
		mongoFilter["offer"] = true
	}
	if query.UserRef != "" {
		mongoFilter["user_ref"] = query.UserRef
	}

	if after != nil {
		afterTS := primitive.NewDateTimeFromTime(after.Timestamp)
		if objID, err := primitive.ObjectIDFromHex(after.ID); err == nil {
			mongoFilter["$or"] = bson.A{
				bson.M{"timestamp": bson.M{"$lt": afterTS}},
				bson.M{"timestamp": afterTS, "_id": bson.M{"$lt": objID}},
			}
		} else {
			mongoFilter["timestamp"] = bson.M{"$lt": afterTS}
		}
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	findOptions.SetLimit(limit)

	cursor, err := r.db.Collection(listingCollectionName).Find(ctx, mongoFilter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listing page from mongo: %w", err)
	}

	listings := make([]*entity.Listing, len(docs))
	for i := range docs {
		listings[i] = toListingEntity(&docs[i])
	}
	return listings, nil
}
