package mongo

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// workoutDoc is the persisted shape of a domain.Workout. Embedded exercises
// and sets are stored inline; only workout IDs are ObjectIDs.
type workoutDoc struct {
	ID            primitive.ObjectID       `bson:"_id,omitempty"`
	OwnerID       primitive.ObjectID       `bson:"ownerId"`
	Name          string                   `bson:"name"`
	ScheduledDate time.Time                `bson:"scheduledDate"`
	Color         string                   `bson:"color,omitempty"`
	Notes         string                   `bson:"notes,omitempty"`
	Exercises     []domain.WorkoutExercise `bson:"exercises,omitempty"`
	CreatedAt     time.Time                `bson:"createdAt"`
	UpdatedAt     time.Time                `bson:"updatedAt"`
}

func (d *workoutDoc) toDomain() *domain.Workout {
	return &domain.Workout{
		ID:            d.ID.Hex(),
		OwnerID:       d.OwnerID.Hex(),
		Name:          d.Name,
		ScheduledDate: d.ScheduledDate,
		Color:         d.Color,
		Notes:         d.Notes,
		Exercises:     d.Exercises,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout. The caller's temp ID (if any) is not
// persisted; the durable ID is returned.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (string, error) {
	ownerID, err := parseID(workout.OwnerID)
	if err != nil {
		return "", err
	}
	if workout.Name == "" {
		return "", errors.New("workout requires a name")
	}
	now := time.Now().UTC()
	doc := workoutDoc{
		ID:            primitive.NewObjectID(),
		OwnerID:       ownerID,
		Name:          workout.Name,
		ScheduledDate: workout.ScheduledDate,
		Color:         workout.Color,
		Notes:         workout.Notes,
		Exercises:     workout.Exercises,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("failed to convert inserted workout ID")
	}
	workout.CreatedAt = now
	workout.UpdatedAt = now
	return insertedID.Hex(), nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id string) (*domain.Workout, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc workoutDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// GetByOwnerID retrieves all workouts for a user, sorted by scheduled date.
func (r *mongoWorkoutRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]domain.Workout, error) {
	oid, err := parseID(ownerID)
	if err != nil {
		return nil, err
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": oid}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workoutDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	workouts := make([]domain.Workout, len(docs))
	for i := range docs {
		workouts[i] = *docs[i].toDomain()
	}
	return workouts, nil
}

// Update applies a partial update to one workout, ensuring ownership.
func (r *mongoWorkoutRepository) Update(ctx context.Context, id, ownerID string, fields domain.WorkoutUpdate) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	owner, err := parseID(ownerID)
	if err != nil {
		return err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.ScheduledDate != nil {
		set["scheduledDate"] = *fields.ScheduledDate
	}
	if fields.Color != nil {
		set["color"] = *fields.Color
	}
	if fields.Notes != nil {
		set["notes"] = *fields.Notes
	}

	filter := bson.M{"_id": oid, "ownerId": owner}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout, ensuring ownership at the DB level.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	owner, err := parseID(ownerID)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": owner})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Workout not found OR not owned by this user.
		return repository.ErrNotFound
	}
	return nil
}

// AddExercises appends exercise slots (with their sets) to a workout.
func (r *mongoWorkoutRepository) AddExercises(ctx context.Context, workoutID, ownerID string, exercises []domain.WorkoutExercise) error {
	oid, err := parseID(workoutID)
	if err != nil {
		return err
	}
	owner, err := parseID(ownerID)
	if err != nil {
		return err
	}
	if len(exercises) == 0 {
		return nil
	}

	filter := bson.M{"_id": oid, "ownerId": owner}
	update := bson.M{
		"$push": bson.M{"exercises": bson.M{"$each": exercises}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RemoveExercise detaches one exercise slot from a workout. Removing an
// exercise that is not attached matches the workout and modifies nothing,
// which is not an error.
func (r *mongoWorkoutRepository) RemoveExercise(ctx context.Context, workoutID, ownerID, exerciseID string) error {
	oid, err := parseID(workoutID)
	if err != nil {
		return err
	}
	owner, err := parseID(ownerID)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "ownerId": owner}
	update := bson.M{
		"$pull": bson.M{"exercises": bson.M{"exerciseId": exerciseID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
