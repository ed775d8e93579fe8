package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dvillegas/socialnet-backend/internal/models"
	"github.com/dvillegas/socialnet-backend/pkg/utils"
)

// UserPageSize is the page size of the public user listing.
const UserPageSize = 2

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrNickTaken    = errors.New("nick already taken")
)

// ValidationErrors maps a field name to the reason it failed.
type ValidationErrors map[string]string

// ProfileUpdate carries the optional fields of a profile update. Absent
// fields are left untouched.
type ProfileUpdate struct {
	Name        string `json:"name,omitempty"`
	Nick        string `json:"nick,omitempty"`
	Password    string `json:"password,omitempty"`
	Description string `json:"description,omitempty"`
}

func (u ProfileUpdate) Empty() bool {
	return u.Name == "" && u.Nick == "" && u.Password == "" && u.Description == ""
}

// UserService is the directory of user records.
type UserService struct {
	users *mongo.Collection
}

func NewUserService(db *mongo.Database) *UserService {
	return &UserService{users: db.Collection("users")}
}

// ValidateRegistration checks the registration fields in a fixed order
// (name, nick, email, password) and reports only the first violation.
func (s *UserService) ValidateRegistration(name, nick, email, password string) ValidationErrors {
	errs := ValidationErrors{}
	switch {
	case len(name) < 3 || len(name) > 25:
		errs["name"] = "invalid name"
	case len(nick) < 3 || len(nick) > 25:
		errs["nick"] = "invalid nick"
	case !strings.Contains(email, "@"):
		errs["email"] = "invalid email"
	case len(password) < 4:
		errs["password"] = "password needs at least 4 characters"
	}
	return errs
}

// Exists returns the stored user matching nick or email, or nil when neither
// is taken.
func (s *UserService) Exists(ctx context.Context, nick, email string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{bson.M{"nick": nick}, bson.M{"email": email}}}
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logrus.WithError(err).Error("user existence check failed")
		return nil, err
	}
	return &user, nil
}

func (s *UserService) FindByNick(ctx context.Context, nick string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"nick": nick}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logrus.WithError(err).Error("user lookup failed")
		return nil, err
	}
	return &user, nil
}

// Register persists a new user. The password must already be a hashed
// digest; this layer never sees plaintext.
func (s *UserService) Register(ctx context.Context, user *models.User) error {
	if user.Image == "" {
		user.Image = models.DefaultImage
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrUserExists
	}
	if err != nil {
		logrus.WithError(err).Error("user insert failed")
		return err
	}
	return nil
}

// UpdateProfile applies the present fields of update to the user record.
// A changed nick is re-checked against the directory first, and a changed
// password is re-hashed before storage.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if update.Nick != "" {
		other, err := s.FindByNick(ctx, update.Nick)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrNickTaken
		}
		set["nick"] = update.Nick
	}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Description != "" {
		set["description"] = update.Description
	}
	if update.Password != "" {
		hash, err := utils.HashPassword(update.Password)
		if err != nil {
			return nil, err
		}
		set["password"] = hash
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		// The unique index catches the race between the nick check above
		// and this write.
		return nil, ErrNickTaken
	}
	if err != nil {
		logrus.WithError(err).Error("profile update failed")
		return nil, err
	}
	return &user, nil
}

// UpdateImage stores a new image reference for the user.
func (s *UserService) UpdateImage(ctx context.Context, id primitive.ObjectID, imageRef string) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"image": imageRef}}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logrus.WithError(err).Error("image update failed")
		return nil, err
	}
	return &user, nil
}

// List returns one page of users in insertion order, restricted to the
// public nick/name/id fields.
func (s *UserService) List(ctx context.Context, page int64) (*Page[models.PublicUser], error) {
	total, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		logrus.WithError(err).Error("user count failed")
		return nil, err
	}

	opts := options.Find().
		SetProjection(bson.M{"nick": 1, "name": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip((page - 1) * UserPageSize).
		SetLimit(UserPageSize)
	cur, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		logrus.WithError(err).Error("user listing failed")
		return nil, err
	}
	var docs []models.PublicUser
	if err := cur.All(ctx, &docs); err != nil {
		logrus.WithError(err).Error("user listing decode failed")
		return nil, err
	}
	return newPage(docs, total, page, UserPageSize), nil
}
