package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/s2cr/repair-desk/internal/core/domain"
)

const countersCollection = "counters"

// collections maps each principal kind to its own collection. Emails are
// unique per collection only.
var collections = map[domain.Kind]string{
	domain.KindClient:        "clients",
	domain.KindTechnician:    "technicians",
	domain.KindAdministrator: "administrators",
}

// CredentialStore implements ports.CredentialStore on MongoDB.
type CredentialStore struct {
	db *mongo.Database
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{db: db}
}

type principalDoc struct {
	ID           int64      `bson:"_id"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	IsActive     bool       `bson:"is_active"`
	FirstName    string     `bson:"first_name,omitempty"`
	LastName     string     `bson:"last_name,omitempty"`
	Mobile       string     `bson:"mobile,omitempty"`
	Address      string     `bson:"address,omitempty"`
	City         string     `bson:"city,omitempty"`
	Specialty    string     `bson:"specialty,omitempty"`
	AdminID      int64      `bson:"admin_id,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	LastLogin    *time.Time `bson:"last_login,omitempty"`
}

func toDoc(p domain.Principal) principalDoc {
	a := p.Base()
	doc := principalDoc{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Mobile:       a.Mobile,
		Address:      a.Address,
		CreatedAt:    a.CreatedAt.UTC(),
		LastLogin:    a.LastLogin,
	}
	switch v := p.(type) {
	case *domain.Client:
		doc.AdminID, doc.City = v.AdminID, v.City
	case *domain.Technician:
		doc.AdminID, doc.City, doc.Specialty = v.AdminID, v.City, v.Specialty
	}
	return doc
}

func (d principalDoc) toDomain(kind domain.Kind) (domain.Principal, error) {
	p, err := domain.NewPrincipal(kind, domain.PrincipalFields{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Mobile:    d.Mobile,
		Address:   d.Address,
		City:      d.City,
		Specialty: d.Specialty,
		AdminID:   d.AdminID,
	})
	if err != nil {
		return nil, err
	}
	a := p.Base()
	a.ID = d.ID
	a.Email = d.Email
	a.PasswordHash = d.PasswordHash
	a.IsActive = d.IsActive
	a.CreatedAt = d.CreatedAt.UTC()
	if d.LastLogin != nil {
		t := d.LastLogin.UTC()
		a.LastLogin = &t
	}
	return p, nil
}

func (r *CredentialStore) coll(kind domain.Kind) (*mongo.Collection, error) {
	name, ok := collections[kind]
	if !ok {
		return nil, domain.ErrUnknownKind
	}
	return r.db.Collection(name), nil
}

// nextID atomically increments the per-kind sequence.
func (r *CredentialStore) nextID(ctx context.Context, kind domain.Kind) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": collections[kind]},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", kind, err)
	}
	return counter.Seq, nil
}

func (r *CredentialStore) Create(ctx context.Context, p domain.Principal) (domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	kind := p.Kind()
	coll, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	id, err := r.nextID(ctx, kind)
	if err != nil {
		return nil, err
	}

	doc := toDoc(p)
	doc.ID = id
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}
	return doc.toDomain(kind)
}

func (r *CredentialStore) FindByEmail(ctx context.Context, kind domain.Kind, email string) (domain.Principal, error) {
	return r.findOne(ctx, kind, bson.M{"email": email})
}

func (r *CredentialStore) FindByID(ctx context.Context, kind domain.Kind, id int64) (domain.Principal, error) {
	return r.findOne(ctx, kind, bson.M{"_id": id})
}

func (r *CredentialStore) FirstAdministrator(ctx context.Context) (*domain.Administrator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc principalDoc
	err := r.db.Collection(collections[domain.KindAdministrator]).
		FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).
		Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find first administrator: %w", err)
	}
	p, err := doc.toDomain(domain.KindAdministrator)
	if err != nil {
		return nil, err
	}
	return p.(*domain.Administrator), nil
}

func (r *CredentialStore) List(ctx context.Context, kind domain.Kind) ([]domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	coll, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	var docs []principalDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", kind, err)
	}

	out := make([]domain.Principal, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain(kind)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *CredentialStore) UpdateLastLogin(ctx context.Context, kind domain.Kind, id int64, at time.Time) error {
	return r.set(ctx, kind, id, bson.M{"last_login": at.UTC()})
}

func (r *CredentialStore) UpdatePassword(ctx context.Context, kind domain.Kind, id int64, hash string) error {
	return r.set(ctx, kind, id, bson.M{"password_hash": hash})
}

func (r *CredentialStore) SetActive(ctx context.Context, kind domain.Kind, id int64, active bool) error {
	return r.set(ctx, kind, id, bson.M{"is_active": active})
}

// EnsureIndexes creates the unique email index on every principal collection.
func (r *CredentialStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, kind := range domain.Kinds {
		coll, _ := r.coll(kind)
		_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		})
		if err != nil {
			return fmt.Errorf("ensure %s indexes: %w", kind, err)
		}
	}
	return nil
}

func (r *CredentialStore) findOne(ctx context.Context, kind domain.Kind, filter bson.M) (domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	coll, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	var doc principalDoc
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	return doc.toDomain(kind)
}

func (r *CredentialStore) set(ctx context.Context, kind domain.Kind, id int64, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	coll, err := r.coll(kind)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s %d: %w", kind, id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}
