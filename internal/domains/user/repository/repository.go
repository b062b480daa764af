package repository

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"book-catalog-api/internal/domain"
	"book-catalog-api/internal/domains/user/model"
	"book-catalog-api/internal/infrastructure/database"
	store "book-catalog-api/pkg/repository"
)

type userRepository struct {
	*store.Repository[domain.User]
}

func NewUserRepository(db *goqu.Database) UserRepository {
	return &userRepository{Repository: store.New(db, domain.UserSchema)}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if err := r.Repository.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.Get(ctx,
		goqu.Func("LOWER", goqu.C("email")).Eq(strings.ToLower(email)),
		store.NoTracking[domain.User](),
	)
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.Get(ctx, goqu.Ex{"id": id}, store.NoTracking[domain.User]())
}

// SetAdmin flips the flag on the tracked user and lets Save write the
// changed column. Without a request session it writes directly.
func (r *userRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	u, err := r.MustGet(ctx, goqu.Ex{"id": id})
	if err != nil {
		return err
	}
	u.IsAdmin = isAdmin

	if store.SessionFrom(ctx) == nil {
		return r.Update(ctx, u)
	}
	return r.Save(ctx)
}
