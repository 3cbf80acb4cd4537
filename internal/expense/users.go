package expense

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/service"
)

// RegisterUser creates a user together with a copy of the default
// categories. Both are written in one transaction.
func (s *Service) RegisterUser(ctx context.Context, email, fullName string) (*model.User, []model.Category, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, invalid("email %q is not a valid address", email)
	}

	user := &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		CreatedAt: s.now().UTC(),
	}

	var categories []model.Category
	err := s.withTx(ctx, func(tx service.Transaction) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		var err error
		categories, err = s.provisionDefaults(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("registered user", "user_id", user.ID, "categories", len(categories))
	return user, categories, nil
}

// ProvisionDefaults adds any default category the user is missing. Existing
// categories are left untouched.
func (s *Service) ProvisionDefaults(ctx context.Context, userID string) ([]model.Category, error) {
	var created []model.Category
	err := s.withTx(ctx, func(tx service.Transaction) error {
		var err error
		created, err = s.provisionDefaults(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to provision default categories: %w", err)
	}
	return created, nil
}

func (s *Service) provisionDefaults(ctx context.Context, store service.Storage, userID string) ([]model.Category, error) {
	existing, err := store.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Creation order drives resolver tie-breaks, so templates are spaced
	// by a microsecond to keep listing order stable.
	base := s.now().UTC()
	var created []model.Category
	for i, tmpl := range model.DefaultCategories {
		if model.FindCategoryByName(existing, tmpl.Name) != nil {
			continue
		}
		cat := model.Category{
			ID:        uuid.NewString(),
			OwnerID:   userID,
			Name:      tmpl.Name,
			Emoji:     tmpl.Emoji,
			IsSystem:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
		}
		if err := store.CreateCategory(ctx, &cat); err != nil {
			return nil, err
		}
		created = append(created, cat)
	}
	return created, nil
}

// GetUser returns the user with id.
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.store.GetUser(ctx, id)
}
