package repository

import (
	"context"

	"github.com/thinkzo/intake/internal/contact/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, submission *domain.ContactSubmission) error {
	return db.WithContext(ctx).Create(submission).Error
}
