// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListTags(context context.Context, limit, offset int) ([]*Tag, int, error) {
	return service.repo.List(context, limit, offset)
}

func (service *Service) GetTag(context context.Context, id int64) (*Tag, error) {
	return service.repo.FindByID(context, id)
}

// CreateTag returns the tag with the normalized value, creating it when it does not exist yet.
func (service *Service) CreateTag(context context.Context, raw string) (*Tag, bool, error) {
	value, err := Normalize(FieldValue, raw)
	if err != nil {
		return nil, false, err
	}

	tag, created, err := service.repo.GetOrCreate(context, value)
	if err != nil {
		return nil, false, err
	}

	if created {
		service.logger.Info("tag_created", slog.Int64("tag_id", tag.ID), slog.String("value", tag.Value))
	}
	return tag, created, nil
}

// RenameTag changes the value of an existing tag. Renaming onto an existing value is a conflict.
func (service *Service) RenameTag(context context.Context, id int64, raw string) (*Tag, error) {
	value, err := Normalize(FieldValue, raw)
	if err != nil {
		return nil, err
	}

	tag := &Tag{ID: id, Value: value}
	if err := service.repo.Update(context, tag); err != nil {
		return nil, err
	}

	service.logger.Info("tag_updated", slog.Int64("tag_id", id))
	return tag, nil
}

func (service *Service) DeleteTag(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("tag_deleted", slog.Int64("tag_id", id))
	return nil
}
