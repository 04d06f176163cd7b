// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/blango/internal/platform/apperr"
	"github.com/taibuivan/blango/internal/platform/validate"
)

// MaxContentLen bounds the length of a single comment.
const MaxContentLen = 10000

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

// ListForPost returns the comments of a post, oldest first.
func (service *Service) ListForPost(context context.Context, postID int64) ([]*Comment, error) {
	return service.repo.ListFor(context, ContentTypePost, postID)
}

// AddToPost creates a comment by creatorID on a post.
func (service *Service) AddToPost(context context.Context, creatorID, postID int64, content string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldContent, content).MaxLen(FieldContent, content, MaxContentLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		CreatorID:   creatorID,
		Content:     content,
		ContentType: ContentTypePost,
		ObjectID:    postID,
	}
	if err := service.repo.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("post_id", postID),
		slog.Int64("creator_id", creatorID),
	)
	return comment, nil
}

// ValidateInputs checks the shape of a "comments" payload before any write happens.
func ValidateInputs(inputs []Input) error {
	validator := &validate.Validator{}
	for index, input := range inputs {
		field := fmt.Sprintf("%s[%d].%s", FieldComments, index, FieldContent)
		validator.Required(field, input.Content).MaxLen(field, input.Content, MaxContentLen)
	}
	return validator.Err()
}

/*
MergeIntoPost applies the "comments" member of a post write on behalf of requesterID.

Rules:
  - An entry without an id creates a comment by the requester.
  - An entry with an id edits that comment's content, but only when the
    requester created it. Edits of other users' comments are skipped and logged.
  - An id that does not belong to this post is skipped the same way.
*/
func (service *Service) MergeIntoPost(context context.Context, requesterID, postID int64, inputs []Input) error {
	if err := ValidateInputs(inputs); err != nil {
		return err
	}

	for _, input := range inputs {
		if input.ID == nil {
			if _, err := service.AddToPost(context, requesterID, postID, input.Content); err != nil {
				return err
			}
			continue
		}

		existing, err := service.repo.FindByID(context, *input.ID)
		if apperr.IsNotFound(err) {
			service.logger.Warn("comment_merge_skipped",
				slog.Int64("comment_id", *input.ID),
				slog.String("reason", "not_found"),
			)
			continue
		}
		if err != nil {
			return err
		}

		if existing.ContentType != ContentTypePost || existing.ObjectID != postID {
			service.logger.Warn("comment_merge_skipped",
				slog.Int64("comment_id", existing.ID),
				slog.String("reason", "other_target"),
			)
			continue
		}

		if existing.CreatorID != requesterID {
			service.logger.Warn("comment_merge_skipped",
				slog.Int64("comment_id", existing.ID),
				slog.Int64("requester_id", requesterID),
				slog.String("reason", "not_creator"),
			)
			continue
		}

		if existing.Content == input.Content {
			continue
		}

		if err := service.repo.UpdateContent(context, existing.ID, input.Content); err != nil {
			return err
		}
		service.logger.Info("comment_updated", slog.Int64("comment_id", existing.ID))
	}

	return nil
}

// DeleteForPost removes every comment of a post.
func (service *Service) DeleteForPost(context context.Context, postID int64) error {
	return service.repo.DeleteFor(context, ContentTypePost, postID)
}
