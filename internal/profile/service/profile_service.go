package service

import (
	"context"

	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/repository"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
)

// Publisher receives every profile written successfully.
type Publisher interface {
	Publish(p domain.Profile)
}

type ProfileService struct {
	store     repository.Store
	schema    *validation.Schema
	publisher Publisher
	log       *logger.Logger
}

func NewProfileService(store repository.Store, schema *validation.Schema, publisher Publisher, log *logger.Logger) *ProfileService {
	if schema == nil {
		schema = validation.NewSchema()
	}
	return &ProfileService{
		store:     store,
		schema:    schema,
		publisher: publisher,
		log:       log,
	}
}

func (s *ProfileService) Get(ctx context.Context) (domain.Profile, error) {
	p, err := s.store.Read(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "profile_read_failed",
		}).Errorf("profile read failed: %v", err)
		incrementProfileReads(resultError)
		return domain.Profile{}, commonerrors.ErrProfileReadFailed.WithCause(err)
	}

	incrementProfileReads(resultSuccess)
	return p, nil
}

// Update re-validates the fields present in u before writing them. An empty
// update only refreshes the timestamp.
func (s *ProfileService) Update(ctx context.Context, u domain.Update) (domain.Profile, error) {
	if errs := s.schema.ValidatePartial(u); errs != nil {
		s.log.WithFields(ctx, logger.Fields{
			"fields": errs.Error(),
			"action": "profile_update_validation_failed",
		}).Warn("profile update rejected")
		incrementProfileUpdates(resultInvalid)
		for field := range errs {
			incrementValidationFailure(field)
		}
		return domain.Profile{}, commonerrors.ErrProfileValidation.WithDetails(errs).WithCause(errs)
	}

	p, err := s.store.Write(ctx, u)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"fields": u.Fields(),
			"action": "profile_update_failed",
		}).Errorf("profile update failed: %v", err)
		incrementProfileUpdates(resultError)
		return domain.Profile{}, commonerrors.ErrProfileWriteFailed.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"fields":     u.Fields(),
		"updated_at": p.UpdatedAt,
		"action":     "profile_updated",
	}).Info("profile updated")
	incrementProfileUpdates(resultSuccess)

	if s.publisher != nil {
		s.publisher.Publish(p)
	}
	return p, nil
}
