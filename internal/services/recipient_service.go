package services

import (
	"context"

	"certidigital/internal/models"
	"certidigital/internal/repositories"
	"certidigital/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type recipientService struct {
	repos      *repositories.Collection
	bcryptCost int
	logger     *zap.Logger
}

// NewRecipientService creates the recipient manager.
func NewRecipientService(repos *repositories.Collection, bcryptCost int, logger *zap.Logger) RecipientService {
	return &recipientService{repos: repos, bcryptCost: bcryptCost, logger: logger}
}

func (s *recipientService) Create(ctx context.Context, req *CreateRecipientRequest) (*models.Recipient, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	existing, err := s.repos.Recipients.FindByIdentity(ctx, req.NationalID, req.Email)
	if err != nil {
		return nil, NewInternalError("failed to look up recipient", err)
	}
	if existing != nil {
		return nil, NewConflictError("a recipient with this national id or email already exists", "DUPLICATE_IDENTITY")
	}

	resetToken, err := newResetToken()
	if err != nil {
		return nil, NewInternalError("failed to provision recipient account", err)
	}

	recipient := &models.Recipient{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		NationalID:     req.NationalID,
		Phone:          req.Phone,
		BirthDate:      req.BirthDate,
		OrganizationID: req.OrganizationID,
		ResetToken:     &resetToken,
	}
	if err := s.repos.Recipients.Create(ctx, recipient); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, NewConflictError("a recipient with this national id or email already exists", "DUPLICATE_IDENTITY")
		}
		return nil, NewInternalError("failed to create recipient", err)
	}
	return recipient, nil
}

func (s *recipientService) GetByID(ctx context.Context, id string) (*models.Recipient, error) {
	recipient, err := s.repos.Recipients.GetByID(ctx, id)
	if err != nil {
		return nil, NewInternalError("failed to load recipient", err)
	}
	if recipient == nil {
		return nil, EntityNotFoundError("recipient", id)
	}
	return recipient, nil
}

func (s *recipientService) List(ctx context.Context, req *ListRequest) ([]models.Recipient, int64, error) {
	req.Normalize()
	recipients, total, err := s.repos.Recipients.List(ctx, repositories.ListParams{
		Limit:  req.PageSize,
		Offset: req.Offset(),
		Search: req.Search,
	})
	if err != nil {
		return nil, 0, NewInternalError("failed to list recipients", err)
	}
	return recipients, total, nil
}

func (s *recipientService) Update(ctx context.Context, id string, req *UpdateRecipientRequest) (*models.Recipient, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	recipient, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		recipient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		recipient.LastName = *req.LastName
	}
	if req.Email != nil {
		recipient.Email = *req.Email
	}
	if req.NationalID != nil {
		recipient.NationalID = *req.NationalID
	}
	if req.Phone != nil {
		recipient.Phone = req.Phone
	}
	if req.BirthDate != nil {
		recipient.BirthDate = req.BirthDate
	}
	if req.OrganizationID != nil {
		recipient.OrganizationID = req.OrganizationID
	}

	if err := s.repos.Recipients.Update(ctx, recipient); err != nil {
		if repositories.IsNotFound(err) {
			return nil, EntityNotFoundError("recipient", id)
		}
		if repositories.IsUniqueViolation(err) {
			return nil, NewConflictError("a recipient with this national id or email already exists", "DUPLICATE_IDENTITY")
		}
		return nil, NewInternalError("failed to update recipient", err)
	}
	return recipient, nil
}

func (s *recipientService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Recipients.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return EntityNotFoundError("recipient", id)
		}
		return NewInternalError("failed to delete recipient", err)
	}
	return nil
}

// ResetPassword redeems a reset token. The token is single use; storing
// the new credential clears it.
func (s *recipientService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := validation.ValidateStruct(req); err != nil {
		return NewValidationError(err.Error(), err)
	}

	recipient, err := s.repos.Recipients.GetByResetToken(ctx, req.Token)
	if err != nil {
		return NewInternalError("failed to look up reset token", err)
	}
	if recipient == nil {
		return NewUnauthorizedError("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return NewInternalError("failed to hash password", err)
	}
	if err := s.repos.Recipients.SetPassword(ctx, recipient.ID, string(hash)); err != nil {
		return NewInternalError("failed to store password", err)
	}

	s.logger.Info("recipient password reset", zap.String("recipient_id", recipient.ID))
	return nil
}
