package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/models"
	repository "github.com/cooleo273/ecommerce-platform/internal/repositories"
	"github.com/google/uuid"
)

type AddressService struct {
	repo repository.AddressRepository
}

func NewAddressService(repo repository.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

func (s *AddressService) CreateAddress(ctx context.Context, userID uuid.UUID, req *models.CreateAddressRequest) (*models.Address, error) {

	address := &models.Address{
		ID:        uuid.New(),
		UserID:    userID,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		Phone:     req.Phone,
		IsDefault: req.IsDefault,
	}

	if err := s.repo.CreateAddress(ctx, address); err != nil {
		return nil, errors.DatabaseError("Failed to create address").WithError(err)
	}

	return address, nil
}

func (s *AddressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {

	addresses, err := s.repo.ListAddressesByUser(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list addresses").WithError(err)
	}

	if addresses == nil {
		addresses = []models.Address{}
	}

	return addresses, nil
}

func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req *models.UpdateAddressRequest) (*models.Address, error) {

	address, err := s.repo.GetAddressByID(ctx, addressID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Address not found")
		}

		return nil, errors.DatabaseError("Failed to fetch address").WithError(err)
	}

	if address.UserID != userID {
		return nil, errors.NotFoundError("Address not found")
	}

	if req.Street != nil {
		address.Street = *req.Street
	}

	if req.City != nil {
		address.City = *req.City
	}

	if req.State != nil {
		address.State = *req.State
	}

	if req.ZipCode != nil {
		address.ZipCode = *req.ZipCode
	}

	if req.Country != nil {
		address.Country = *req.Country
	}

	if req.Phone != nil {
		address.Phone = *req.Phone
	}

	if req.IsDefault != nil {
		address.IsDefault = *req.IsDefault
	}

	if err := s.repo.UpdateAddress(ctx, address); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Address not found")
		}

		return nil, errors.DatabaseError("Failed to update address").WithError(err)
	}

	return address, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {

	if err := s.repo.DeleteAddress(ctx, addressID, userID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Address not found")
		}

		return errors.DatabaseError("Failed to delete address").WithError(err)
	}

	return nil
}

func (s *AddressService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {

	if err := s.repo.SetDefaultAddress(ctx, addressID, userID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Address not found")
		}

		return errors.DatabaseError("Failed to set default address").WithError(err)
	}

	return nil
}
