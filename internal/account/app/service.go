package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/piorhaii05/eatup/internal/account/domain"
	"github.com/piorhaii05/eatup/pkg/apperr"
)

// AccountAPI is the backend for a user's addresses and cards. Default
// lookups report a missing default as ok == false.
type AccountAPI interface {
	DefaultAddress(ctx context.Context, userID string) (domain.Address, bool, error)
	DefaultBank(ctx context.Context, userID string) (domain.BankCard, bool, error)
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	ListBanks(ctx context.Context, userID string) ([]domain.BankCard, error)
	SetDefaultAddress(ctx context.Context, userID, addressID string) error
	SetDefaultBank(ctx context.Context, userID, bankID string) error
	AddBank(ctx context.Context, userID string, card domain.NewCard) (domain.BankCard, error)
}

var ErrMissingID = errors.New("id is required")

type Service struct {
	api AccountAPI
	now func() time.Time
	log *slog.Logger
}

func NewService(api AccountAPI, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{api: api, now: time.Now, log: log.With("component", "account")}
}

func (s *Service) DefaultAddress(ctx context.Context, userID string) (domain.Address, bool, error) {
	return s.api.DefaultAddress(ctx, userID)
}

func (s *Service) DefaultBank(ctx context.Context, userID string) (domain.BankCard, bool, error) {
	return s.api.DefaultBank(ctx, userID)
}

func (s *Service) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	out, err := s.api.ListAddresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return out, nil
}

func (s *Service) ListBanks(ctx context.Context, userID string) ([]domain.BankCard, error) {
	out, err := s.api.ListBanks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank cards: %w", err)
	}
	return out, nil
}

func (s *Service) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	if strings.TrimSpace(addressID) == "" {
		return apperr.Invalid(ErrMissingID, "Please choose an address")
	}
	return s.api.SetDefaultAddress(ctx, userID, addressID)
}

func (s *Service) SetDefaultBank(ctx context.Context, userID, bankID string) error {
	if strings.TrimSpace(bankID) == "" {
		return apperr.Invalid(ErrMissingID, "Please choose a bank card")
	}
	return s.api.SetDefaultBank(ctx, userID, bankID)
}

var cardMessages = map[error]string{
	domain.ErrCardBank:   "Please choose a bank",
	domain.ErrCardNumber: "Card number must be 12 to 19 digits",
	domain.ErrCardHolder: "Card holder name must contain letters only",
	domain.ErrCardExpiry: "Expiry date must be MM/YY and not in the past",
}

// AddBankCard validates the card locally before anything is sent.
func (s *Service) AddBankCard(ctx context.Context, userID string, card domain.NewCard) (domain.BankCard, error) {
	card = card.Normalize()
	if err := card.Validate(s.now()); err != nil {
		return domain.BankCard{}, apperr.Invalid(err, cardMessages[err])
	}

	created, err := s.api.AddBank(ctx, userID, card)
	if err != nil {
		return domain.BankCard{}, fmt.Errorf("failed to add bank card: %w", err)
	}

	s.log.Info("bank card added",
		slog.String("bank", card.BankName),
		slog.String("card", domain.MaskCardNumber(card.CardNumber)),
	)
	return created, nil
}
