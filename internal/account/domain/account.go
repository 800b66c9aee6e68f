package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

type Address struct {
	ID        string `json:"_id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	IsDefault bool   `json:"is_default"`
}

type BankCard struct {
	ID         string `json:"_id"`
	UserID     string `json:"user_id"`
	BankName   string `json:"bank_name"`
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	ExpiryDate string `json:"expiry_date"`
	IsDefault  bool   `json:"is_default"`
}

// Masked keeps only the last four digits.
func (c BankCard) Masked() string {
	return MaskCardNumber(c.CardNumber)
}

func MaskCardNumber(number string) string {
	digits := onlyDigits(number)
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return "**** " + digits[len(digits)-4:]
}

var (
	ErrCardNumber = errors.New("invalid card number")
	ErrCardHolder = errors.New("invalid card holder")
	ErrCardExpiry = errors.New("invalid expiry date")
	ErrCardBank   = errors.New("bank name required")
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{12,19}$`)
	holderRe     = regexp.MustCompile(`^[A-Z][A-Z ]{1,48}[A-Z]$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
)

type NewCard struct {
	BankName   string `json:"bank_name"`
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	ExpiryDate string `json:"expiry_date"`
}

// Normalize strips separators from the number and upper-cases the holder.
func (n NewCard) Normalize() NewCard {
	return NewCard{
		BankName:   strings.TrimSpace(n.BankName),
		CardNumber: onlyDigits(n.CardNumber),
		CardHolder: strings.Join(strings.Fields(strings.ToUpper(n.CardHolder)), " "),
		ExpiryDate: strings.TrimSpace(n.ExpiryDate),
	}
}

// Validate checks a normalized card. now decides whether the expiry has
// passed; a card is good through the last day of its expiry month.
func (n NewCard) Validate(now time.Time) error {
	if n.BankName == "" {
		return ErrCardBank
	}
	if !cardNumberRe.MatchString(n.CardNumber) {
		return ErrCardNumber
	}
	if !holderRe.MatchString(n.CardHolder) {
		return ErrCardHolder
	}

	m := expiryRe.FindStringSubmatch(n.ExpiryDate)
	if m == nil {
		return ErrCardExpiry
	}
	exp, err := time.Parse("01/06", n.ExpiryDate)
	if err != nil {
		return ErrCardExpiry
	}
	if !now.Before(exp.AddDate(0, 1, 0)) {
		return ErrCardExpiry
	}
	return nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
