package service

import (
	"errors"
	"testing"

	"bluemoon/internal/domain"
)

func TestValidateBankDetails(t *testing.T) {
	cases := []struct {
		name string
		bd   *domain.BankDetails
		want error
	}{
		{"nil", nil, domain.ErrMissingBankDetails},
		{"empty", &domain.BankDetails{}, domain.ErrMissingBankDetails},
		{"missing account name", &domain.BankDetails{BankName: "Kuda Bank", AccountNumber: "0123456789"}, domain.ErrMissingBankDetails},
		{"short account number", &domain.BankDetails{BankName: "Kuda Bank", AccountNumber: "12345", AccountName: "Ada O."}, domain.ErrBadAccountNumber},
		{"letters in account number", &domain.BankDetails{BankName: "Kuda Bank", AccountNumber: "01234abcde", AccountName: "Ada O."}, domain.ErrBadAccountNumber},
		{"eleven digits", &domain.BankDetails{BankName: "Kuda Bank", AccountNumber: "01234567891", AccountName: "Ada O."}, domain.ErrBadAccountNumber},
		{"valid", &domain.BankDetails{BankName: "Kuda Bank", AccountNumber: "0123456789", AccountName: "Ada O."}, nil},
	}

	for _, tc := range cases {
		if got := ValidateBankDetails(tc.bd); !errors.Is(got, tc.want) {
			t.Fatalf("%s: ValidateBankDetails = %v; want %v", tc.name, got, tc.want)
		}
	}
}
