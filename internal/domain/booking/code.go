package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const maxCodeAttempts = 8

var errCodeSpaceExhausted = errors.New("could not generate a unique booking code")

func generateCode(n int) (string, error) {
	buf := make([]byte, n)
	size := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		k, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[k.Int64()]
	}
	return string(buf), nil
}

// newBookingCode draws codes until one is not taken. The unique index on
// bookings.booking_code still guards against a concurrent writer.
func (s *Service) newBookingCode(ctx context.Context, repo *Repository) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.genCode(s.codeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", errCodeSpaceExhausted
}
