package service

import (
	"crypto/rand"
	"math/big"
)

const (
	verificationCodeMin = 100000
	verificationCodeMax = 999999
)

// GenerateVerificationCode returns a uniform random six-digit code.
func GenerateVerificationCode() (int, error) {
	span := big.NewInt(verificationCodeMax - verificationCodeMin + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, err
	}
	return verificationCodeMin + int(n.Int64()), nil
}
