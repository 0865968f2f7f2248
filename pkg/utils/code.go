package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// UploadIDLength is the length of the identifiers the sink assigns to uploads.
const UploadIDLength = 8

var alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// GenerateCode returns a random alphanumeric string of the given length.
func GenerateCode(length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(charset)))

	for i := range result {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = charset[num.Int64()]
	}

	return string(result), nil
}

// IsValidCode validates that a code is exactly UploadIDLength alphanumeric characters
func IsValidCode(code string) bool {
	if len(code) != UploadIDLength {
		return false
	}
	return alphanumeric.MatchString(code)
}
