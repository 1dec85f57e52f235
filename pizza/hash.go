package pizza

import (
	"crypto/md5"
	"encoding/base64"
	"strings"
)

// PasswordHash computes the credential transform the auth endpoint expects:
// base64 of the MD5 digest with the trailing "=" padding stripped.
// Must match the reference mobile client byte for byte.
func PasswordHash(password string) string {
	digest := md5.Sum([]byte(password))
	return strings.TrimRight(base64.StdEncoding.EncodeToString(digest[:]), "=")
}
