// Package secretbox cifra client secrets en reposo con NaCl secretbox
// (XSalsa20-Poly1305). El formato en disco es base64(nonce)|base64(ciphertext).
package secretbox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// EnvMasterKey es la variable de entorno con la clave maestra en base64.
	EnvMasterKey = "SSOBRIDGE_MASTER_KEY"

	nonceSize         = 24
	requiredKeyLength = 32
	sep               = "|"
)

var (
	// ErrNoKey indica que no hay clave maestra configurada.
	ErrNoKey = errors.New("secretbox: master key not configured")
	// ErrDecrypt indica ciphertext corrupto o clave incorrecta.
	ErrDecrypt = errors.New("secretbox: decrypt failed")
)

// Box sella y abre secretos con una clave maestra fija.
type Box struct {
	key [requiredKeyLength]byte
}

// New crea un Box desde la clave maestra en base64.
// Genere una clave con: openssl rand -base64 32
func New(keyB64 string) (*Box, error) {
	keyB64 = strings.TrimSpace(keyB64)
	if keyB64 == "" {
		return nil, ErrNoKey
	}
	k, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return nil, fmt.Errorf("secretbox: decode master key: %w", err)
	}
	if len(k) != requiredKeyLength {
		return nil, fmt.Errorf("secretbox: master key must decode to %d bytes, got %d", requiredKeyLength, len(k))
	}
	b := &Box{}
	copy(b.key[:], k)
	return b, nil
}

// FromEnv crea un Box desde EnvMasterKey. Retorna (nil, nil) cuando la
// variable no está seteada: el almacenamiento queda en claro.
func FromEnv() (*Box, error) {
	keyB64 := strings.TrimSpace(os.Getenv(EnvMasterKey))
	if keyB64 == "" {
		return nil, nil
	}
	return New(keyB64)
}

// Seal cifra plainText y devuelve base64(nonce)|base64(ciphertext).
func (b *Box) Seal(plainText string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secretbox: nonce random: %w", err)
	}
	ct := secretbox.Seal(nil, []byte(plainText), &nonce, &b.key)
	return base64.StdEncoding.EncodeToString(nonce[:]) + sep + base64.StdEncoding.EncodeToString(ct), nil
}

// Open descifra un valor producido por Seal.
func (b *Box) Open(sealed string) (string, error) {
	parts := strings.SplitN(sealed, sep, 2)
	if len(parts) != 2 {
		return "", ErrDecrypt
	}
	nonceRaw, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(nonceRaw) != nonceSize {
		return "", ErrDecrypt
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], nonceRaw)
	plain, ok := secretbox.Open(nil, ct, &nonce, &b.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
