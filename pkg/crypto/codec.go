package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Codec encrypts message bodies at rest with AES-256-CBC and a single
// server-wide key. Ciphertext is stored as hex(iv) + ":" + hex(ciphertext).
// This protects stored chats from casual database inspection; the key lives
// server-side, so it is not a confidentiality guarantee against operators.
type Codec struct {
	key []byte
}

// Result is a decryption outcome. When Failed is true the stored blob could
// not be decrypted and Raw carries it untouched; callers decide how to
// present that instead of showing opaque bytes as content.
type Result struct {
	Text   string
	Failed bool
	Raw    string
}

// NewCodec derives a 256-bit key from the configured secret. The secret is
// hashed so operators can configure a passphrase of any length.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("crypto: empty encryption secret")
	}
	sum := sha256.Sum256([]byte(secret))
	return &Codec{key: sum[:]}, nil
}

func (c *Codec) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt never returns an error: a blob that cannot be decrypted comes back
// as a failed Result carrying the original, so chat history stays available.
func (c *Codec) Decrypt(stored string) Result {
	text, err := c.decrypt(stored)
	if err != nil {
		return Result{Failed: true, Raw: stored}
	}
	return Result{Text: text}
}

func (c *Codec) decrypt(stored string) (string, error) {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("crypto: malformed ciphertext")
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", err
	}
	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("crypto: bad IV length %d", len(iv))
	}

	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", err
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("crypto: bad ciphertext length %d", len(ciphertext))
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return pkcs7Unpad(plaintext, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) (string, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return "", fmt.Errorf("crypto: bad padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return "", fmt.Errorf("crypto: bad padding byte %d", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return "", fmt.Errorf("crypto: inconsistent padding")
		}
	}
	return string(data[:len(data)-padding]), nil
}
