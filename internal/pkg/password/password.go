package password

import "golang.org/x/crypto/bcrypt"

// Hasher is the opaque password capability: hash on registration, compare on
// login. Services depend on this interface, never on a concrete algorithm.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}

// Bcrypt implements Hasher with golang.org/x/crypto/bcrypt.
type Bcrypt struct {
	Cost int
}

func NewBcrypt() Bcrypt { return Bcrypt{Cost: bcrypt.DefaultCost} }

func (b Bcrypt) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), b.Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b Bcrypt) Compare(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
