package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"

	"golang.org/x/crypto/argon2"
)

type argon2Params struct {
	// Stored alongside the hash so verification uses the original cost.
	Time    uint32 `json:"t"` // iterations
	Memory  uint32 `json:"m"` // KiB
	Threads uint8  `json:"p"` // parallelism
	KeyLen  uint32 `json:"k"` // bytes
	SaltLen uint32 `json:"s"` // bytes
}

type PasswordServiceArgon2id struct {
	cur argon2Params
}

func NewPasswordServiceArgon2id() *PasswordServiceArgon2id {
	return &PasswordServiceArgon2id{
		cur: argon2Params{
			Time:    3,
			Memory:  64 * 1024, // 64 MiB
			Threads: 1,
			KeyLen:  32,
			SaltLen: 16,
		},
	}
}

func (p *PasswordServiceArgon2id) Hash(password string) (hash, salt, paramsJSON []byte, err error) {
	if password == "" {
		return nil, nil, nil, ErrEmptyPassword
	}
	salt = make([]byte, p.cur.SaltLen)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, nil, err
	}
	hash = argon2.IDKey([]byte(password), salt, p.cur.Time, p.cur.Memory, p.cur.Threads, p.cur.KeyLen)
	paramsJSON, err = json.Marshal(p.cur)
	if err != nil {
		return nil, nil, nil, err
	}
	return hash, salt, paramsJSON, nil
}

func (p *PasswordServiceArgon2id) Verify(password string, hash, salt, paramsJSON []byte) bool {
	var stored argon2Params
	if err := json.Unmarshal(paramsJSON, &stored); err != nil {
		return false
	}
	calculated := argon2.IDKey([]byte(password), salt, stored.Time, stored.Memory, stored.Threads, stored.KeyLen)
	return subtle.ConstantTimeCompare(calculated, hash) == 1
}
