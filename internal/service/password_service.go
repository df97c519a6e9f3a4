package service

type PasswordService interface {
	Hash(password string) (hash, salt, paramsJSON []byte, err error)
	Verify(password string, hash, salt, paramsJSON []byte) bool
}
