package repo

// CredentialSlot — единственный слот долговременного хранилища для зашифрованного API-ключа.
// Read возвращает ошибку, удовлетворяющую errors.Is(err, fs.ErrNotExist), если слот пуст.
type CredentialSlot interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Remove() error
}
