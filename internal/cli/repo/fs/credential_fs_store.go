package fs

import (
	"bytes"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"ImageTranslator/internal/cli/repo"
)

// CredentialFSStore — файловый слот для зашифрованного API-ключа.
type CredentialFSStore struct {
	Path string
}

var _ repo.CredentialSlot = CredentialFSStore{}

// NewCredentialFSStore создаёт слот по указанному пути.
func NewCredentialFSStore(path string) CredentialFSStore {
	return CredentialFSStore{Path: path}
}

// Read читает содержимое слота. Пустой файл считается отсутствующим слотом.
func (s CredentialFSStore) Read() ([]byte, error) {
	if s.Path == "" {
		return nil, errors.New("empty credential path")
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	// обрезаем завершающие переводы строки/пробелы
	b = bytes.TrimRight(b, " \t\r\n")
	if len(b) == 0 {
		return nil, iofs.ErrNotExist
	}
	return b, nil
}

// Write заменяет содержимое слота целиком: запись во временный файл и rename.
// Читатель видит либо старое, либо новое значение.
func (s CredentialFSStore) Write(data []byte) error {
	if s.Path == "" {
		return errors.New("empty credential path")
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// после успешного rename файла уже нет
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.Path)
}

// Remove удаляет слот. Отсутствие файла ошибкой не является.
func (s CredentialFSStore) Remove() error {
	if s.Path == "" {
		return errors.New("empty credential path")
	}
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return err
	}
	return nil
}
