package model

// FallbackNonce — зарезервированное значение поля nonce, обозначающее XOR-обфускацию.
const FallbackNonce = "fallback"

// EncryptedCredential — формат хранения API-ключа в слоте.
// Nonce одновременно служит дискриминантом: FallbackNonce либо base64 IV для AEAD.
type EncryptedCredential struct {
	Payload string `json:"payload"`
	Nonce   string `json:"nonce"`
}

// IsFallback сообщает, что запись закодирована обфускацией, а не AEAD.
func (c EncryptedCredential) IsFallback() bool {
	return c.Nonce == FallbackNonce
}

// Complete проверяет, что обе части записи заполнены.
func (c EncryptedCredential) Complete() bool {
	return c.Payload != "" && c.Nonce != ""
}
