// Package storage contém o armazenamento local de arquivos enviados
// (contratos e fotos de promotores).
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/higiplas/higiplas-api/internal/application/usecase"
)

var _ usecase.BlobStore = (*LocalStore)(nil)

// LocalStore grava arquivos em um diretório do disco com nome uuid.
// O nome original nunca vira nome de arquivo no servidor: evita colisão e
// path traversal vindo do cliente.
type LocalStore struct {
	dir string
}

// NewLocalStore constrói o store e garante que o diretório existe.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("criar diretório de uploads %q: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save grava content com um nome uuid novo e a extensão dada (sem ponto).
// Devolve o nome no servidor e o caminho completo do arquivo.
func (s *LocalStore) Save(content []byte, ext string) (string, string, error) {
	serverName := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	fullPath := filepath.Join(s.dir, serverName)
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", "", fmt.Errorf("gravar arquivo %q: %w", fullPath, err)
	}
	return serverName, fullPath, nil
}
