package usecase

import "context"

// BlobStore porto de armazenamento local de arquivos enviados (contratos,
// fotos). A implementação vive em infrastructure/storage.
type BlobStore interface {
	// Save grava o conteúdo sob um nome uuid e devolve nome e caminho completo.
	Save(content []byte, ext string) (serverName, fullPath string, err error)
}

// MediaFetcher porto para baixar a mídia referenciada num webhook do Twilio.
// A implementação autentica com Account SID + Auth Token.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) (content []byte, contentType string, err error)
}
