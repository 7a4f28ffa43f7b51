// Package twilio contém o cliente de download de mídia recebida no webhook
// de WhatsApp. As URLs de mídia do Twilio exigem basic auth com as credenciais
// da conta.
package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/higiplas/higiplas-api/internal/application/usecase"
)

var _ usecase.MediaFetcher = (*MediaClient)(nil)

// maxMediaBytes limite de download por mídia (fotos de celular ficam bem abaixo).
const maxMediaBytes = 16 * 1024 * 1024

// MediaClient baixa conteúdo das URLs de mídia do Twilio via net/http.
type MediaClient struct {
	accountSID string
	authToken  string
	httpClient *http.Client
}

// NewMediaClient constrói o cliente com as credenciais da conta Twilio.
func NewMediaClient(accountSID, authToken string) *MediaClient {
	return &MediaClient{
		accountSID: accountSID,
		authToken:  authToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch baixa a mídia da URL e devolve o conteúdo e o Content-Type final.
// O Twilio redireciona para um CDN; o http.Client padrão segue redirects e
// reaplica o basic auth só no mesmo host, o que é o comportamento desejado.
func (c *MediaClient) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("twilio: criar request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("twilio: baixar mídia: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("twilio: mídia HTTP %d", resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
	if err != nil {
		return nil, "", fmt.Errorf("twilio: ler mídia: %w", err)
	}

	return content, resp.Header.Get("Content-Type"), nil
}
