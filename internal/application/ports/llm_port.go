package ports

import "context"

// LLMService define o porto de saída para o serviço de inteligência artificial.
// Qualquer adaptador (Gemini, OpenAI, mock) deve implementar esta interface.
// Seguindo o princípio de inversão de dependências (DIP), a aplicação só
// conhece este contrato, não a implementação concreta.
type LLMService interface {
	// GenerateAnalysis responde à pergunta do gestor usando exclusivamente o
	// contexto JSON fornecido (registros de fotos dos promotores). A resposta
	// vem em Markdown. O contexto deve levar um timeout para evitar bloqueios
	// em chamadas externas.
	GenerateAnalysis(ctx context.Context, question, dataJSON string) (string, error)
}
