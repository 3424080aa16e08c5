// Package ratelimit limita requisições por chave (IP do cliente) numa janela de um minuto.
package ratelimit

import "context"

// Limiter responde se mais uma requisição da chave cabe na janela atual.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
