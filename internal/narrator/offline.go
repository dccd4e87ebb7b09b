package narrator

import (
	"context"
	"strings"
)

// Offline is the deterministic fallback narrator, used in offline worlds
// and when the live narrator fails. Responses are canned lines keyed by
// keywords in the player's message.
type Offline struct{}

// Narrate never fails.
func (Offline) Narrate(_ context.Context, turn TurnContext) (string, error) {
	lower := strings.ToLower(turn.Message)
	switch {
	case strings.Contains(lower, "atacar") || strings.Contains(lower, "ataque"):
		return "[Leitor Onisciente]: A violência é uma escolha. Role os dados. (Modo Offline)", nil
	case strings.Contains(lower, "olhar") || strings.Contains(lower, "procurar"):
		return "[Leitor Onisciente]: Seus olhos varrem o local. Nada de especial. (Modo Offline)", nil
	case strings.Contains(lower, "loja"):
		return "[Leitor Onisciente]: O destino colocou um mercador aqui. [LOJA: GERAL]", nil
	default:
		return "[Leitor Onisciente]: O destino aguarda. (Offline - Conecte a API para narrativa completa)", nil
	}
}
