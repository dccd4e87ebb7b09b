// Package narrator produces the game-master prose for each turn, either
// through the Anthropic API or a deterministic offline responder.
package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/item"
)

// Narrator turns a player action plus hidden game context into narration
// that may embed command tags.
type Narrator interface {
	// Narrate returns the narration for one turn. Implementations must not
	// mutate the context.
	Narrate(ctx context.Context, turn TurnContext) (string, error)
}

// TurnContext is the serialised game state a narrator sees each turn.
type TurnContext struct {
	// Message is the player's free-text action or a system note.
	Message string
	// Active is the acting character.
	Active *character.Character
	// MonsterNames is the known bestiary.
	MonsterNames []string
	// ActiveQuests lists in-progress quest titles.
	ActiveQuests []string
}

// SystemPrompt renders the game-master instructions for a party, including
// the command-tag grammar the parser understands.
func SystemPrompt(party []*character.Character, worldDetails, initialPlot string) string {
	if worldDetails == "" {
		worldDetails = "Mundo padrão de fantasia."
	}
	if initialPlot == "" {
		initialPlot = "Introduza os personagens em uma situação de aventura."
	}

	var chars strings.Builder
	for i, ch := range party {
		fmt.Fprintf(&chars, "Jogador %d:\nNome: %s | Classe: %s | Raça: %s | Nível: %d\n",
			i+1, ch.Name, ch.Class, ch.Race, ch.Level)
		fmt.Fprintf(&chars, "Atributos: FOR:%d, DEF:%d, VIT:%d, AGI:%d, INT:%d\n",
			ch.Stats.Strength, ch.Stats.Defense, ch.Stats.Vitality, ch.Stats.Agility, ch.Stats.Intellect)
	}

	return fmt.Sprintf(`Você é o [LEITOR ONISCIENTE].
Você é o Mestre de RPG (Dungeon Master).

DETALHES DO MUNDO:
%s

ENREDO INICIAL:
%s

JOGADORES:
%s
REGRAS DE CONTEXTO:
Você receberá dados ocultos sobre o inventário, equipamento, relacionamentos e missões dos jogadores a cada turno. USE ESSES DADOS.
- Se um jogador equipar algo novo, comente.
- Se um jogador estiver 'Grávida', avance a gravidez conforme o tempo passa na narrativa.
- Se um NPC tiver afinidade alta, faça-o agir como amigo/amante.
- Avalie a dificuldade das ações para dar recompensas justas.

TAGS DE COMANDO (Use para alterar o jogo):
- [COMBATE: NomeDoMonstro]: Inicia lutas.
- [ITEM: NomeDoItem]: Dá um item.
- [LOJA: TIPO]: Abre loja (Geral, Ferreiro, Magia).
- [NPC: Nome|Genero|Profissao|Personalidade]: Registra um novo NPC. Ex: [NPC: Gary|Masculino|Ferreiro|Ranzinza].
- [QUEST: Título|Descrição|Recompensa]: Cria uma missão nova.
- [REWARD: XP|Gold]: Dá XP ou Ouro direto ao grupo (ex: [REWARD: 100|50]).

ESTILO: Narrativo, imersivo, reativo às escolhas e itens dos jogadores.
Responda em PORTUGUÊS (Brasil).`, worldDetails, initialPlot, chars.String())
}

// Inject appends the hidden per-turn state to the player message.
func (t TurnContext) Inject() string {
	ch := t.Active
	if ch == nil {
		return t.Message
	}

	slotName := func(slot item.Slot) string {
		if it := ch.Equipment.Get(slot); it != nil {
			return it.Name
		}
		return "Nada"
	}
	equip := fmt.Sprintf(
		"Cabeça: %s | Corpo: %s | Pernas: %s | Pés: %s | Mão Princ.: %s | Mão Sec.: %s | Acessório 1: %s | Acessório 2: %s | Mochila: %s",
		slotName(item.SlotHead), slotName(item.SlotBody), slotName(item.SlotLegs), slotName(item.SlotFeet),
		slotName(item.SlotMainHand), slotName(item.SlotOffHand),
		slotName(item.SlotAccessory1), slotName(item.SlotAccessory2), slotName(item.SlotBackpack),
	)

	var invNames []string
	for _, it := range ch.Inventory {
		invNames = append(invNames, it.Name)
	}
	inv := strings.Join(invNames, ", ")
	if inv == "" {
		inv = "Mochila vazia"
	}

	var bonds []string
	for _, b := range ch.Social {
		bonds = append(bonds, fmt.Sprintf("%s (%s, %d)", b.TargetName, b.Relation, b.Affinity))
	}

	conditions := strings.Join(ch.Conditions, ", ")
	if conditions == "" {
		conditions = "Saudável"
	}
	quests := strings.Join(t.ActiveQuests, ", ")
	if quests == "" {
		quests = "Nenhuma"
	}

	return fmt.Sprintf(`%s
(SISTEMA - DADOS OCULTOS ATUAIS DO JOGADOR ATIVO %s:
 CONDIÇÕES: %s (Se grávida, considere o tempo passado).
 EQUIPAMENTO: %s
 MOCHILA: %s
 SOCIAL: %s
 MISSÕES ATIVAS: %s
 BESTIÁRIO CONHECIDO: %s.
)`, t.Message, ch.Name, conditions, equip, inv, strings.Join(bonds, ", "), quests, strings.Join(t.MonsterNames, ", "))
}
