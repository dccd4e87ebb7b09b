package combat

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/bestiary"
	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/dice"
	"github.com/leitor-rpg/engine/internal/game/effect"
	"github.com/leitor-rpg/engine/internal/game/stats"
)

// Attack tuning knobs.
const (
	// HeavyMultiplier scales the raw weapon roll of a heavy attack.
	HeavyMultiplier = 1.5
	// VigorMultiplier is the milk-buff damage bonus applied last.
	VigorMultiplier = 1.1
	// MonsterToHitBonus is the flat attack bonus every monster rolls with.
	MonsterToHitBonus = 3
)

var (
	ErrNotActive   = errors.New("combat: no active encounter")
	ErrActive      = errors.New("combat: encounter already running")
	ErrNotYourTurn = errors.New("combat: acting out of turn")
)

// Result describes one resolved action.
type Result struct {
	Actor      string
	Target     string
	AttackRoll int
	Hit        bool
	Damage     int
	Message    string
	Outcome    Outcome
}

// Engine drives one encounter at a time. It is not safe for concurrent
// use; the session layer serialises access.
type Engine struct {
	roller *dice.Roller
	logger *zap.Logger
	state  State
	party  map[string]*character.Character
}

// NewEngine creates an idle engine.
func NewEngine(roller *dice.Roller, logger *zap.Logger) *Engine {
	return &Engine{
		roller: roller,
		logger: logger,
		party:  map[string]*character.Character{},
	}
}

// State returns the current encounter snapshot.
func (e *Engine) State() *State { return &e.state }

// Active reports whether an encounter is running.
func (e *Engine) Active() bool { return e.state.Active }

// Start opens an encounter with every living party member against the given
// monsters. Initiative is a d20 plus the agility or dexterity modifier;
// participants act in descending initiative order, ties kept stable.
//
// Precondition: no encounter is active; at least one living player and one
// monster exist.
func (e *Engine) Start(party []*character.Character, monsters []bestiary.Monster) (*State, error) {
	if e.state.Active {
		return nil, ErrActive
	}
	if len(monsters) == 0 {
		return nil, fmt.Errorf("combat: no monsters to fight")
	}
	e.party = map[string]*character.Character{}

	var participants []Combatant
	for _, ch := range party {
		if !ch.Alive() {
			continue
		}
		e.party[ch.ID] = ch
		participants = append(participants, projectCharacter(ch, e.roller.D20()+ch.InitiativeMod()))
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("combat: no living party members")
	}
	for _, m := range monsters {
		participants = append(participants, projectMonster(m, e.roller.D20()+monsterInitiativeMod(m)))
	}

	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].Initiative > participants[j].Initiative
	})

	e.state = State{
		Active:       true,
		Round:        1,
		TurnIndex:    0,
		Participants: participants,
	}
	names := make([]string, len(monsters))
	for i, m := range monsters {
		names[i] = m.Name
	}
	e.state.appendLog(fmt.Sprintf("Combate: vs %s", strings.Join(names, ", ")))

	e.logger.Info("combat started",
		zap.Int("participants", len(participants)),
		zap.Strings("monsters", names),
	)
	return &e.state, nil
}

// PlayerAttack resolves a normal or heavy attack by the acting player
// against the first living monster. To-hit is a d20 plus the agility
// modifier against the target's armor class. On a hit the weapon formula
// is rolled, a heavy attack multiplies the raw roll by HeavyMultiplier
// (floored), the strength modifier is added, damage floors at 1, and an
// active vigor buff multiplies the final value by VigorMultiplier (floored).
func (e *Engine) PlayerAttack(attackerID string, heavy bool) (Result, error) {
	if !e.state.Active {
		return Result{}, ErrNotActive
	}
	actor := e.state.Current()
	if actor.Side != SidePlayer || actor.ID != attackerID {
		return Result{}, ErrNotYourTurn
	}
	ch, ok := e.party[attackerID]
	if !ok {
		return Result{}, fmt.Errorf("combat: unknown attacker %q", attackerID)
	}
	target := e.state.firstAlive(SideMonster)
	if target == nil {
		return Result{}, fmt.Errorf("combat: no monster left to attack")
	}

	strMod := stats.Modifier(ch.Stats.Strength)
	agiMod := stats.Modifier(ch.Stats.Agility)
	attackRoll := e.roller.D20() + agiMod

	label := "Ataque"
	if heavy {
		label = "Ataque Pesado"
	}

	res := Result{Actor: actor.Name, Target: target.Name, AttackRoll: attackRoll}
	if attackRoll >= target.AC {
		raw := e.roller.Evaluate(ch.WeaponDamageFormula())
		if heavy {
			raw = int(math.Floor(float64(raw) * HeavyMultiplier))
		}
		damage := raw + strMod
		if damage < 1 {
			damage = 1
		}
		if ch.Effects != nil && ch.Effects.Has(effect.NameVigor) {
			damage = int(math.Floor(float64(damage) * VigorMultiplier))
		}
		res.Hit = true
		res.Damage = damage
		res.Message = fmt.Sprintf("%s: %s atinge %s causando %d de dano", label, actor.Name, target.Name, damage)
	} else {
		res.Message = fmt.Sprintf("%s: %s erra %s (rolou %d)", label, actor.Name, target.Name, attackRoll)
	}

	res.Outcome = e.applyDamage(target.ID, res.Damage, res.Message)
	return res, nil
}

// MonsterAct resolves the acting monster's turn against the first living
// player. To-hit is a d20 plus MonsterToHitBonus; damage on a hit is a
// uniform 2..7 plus twice the tens digit of the monster's estimated level,
// the level itself estimated from max HP.
//
// Precondition: the current actor is a monster.
func (e *Engine) MonsterAct() (Result, error) {
	if !e.state.Active {
		return Result{}, ErrNotActive
	}
	actor := e.state.Current()
	if actor.Side != SideMonster {
		return Result{}, ErrNotYourTurn
	}
	target := e.state.firstAlive(SidePlayer)
	if target == nil {
		return Result{}, fmt.Errorf("combat: no player left to attack")
	}

	attackRoll := e.roller.D20() + MonsterToHitBonus
	res := Result{Actor: actor.Name, Target: target.Name, AttackRoll: attackRoll}
	if attackRoll >= target.AC {
		base := e.roller.Source().Intn(6) + 2
		estimatedLevel := actor.HP.Max / 10
		damage := base + (estimatedLevel/10)*2
		res.Hit = true
		res.Damage = damage
		res.Message = fmt.Sprintf("%s atinge %s causando %d de dano", actor.Name, target.Name, damage)
	} else {
		res.Message = fmt.Sprintf("%s erra o ataque em %s", actor.Name, target.Name)
	}

	res.Outcome = e.applyDamage(target.ID, res.Damage, res.Message)
	return res, nil
}

// Flee ends the encounter immediately. No rewards or penalties apply
// beyond damage already taken, which is written back to the party.
func (e *Engine) Flee() error {
	if !e.state.Active {
		return ErrNotActive
	}
	e.propagateHP()
	e.state.Active = false
	e.state.Outcome = OutcomeFled
	e.state.appendLog("O grupo fugiu do combate.")
	e.logger.Info("combat fled", zap.Int("round", e.state.Round))
	return nil
}

// applyDamage clamps the target's HP, logs the entry, checks termination,
// and advances the turn when the encounter continues.
func (e *Engine) applyDamage(targetID string, amount int, logMessage string) Outcome {
	if target := e.state.find(targetID); target != nil {
		target.HP.Damage(amount)
	}
	e.state.appendLog(logMessage)

	switch {
	case !e.state.anyAlive(SidePlayer):
		e.finish(OutcomeDefeat)
	case !e.state.anyAlive(SideMonster):
		e.finish(OutcomeVictory)
	default:
		e.state.advance()
		return OutcomeNone
	}
	return e.state.Outcome
}

func (e *Engine) finish(outcome Outcome) {
	e.propagateHP()
	e.state.Active = false
	e.state.Outcome = outcome
	e.logger.Info("combat finished",
		zap.String("outcome", string(outcome)),
		zap.Int("round", e.state.Round),
	)
}

// propagateHP writes every player combatant's HP back to its source
// character.
func (e *Engine) propagateHP() {
	for _, p := range e.state.Participants {
		if p.Side != SidePlayer {
			continue
		}
		if ch, ok := e.party[p.SourceID]; ok {
			ch.HP.Set(p.HP.Current)
		}
	}
}
