package session

import (
	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/bestiary"
	"github.com/leitor-rpg/engine/internal/game/combat"
	"github.com/leitor-rpg/engine/internal/game/progress"
	"github.com/leitor-rpg/engine/internal/game/world"
)

// CombatActive reports whether an encounter is running.
func (s *Session) CombatActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Active()
}

// CombatState returns a snapshot of the current encounter.
func (s *Session) CombatState() combat.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.engine.State()
}

// scheduleEncounterLocked arms the trigger delay for a combat tag. A
// pending trigger is replaced; a fight already underway wins over the tag.
func (s *Session) scheduleEncounterLocked(monsterName string) {
	if s.pendingStart != nil {
		s.pendingStart.Stop()
	}
	s.pendingStart = combat.NewDelayTimer(s.triggerDelay, func() {
		s.beginEncounter(monsterName)
	})
}

func (s *Session) beginEncounter(monsterName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine.Active() {
		return
	}

	monster, known := s.registry.Resolve(monsterName)
	state, err := s.engine.Start(s.world.Party, []bestiary.Monster{monster})
	if err != nil {
		s.logger.Warn("encounter could not start",
			zap.String("monster", monsterName),
			zap.Error(err),
		)
		return
	}
	s.encounterLevel = monster.Level
	if !known {
		s.appendMessageLocked(world.RoleSystem, "Um inimigo desconhecido se aproxima: "+monster.Name)
	}
	s.afterActionLocked(state.Outcome)
}

// Attack resolves the active player's attack and paces the monster reply.
func (s *Session) Attack(attackerID string, heavy bool) (combat.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.PlayerAttack(attackerID, heavy)
	if err != nil {
		return combat.Result{}, err
	}
	s.afterActionLocked(res.Outcome)
	return res, nil
}

// Flee abandons the encounter. Damage already taken stands; no rewards or
// penalties apply.
func (s *Session) Flee() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Flee(); err != nil {
		return err
	}
	s.appendMessageLocked(world.RoleSystem, "O grupo fugiu do combate.")
	s.world.Touch()
	return nil
}

// afterActionLocked settles the encounter when it just ended, or arms the
// monster-turn delay when a monster acts next.
func (s *Session) afterActionLocked(outcome combat.Outcome) {
	switch outcome {
	case combat.OutcomeVictory:
		s.settleVictoryLocked()
	case combat.OutcomeDefeat:
		s.settleDefeatLocked()
	case combat.OutcomeNone:
		if s.engine.Active() && s.engine.State().Current().Side == combat.SideMonster {
			s.scheduleMonsterTurnLocked()
		}
	}
	s.world.Touch()
}

func (s *Session) scheduleMonsterTurnLocked() {
	if s.pendingTurn != nil {
		s.pendingTurn.Stop()
	}
	s.pendingTurn = combat.NewDelayTimer(s.monsterDelay, s.monsterTurn)
}

func (s *Session) monsterTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.engine.Active() {
		return
	}
	res, err := s.engine.MonsterAct()
	if err != nil {
		s.logger.Warn("monster turn failed", zap.Error(err))
		return
	}
	s.afterActionLocked(res.Outcome)
}

func (s *Session) settleVictoryLocked() {
	level := s.encounterLevel
	if level < 1 {
		level = 1
	}
	progress.VictoryReward(s.world.Party, level, s.logger)
	s.appendMessageLocked(world.RoleSystem, "Vitória! O grupo recebe a recompensa do combate.")
}

func (s *Session) settleDefeatLocked() {
	for _, ch := range s.world.Party {
		if ch.Alive() {
			continue
		}
		progress.ApplyDeathPenalty(ch, s.roller.Source(), s.logger)
	}
	s.appendMessageLocked(world.RoleSystem, "Derrota. O grupo sofre as consequências da queda.")
}
