package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/bestiary"
	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/combat"
	"github.com/leitor-rpg/engine/internal/game/currency"
	"github.com/leitor-rpg/engine/internal/game/dice"
	"github.com/leitor-rpg/engine/internal/game/effect"
	"github.com/leitor-rpg/engine/internal/game/item"
	"github.com/leitor-rpg/engine/internal/game/shop"
	"github.com/leitor-rpg/engine/internal/game/world"
	"github.com/leitor-rpg/engine/internal/narrator"
)

// scriptNarrator replays fixed responses; an err makes every call fail.
type scriptNarrator struct {
	responses []string
	calls     int
	err       error
}

func (n *scriptNarrator) Narrate(_ context.Context, _ narrator.TurnContext) (string, error) {
	n.calls++
	if n.err != nil {
		return "", n.err
	}
	if len(n.responses) == 0 {
		return "O vento sopra.", nil
	}
	r := n.responses[(n.calls-1)%len(n.responses)]
	return r, nil
}

// scriptSource replays Intn results modulo n, as the combat tests do.
type scriptSource struct {
	values []int
	pos    int
}

func (s *scriptSource) Intn(n int) int {
	if s.pos >= len(s.values) {
		return 0
	}
	v := s.values[s.pos] % n
	s.pos++
	return v
}

func testWorld(mode world.Mode, members ...*character.Character) *world.World {
	w := world.New("Eldoria", "medieval", "12345", mode)
	w.Party = members
	return w
}

func testHero() *character.Character {
	c := character.New("Ragnar")
	c.HP = character.Gauge{Current: 30, Max: 30}
	c.Stats.Strength = 14
	c.Stats.Agility = 12
	return c
}

func newTestSession(t *testing.T, w *world.World, live narrator.Narrator, rolls ...int) *Session {
	t.Helper()
	s := New(Config{
		World:        w,
		Live:         live,
		Roller:       dice.NewRoller(&scriptSource{values: rolls}, zap.NewNop()),
		Logger:       zap.NewNop(),
		TriggerDelay: time.Millisecond,
		MonsterDelay: time.Millisecond,
	})
	t.Cleanup(s.Close)
	return s
}

func TestPlayTurnRecordsAndAppliesTags(t *testing.T) {
	hero := testHero()
	nar := &scriptNarrator{responses: []string{
		"Você encontra um baú. [ITEM: Adaga Enferrujada] Um achado e tanto.",
	}}
	s := newTestSession(t, testWorld(world.ModeOnline, hero), nar)

	res, err := s.PlayTurn(context.Background(), "abro o baú")
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.Equal(t, "Você encontra um baú.  Um achado e tanto.", res.Narration)
	require.NotEmpty(t, res.System)
	assert.Contains(t, res.System[0], "Adaga Enferrujada")

	// Dagger keyword infers a main-hand weapon; the empty slot auto-equips.
	require.NotNil(t, hero.Equipment.MainHand)
	assert.Equal(t, "Adaga Enferrujada", hero.Equipment.MainHand.Name)

	msgs := s.Messages()
	require.GreaterOrEqual(t, len(msgs), 3)
	assert.Equal(t, world.RoleUser, msgs[0].Role)
	assert.Equal(t, "Ragnar: abro o baú", msgs[0].Text)
	assert.Equal(t, world.RoleModel, msgs[1].Role)
	assert.NotContains(t, msgs[1].Text, "[ITEM:")
}

func TestPlayTurnFallsBackOffline(t *testing.T) {
	hero := testHero()
	nar := &scriptNarrator{err: errors.New("api unreachable")}
	s := newTestSession(t, testWorld(world.ModeOnline, hero), nar)

	res, err := s.PlayTurn(context.Background(), "olhar ao redor")
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Contains(t, res.Narration, "Seus olhos varrem o local")
	assert.Empty(t, res.System)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, world.RoleSystem, msgs[1].Role)
}

func TestOfflineWorldAppliesOfflineTags(t *testing.T) {
	hero := testHero()
	s := newTestSession(t, testWorld(world.ModeOffline, hero), nil)

	res, err := s.PlayTurn(context.Background(), "procuro uma loja")
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.Equal(t, shop.TypeGeneral, res.Shop)
	open, ok := s.CurrentShop()
	assert.True(t, ok)
	assert.Equal(t, shop.TypeGeneral, open)
	assert.NotContains(t, res.Narration, "[LOJA:")
}

func TestSkipTurnRecordsWaitNote(t *testing.T) {
	hero := testHero()
	s := newTestSession(t, testWorld(world.ModeOffline, hero), nil)

	_, err := s.SkipTurn(context.Background())
	require.NoError(t, err)

	msgs := s.Messages()
	require.GreaterOrEqual(t, len(msgs), 1)
	assert.Equal(t, world.RoleSystem, msgs[0].Role)
	assert.Equal(t, WaitNote, msgs[0].Text)
}

func TestCombatTagStartsEncounterAfterDelay(t *testing.T) {
	hero := testHero()
	w := testWorld(world.ModeOnline, hero)
	w.Monsters = []bestiary.Monster{{
		ID: "wolf-1", Name: "Lobo", Level: 2,
		HP: character.Gauge{Current: 5, Max: 5}, AC: 12,
		Attacks: []bestiary.Attack{{Name: "Mordida", Damage: "1d6"}},
	}}
	nar := &scriptNarrator{responses: []string{"Um uivo ecoa. [COMBATE: Lobo]"}}
	// Initiative: hero d20=20 (+1 agi), wolf d20=1. Hero acts first.
	s := newTestSession(t, w, nar, 19, 0, 14, 3)

	res, err := s.PlayTurn(context.Background(), "sigo o som")
	require.NoError(t, err)
	assert.True(t, res.CombatQueued)

	require.Eventually(t, s.CombatActive, time.Second, time.Millisecond,
		"encounter should start after the trigger delay")

	st := s.CombatState()
	require.Len(t, st.Participants, 2)
	assert.Equal(t, combat.SidePlayer, st.Participants[0].Side)

	// Attack d20=15 (+1 agi) vs AC 12 hits; 1d4=4 +2 str = 6 kills the
	// 5 HP wolf. Victory pays level*10 XP and level*5 iron.
	r, err := s.Attack(hero.ID, false)
	require.NoError(t, err)
	assert.True(t, r.Hit)
	assert.Equal(t, combat.OutcomeVictory, r.Outcome)

	assert.Equal(t, 20, hero.XP.Current)
	assert.Equal(t, currency.Wallet{Iron: 10}, hero.Wallet)
	assert.False(t, s.CombatActive())
}

func TestDefeatAppliesDeathPenalty(t *testing.T) {
	hero := testHero()
	hero.HP = character.Gauge{Current: 1, Max: 30}
	hero.XP.Current = 50
	hero.Wallet = currency.Wallet{Iron: 40}

	w := testWorld(world.ModeOnline, hero)
	w.Monsters = []bestiary.Monster{{
		ID: "ogre-1", Name: "Ogro", Level: 3,
		HP: character.Gauge{Current: 30, Max: 30}, AC: 14,
		Attacks: []bestiary.Attack{{Name: "Clava", Damage: "1d8"}},
	}}
	nar := &scriptNarrator{responses: []string{"Pesado demais. [COMBATE: Ogro]"}}
	// Initiative: hero d20=1, ogre d20=20. Ogre acts first, its delayed
	// turn rolls d20=17 (+3 = 20 vs AC 10, hit) and base Intn(6)=3 → 5
	// damage, enough to drop the 1 HP hero.
	s := newTestSession(t, w, nar, 0, 19, 16, 3)

	_, err := s.PlayTurn(context.Background(), "encaro o ogro")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.CombatState().Outcome == combat.OutcomeDefeat
	}, time.Second, time.Millisecond, "monster turn should resolve the defeat")

	assert.False(t, hero.Alive())
	assert.Equal(t, 25, hero.XP.Current)
	assert.Equal(t, 20, hero.Wallet.Iron)
}

func TestTagsIgnoredWhileCombatActive(t *testing.T) {
	hero := testHero()
	w := testWorld(world.ModeOnline, hero)
	w.Monsters = []bestiary.Monster{{
		ID: "wolf-1", Name: "Lobo", Level: 1,
		HP: character.Gauge{Current: 50, Max: 50}, AC: 30,
	}}
	nar := &scriptNarrator{responses: []string{
		"Perigo! [COMBATE: Lobo]",
		"Brilho ao longe. [ITEM: Espada Mágica]",
	}}
	// Hero wins initiative and holds the turn, keeping combat active.
	s := newTestSession(t, w, nar, 19, 0)

	_, err := s.PlayTurn(context.Background(), "avanço")
	require.NoError(t, err)
	require.Eventually(t, s.CombatActive, time.Second, time.Millisecond)

	res, err := s.PlayTurn(context.Background(), "pego a espada")
	require.NoError(t, err)
	assert.Empty(t, res.System)
	assert.Nil(t, hero.Equipment.MainHand)
	assert.NotContains(t, res.Narration, "[ITEM:")
}

func TestFleeEndsEncounterWithoutReward(t *testing.T) {
	hero := testHero()
	w := testWorld(world.ModeOnline, hero)
	w.Monsters = []bestiary.Monster{{
		ID: "wolf-1", Name: "Lobo", Level: 2,
		HP: character.Gauge{Current: 50, Max: 50}, AC: 30,
	}}
	nar := &scriptNarrator{responses: []string{"Cercado. [COMBATE: Lobo]"}}
	s := newTestSession(t, w, nar, 19, 0)

	_, err := s.PlayTurn(context.Background(), "olho em volta")
	require.NoError(t, err)
	require.Eventually(t, s.CombatActive, time.Second, time.Millisecond)

	require.NoError(t, s.Flee())
	assert.False(t, s.CombatActive())
	assert.Equal(t, 0, hero.XP.Current)
	assert.Equal(t, combat.OutcomeFled, s.CombatState().Outcome)
}

func TestBuyItemThroughOpenShop(t *testing.T) {
	hero := testHero()
	hero.Wallet = currency.Wallet{Iron: 10}
	s := newTestSession(t, testWorld(world.ModeOffline, hero), nil)

	_, err := s.PlayTurn(context.Background(), "entro na loja")
	require.NoError(t, err)

	stock, err := s.ShopStock()
	require.NoError(t, err)
	require.NotEmpty(t, stock)

	bought, err := s.BuyItem("gen2") // Tocha, 5 iron
	require.NoError(t, err)
	assert.Equal(t, "Tocha", bought.Name)
	assert.Equal(t, currency.Wallet{Iron: 5}, hero.Wallet)

	s.LeaveShop()
	_, err = s.ShopStock()
	assert.ErrorIs(t, err, ErrNoShop)
}

func TestShopActionsRequireOpenShop(t *testing.T) {
	s := newTestSession(t, testWorld(world.ModeOffline, testHero()), nil)
	_, err := s.BuyItem("gen1")
	assert.ErrorIs(t, err, ErrNoShop)
}

func TestUnknownMonsterIsSynthesized(t *testing.T) {
	hero := testHero()
	w := testWorld(world.ModeOnline, hero)
	nar := &scriptNarrator{responses: []string{"Das sombras... [COMBATE: Horror Sem Nome]"}}
	s := newTestSession(t, w, nar, 10, 10)

	_, err := s.PlayTurn(context.Background(), "entro na caverna")
	require.NoError(t, err)
	require.Eventually(t, s.CombatActive, time.Second, time.Millisecond)

	synced := s.World()
	require.Len(t, synced.Monsters, 1)
	assert.Equal(t, "Horror Sem Nome", synced.Monsters[0].Name)
	assert.Equal(t, 1, synced.Monsters[0].Level)
}

func TestSetActiveCharacterBounds(t *testing.T) {
	a, b := testHero(), character.New("Lira")
	s := newTestSession(t, testWorld(world.ModeOffline, a, b), nil)

	require.NoError(t, s.SetActiveCharacter(1))
	assert.Equal(t, "Lira", s.ActiveCharacter().Name)
	assert.Error(t, s.SetActiveCharacter(2))
	assert.Error(t, s.SetActiveCharacter(-1))
}

func TestConsumeItemBranches(t *testing.T) {
	hero := testHero()
	hero.HP.Current = 10
	hero.Inventory = []item.Item{
		{ID: "i1", Name: "Poção de Vida", Type: item.TypeGeneric, Quantity: 2},
		{ID: "i2", Name: "Leite Fresco", Type: item.TypeGeneric, Quantity: 1},
		{ID: "i3", Name: "Livro de Lendas", Type: item.TypeGeneric, Quantity: 1},
		{ID: "i4", Name: "Pedra", Type: item.TypeGeneric, Quantity: 1},
	}
	// Intn(8) = 5 -> heal 7.
	s := newTestSession(t, testWorld(world.ModeOffline, hero), nil, 5)

	msg, err := s.ConsumeItem("i1")
	require.NoError(t, err)
	assert.Equal(t, "Bebeu Poção de Vida: +7 HP.", msg)
	assert.Equal(t, 17, hero.HP.Current)
	assert.Equal(t, 1, hero.Inventory[0].Quantity)

	_, err = s.ConsumeItem("i2")
	require.NoError(t, err)
	assert.True(t, hero.Effects.Has(effect.NameVigor))

	msg, err = s.ConsumeItem("i3")
	require.NoError(t, err)
	assert.Equal(t, "Você lê Livro de Lendas.", msg)

	msg, err = s.ConsumeItem("i4")
	require.NoError(t, err)
	assert.Equal(t, "Usou Pedra, nada aconteceu.", msg)

	// Milk gone, book kept, stone spent.
	names := []string{}
	for _, it := range hero.Inventory {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Poção de Vida", "Livro de Lendas"}, names)

	_, err = s.ConsumeItem("missing")
	assert.Error(t, err)
}

func TestTradeItemMovesBetweenMembers(t *testing.T) {
	giver, receiver := testHero(), character.New("Lira")
	giver.Inventory = []item.Item{{ID: "i1", Name: "Corda", Type: item.TypeGeneric, Quantity: 1}}
	s := newTestSession(t, testWorld(world.ModeOffline, giver, receiver), nil)

	require.NoError(t, s.TradeItem("i1", 1))
	assert.Empty(t, giver.Inventory)
	require.Len(t, receiver.Inventory, 1)
	assert.Equal(t, "Corda", receiver.Inventory[0].Name)

	assert.Error(t, s.TradeItem("i1", 1), "item no longer held")
	assert.Error(t, s.TradeItem("i1", 5), "target out of range")
	require.NoError(t, s.SetActiveCharacter(1))
	assert.Error(t, s.TradeItem("i1", 1), "self trade")
}
