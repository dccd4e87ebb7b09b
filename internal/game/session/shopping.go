package session

import (
	"fmt"

	"github.com/leitor-rpg/engine/internal/game/item"
	"github.com/leitor-rpg/engine/internal/game/shop"
	"github.com/leitor-rpg/engine/internal/game/world"
)

// ErrNoShop is a plain sentinel for shop actions outside a storefront.
var ErrNoShop = fmt.Errorf("session: no shop open")

// CurrentShop returns the open storefront type and whether one is open.
func (s *Session) CurrentShop() (shop.Type, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentShop, s.shopOpen
}

// ShopStock lists the open storefront's items.
func (s *Session) ShopStock() ([]item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.shopOpen {
		return nil, ErrNoShop
	}
	return s.catalog.Stock(s.currentShop), nil
}

// BuyItem sells one unit of the identified stock item to the active
// character and records the purchase in the transcript.
func (s *Session) BuyItem(itemID string) (item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.shopOpen {
		return item.Item{}, ErrNoShop
	}
	buyer := s.activeCharacterLocked()
	if buyer == nil {
		return item.Item{}, fmt.Errorf("session: world has no party")
	}

	bought, err := s.catalog.Buy(buyer, s.currentShop, itemID)
	if err != nil {
		return item.Item{}, err
	}
	s.appendMessageLocked(world.RoleSystem,
		fmt.Sprintf("%s comprou %s por %d de ferro.", buyer.Name, bought.Name, bought.Price))
	s.world.Touch()
	return bought, nil
}

// LeaveShop closes the storefront.
func (s *Session) LeaveShop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shopOpen = false
	s.currentShop = ""
}
