package models

// Account is the persisted per-player record
type Account struct {
	PlayerID  int64    `json:"player_id"`
	Balance   int64    `json:"balance"`
	Score     int64    `json:"score"`
	Inventory []string `json:"inventory"`
}

// ItemCount is one distinct inventory entry with its quantity
type ItemCount struct {
	Name     string
	Quantity int
}

// NewAccount returns the default account handed out on first access
func NewAccount(playerID, startingBalance int64) *Account {
	return &Account{
		PlayerID:  playerID,
		Balance:   startingBalance,
		Score:     0,
		Inventory: []string{},
	}
}

// Clone returns a deep copy so callers can mutate without aliasing the inventory
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	out.Inventory = append([]string(nil), a.Inventory...)
	if out.Inventory == nil {
		out.Inventory = []string{}
	}
	return &out
}

// CanAfford checks if the balance covers amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// Win credits winnings to both balance and score.
func (a *Account) Win(amount int64) {
	a.Balance += amount
	a.Score += amount
}

// Lose debits amount from balance and score, clamping each at zero
func (a *Account) Lose(amount int64) {
	a.Balance = max(0, a.Balance-amount)
	a.Score = max(0, a.Score-amount)
}

// AddItem appends one unit of an item
func (a *Account) AddItem(name string) {
	a.Inventory = append(a.Inventory, name)
}

// RemoveItem removes the first unit of name. Reports whether one was held.
func (a *Account) RemoveItem(name string) bool {
	for i, held := range a.Inventory {
		if held == name {
			a.Inventory = append(a.Inventory[:i], a.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// HasItem reports whether at least one unit of name is held
func (a *Account) HasItem(name string) bool {
	for _, held := range a.Inventory {
		if held == name {
			return true
		}
	}
	return false
}

// ItemCounts groups the inventory by item, ordered by first occurrence
func (a *Account) ItemCounts() []ItemCount {
	index := make(map[string]int, len(a.Inventory))
	counts := make([]ItemCount, 0, len(a.Inventory))
	for _, name := range a.Inventory {
		if i, ok := index[name]; ok {
			counts[i].Quantity++
			continue
		}
		index[name] = len(counts)
		counts = append(counts, ItemCount{Name: name, Quantity: 1})
	}
	return counts
}
