// File: models/roster.go
package models

// Roster is the ordered list of players. Order is meaningful: it drives display
// and whatever implicit seeding the remote generator derives from it.
//
// The operations below never validate input and never mutate the receiver;
// each returns the resulting roster. Out-of-range indexes leave it unchanged.
type Roster []Player

func (r Roster) Has(index int) bool {
	return index >= 0 && index < len(r)
}

func (r Roster) clone() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

// Add appends p.
func (r Roster) Add(p Player) Roster {
	out := make(Roster, len(r), len(r)+1)
	copy(out, r)
	return append(out, p)
}

// Update replaces the player at index.
func (r Roster) Update(index int, p Player) Roster {
	if !r.Has(index) {
		return r
	}
	out := r.clone()
	out[index] = p
	return out
}

// Delete removes exactly one player, shifting later players down by one.
func (r Roster) Delete(index int) Roster {
	if !r.Has(index) {
		return r
	}
	out := make(Roster, 0, len(r)-1)
	out = append(out, r[:index]...)
	return append(out, r[index+1:]...)
}

// Reorder moves the player at from so that it ends up at position to,
// shifting the players in between. It is a move, not a swap.
func (r Roster) Reorder(from, to int) Roster {
	if from == to || !r.Has(from) || !r.Has(to) {
		return r
	}
	moved := r[from]
	out := r.Delete(from)
	out = append(out, Player{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}
