package explorer

import "sort"

// WishlistStore persists the wishlist between runs.
type WishlistStore interface {
	LoadWishlist() []int
	SaveWishlist(ids []int) error
}

// Wishlist is the set of course ids the user has saved.
type Wishlist struct {
	ids   map[int]bool
	store WishlistStore
}

// NewWishlist restores the wishlist from store. A nil store keeps the
// wishlist in memory only.
func NewWishlist(store WishlistStore) *Wishlist {
	w := &Wishlist{ids: make(map[int]bool), store: store}
	if store != nil {
		for _, id := range store.LoadWishlist() {
			w.ids[id] = true
		}
	}
	return w
}

// Has reports membership.
func (w *Wishlist) Has(id int) bool {
	return w.ids[id]
}

// Len returns the number of saved courses.
func (w *Wishlist) Len() int {
	return len(w.ids)
}

// IDs returns the saved ids in ascending order.
func (w *Wishlist) IDs() []int {
	ids := make([]int, 0, len(w.ids))
	for id := range w.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Toggle flips membership and persists immediately. It returns the new
// membership; the in-memory set is updated even when saving fails.
func (w *Wishlist) Toggle(id int) (bool, error) {
	if w.ids[id] {
		delete(w.ids, id)
	} else {
		w.ids[id] = true
	}
	if w.store == nil {
		return w.ids[id], nil
	}
	return w.ids[id], w.store.SaveWishlist(w.IDs())
}
