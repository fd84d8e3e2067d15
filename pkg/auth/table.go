package auth

import (
	"sort"
)

// shopTable holds a store's accounts keyed by shop domain
type shopTable map[string]ShopAccount

func (t shopTable) get(shop string) (*ShopAccount, error) {
	if shop == "" {
		return nil, ErrInvalidCredentials
	}
	account, ok := t[shop]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	return &account, nil
}

func (t shopTable) put(account *ShopAccount) error {
	if account == nil || account.Shop == "" {
		return ErrInvalidCredentials
	}
	t[account.Shop] = *account
	return nil
}

func (t shopTable) remove(shop string) error {
	if shop == "" {
		return ErrInvalidCredentials
	}
	if _, ok := t[shop]; !ok {
		return ErrCredentialsNotFound
	}
	delete(t, shop)
	return nil
}

// accounts returns copies sorted by shop
func (t shopTable) accounts() []*ShopAccount {
	result := make([]*ShopAccount, 0, len(t))
	for _, account := range t {
		a := account
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Shop < result[j].Shop })
	return result
}
