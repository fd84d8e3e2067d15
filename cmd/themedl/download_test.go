package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"themedl/pkg/auth"
	"themedl/pkg/models"
)

func TestParseThemeID(t *testing.T) {
	id, err := parseThemeID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3", "4.2"} {
		_, err := parseThemeID(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolveCredentials(t *testing.T) {
	manager, store := auth.NewMemoryManager()
	require.NoError(t, store.Store(&auth.ShopAccount{Shop: "foo.myshopify.com", APIKey: "stored", APISecret: "s"}))

	creds, err := resolveCredentials("foo.myshopify.com", "given:secret", manager)
	require.NoError(t, err)
	assert.Equal(t, models.ShopCredentials{Domain: "foo.myshopify.com", Key: "given", Secret: "secret"}, creds)

	creds, err = resolveCredentials("foo.myshopify.com", "", manager)
	require.NoError(t, err)
	assert.Equal(t, "stored", creds.Key)

	_, err = resolveCredentials("bar.myshopify.com", "", manager)
	assert.ErrorContains(t, err, "themedl auth login bar.myshopify.com")

	_, err = resolveCredentials("foo.myshopify.com", "missing-colon", manager)
	assert.Error(t, err)
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["download"])
	assert.True(t, names["auth"])
	assert.True(t, names["config"])

	assert.Error(t, downloadCmd.Args(downloadCmd, []string{"foo"}))
	assert.NoError(t, downloadCmd.Args(downloadCmd, []string{"foo", "42"}))
	assert.NoError(t, downloadCmd.Args(downloadCmd, []string{"foo", "k:s", "42"}))
	assert.Error(t, downloadCmd.Args(downloadCmd, []string{"foo", "k:s", "42", "x"}))
}
