package main

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnvAndFlags(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("LEAD_STORE", "mongo")

	v := viper.New()
	root := newRootCmd(v)
	require.NoError(t, root.PersistentFlags().Parse([]string{"--mongo-db", "crm_test"}))

	cfg, err := settings(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "mongo", cfg.LeadStore)
	assert.Equal(t, "crm_test", cfg.MongoDB)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)

	require.NoError(t, root.PersistentFlags().Parse([]string{"--database-url", "postgres://flag/db"}))
	cfg, err = settings(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/db", cfg.DatabaseURL)
}

func TestCommandsRequireDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	for _, args := range [][]string{{"migrate"}, {"sweep"}, {"create-admin", "--email", "a@example.com", "--password", "Secret123"}} {
		root := newRootCmd(viper.New())
		root.SetArgs(args)
		root.SetOut(&bytes.Buffer{})
		err := root.Execute()
		assert.ErrorContains(t, err, "database url is required", args[0])
	}
}
